// Package features extracts acoustic features (loudness, pitch variation,
// energy stamina) from a decoded mono waveform. The scorers in
// internal/metrics consume the [AudioFeatures] bundle produced here.
package features

// Loudness classifications.
const (
	LoudnessTooSoft = "too_soft"
	LoudnessOptimal = "optimal"
	LoudnessTooLoud = "too_loud"
)

// Pitch classifications.
const (
	PitchInsufficientData = "insufficient_data"
	PitchMonotone         = "monotone"
	PitchExpressive       = "expressive"
	PitchErratic          = "erratic"
)

// Stamina classifications.
const (
	StaminaConsistent   = "consistent"
	StaminaInconsistent = "inconsistent"
	StaminaFading       = "fading"
)

// LoudnessFeatures holds short-time RMS energy statistics.
type LoudnessFeatures struct {
	// RMSMean and RMSStd are statistics of the linear RMS series.
	RMSMean float64 `json:"rms_mean"`
	RMSStd  float64 `json:"rms_std"`

	// RMSDBMean and RMSDBStd are the same statistics on the dB scale.
	RMSDBMean float64 `json:"rms_db_mean"`
	RMSDBStd  float64 `json:"rms_db_std"`

	// RMSOverTime is the per-frame linear RMS series. Stamina segmentation
	// runs over this series.
	RMSOverTime []float64 `json:"rms_over_time"`

	// Classification is one of too_soft, optimal, too_loud.
	Classification string `json:"classification"`
}

// PitchFeatures holds fundamental-frequency statistics over voiced frames.
// When Classification is insufficient_data the statistics are zero and must
// not be read as a flat voice.
type PitchFeatures struct {
	Mean float64 `json:"pitch_mean"`
	Std  float64 `json:"pitch_std"`
	Min  float64 `json:"pitch_min"`
	Max  float64 `json:"pitch_max"`

	// VoicedRatio is voiced frames over total frames, in [0, 1].
	VoicedRatio float64 `json:"voiced_ratio"`

	// Classification is one of insufficient_data, monotone, expressive,
	// erratic.
	Classification string `json:"classification"`
}

// StaminaFeatures holds energy-consistency metrics over contiguous segments
// of the RMS series.
type StaminaFeatures struct {
	// EnergySegments is the per-segment mean energy, in order.
	EnergySegments []float64 `json:"energy_segments"`

	// EnergyDropoff is last-segment energy over first-segment energy. 1.0
	// when the first segment has no energy.
	EnergyDropoff float64 `json:"energy_dropoff"`

	// EnergyConsistency is max(0, 1 - coefficient of variation).
	EnergyConsistency float64 `json:"energy_consistency"`

	// Classification is one of consistent, inconsistent, fading. Empty when
	// the series was too short to segment.
	Classification string `json:"classification"`
}

// AudioFeatures bundles all extracted features for one recording.
type AudioFeatures struct {
	Loudness LoudnessFeatures `json:"loudness"`
	Pitch    PitchFeatures    `json:"pitch"`
	Stamina  StaminaFeatures  `json:"stamina"`

	DurationSeconds float64 `json:"duration_seconds"`
	SampleRate      int     `json:"sample_rate"`
}

// Empty returns the sentinel bundle used when extraction fails. IsValid
// reports false for it.
func Empty() AudioFeatures { return AudioFeatures{} }

// IsValid reports whether the bundle carries real measurements. Scorers fall
// back to neutral defaults when it is false.
func (f AudioFeatures) IsValid() bool {
	return f.DurationSeconds > 0 && len(f.Loudness.RMSOverTime) > 0
}
