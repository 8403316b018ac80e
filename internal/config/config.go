// Package config provides the configuration schema, loader, and defaults for
// the Podium speech evaluation pipeline.
//
// All scoring behaviour — age bands, metric weights, detection thresholds,
// lexicons, and badge rules — lives here as data. The configuration is loaded
// once at process start, validated, and passed into components by constructor
// injection; nothing reads it through package-level state.
package config

// LogLevel controls log verbosity for the Podium process.
type LogLevel string

const (
	LogDebug LogLevel = "debug"
	LogInfo  LogLevel = "info"
	LogWarn  LogLevel = "warn"
	LogError LogLevel = "error"
)

// IsValid reports whether l is a recognised log level.
func (l LogLevel) IsValid() bool {
	switch l {
	case LogDebug, LogInfo, LogWarn, LogError:
		return true
	}
	return false
}

// AgeGroup is one of the five age tiers driving scoring tolerances and
// presentation shape. The five groups partition ages 3–18 with no gaps.
type AgeGroup string

const (
	AgePrePrimary   AgeGroup = "pre_primary"   // ages 3–5
	AgeLowerPrimary AgeGroup = "lower_primary" // ages 6–8
	AgeUpperPrimary AgeGroup = "upper_primary" // ages 9–10
	AgeMiddle       AgeGroup = "middle"        // ages 11–13
	AgeSecondary    AgeGroup = "secondary"     // ages 14–18
)

// Groups lists all age groups in ascending age order.
var Groups = []AgeGroup{AgePrePrimary, AgeLowerPrimary, AgeUpperPrimary, AgeMiddle, AgeSecondary}

// IsValid reports whether g is a recognised age group.
func (g AgeGroup) IsValid() bool {
	switch g {
	case AgePrePrimary, AgeLowerPrimary, AgeUpperPrimary, AgeMiddle, AgeSecondary:
		return true
	}
	return false
}

// IsYoung reports whether g is one of the two youngest tiers, which receive
// softened penalties in several scorers.
func (g AgeGroup) IsYoung() bool {
	return g == AgePrePrimary || g == AgeLowerPrimary
}

// GroupForAge maps a student age to its age group. Boundary ages (5, 8, 10,
// 13) map to the lower bucket; ages above 13 are secondary.
func GroupForAge(age int) AgeGroup {
	switch {
	case age <= 5:
		return AgePrePrimary
	case age <= 8:
		return AgeLowerPrimary
	case age <= 10:
		return AgeUpperPrimary
	case age <= 13:
		return AgeMiddle
	default:
		return AgeSecondary
	}
}

// Config is the root configuration structure for Podium.
// It is typically loaded from a YAML file using [Load] or [LoadFromReader];
// [Default] returns the shipped business rules.
type Config struct {
	Server       ServerConfig       `yaml:"server"`
	ASR          ASRConfig          `yaml:"asr"`
	Scoring      ScoringConfig      `yaml:"scoring"`
	Presentation PresentationConfig `yaml:"presentation"`
	Storage      StorageConfig      `yaml:"storage"`
}

// ServerConfig holds process-level settings.
type ServerConfig struct {
	// LogLevel controls verbosity.
	LogLevel LogLevel `yaml:"log_level"`

	// MetricsListenAddr is the TCP address the Prometheus /metrics endpoint
	// listens on. Empty disables the endpoint.
	MetricsListenAddr string `yaml:"metrics_listen_addr"`
}

// ASRConfig configures the speech-to-text collaborator.
type ASRConfig struct {
	// ModelPath is the whisper.cpp model file loaded at startup.
	ModelPath string `yaml:"model_path"`

	// Language is the language code for recognition (e.g., "en").
	// Empty lets the model auto-detect.
	Language string `yaml:"language"`
}

// StorageConfig selects where evaluation reports are persisted.
type StorageConfig struct {
	// PostgresDSN is the PostgreSQL connection string for the report store.
	// Empty disables database persistence.
	PostgresDSN string `yaml:"postgres_dsn"`

	// ReportFile is the path of the append-only JSON-lines report log.
	// Empty disables file persistence.
	ReportFile string `yaml:"report_file"`
}

// AgeBand holds the per-age-group scoring tolerances.
type AgeBand struct {
	MinAge int `yaml:"min_age"`
	MaxAge int `yaml:"max_age"`

	// WPMMin and WPMMax bound the ideal speaking pace in words per minute.
	WPMMin int `yaml:"wpm_min"`
	WPMMax int `yaml:"wpm_max"`

	// FillerTolerance is the filler-word ratio accepted without penalty.
	FillerTolerance float64 `yaml:"filler_tolerance"`

	// PauseTolerance is the long-pause ratio accepted without penalty.
	PauseTolerance float64 `yaml:"pause_tolerance"`

	// Description is a short human-readable summary of the tier's focus.
	Description string `yaml:"description"`
}

// WeightRow holds the nine metric weights for one age group.
// Each row must sum to 1.0 (±1e-6); [Validate] fails fast otherwise.
type WeightRow struct {
	Clarity        float64 `yaml:"clarity"`
	Pace           float64 `yaml:"pace"`
	Pause          float64 `yaml:"pause"`
	Filler         float64 `yaml:"filler"`
	Repetition     float64 `yaml:"repetition"`
	Structure      float64 `yaml:"structure"`
	Loudness       float64 `yaml:"loudness"`
	PitchVariation float64 `yaml:"pitch_variation"`
	Stamina        float64 `yaml:"stamina"`
}

// Sum returns the total of all nine weights.
func (w WeightRow) Sum() float64 {
	return w.Clarity + w.Pace + w.Pause + w.Filler + w.Repetition +
		w.Structure + w.Loudness + w.PitchVariation + w.Stamina
}

// ScoringConfig holds every constant the nine scorers and the evaluator use.
type ScoringConfig struct {
	AgeBands map[AgeGroup]AgeBand   `yaml:"age_bands"`
	Weights  map[AgeGroup]WeightRow `yaml:"weights"`

	Transcript TranscriptThresholds `yaml:"transcript"`
	Audio      AudioThresholds      `yaml:"audio"`

	// MaxSuggestions caps the ranked improvement list.
	MaxSuggestions int `yaml:"max_suggestions"`
}

// Band returns the age band for a student age.
func (s ScoringConfig) Band(age int) AgeBand {
	return s.AgeBands[GroupForAge(age)]
}

// TranscriptThresholds holds detection constants for the six
// transcript-based scorers.
type TranscriptThresholds struct {
	// LongPauseSeconds and ExcessivePauseSeconds classify inter-word gaps.
	LongPauseSeconds      float64 `yaml:"long_pause_seconds"`
	ExcessivePauseSeconds float64 `yaml:"excessive_pause_seconds"`

	// LowConfidence marks words below this ASR confidence as unclear.
	LowConfidence float64 `yaml:"low_confidence"`

	// FillerWords is the disfluency lexicon, matched case-folded and
	// punctuation-stripped.
	FillerWords []string `yaml:"filler_words"`

	// IntroMarkers and ConclusionMarkers are matched lexically against the
	// first and last 200 characters of the lower-cased transcript.
	IntroMarkers      []string `yaml:"intro_markers"`
	ConclusionMarkers []string `yaml:"conclusion_markers"`

	// MinRepeatWordLength ignores consecutive repeats of shorter words.
	MinRepeatWordLength int `yaml:"min_repeat_word_length"`

	// PhraseRepeatThreshold is the occurrence count at which a 3-gram counts
	// as a repeated phrase.
	PhraseRepeatThreshold int `yaml:"phrase_repeat_threshold"`
}

// LoudnessThresholds classifies and scores mean speaking volume in dB
// relative to the full scale of the normalized waveform.
type LoudnessThresholds struct {
	OptimalMinDB float64 `yaml:"optimal_min_db"`
	OptimalMaxDB float64 `yaml:"optimal_max_db"`
	TooSoftDB    float64 `yaml:"too_soft_db"`
	TooLoudDB    float64 `yaml:"too_loud_db"`

	// VarianceDB flags inconsistent volume when the dB standard deviation
	// exceeds it.
	VarianceDB float64 `yaml:"variance_db"`
}

// PitchThresholds classifies pitch variation and bounds the F0 search band.
type PitchThresholds struct {
	// MonotoneStd and ErraticStd split the voiced pitch standard deviation
	// (Hz) into monotone / expressive / erratic.
	MonotoneStd float64 `yaml:"monotone_std"`
	ErraticStd  float64 `yaml:"erratic_std"`

	// MinVoicedRatio is the minimum fraction of voiced frames required for
	// pitch statistics to be meaningful.
	MinVoicedRatio float64 `yaml:"min_voiced_ratio"`

	// MinVoicedFrames is the absolute minimum number of voiced frames.
	MinVoicedFrames int `yaml:"min_voiced_frames"`

	// FMin and FMax bound the fundamental-frequency search in Hz.
	FMin float64 `yaml:"f_min"`
	FMax float64 `yaml:"f_max"`
}

// StaminaThresholds scores energy consistency over the speech.
type StaminaThresholds struct {
	// Segments is the number of equal-length energy segments.
	Segments int `yaml:"segments"`

	// GoodDropoff and WarningDropoff bound the last/first segment energy
	// ratio for consistent vs fading classification.
	GoodDropoff    float64 `yaml:"good_dropoff"`
	WarningDropoff float64 `yaml:"warning_dropoff"`

	// ConsistencyThreshold is the minimum (1 − coefficient of variation)
	// considered consistent.
	ConsistencyThreshold float64 `yaml:"consistency_threshold"`

	// MinDurationSeconds bypasses stamina analysis entirely for shorter
	// speeches, which score 100 with classification "short_speech".
	MinDurationSeconds float64 `yaml:"min_duration_seconds"`
}

// AudioThresholds groups the audio-analysis constants.
type AudioThresholds struct {
	// SampleRate is the expected PCM sample rate in Hz.
	SampleRate int `yaml:"sample_rate"`

	// FrameLength and HopLength control the short-time analysis windows,
	// in samples.
	FrameLength int `yaml:"frame_length"`
	HopLength   int `yaml:"hop_length"`

	Loudness LoudnessThresholds `yaml:"loudness"`
	Pitch    PitchThresholds    `yaml:"pitch"`
	Stamina  StaminaThresholds  `yaml:"stamina"`
}

// BadgeRule declares one badge and the condition that unlocks it. Conditions
// are compiled into typed predicates once at startup by the present package.
// The grammar deliberately stays limited to what the shipped rules use: a
// single "<metric>_score >= N" comparison, one two-clause AND of score
// comparisons, "voice_present and duration >= N", and "all_scores >= N".
type BadgeRule struct {
	ID        string `yaml:"id"`
	Name      string `yaml:"name"`
	Emoji     string `yaml:"emoji"`
	Condition string `yaml:"condition"`
	Animation string `yaml:"animation"`
}

// PresentationConfig holds the per-tier badge tables and the character
// message pools used by the pre-primary presenter.
type PresentationConfig struct {
	Badges map[AgeGroup][]BadgeRule `yaml:"badges"`

	// Messages maps a voice-strength category (too_soft, just_right,
	// too_loud, celebration, encouragement) to its candidate messages.
	// One is chosen at random per evaluation.
	Messages map[string][]string `yaml:"messages"`
}
