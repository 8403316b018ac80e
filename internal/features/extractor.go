package features

import (
	"log/slog"
	"math"

	"github.com/podium-ed/podium/internal/config"
)

// dbFloor is the linear amplitude floor used when converting to dB, keeping
// log10 defined on silent frames.
const dbFloor = 1e-10

// voicingThreshold is the minimum normalized autocorrelation peak for a
// frame to count as voiced.
const voicingThreshold = 0.5

// Extractor computes the [AudioFeatures] bundle from mono PCM samples. All
// thresholds come from the injected configuration; an Extractor is immutable
// and safe for concurrent use.
type Extractor struct {
	cfg config.AudioThresholds
}

// NewExtractor returns an Extractor using the given thresholds.
func NewExtractor(cfg config.AudioThresholds) *Extractor {
	return &Extractor{cfg: cfg}
}

// Extract analyzes mono float32 samples at the configured sample rate.
// Failures never propagate: zero-length or degenerate input, and any
// internal panic, produce the empty sentinel bundle instead.
func (e *Extractor) Extract(samples []float32) (out AudioFeatures) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("audio feature extraction panicked", "panic", r)
			out = Empty()
		}
	}()

	if len(samples) == 0 || e.cfg.SampleRate <= 0 {
		return Empty()
	}

	loudness := e.extractLoudness(samples)
	pitch := e.extractPitch(samples)
	stamina := e.extractStamina(loudness.RMSOverTime)

	return AudioFeatures{
		Loudness:        loudness,
		Pitch:           pitch,
		Stamina:         stamina,
		DurationSeconds: float64(len(samples)) / float64(e.cfg.SampleRate),
		SampleRate:      e.cfg.SampleRate,
	}
}

// frameCount returns the number of analysis frames for n samples. Short
// input still yields one frame covering the whole signal.
func (e *Extractor) frameCount(n int) int {
	if n < e.cfg.FrameLength {
		return 1
	}
	return 1 + (n-e.cfg.FrameLength)/e.cfg.HopLength
}

// frame returns the sample window for frame i, clipped to the signal.
func (e *Extractor) frame(samples []float32, i int) []float32 {
	start := i * e.cfg.HopLength
	end := start + e.cfg.FrameLength
	if end > len(samples) {
		end = len(samples)
	}
	return samples[start:end]
}

func (e *Extractor) extractLoudness(samples []float32) LoudnessFeatures {
	n := e.frameCount(len(samples))
	rms := make([]float64, n)
	for i := range n {
		rms[i] = frameRMS(e.frame(samples, i))
	}

	rmsMean, rmsStd := meanStd(rms)

	db := make([]float64, len(rms))
	for i, v := range rms {
		db[i] = amplitudeToDB(v)
	}
	// Clip the dB series 80 dB below its peak so silent frames do not drag
	// the mean to the floor.
	peak := db[0]
	for _, v := range db[1:] {
		if v > peak {
			peak = v
		}
	}
	for i, v := range db {
		if v < peak-80 {
			db[i] = peak - 80
		}
	}
	dbMean, dbStd := meanStd(db)

	classification := LoudnessOptimal
	switch {
	case dbMean < e.cfg.Loudness.TooSoftDB:
		classification = LoudnessTooSoft
	case dbMean > e.cfg.Loudness.TooLoudDB:
		classification = LoudnessTooLoud
	}

	return LoudnessFeatures{
		RMSMean:        rmsMean,
		RMSStd:         rmsStd,
		RMSDBMean:      dbMean,
		RMSDBStd:       dbStd,
		RMSOverTime:    rms,
		Classification: classification,
	}
}

// extractPitch estimates the fundamental frequency per frame with a
// normalized autocorrelation search restricted to the configured band.
// Frames without a confident peak are unvoiced and excluded from the
// statistics.
func (e *Extractor) extractPitch(samples []float32) PitchFeatures {
	cfg := e.cfg.Pitch
	minLag := int(float64(e.cfg.SampleRate) / cfg.FMax)
	maxLag := int(float64(e.cfg.SampleRate) / cfg.FMin)
	if minLag < 1 {
		minLag = 1
	}

	n := e.frameCount(len(samples))
	var voiced []float64
	for i := range n {
		frame := e.frame(samples, i)
		if f0, ok := detectPitch(frame, minLag, maxLag, e.cfg.SampleRate); ok {
			voiced = append(voiced, f0)
		}
	}

	voicedRatio := 0.0
	if n > 0 {
		voicedRatio = float64(len(voiced)) / float64(n)
	}
	if voicedRatio < cfg.MinVoicedRatio || len(voiced) < cfg.MinVoicedFrames {
		return PitchFeatures{
			VoicedRatio:    voicedRatio,
			Classification: PitchInsufficientData,
		}
	}

	mean, std := meanStd(voiced)
	low, high := voiced[0], voiced[0]
	for _, v := range voiced[1:] {
		if v < low {
			low = v
		}
		if v > high {
			high = v
		}
	}

	classification := PitchExpressive
	switch {
	case std < cfg.MonotoneStd:
		classification = PitchMonotone
	case std > cfg.ErraticStd:
		classification = PitchErratic
	}

	return PitchFeatures{
		Mean:           mean,
		Std:            std,
		Min:            low,
		Max:            high,
		VoicedRatio:    voicedRatio,
		Classification: classification,
	}
}

// extractStamina splits the RMS series into the configured number of equal
// segments; the last segment absorbs the remainder.
func (e *Extractor) extractStamina(rms []float64) StaminaFeatures {
	cfg := e.cfg.Stamina
	if len(rms) < cfg.Segments {
		return StaminaFeatures{}
	}
	segLen := len(rms) / cfg.Segments
	if segLen == 0 {
		return StaminaFeatures{}
	}

	segments := make([]float64, cfg.Segments)
	for i := range cfg.Segments {
		start := i * segLen
		end := start + segLen
		if i == cfg.Segments-1 {
			end = len(rms)
		}
		m, _ := meanStd(rms[start:end])
		segments[i] = m
	}

	dropoff := 1.0
	if segments[0] > 0 {
		dropoff = segments[len(segments)-1] / segments[0]
	}

	consistency := 0.0
	if mean, std := meanStd(segments); mean > 0 {
		consistency = math.Max(0, 1-std/mean)
	}

	classification := StaminaInconsistent
	switch {
	case dropoff >= cfg.GoodDropoff && consistency >= cfg.ConsistencyThreshold:
		classification = StaminaConsistent
	case dropoff < cfg.WarningDropoff:
		classification = StaminaFading
	}

	return StaminaFeatures{
		EnergySegments:    segments,
		EnergyDropoff:     dropoff,
		EnergyConsistency: consistency,
		Classification:    classification,
	}
}

// detectPitch finds the strongest normalized autocorrelation peak in the lag
// window and reports the matching frequency. ok is false for unvoiced or
// silent frames.
func detectPitch(frame []float32, minLag, maxLag, sampleRate int) (f0 float64, ok bool) {
	if len(frame) <= minLag {
		return 0, false
	}
	if maxLag >= len(frame) {
		maxLag = len(frame) - 1
	}

	var energy float64
	for _, s := range frame {
		energy += float64(s) * float64(s)
	}
	if energy < 1e-9 {
		return 0, false
	}

	bestLag, bestCorr := 0, 0.0
	for lag := minLag; lag <= maxLag; lag++ {
		var corr float64
		for i := 0; i+lag < len(frame); i++ {
			corr += float64(frame[i]) * float64(frame[i+lag])
		}
		corr /= energy
		if corr > bestCorr {
			bestCorr = corr
			bestLag = lag
		}
	}

	if bestLag == 0 || bestCorr < voicingThreshold {
		return 0, false
	}
	return float64(sampleRate) / float64(bestLag), true
}

func frameRMS(frame []float32) float64 {
	if len(frame) == 0 {
		return 0
	}
	var sum float64
	for _, s := range frame {
		sum += float64(s) * float64(s)
	}
	return math.Sqrt(sum / float64(len(frame)))
}

func amplitudeToDB(amp float64) float64 {
	if amp < dbFloor {
		amp = dbFloor
	}
	return 20 * math.Log10(amp)
}

func meanStd(values []float64) (mean, std float64) {
	if len(values) == 0 {
		return 0, 0
	}
	for _, v := range values {
		mean += v
	}
	mean /= float64(len(values))
	for _, v := range values {
		std += (v - mean) * (v - mean)
	}
	return mean, math.Sqrt(std / float64(len(values)))
}
