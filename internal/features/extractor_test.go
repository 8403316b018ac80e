package features

import (
	"math"
	"testing"

	"github.com/podium-ed/podium/internal/config"
)

func testExtractor() *Extractor {
	return NewExtractor(config.Default().Scoring.Audio)
}

// sine generates a mono sine wave of the given frequency and amplitude.
func sine(freq, amplitude float64, seconds float64, sampleRate int) []float32 {
	n := int(seconds * float64(sampleRate))
	out := make([]float32, n)
	for i := range out {
		out[i] = float32(amplitude * math.Sin(2*math.Pi*freq*float64(i)/float64(sampleRate)))
	}
	return out
}

func TestExtractEmptyInput(t *testing.T) {
	got := testExtractor().Extract(nil)
	if got.IsValid() {
		t.Error("Extract(nil) should produce an invalid bundle")
	}
}

func TestExtractSineWave(t *testing.T) {
	e := testExtractor()
	got := e.Extract(sine(220, 0.3, 20, 16000))

	if !got.IsValid() {
		t.Fatal("bundle should be valid for a 20s tone")
	}
	if math.Abs(got.DurationSeconds-20) > 0.01 {
		t.Errorf("DurationSeconds = %f, want 20", got.DurationSeconds)
	}

	// A 0.3-amplitude sine has RMS 0.3/sqrt(2) ~ 0.212.
	wantRMS := 0.3 / math.Sqrt2
	if math.Abs(got.Loudness.RMSMean-wantRMS) > 0.02 {
		t.Errorf("RMSMean = %f, want ~%f", got.Loudness.RMSMean, wantRMS)
	}
	// ~ -13.5 dB, inside the optimal band [-25, -8].
	if got.Loudness.Classification != LoudnessOptimal {
		t.Errorf("loudness classification = %q, want %q", got.Loudness.Classification, LoudnessOptimal)
	}

	// A pure tone is fully voiced and pitch-flat.
	if got.Pitch.Classification != PitchMonotone {
		t.Errorf("pitch classification = %q, want %q", got.Pitch.Classification, PitchMonotone)
	}
	if math.Abs(got.Pitch.Mean-220) > 10 {
		t.Errorf("pitch mean = %f, want ~220", got.Pitch.Mean)
	}
	if got.Pitch.VoicedRatio < 0.9 {
		t.Errorf("voiced ratio = %f, want near 1", got.Pitch.VoicedRatio)
	}

	// Constant amplitude throughout: consistent stamina.
	if got.Stamina.Classification != StaminaConsistent {
		t.Errorf("stamina classification = %q, want %q", got.Stamina.Classification, StaminaConsistent)
	}
	if got.Stamina.EnergyDropoff < 0.95 || got.Stamina.EnergyDropoff > 1.05 {
		t.Errorf("energy dropoff = %f, want ~1.0", got.Stamina.EnergyDropoff)
	}
}

func TestExtractSilence(t *testing.T) {
	got := testExtractor().Extract(make([]float32, 16000*20))

	if got.Loudness.Classification != LoudnessTooSoft {
		t.Errorf("loudness classification = %q, want %q", got.Loudness.Classification, LoudnessTooSoft)
	}
	if got.Pitch.Classification != PitchInsufficientData {
		t.Errorf("pitch classification = %q, want %q", got.Pitch.Classification, PitchInsufficientData)
	}
	if got.Pitch.Mean != 0 || got.Pitch.Std != 0 {
		t.Errorf("insufficient-data pitch stats = (%f, %f), want zeros", got.Pitch.Mean, got.Pitch.Std)
	}
}

func TestExtractFadingEnergy(t *testing.T) {
	// First half at full amplitude, second half nearly silent.
	samples := sine(220, 0.3, 10, 16000)
	tail := sine(220, 0.02, 10, 16000)
	samples = append(samples, tail...)

	got := testExtractor().Extract(samples)
	if got.Stamina.Classification != StaminaFading {
		t.Errorf("stamina classification = %q, want %q", got.Stamina.Classification, StaminaFading)
	}
	if got.Stamina.EnergyDropoff > 0.2 {
		t.Errorf("energy dropoff = %f, want well below warning threshold", got.Stamina.EnergyDropoff)
	}
}

func TestExtractShortSeriesSkipsStamina(t *testing.T) {
	// A signal shorter than one hop yields a single RMS frame, below the
	// four segments stamina needs.
	got := testExtractor().Extract(sine(220, 0.3, 0.01, 16000))
	if len(got.Stamina.EnergySegments) != 0 {
		t.Errorf("stamina segments = %v, want none for a one-frame series", got.Stamina.EnergySegments)
	}
	if got.Stamina.Classification != "" {
		t.Errorf("stamina classification = %q, want empty", got.Stamina.Classification)
	}
}

func TestStaminaSegmentation(t *testing.T) {
	e := testExtractor()
	// 10 values over 4 segments: lengths 2,2,2,4 (last absorbs remainder).
	rms := []float64{1, 1, 1, 1, 1, 1, 0.8, 0.8, 0.8, 0.8}
	got := e.extractStamina(rms)

	if len(got.EnergySegments) != 4 {
		t.Fatalf("segments = %d, want 4", len(got.EnergySegments))
	}
	if math.Abs(got.EnergyDropoff-0.8) > 1e-9 {
		t.Errorf("dropoff = %f, want 0.8", got.EnergyDropoff)
	}
}

func TestDropoffGuardsZeroFirstSegment(t *testing.T) {
	got := testExtractor().extractStamina([]float64{0, 0, 0, 0, 1, 1, 1, 1})
	if got.EnergyDropoff != 1.0 {
		t.Errorf("dropoff with silent first segment = %f, want 1.0", got.EnergyDropoff)
	}
}

func TestMeanStd(t *testing.T) {
	mean, std := meanStd([]float64{2, 4, 4, 4, 5, 5, 7, 9})
	if mean != 5 {
		t.Errorf("mean = %f, want 5", mean)
	}
	if math.Abs(std-2) > 1e-9 {
		t.Errorf("std = %f, want 2", std)
	}
}
