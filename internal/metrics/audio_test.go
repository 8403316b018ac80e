package metrics

import (
	"testing"

	"github.com/podium-ed/podium/internal/features"
)

// validAudio builds a feature bundle with the given loudness dB, pitch std
// and stamina figures, long enough to pass every minimum-duration gate.
func validAudio(db, pitchStd, dropoff, consistency float64) features.AudioFeatures {
	pitchClass := features.PitchExpressive
	switch {
	case pitchStd < 15:
		pitchClass = features.PitchMonotone
	case pitchStd > 100:
		pitchClass = features.PitchErratic
	}
	return features.AudioFeatures{
		Loudness: features.LoudnessFeatures{
			RMSMean:        0.1,
			RMSStd:         0.01,
			RMSDBMean:      db,
			RMSDBStd:       3.0,
			RMSOverTime:    []float64{0.1, 0.1, 0.1, 0.1, 0.1, 0.1, 0.1, 0.1},
			Classification: features.LoudnessOptimal,
		},
		Pitch: features.PitchFeatures{
			Mean:           180,
			Std:            pitchStd,
			Min:            120,
			Max:            260,
			VoicedRatio:    0.8,
			Classification: pitchClass,
		},
		Stamina: features.StaminaFeatures{
			EnergySegments:    []float64{0.1, 0.1, 0.1, 0.1 * dropoff},
			EnergyDropoff:     dropoff,
			EnergyConsistency: consistency,
			Classification:    features.StaminaConsistent,
		},
		DurationSeconds: 60,
		SampleRate:      16000,
	}
}

func TestLoudnessScoreMapping(t *testing.T) {
	tests := []struct {
		name string
		db   float64
		want int
	}{
		{"optimal", -18, 100},
		{"soft side", -28, 70},
		{"very soft", -40, 33},
		{"loud side", -10, 90},
		{"too loud", -5, 85},
	}
	m := NewLoudness(12, scoringDefaults())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := m.Analyze(Input{Audio: validAudio(tt.db, 40, 0.9, 0.8)})
			if got.Score != tt.want {
				t.Errorf("Analyze(db=%.0f) score = %d, want %d", tt.db, got.Score, tt.want)
			}
		})
	}
}

func TestLoudnessNoAudio(t *testing.T) {
	got := NewLoudness(12, scoringDefaults()).Analyze(Input{})
	if got.Score != 0 {
		t.Errorf("Score = %d, want 0", got.Score)
	}
	if got.Classification != ClassificationNoAudio {
		t.Errorf("Classification = %q, want %q", got.Classification, ClassificationNoAudio)
	}
}

func TestLoudnessInconsistencyFeedbackOlderOnly(t *testing.T) {
	audio := validAudio(-18, 40, 0.9, 0.8)
	audio.Loudness.RMSDBStd = 12 // above the 8 dB variance threshold

	older := NewLoudness(12, scoringDefaults()).Analyze(Input{Audio: audio})
	if older.IsConsistent {
		t.Error("IsConsistent should be false above the variance threshold")
	}
	if len(older.Feedback) != 2 {
		t.Errorf("older feedback = %v, want volume-consistency line appended", older.Feedback)
	}
	if older.Score != 100 {
		t.Errorf("Score = %d, want 100 (inconsistency is feedback only)", older.Score)
	}

	younger := NewLoudness(5, scoringDefaults()).Analyze(Input{Audio: audio})
	if len(younger.Feedback) != 1 {
		t.Errorf("young feedback = %v, want no consistency nagging", younger.Feedback)
	}
}

func TestPitchVariationScoreMapping(t *testing.T) {
	tests := []struct {
		name     string
		pitchStd float64
		want     int
	}{
		{"monotone", 10, 60},    // 40 + 30*10/15
		{"expressive low", 50, 86}, // 70 + 20*(50-15)/42.5
		{"erratic", 120, 74},    // 80 - 20*0.3
	}
	m := NewPitchVariation(12, scoringDefaults())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := m.Analyze(Input{Audio: validAudio(-18, tt.pitchStd, 0.9, 0.8)})
			if got.Score != tt.want {
				t.Errorf("Analyze(std=%.0f) score = %d, want %d", tt.pitchStd, got.Score, tt.want)
			}
		})
	}
}

func TestPitchVariationInsufficientData(t *testing.T) {
	audio := validAudio(-18, 40, 0.9, 0.8)
	audio.Pitch = features.PitchFeatures{
		VoicedRatio:    0.05,
		Classification: features.PitchInsufficientData,
	}

	older := NewPitchVariation(12, scoringDefaults()).Analyze(Input{Audio: audio})
	if older.Score != 50 || older.Classification != features.PitchInsufficientData {
		t.Errorf("older = (%d, %q), want (50, insufficient_data)", older.Score, older.Classification)
	}

	// Pre-primary gets the benefit of the doubt.
	younger := NewPitchVariation(4, scoringDefaults()).Analyze(Input{Audio: audio})
	if younger.Score != 70 || younger.Classification != ClassificationNotAnalyzed {
		t.Errorf("younger = (%d, %q), want (70, not_analyzed)", younger.Score, younger.Classification)
	}
}

func TestPitchVariationPrePrimaryFloor(t *testing.T) {
	// std 5 scores 50 for older students; pre-primary boosts to 70.
	audio := validAudio(-18, 5, 0.9, 0.8)
	got := NewPitchVariation(4, scoringDefaults()).Analyze(Input{Audio: audio})
	if got.Score != 70 {
		t.Errorf("Score = %d, want 70 after pre-primary boost", got.Score)
	}
}

func TestStaminaComponents(t *testing.T) {
	tests := []struct {
		name                 string
		dropoff, consistency float64
		age                  int
		want                 int
	}{
		{"strong finish", 0.9, 0.8, 12, 100},
		{"moderate dropoff", 0.6, 0.1, 12, 58},  // 42 + 16
		{"fading", 0.3, 0.05, 12, 26},           // 18 + 8
		{"young gets boost", 0.6, 0.1, 7, 78},   // 58 + 20
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewStamina(tt.age, scoringDefaults()).Analyze(Input{Audio: validAudio(-18, 40, tt.dropoff, tt.consistency)})
			if got.Score != tt.want {
				t.Errorf("Score = %d, want %d", got.Score, tt.want)
			}
		})
	}
}

func TestStaminaShortSpeech(t *testing.T) {
	audio := validAudio(-18, 40, 0.2, 0.05) // terrible energy pattern
	audio.DurationSeconds = 10              // below the 15s minimum

	got := NewStamina(12, scoringDefaults()).Analyze(Input{Audio: audio})
	if got.Score != 100 {
		t.Errorf("Score = %d, want 100 regardless of energy pattern", got.Score)
	}
	if got.Classification != ClassificationShortSpeech {
		t.Errorf("Classification = %q, want %q", got.Classification, ClassificationShortSpeech)
	}
}

func TestStaminaMissingSegments(t *testing.T) {
	audio := validAudio(-18, 40, 0.9, 0.8)
	audio.Stamina = features.StaminaFeatures{}

	got := NewStamina(12, scoringDefaults()).Analyze(Input{Audio: audio})
	if got.Score != 70 || got.Classification != ClassificationNotAnalyzed {
		t.Errorf("got (%d, %q), want (70, not_analyzed)", got.Score, got.Classification)
	}
}
