// Package report defines the evaluation report structures shared by the
// pipeline, presenters and stores. A report is created once per evaluation,
// is immutable afterwards, and serializes to the JSON shape consumed by
// teacher/parent dashboards.
package report

import (
	"time"

	"github.com/podium-ed/podium/internal/config"
	"github.com/podium-ed/podium/internal/features"
	"github.com/podium-ed/podium/internal/metrics"
)

// Metadata describes who was evaluated and how.
type Metadata struct {
	StudentName     string          `json:"student_name,omitempty"`
	StudentAge      int             `json:"student_age"`
	AgeGroup        config.AgeGroup `json:"age_group"`
	Topic           string          `json:"topic,omitempty"`
	AudioFile       string          `json:"audio_file,omitempty"`
	DurationSeconds float64         `json:"duration_seconds"`
	WordCount       int             `json:"word_count"`
	EvaluationDate  time.Time       `json:"evaluation_date"`
	ModelUsed       string          `json:"model_used,omitempty"`
}

// Transcript is the recognized-speech summary block.
type Transcript struct {
	FullText            string  `json:"full_text"`
	WordCount           int     `json:"word_count"`
	Language            string  `json:"language"`
	LanguageProbability float64 `json:"language_probability"`
}

// DetailedAnalysis carries the nine typed metric results.
type DetailedAnalysis struct {
	Clarity        metrics.ClarityResult    `json:"clarity"`
	Pace           metrics.PaceResult       `json:"pace"`
	Pauses         metrics.PauseResult      `json:"pauses"`
	Fillers        metrics.FillerResult     `json:"fillers"`
	Repetition     metrics.RepetitionResult `json:"repetition"`
	Structure      metrics.StructureResult  `json:"structure"`
	Loudness       metrics.LoudnessResult   `json:"loudness"`
	PitchVariation metrics.PitchResult      `json:"pitch_variation"`
	Stamina        metrics.StaminaResult    `json:"stamina"`
}

// Raw is the complete evaluation report for one recording.
type Raw struct {
	Metadata               Metadata               `json:"metadata"`
	Transcript             Transcript             `json:"transcript"`
	Scores                 metrics.Scores         `json:"scores"`
	DetailedAnalysis       DetailedAnalysis       `json:"detailed_analysis"`
	ImprovementSuggestions []string               `json:"improvement_suggestions"`
	AudioFeatures          features.AudioFeatures `json:"audio_features"`

	// AudioValid records whether AudioFeatures carries real measurements or
	// the empty sentinel.
	AudioValid bool `json:"audio_valid"`
}

// FromEvaluation assembles a Raw report from an evaluation and its
// surrounding context.
func FromEvaluation(meta Metadata, transcript Transcript, ev metrics.Evaluation, suggestions []string, audio features.AudioFeatures) Raw {
	return Raw{
		Metadata:   meta,
		Transcript: transcript,
		Scores:     ev.Scores(),
		DetailedAnalysis: DetailedAnalysis{
			Clarity:        ev.Clarity,
			Pace:           ev.Pace,
			Pauses:         ev.Pause,
			Fillers:        ev.Filler,
			Repetition:     ev.Repetition,
			Structure:      ev.Structure,
			Loudness:       ev.Loudness,
			PitchVariation: ev.PitchVariation,
			Stamina:        ev.Stamina,
		},
		ImprovementSuggestions: suggestions,
		AudioFeatures:          audio,
		AudioValid:             audio.IsValid(),
	}
}
