// Package metrics implements the nine speech-evaluation scorers and the
// age-weighted evaluator that combines them.
//
// Every scorer is a pure mapping from [Input] to a bounded result: scores
// stay in [0, 100], degenerate input produces an explicit neutral score with
// descriptive feedback, and nothing here returns an error or performs I/O.
// Six scorers read the transcript, three read the acoustic feature bundle.
package metrics

import (
	"math"
	"strings"

	"github.com/podium-ed/podium/internal/features"
	"github.com/podium-ed/podium/pkg/asr"
)

// Classifications reported by the audio scorers beyond the feature-level
// ones.
const (
	ClassificationNoAudio     = "no_audio"
	ClassificationNotAnalyzed = "not_analyzed"
	ClassificationShortSpeech = "short_speech"
)

// Input carries everything one evaluation needs. It is assembled once per
// request and read-only afterwards.
type Input struct {
	// Words is the chronological word list from the recognizer.
	Words []asr.Word

	// FullText is the complete transcript.
	FullText string

	// Segments is the recognizer's utterance list.
	Segments []asr.Segment

	// Duration is the recording length in seconds.
	Duration float64

	// Audio is the acoustic feature bundle. May be the empty sentinel; the
	// evaluator substitutes neutral audio scores when Audio.IsValid() is
	// false.
	Audio features.AudioFeatures
}

// Result is the envelope common to every metric: a bounded score and ordered
// feedback, most specific first. Scorer-specific detail lives on the typed
// result structs that embed it.
type Result struct {
	Score    int      `json:"score"`
	Feedback []string `json:"feedback"`
}

// Metric is the capability every scorer provides. Implementations are
// stateless values configured at construction; Evaluate is deterministic
// and never fails.
type Metric interface {
	// Name is the stable identifier used in weight tables and reports.
	Name() string

	// Evaluate maps the input to the common result envelope.
	Evaluate(in Input) Result
}

// Metric names, in the fixed declaration order used for suggestion pooling
// and presentation tie-breaks.
const (
	NameClarity        = "clarity"
	NamePace           = "pace"
	NamePause          = "pause_management"
	NameFiller         = "filler_reduction"
	NameRepetition     = "repetition_control"
	NameStructure      = "structure"
	NameLoudness       = "loudness"
	NamePitchVariation = "pitch_variation"
	NameStamina        = "stamina"
)

// MetricOrder is the canonical metric ordering.
var MetricOrder = []string{
	NameClarity,
	NamePace,
	NamePause,
	NameFiller,
	NameRepetition,
	NameStructure,
	NameLoudness,
	NamePitchVariation,
	NameStamina,
}

// clampScore truncates to an integer and clamps into [0, 100].
func clampScore(score float64) int {
	s := int(score)
	if s < 0 {
		return 0
	}
	if s > 100 {
		return 100
	}
	return s
}

// normalizeToken lowercases a word and strips surrounding punctuation, the
// form used for filler and repetition matching.
func normalizeToken(word string) string {
	return strings.Trim(strings.ToLower(word), ".,!?")
}

// round1, round2, round3, round4 round to fixed decimal places for report
// output.
func round1(v float64) float64 { return math.Round(v*10) / 10 }
func round2(v float64) float64 { return math.Round(v*100) / 100 }
func round3(v float64) float64 { return math.Round(v*1000) / 1000 }
func round4(v float64) float64 { return math.Round(v*10000) / 10000 }
