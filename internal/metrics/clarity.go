package metrics

import (
	"math"

	"github.com/podium-ed/podium/internal/config"
)

// Compile-time interface assertions for all nine scorers.
var (
	_ Metric = Clarity{}
	_ Metric = Pace{}
	_ Metric = Pause{}
	_ Metric = Filler{}
	_ Metric = Repetition{}
	_ Metric = Structure{}
	_ Metric = Loudness{}
	_ Metric = PitchVariation{}
	_ Metric = Stamina{}
)

// Clarity scores speech clarity from recognizer confidence. Higher average
// confidence means clearer speech; accents and pronunciation variants are
// deliberately not graded.
type Clarity struct {
	group         config.AgeGroup
	lowConfidence float64
}

// NewClarity returns the clarity scorer for a student age.
func NewClarity(age int, cfg config.ScoringConfig) Clarity {
	return Clarity{
		group:         config.GroupForAge(age),
		lowConfidence: cfg.Transcript.LowConfidence,
	}
}

// Name implements [Metric].
func (m Clarity) Name() string { return NameClarity }

// Evaluate implements [Metric].
func (m Clarity) Evaluate(in Input) Result { return m.Analyze(in).Result }

// LowConfidenceWord marks a word the recognizer was unsure about.
type LowConfidenceWord struct {
	Word       string  `json:"word"`
	Confidence float64 `json:"confidence"`
	Timestamp  float64 `json:"timestamp"`
}

// ClarityResult is the clarity score with its confidence breakdown.
type ClarityResult struct {
	Result
	AverageConfidence  float64             `json:"average_confidence"`
	LowConfidenceCount int                 `json:"low_confidence_count"`
	LowConfidenceWords []LowConfidenceWord `json:"low_confidence_words"`
}

// Analyze scores clarity and surfaces up to five of the least confident
// words.
func (m Clarity) Analyze(in Input) ClarityResult {
	if len(in.Words) == 0 {
		return ClarityResult{
			Result: Result{Score: 0, Feedback: []string{"No speech detected"}},
		}
	}

	var sum float64
	var low []LowConfidenceWord
	for _, w := range in.Words {
		sum += w.Confidence
		if w.Confidence < m.lowConfidence {
			low = append(low, LowConfidenceWord{
				Word:       w.Text,
				Confidence: round3(w.Confidence),
				Timestamp:  round2(w.Start),
			})
		}
	}
	avg := sum / float64(len(in.Words))
	score := clampScore(math.Round(avg * 100))

	lowCount := len(low)
	if len(low) > 5 {
		low = low[:5]
	}

	return ClarityResult{
		Result:             Result{Score: score, Feedback: m.feedback(score)},
		AverageConfidence:  round3(avg),
		LowConfidenceCount: lowCount,
		LowConfidenceWords: low,
	}
}

func (m Clarity) feedback(score int) []string {
	young := m.group.IsYoung()
	switch {
	case score < 50:
		if young {
			return []string{"Try speaking a bit louder and clearer!"}
		}
		return []string{"Try speaking a bit louder and clearer"}
	case score < 70:
		if young {
			return []string{"Good effort! Keep practicing speaking clearly!"}
		}
		return []string{"Good effort! Some words were unclear, practice speaking with confidence"}
	default:
		if young {
			return []string{"Great job! Your words were easy to understand!"}
		}
		return []string{"Great clarity! Your words were easy to understand"}
	}
}
