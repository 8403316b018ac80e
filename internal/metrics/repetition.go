package metrics

import (
	"sort"
	"strings"

	"github.com/podium-ed/podium/internal/config"
)

// Repetition scores word and phrase repetition, a signal for nervousness or
// lack of preparation.
type Repetition struct {
	group           config.AgeGroup
	minWordLength   int
	phraseThreshold int
}

// NewRepetition returns the repetition scorer for a student age.
func NewRepetition(age int, cfg config.ScoringConfig) Repetition {
	return Repetition{
		group:           config.GroupForAge(age),
		minWordLength:   cfg.Transcript.MinRepeatWordLength,
		phraseThreshold: cfg.Transcript.PhraseRepeatThreshold,
	}
}

// Name implements [Metric].
func (m Repetition) Name() string { return NameRepetition }

// Evaluate implements [Metric].
func (m Repetition) Evaluate(in Input) Result { return m.Analyze(in).Result }

// PhraseCount is a repeated three-word phrase and its occurrence count.
type PhraseCount struct {
	Phrase string `json:"phrase"`
	Count  int    `json:"count"`
}

// RepetitionResult is the repetition score with the detected patterns.
type RepetitionResult struct {
	Result
	ConsecutiveRepeats int           `json:"consecutive_repeats"`
	RepeatedPhrases    []PhraseCount `json:"repeated_phrases"`
}

// Analyze scores repetition. Back-to-back identical words cost 5 points
// each, repeated 3-gram phrases 10 points each; the penalty is halved for
// the two youngest groups.
func (m Repetition) Analyze(in Input) RepetitionResult {
	if len(in.Words) < 5 {
		return RepetitionResult{
			Result: Result{Score: 100, Feedback: []string{}},
		}
	}

	tokens := make([]string, len(in.Words))
	for i, w := range in.Words {
		tokens[i] = normalizeToken(w.Text)
	}

	var consecutive int
	for i := 0; i < len(tokens)-1; i++ {
		if tokens[i] == tokens[i+1] && len(tokens[i]) >= m.minWordLength {
			consecutive++
		}
	}

	phraseCounts := make(map[string]int)
	var phraseOrder []string
	for i := 0; i+2 < len(tokens); i++ {
		phrase := strings.Join(tokens[i:i+3], " ")
		if phraseCounts[phrase] == 0 {
			phraseOrder = append(phraseOrder, phrase)
		}
		phraseCounts[phrase]++
	}
	var repeated []PhraseCount
	for _, phrase := range phraseOrder {
		if phraseCounts[phrase] >= m.phraseThreshold {
			repeated = append(repeated, PhraseCount{Phrase: phrase, Count: phraseCounts[phrase]})
		}
	}
	sort.SliceStable(repeated, func(i, j int) bool { return repeated[i].Count > repeated[j].Count })

	penalty := float64(consecutive*5 + len(repeated)*10)
	if m.group.IsYoung() {
		penalty *= 0.5
	}
	score := clampScore(100 - penalty)

	feedback := m.feedback(consecutive, len(repeated))
	if len(repeated) > 3 {
		repeated = repeated[:3]
	}

	return RepetitionResult{
		Result:             Result{Score: score, Feedback: feedback},
		ConsecutiveRepeats: consecutive,
		RepeatedPhrases:    repeated,
	}
}

func (m Repetition) feedback(consecutive, phrases int) []string {
	young := m.group.IsYoung()
	switch {
	case phrases > 2:
		if young {
			return []string{"You repeated some phrases. Try to keep going with new ideas!"}
		}
		return []string{"You repeated some phrases multiple times. Try to move forward with new ideas"}
	case consecutive > 3:
		if young {
			return []string{"You repeated some words. Take a breath and continue!"}
		}
		return []string{"You repeated some words back-to-back. Take a breath and continue"}
	case consecutive > 0:
		return []string{"Just a bit of repetition noticed - doing well overall"}
	default:
		return []string{"Excellent! No noticeable repetition"}
	}
}
