package metrics

import (
	"fmt"
	"sort"

	"github.com/podium-ed/podium/internal/config"
)

// Filler scores filler-word usage ("um", "uh", "like", ...) against an
// age-adjusted tolerance ratio.
type Filler struct {
	group     config.AgeGroup
	tolerance float64
	lexicon   map[string]struct{}
}

// NewFiller returns the filler scorer for a student age.
func NewFiller(age int, cfg config.ScoringConfig) Filler {
	lexicon := make(map[string]struct{}, len(cfg.Transcript.FillerWords))
	for _, w := range cfg.Transcript.FillerWords {
		lexicon[w] = struct{}{}
	}
	return Filler{
		group:     config.GroupForAge(age),
		tolerance: cfg.Band(age).FillerTolerance,
		lexicon:   lexicon,
	}
}

// Name implements [Metric].
func (m Filler) Name() string { return NameFiller }

// Evaluate implements [Metric].
func (m Filler) Evaluate(in Input) Result { return m.Analyze(in).Result }

// FillerCount is one filler token and how often it occurred.
type FillerCount struct {
	Word  string `json:"word"`
	Count int    `json:"count"`
}

// FillerResult is the filler score with the most frequent offenders.
type FillerResult struct {
	Result
	FillerCount  int           `json:"filler_count"`
	FillerRatio  float64       `json:"filler_ratio"`
	FillersFound []FillerCount `json:"fillers_found"`
}

// Analyze scores filler usage. A ratio at or below the tolerance scores 100;
// above it the score decays at 300 points per unit of excess ratio.
func (m Filler) Analyze(in Input) FillerResult {
	if len(in.Words) == 0 {
		return FillerResult{
			Result: Result{Score: 100, Feedback: []string{}},
		}
	}

	counts := make(map[string]int)
	var order []string
	var fillerCount int
	for _, w := range in.Words {
		token := normalizeToken(w.Text)
		if _, ok := m.lexicon[token]; !ok {
			continue
		}
		fillerCount++
		if counts[token] == 0 {
			order = append(order, token)
		}
		counts[token]++
	}

	ratio := float64(fillerCount) / float64(len(in.Words))

	score := 100
	if ratio > m.tolerance {
		score = clampScore(100 - (ratio-m.tolerance)*300)
	}

	// Top five most frequent fillers; ties keep first-occurrence order.
	found := make([]FillerCount, 0, len(order))
	for _, token := range order {
		found = append(found, FillerCount{Word: token, Count: counts[token]})
	}
	sort.SliceStable(found, func(i, j int) bool { return found[i].Count > found[j].Count })
	if len(found) > 5 {
		found = found[:5]
	}

	return FillerResult{
		Result:       Result{Score: score, Feedback: m.feedback(fillerCount, ratio)},
		FillerCount:  fillerCount,
		FillerRatio:  round3(ratio),
		FillersFound: found,
	}
}

func (m Filler) feedback(count int, ratio float64) []string {
	young := m.group.IsYoung()
	switch {
	case ratio > m.tolerance*2:
		if young {
			return []string{fmt.Sprintf("You said 'um' and 'uh' a lot (%d times). Try taking a breath instead!", count)}
		}
		return []string{fmt.Sprintf("You used many filler words like 'um', 'uh', 'like' (%d times). Try pausing silently instead", count)}
	case ratio > m.tolerance:
		if young {
			return []string{fmt.Sprintf("You used some filler words (%d times). Keep practicing!", count)}
		}
		return []string{fmt.Sprintf("You used some filler words (%d times). Practice reducing them", count)}
	default:
		return []string{"Great! Very few filler words used"}
	}
}
