package metrics

import (
	"fmt"

	"github.com/podium-ed/podium/internal/config"
)

// Pause scores pause patterns from inter-word gaps. Word timestamps make
// this noise-tolerant compared to silence detection on the waveform.
type Pause struct {
	group          config.AgeGroup
	tolerance      float64
	longPause      float64
	excessivePause float64
}

// NewPause returns the pause scorer for a student age.
func NewPause(age int, cfg config.ScoringConfig) Pause {
	return Pause{
		group:          config.GroupForAge(age),
		tolerance:      cfg.Band(age).PauseTolerance,
		longPause:      cfg.Transcript.LongPauseSeconds,
		excessivePause: cfg.Transcript.ExcessivePauseSeconds,
	}
}

// Name implements [Metric].
func (m Pause) Name() string { return NamePause }

// Evaluate implements [Metric].
func (m Pause) Evaluate(in Input) Result { return m.Analyze(in).Result }

// PauseResult is the pause score with the gap breakdown.
type PauseResult struct {
	Result
	TotalPauses     int     `json:"total_pauses"`
	LongPauses      int     `json:"long_pauses"`
	ExcessivePauses int     `json:"excessive_pauses"`
	LongPauseRatio  float64 `json:"long_pause_ratio"`
}

// Analyze scores pauses. Long-pause ratio above the age tolerance decays the
// score; every excessive pause costs a flat 10 points on top.
func (m Pause) Analyze(in Input) PauseResult {
	if len(in.Words) < 2 {
		return PauseResult{
			Result: Result{Score: 100, Feedback: []string{"Not enough speech to evaluate pauses"}},
		}
	}

	var total, long, excessive int
	for i := 0; i < len(in.Words)-1; i++ {
		gap := in.Words[i+1].Start - in.Words[i].End
		if gap <= 0 {
			continue
		}
		total++
		if gap > m.longPause {
			long++
		}
		if gap > m.excessivePause {
			excessive++
		}
	}

	ratio := float64(long) / float64(len(in.Words))

	score := 100.0
	if ratio > m.tolerance {
		score = 100 - (ratio-m.tolerance)*200
	}
	final := clampScore(score - float64(excessive*10))

	return PauseResult{
		Result:          Result{Score: final, Feedback: m.feedback(long, excessive)},
		TotalPauses:     total,
		LongPauses:      long,
		ExcessivePauses: excessive,
		LongPauseRatio:  round3(ratio),
	}
}

func (m Pause) feedback(long, excessive int) []string {
	young := m.group.IsYoung()
	switch {
	case excessive > 0:
		if young {
			return []string{fmt.Sprintf("You had %d really long pauses. Try to keep talking!", excessive)}
		}
		return []string{fmt.Sprintf("You had %d very long pauses (>4 seconds). Try to keep moving forward", excessive)}
	case long > 3:
		if young {
			return []string{"You have some long pauses. It's okay to pause briefly!"}
		}
		return []string{"You have several long pauses. It's okay to pause, but try to keep them brief"}
	case long > 0:
		return []string{"Good control of pauses! Just a few long ones"}
	default:
		return []string{"Excellent! No excessive pauses detected"}
	}
}
