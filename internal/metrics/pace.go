package metrics

import (
	"fmt"

	"github.com/podium-ed/podium/internal/config"
)

// Pace scores speaking speed in words per minute against the age band's
// ideal range.
type Pace struct {
	group config.AgeGroup
	band  config.AgeBand
}

// NewPace returns the pace scorer for a student age.
func NewPace(age int, cfg config.ScoringConfig) Pace {
	return Pace{
		group: config.GroupForAge(age),
		band:  cfg.Band(age),
	}
}

// Name implements [Metric].
func (m Pace) Name() string { return NamePace }

// Evaluate implements [Metric].
func (m Pace) Evaluate(in Input) Result { return m.Analyze(in).Result }

// PaceResult is the pace score with the measured rate and ideal range.
type PaceResult struct {
	Result
	WPM             float64 `json:"wpm"`
	IdealRange      string  `json:"ideal_range"`
	WordCount       int     `json:"word_count"`
	DurationMinutes float64 `json:"duration_minutes"`
}

// Analyze scores pace. Inside the band scores 100; outside, the score decays
// proportionally with the distance from the nearer boundary.
func (m Pace) Analyze(in Input) PaceResult {
	if len(in.Words) == 0 || in.Duration == 0 {
		return PaceResult{
			Result:     Result{Score: 0, Feedback: []string{"No speech detected"}},
			IdealRange: "N/A",
		}
	}

	minutes := in.Duration / 60
	wpm := float64(len(in.Words)) / minutes
	idealMin := float64(m.band.WPMMin)
	idealMax := float64(m.band.WPMMax)

	var score int
	switch {
	case wpm >= idealMin && wpm <= idealMax:
		score = 100
	case wpm < idealMin:
		score = clampScore(wpm / idealMin * 100)
	default:
		score = clampScore(idealMax / wpm * 100)
	}

	return PaceResult{
		Result:          Result{Score: score, Feedback: m.feedback(wpm, idealMin, idealMax)},
		WPM:             round1(wpm),
		IdealRange:      fmt.Sprintf("%d-%d wpm", m.band.WPMMin, m.band.WPMMax),
		WordCount:       len(in.Words),
		DurationMinutes: round2(minutes),
	}
}

func (m Pace) feedback(wpm, idealMin, idealMax float64) []string {
	young := m.group.IsYoung()
	switch {
	case wpm < idealMin:
		if young {
			return []string{fmt.Sprintf("Try speaking a little faster! (%d words per minute)", int(wpm))}
		}
		return []string{fmt.Sprintf("Your pace is a bit slow (%d words/min). Try speaking a little faster", int(wpm))}
	case wpm > idealMax:
		if young {
			return []string{fmt.Sprintf("Great energy! Try slowing down just a little (%d words per minute)", int(wpm))}
		}
		return []string{fmt.Sprintf("Your pace is quite fast (%d words/min). Take your time and slow down", int(wpm))}
	default:
		if young {
			return []string{fmt.Sprintf("Perfect speed! (%d words per minute)", int(wpm))}
		}
		return []string{fmt.Sprintf("Excellent pace! (%d words/min)", int(wpm))}
	}
}
