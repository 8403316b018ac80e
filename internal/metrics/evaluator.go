package metrics

import (
	"math"
	"sort"
	"strings"

	"github.com/podium-ed/podium/internal/config"
)

// Evaluator runs all nine scorers and combines them with the age group's
// weight row. It is immutable and safe for concurrent use; scorers are
// constructed per call from the student age.
type Evaluator struct {
	cfg config.ScoringConfig
}

// NewEvaluator returns an Evaluator over a validated scoring configuration.
func NewEvaluator(cfg config.ScoringConfig) *Evaluator {
	return &Evaluator{cfg: cfg}
}

// Evaluation is the complete scored result for one recording: the nine
// typed metric results plus the weighted overall score.
type Evaluation struct {
	Overall        float64          `json:"overall"`
	Clarity        ClarityResult    `json:"clarity"`
	Pace           PaceResult       `json:"pace"`
	Pause          PauseResult      `json:"pause_management"`
	Filler         FillerResult     `json:"filler_reduction"`
	Repetition     RepetitionResult `json:"repetition_control"`
	Structure      StructureResult  `json:"structure"`
	Loudness       LoudnessResult   `json:"loudness"`
	PitchVariation PitchResult      `json:"pitch_variation"`
	Stamina        StaminaResult    `json:"stamina"`
}

// Scores is the flat score summary of an [Evaluation].
type Scores struct {
	Overall        float64 `json:"overall"`
	Clarity        int     `json:"clarity"`
	Pace           int     `json:"pace"`
	Pause          int     `json:"pause_management"`
	Filler         int     `json:"filler_reduction"`
	Repetition     int     `json:"repetition_control"`
	Structure      int     `json:"structure"`
	Loudness       int     `json:"loudness"`
	PitchVariation int     `json:"pitch_variation"`
	Stamina        int     `json:"stamina"`
}

// Scores extracts the flat score summary.
func (ev Evaluation) Scores() Scores {
	return Scores{
		Overall:        ev.Overall,
		Clarity:        ev.Clarity.Score,
		Pace:           ev.Pace.Score,
		Pause:          ev.Pause.Score,
		Filler:         ev.Filler.Score,
		Repetition:     ev.Repetition.Score,
		Structure:      ev.Structure.Score,
		Loudness:       ev.Loudness.Score,
		PitchVariation: ev.PitchVariation.Score,
		Stamina:        ev.Stamina.Score,
	}
}

// ByName returns the common result envelope for a metric name, in the fixed
// [MetricOrder]. ok is false for unknown names.
func (ev Evaluation) ByName(name string) (Result, bool) {
	switch name {
	case NameClarity:
		return ev.Clarity.Result, true
	case NamePace:
		return ev.Pace.Result, true
	case NamePause:
		return ev.Pause.Result, true
	case NameFiller:
		return ev.Filler.Result, true
	case NameRepetition:
		return ev.Repetition.Result, true
	case NameStructure:
		return ev.Structure.Result, true
	case NameLoudness:
		return ev.Loudness.Result, true
	case NamePitchVariation:
		return ev.PitchVariation.Result, true
	case NameStamina:
		return ev.Stamina.Result, true
	}
	return Result{}, false
}

// Evaluate scores the recording for a student of the given age. When the
// acoustic feature bundle is invalid, the three audio metrics fall back to a
// neutral 70 tagged not_analyzed so the transcript metrics still carry the
// evaluation.
func (e *Evaluator) Evaluate(in Input, age int) Evaluation {
	ev := Evaluation{
		Clarity:    NewClarity(age, e.cfg).Analyze(in),
		Pace:       NewPace(age, e.cfg).Analyze(in),
		Pause:      NewPause(age, e.cfg).Analyze(in),
		Filler:     NewFiller(age, e.cfg).Analyze(in),
		Repetition: NewRepetition(age, e.cfg).Analyze(in),
		Structure:  NewStructure(age, e.cfg).Analyze(in),
	}

	if in.Audio.IsValid() {
		ev.Loudness = NewLoudness(age, e.cfg).Analyze(in)
		ev.PitchVariation = NewPitchVariation(age, e.cfg).Analyze(in)
		ev.Stamina = NewStamina(age, e.cfg).Analyze(in)
	} else {
		neutral := Result{Score: 70, Feedback: []string{"Audio features not available"}}
		ev.Loudness = LoudnessResult{Result: neutral, Classification: ClassificationNotAnalyzed}
		ev.PitchVariation = PitchResult{Result: neutral, Classification: ClassificationNotAnalyzed}
		ev.Stamina = StaminaResult{Result: neutral, Classification: ClassificationNotAnalyzed, EnergyDropoff: 1.0, EnergyConsistency: 1.0, EnergySegments: []float64{}}
	}

	w := e.cfg.Weights[config.GroupForAge(age)]
	overall := float64(ev.Clarity.Score)*w.Clarity +
		float64(ev.Pace.Score)*w.Pace +
		float64(ev.Pause.Score)*w.Pause +
		float64(ev.Filler.Score)*w.Filler +
		float64(ev.Repetition.Score)*w.Repetition +
		float64(ev.Structure.Score)*w.Structure +
		float64(ev.Loudness.Score)*w.Loudness +
		float64(ev.PitchVariation.Score)*w.PitchVariation +
		float64(ev.Stamina.Score)*w.Stamina
	ev.Overall = math.Round(overall*10) / 10

	return ev
}

// Suggestions ranks improvement feedback across all metrics: non-actionable
// placeholder lines are dropped, the rest sort ascending by originating
// score so the weakest areas surface first, exact duplicates collapse, and
// the list truncates to the configured maximum.
func (e *Evaluator) Suggestions(ev Evaluation) []string {
	type entry struct {
		score int
		text  string
	}

	var pool []entry
	for _, name := range MetricOrder {
		res, ok := ev.ByName(name)
		if !ok {
			continue
		}
		for _, line := range res.Feedback {
			lower := strings.ToLower(line)
			if strings.Contains(lower, "not available") || strings.Contains(lower, "not analyzed") {
				continue
			}
			pool = append(pool, entry{score: res.Score, text: line})
		}
	}

	sort.SliceStable(pool, func(i, j int) bool { return pool[i].score < pool[j].score })

	seen := make(map[string]struct{}, len(pool))
	suggestions := make([]string, 0, e.cfg.MaxSuggestions)
	for _, p := range pool {
		if _, ok := seen[p.text]; ok {
			continue
		}
		seen[p.text] = struct{}{}
		suggestions = append(suggestions, p.text)
		if len(suggestions) >= e.cfg.MaxSuggestions {
			break
		}
	}
	return suggestions
}
