package metrics

import (
	"github.com/podium-ed/podium/internal/config"
)

// Stamina scores energy consistency: whether the speaker holds their energy
// through the speech or fades towards the end.
type Stamina struct {
	group config.AgeGroup
	cfg   config.StaminaThresholds
}

// NewStamina returns the stamina scorer for a student age.
func NewStamina(age int, cfg config.ScoringConfig) Stamina {
	return Stamina{
		group: config.GroupForAge(age),
		cfg:   cfg.Audio.Stamina,
	}
}

// Name implements [Metric].
func (m Stamina) Name() string { return NameStamina }

// Evaluate implements [Metric].
func (m Stamina) Evaluate(in Input) Result { return m.Analyze(in).Result }

// StaminaResult is the stamina score with the segment energy breakdown.
type StaminaResult struct {
	Result
	Classification    string    `json:"classification"`
	EnergyDropoff     float64   `json:"energy_dropoff"`
	EnergyConsistency float64   `json:"energy_consistency"`
	EnergySegments    []float64 `json:"energy_segments"`
}

// Analyze scores stamina as a dropoff component (0-60) plus a consistency
// component (0-40). Speeches below the minimum duration skip the analysis
// and score 100 outright.
func (m Stamina) Analyze(in Input) StaminaResult {
	stamina := in.Audio.Stamina

	if in.Audio.DurationSeconds < m.cfg.MinDurationSeconds {
		return StaminaResult{
			Result:            Result{Score: 100, Feedback: []string{"Speech too short to analyze stamina"}},
			Classification:    ClassificationShortSpeech,
			EnergyDropoff:     1.0,
			EnergyConsistency: 1.0,
			EnergySegments:    []float64{},
		}
	}

	if len(stamina.EnergySegments) == 0 {
		return StaminaResult{
			Result:            Result{Score: 70, Feedback: []string{"Energy analysis not available"}},
			Classification:    ClassificationNotAnalyzed,
			EnergyDropoff:     1.0,
			EnergyConsistency: 1.0,
			EnergySegments:    []float64{},
		}
	}

	dropoff := stamina.EnergyDropoff
	consistency := stamina.EnergyConsistency

	var dropoffScore int
	switch {
	case dropoff >= m.cfg.GoodDropoff:
		dropoffScore = 60
	case dropoff >= m.cfg.WarningDropoff:
		dropoffScore = int(30 + 30*(dropoff-m.cfg.WarningDropoff)/(m.cfg.GoodDropoff-m.cfg.WarningDropoff))
	default:
		dropoffScore = int(30 * dropoff / m.cfg.WarningDropoff)
	}

	consistencyScore := 40
	if consistency < m.cfg.ConsistencyThreshold {
		consistencyScore = int(40 * consistency / m.cfg.ConsistencyThreshold)
	}

	score := clampScore(float64(dropoffScore + consistencyScore))

	// Younger speakers are not expected to pace their energy yet.
	if m.group.IsYoung() && score < 70 {
		score = min(80, score+20)
	}

	segments := make([]float64, len(stamina.EnergySegments))
	for i, e := range stamina.EnergySegments {
		segments[i] = round4(e)
	}

	return StaminaResult{
		Result:            Result{Score: score, Feedback: m.feedback(stamina.Classification)},
		Classification:    stamina.Classification,
		EnergyDropoff:     round3(dropoff),
		EnergyConsistency: round3(consistency),
		EnergySegments:    segments,
	}
}

func (m Stamina) feedback(classification string) []string {
	switch classification {
	case "fading":
		switch m.group {
		case config.AgePrePrimary:
			return []string{"You started strong! Try to stay loud until the end! 💪"}
		case config.AgeLowerPrimary:
			return []string{"Great start! Try to keep your energy up until the very end!"}
		default:
			return []string{"Your energy dropped towards the end. Try to finish as strong as you started!"}
		}
	case "inconsistent":
		if m.group.IsYoung() {
			return []string{"Try to keep your voice the same volume from start to finish!"}
		}
		return []string{"Try to maintain steady energy from start to finish."}
	default:
		switch m.group {
		case config.AgePrePrimary:
			return []string{"You kept going strong the whole time! Amazing! 🌟"}
		default:
			return []string{"Great job keeping your energy up throughout!"}
		}
	}
}
