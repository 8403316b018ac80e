package metrics

import (
	"github.com/podium-ed/podium/internal/config"
	"github.com/podium-ed/podium/internal/features"
)

// PitchVariation scores vocal expression from pitch variability: monotone
// and erratic delivery both lose points, expressive delivery scores high.
type PitchVariation struct {
	group config.AgeGroup
	cfg   config.PitchThresholds
}

// NewPitchVariation returns the pitch-variation scorer for a student age.
func NewPitchVariation(age int, cfg config.ScoringConfig) PitchVariation {
	return PitchVariation{
		group: config.GroupForAge(age),
		cfg:   cfg.Audio.Pitch,
	}
}

// Name implements [Metric].
func (m PitchVariation) Name() string { return NamePitchVariation }

// Evaluate implements [Metric].
func (m PitchVariation) Evaluate(in Input) Result { return m.Analyze(in).Result }

// PitchResult is the pitch-variation score with its statistics.
type PitchResult struct {
	Result
	Classification string     `json:"classification"`
	PitchMean      float64    `json:"pitch_mean"`
	PitchStd       float64    `json:"pitch_std"`
	PitchRange     [2]float64 `json:"pitch_range"`
	VoicedRatio    float64    `json:"voiced_ratio"`
}

// Analyze scores pitch variation against the monotone/erratic thresholds.
// Recordings with too little voiced speech return a neutral score instead of
// being read as a flat voice; pre-primary students get the benefit of the
// doubt.
func (m PitchVariation) Analyze(in Input) PitchResult {
	pitch := in.Audio.Pitch

	if pitch.Classification == features.PitchInsufficientData || pitch.VoicedRatio < 0.1 {
		if m.group == config.AgePrePrimary {
			return PitchResult{
				Result:         Result{Score: 70, Feedback: []string{"Keep practicing your speaking!"}},
				Classification: ClassificationNotAnalyzed,
				VoicedRatio:    pitch.VoicedRatio,
			}
		}
		return PitchResult{
			Result:         Result{Score: 50, Feedback: []string{"Not enough voiced speech to analyze expression"}},
			Classification: features.PitchInsufficientData,
			VoicedRatio:    pitch.VoicedRatio,
		}
	}

	std := pitch.Std
	monotone := m.cfg.MonotoneStd
	erratic := m.cfg.ErraticStd

	var score int
	switch pitch.Classification {
	case features.PitchMonotone:
		// Flat voice scores 40 at zero variation, 70 at the threshold.
		score = int(40 + 30*std/monotone)
	case features.PitchErratic:
		// Some penalty, but an erratic voice still has expression.
		excess := (std - erratic) * 0.3
		if excess > 30 {
			excess = 30
		}
		score = int(80 - excess)
	default:
		middle := (monotone + erratic) / 2
		if std <= middle {
			score = int(70 + 20*(std-monotone)/(middle-monotone))
		} else {
			score = int(90 + 10*(1-(std-middle)/(erratic-middle)))
		}
	}
	score = clampScore(float64(score))

	if m.group == config.AgePrePrimary && score < 60 {
		score = min(70, score+20)
	}

	return PitchResult{
		Result:         Result{Score: score, Feedback: m.feedback(pitch.Classification)},
		Classification: pitch.Classification,
		PitchMean:      round2(pitch.Mean),
		PitchStd:       round2(std),
		PitchRange:     [2]float64{round2(pitch.Min), round2(pitch.Max)},
		VoicedRatio:    round3(pitch.VoicedRatio),
	}
}

func (m PitchVariation) feedback(classification string) []string {
	switch classification {
	case features.PitchMonotone:
		switch m.group {
		case config.AgePrePrimary:
			return []string{"Try making your voice go up and down like a roller coaster! 🎢"}
		case config.AgeLowerPrimary:
			return []string{"Try adding more expression - make your voice go high and low!"}
		default:
			return []string{"Try adding more expression to your voice - go up and down like a roller coaster!"}
		}
	case features.PitchErratic:
		switch m.group {
		case config.AgePrePrimary:
			return []string{"Great energy! Your voice is very bouncy! 🎉"}
		case config.AgeLowerPrimary:
			return []string{"Good energy! Try to control your voice a bit more."}
		default:
			return []string{"Good energy! Try to control your pitch a bit more."}
		}
	default:
		switch m.group {
		case config.AgePrePrimary:
			return []string{"Your voice sounds so interesting! ⭐"}
		case config.AgeLowerPrimary:
			return []string{"Great expression! Your voice has nice variety!"}
		default:
			return []string{"Great expression! Your voice has nice variety."}
		}
	}
}
