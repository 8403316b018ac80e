package metrics

import (
	"github.com/podium-ed/podium/internal/config"
)

// Loudness scores voice strength from the RMS features, mapping the mean dB
// level piecewise against the configured breakpoints.
type Loudness struct {
	group config.AgeGroup
	cfg   config.LoudnessThresholds
}

// NewLoudness returns the loudness scorer for a student age.
func NewLoudness(age int, cfg config.ScoringConfig) Loudness {
	return Loudness{
		group: config.GroupForAge(age),
		cfg:   cfg.Audio.Loudness,
	}
}

// Name implements [Metric].
func (m Loudness) Name() string { return NameLoudness }

// Evaluate implements [Metric].
func (m Loudness) Evaluate(in Input) Result { return m.Analyze(in).Result }

// LoudnessResult is the loudness score with its dB measurements.
type LoudnessResult struct {
	Result
	RMSDB          float64 `json:"rms_db"`
	RMSMean        float64 `json:"rms_mean"`
	Classification string  `json:"classification"`
	Variance       float64 `json:"variance"`
	IsConsistent   bool    `json:"is_consistent"`
}

// Analyze scores loudness: 100 inside the optimal dB band, decaying outward
// through the soft/loud breakpoints. Volume inconsistency is surfaced as
// feedback for older groups only, never as a score penalty.
func (m Loudness) Analyze(in Input) LoudnessResult {
	loud := in.Audio.Loudness
	if loud.RMSMean == 0 {
		return LoudnessResult{
			Result:         Result{Score: 0, Feedback: []string{"No audio detected"}},
			RMSDB:          -60,
			Classification: ClassificationNoAudio,
		}
	}

	db := loud.RMSDBMean
	var score int
	switch {
	case db >= m.cfg.OptimalMinDB && db <= m.cfg.OptimalMaxDB:
		score = 100
	case db < m.cfg.TooSoftDB:
		// Map -60 dB..too_soft onto 0..50.
		score = clampScore(50 * (db + 60) / (m.cfg.TooSoftDB + 60))
	case db < m.cfg.OptimalMinDB:
		score = int(50 + 50*(db-m.cfg.TooSoftDB)/(m.cfg.OptimalMinDB-m.cfg.TooSoftDB))
	case db > m.cfg.TooLoudDB:
		score = int(100 - (db-m.cfg.TooLoudDB)*5)
		if score < 50 {
			score = 50
		}
	default:
		score = int(100 - 20*(db-m.cfg.OptimalMaxDB)/(m.cfg.TooLoudDB-m.cfg.OptimalMaxDB))
	}
	score = clampScore(float64(score))

	inconsistent := loud.RMSDBStd > m.cfg.VarianceDB

	return LoudnessResult{
		Result:         Result{Score: score, Feedback: m.feedback(loud.Classification, inconsistent)},
		RMSDB:          round2(db),
		RMSMean:        round4(loud.RMSMean),
		Classification: loud.Classification,
		Variance:       round2(loud.RMSDBStd),
		IsConsistent:   !inconsistent,
	}
}

func (m Loudness) feedback(classification string, inconsistent bool) []string {
	var feedback []string

	switch classification {
	case "too_soft":
		switch m.group {
		case config.AgePrePrimary:
			feedback = append(feedback, "Try using your Lion Voice! 🦁 ROAR so everyone can hear you!")
		case config.AgeLowerPrimary:
			feedback = append(feedback, "Your voice is a bit quiet. Try speaking louder like a superhero!")
		default:
			feedback = append(feedback, "Your voice is a bit quiet. Try speaking louder so everyone can hear!")
		}
	case "too_loud":
		switch m.group {
		case config.AgePrePrimary:
			feedback = append(feedback, "Wow, you're loud! Let's try your indoor voice! 🏠")
		case config.AgeLowerPrimary:
			feedback = append(feedback, "Great energy! Try speaking just a bit softer.")
		default:
			feedback = append(feedback, "You have a powerful voice! Try speaking just a bit softer.")
		}
	default:
		switch m.group {
		case config.AgePrePrimary:
			feedback = append(feedback, "Perfect voice! You sound amazing! ⭐")
		case config.AgeLowerPrimary:
			feedback = append(feedback, "Great voice strength! You're easy to hear!")
		default:
			feedback = append(feedback, "Great voice strength! You're easy to hear.")
		}
	}

	if inconsistent && !m.group.IsYoung() {
		feedback = append(feedback, "Try to keep your voice at the same volume throughout.")
	}
	return feedback
}
