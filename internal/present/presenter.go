// Package present reshapes a raw evaluation report into one of four
// age-tier presentations: character feedback for pre-primary, icon metrics
// for lower primary, progress bars with a single tip for upper primary, and
// a full detailed view for middle/secondary students.
//
// Badge conditions are compiled into typed predicates once at construction;
// no string parsing happens per evaluation. Message selection is the only
// randomized step and takes an injectable random source for deterministic
// tests.
package present

import (
	"fmt"
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/podium-ed/podium/internal/config"
	"github.com/podium-ed/podium/internal/metrics"
	"github.com/podium-ed/podium/internal/report"
)

// FormatVersion tags every presentation payload.
const FormatVersion = "1.0"

// Presenter produces age-tier presentations from raw reports. Safe for
// concurrent use.
type Presenter struct {
	cfg    *config.Config
	badges map[config.AgeGroup]badgeTable

	mu  sync.Mutex
	rng *rand.Rand
}

// Option is a functional option for configuring a Presenter.
type Option func(*Presenter)

// WithRand sets the random source used for message selection. Tests inject
// a seeded source for deterministic output.
func WithRand(rng *rand.Rand) Option {
	return func(p *Presenter) {
		if rng != nil {
			p.rng = rng
		}
	}
}

// New compiles the badge tables and returns a Presenter. Fails when any
// configured badge condition does not parse.
func New(cfg *config.Config, opts ...Option) (*Presenter, error) {
	badges, err := compileBadges(cfg.Presentation.Badges)
	if err != nil {
		return nil, err
	}
	p := &Presenter{
		cfg:    cfg,
		badges: badges,
		rng:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	for _, o := range opts {
		o(p)
	}
	return p, nil
}

// Presentation is the age-tier view of one evaluation. Exactly one tier
// field is set, matching AgeGroup.
type Presentation struct {
	AgeGroup      config.AgeGroup `json:"age_group"`
	FormatVersion string          `json:"format_version"`
	ShowToChild   bool            `json:"show_to_child"`

	PrePrimary   *PrePrimaryView   `json:"pre_primary,omitempty"`
	LowerPrimary *LowerPrimaryView `json:"lower_primary,omitempty"`
	UpperPrimary *UpperPrimaryView `json:"upper_primary,omitempty"`
	Detailed     *DetailedView     `json:"detailed,omitempty"`
}

// Message is a child-facing feedback line.
type Message struct {
	Text       string `json:"text"`
	Character  string `json:"character,omitempty"`
	TTSEnabled bool   `json:"tts_enabled"`
}

// Visuals describes the animated scene for the youngest tier.
type Visuals struct {
	MainCharacter   string `json:"main_character"`
	CharacterState  string `json:"character_state"`
	BackgroundTheme string `json:"background_theme"`
}

// AudioFeedback is the sound layer for the youngest tier.
type AudioFeedback struct {
	SoundEffect string `json:"sound_effect"`
	TTSMessage  string `json:"tts_message"`
}

// PrePrimaryView is the ages 3-5 payload: voice presence and strength only,
// no numbers, no text explanations.
type PrePrimaryView struct {
	Visuals         Visuals       `json:"visuals"`
	VoiceDetected   bool          `json:"voice_detected"`
	VoiceStrength   string        `json:"voice_strength"`
	DurationSeconds float64       `json:"duration_seconds"`
	Badge           *EarnedBadge  `json:"badge"`
	Message         Message       `json:"message"`
	AudioFeedback   AudioFeedback `json:"audio_feedback"`
}

// VisualMetric is one icon-based metric for the lower-primary tier. Level
// and MaxLevel are nil for icon-only metrics such as pace.
type VisualMetric struct {
	ID       string `json:"id"`
	Icon     string `json:"icon"`
	Level    *int   `json:"level,omitempty"`
	MaxLevel *int   `json:"max_level,omitempty"`
	Label    string `json:"label"`
	Color    string `json:"color"`
}

// LowerPrimaryView is the ages 6-8 payload: exactly three visual metrics,
// one badge and one message.
type LowerPrimaryView struct {
	Metrics []VisualMetric `json:"metrics"`
	Badge   *EarnedBadge   `json:"badge"`
	Message Message        `json:"message"`
}

// ProgressBar is one 0-100 bar for the upper-primary tier.
type ProgressBar struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Value int    `json:"value"`
	Color string `json:"color"`
}

// Tip is the single improvement tip for the upper-primary tier.
type Tip struct {
	Text         string `json:"text"`
	TargetMetric string `json:"target_metric"`
}

// UpperPrimaryView is the ages 9-10 payload: four progress bars, earned
// badges and exactly one improvement tip.
type UpperPrimaryView struct {
	ProgressBars   []ProgressBar `json:"progress_bars"`
	ImprovementTip Tip           `json:"improvement_tip"`
	BadgesEarned   []EarnedBadge `json:"badges_earned"`
	Streak         *int          `json:"streak"`
}

// DetailedView is the ages 11+ payload: a near-full passthrough of the raw
// evaluation.
type DetailedView struct {
	Scores                 metrics.Scores          `json:"scores"`
	DetailedAnalysis       report.DetailedAnalysis `json:"detailed_analysis"`
	ImprovementSuggestions []string                `json:"improvement_suggestions"`
}

// ForAge transforms a raw report into the presentation for the student's
// age tier.
func (p *Presenter) ForAge(r report.Raw, age int) Presentation {
	group := config.GroupForAge(age)
	out := Presentation{
		AgeGroup:      group,
		FormatVersion: FormatVersion,
		ShowToChild:   true,
	}
	switch group {
	case config.AgePrePrimary:
		out.PrePrimary = p.prePrimary(r)
	case config.AgeLowerPrimary:
		out.LowerPrimary = p.lowerPrimary(r)
	case config.AgeUpperPrimary:
		out.UpperPrimary = p.upperPrimary(r)
	default:
		out.Detailed = p.detailed(r)
	}
	return out
}

func (p *Presenter) prePrimary(r report.Raw) *PrePrimaryView {
	loudness := r.Scores.Loudness
	duration := r.Metadata.DurationSeconds

	strength := voiceStrengthLabel(loudness)
	voiceDetected := loudness > 20

	scores := ScoreSet{
		"loudness":        float64(loudness),
		"pitch_variation": float64(r.Scores.PitchVariation),
	}
	earned := p.badges[config.AgePrePrimary].earned(scores, duration)
	var primary *EarnedBadge
	if len(earned) > 0 {
		primary = &earned[0]
	}

	character, state := "lion", "celebrating"
	switch strength {
	case "lion":
		state = "roaring"
	case "mouse":
		state = "encouraging"
	}

	category := "just_right"
	if strength == "mouse" {
		category = "too_soft"
	}
	message := p.randomMessage(category)

	sound := "celebration_chime"
	switch {
	case primary != nil:
		sound = "celebration_fanfare"
	case strength == "lion":
		sound = "lion_roar"
	case strength == "mouse":
		sound = "encouragement_chime"
	}

	tts := message
	if !voiceDetected {
		tts = "Try speaking louder!"
	}

	background := "clouds"
	if primary != nil {
		background = "stars"
	}

	return &PrePrimaryView{
		Visuals: Visuals{
			MainCharacter:   character,
			CharacterState:  state,
			BackgroundTheme: background,
		},
		VoiceDetected:   voiceDetected,
		VoiceStrength:   strength,
		DurationSeconds: math.Round(duration*10) / 10,
		Badge:           primary,
		Message: Message{
			Text:       message,
			Character:  character,
			TTSEnabled: true,
		},
		AudioFeedback: AudioFeedback{
			SoundEffect: sound,
			TTSMessage:  tts,
		},
	}
}

func (p *Presenter) lowerPrimary(r report.Raw) *LowerPrimaryView {
	scores := ScoreSet{
		"loudness":        float64(r.Scores.Loudness),
		"pace":            float64(r.Scores.Pace),
		"pitch_variation": float64(r.Scores.PitchVariation),
		"clarity":         float64(r.Scores.Clarity),
	}

	band := p.cfg.Scoring.AgeBands[config.AgeLowerPrimary]
	wpm := r.DetailedAnalysis.Pace.WPM

	voiceLevel := scoreToLevel(r.Scores.Loudness)
	voice := levelIcon(voiceStrengthIcons, voiceLevel)
	pace := paceIcon(wpm, band.WPMMin, band.WPMMax)
	exprLevel := scoreToLevel(r.Scores.PitchVariation)
	expr := levelIcon(expressionIcons, exprLevel)

	maxLevel := 5
	visuals := []VisualMetric{
		{ID: "voice_strength", Icon: voice.icon, Level: &voiceLevel, MaxLevel: &maxLevel, Label: voice.label, Color: metricColors["confidence"]},
		{ID: "pace", Icon: pace.icon, Label: pace.label, Color: metricColors["pace"]},
		{ID: "expression", Icon: expr.icon, Level: &exprLevel, MaxLevel: &maxLevel, Label: expr.label, Color: metricColors["expression"]},
	}

	earned := p.badges[config.AgeLowerPrimary].earned(scores, r.Metadata.DurationSeconds)
	var primary *EarnedBadge
	if len(earned) > 0 {
		primary = &earned[0]
	}

	var sum float64
	for _, v := range scores {
		sum += v
	}
	avg := sum / float64(len(scores))

	var message string
	switch {
	case primary != nil:
		message = fmt.Sprintf("Great job! You unlocked the %s! %s", primary.Name, primary.Emoji)
	case avg >= 70:
		message = "Wonderful speaking! Keep it up!"
	case avg >= 50:
		message = "Good effort! You're getting better!"
	default:
		message = "Nice try! Keep practicing!"
	}

	return &LowerPrimaryView{
		Metrics: visuals,
		Badge:   primary,
		Message: Message{Text: message},
	}
}

// upperTipOrder is the fixed tie-break order for the improvement tip.
var upperTipOrder = []string{
	"loudness", "clarity", "pitch_variation", "pace", "stamina", "filler", "structure",
}

var upperTips = map[string]Tip{
	"loudness":        {Text: "Try speaking a bit louder next time!", TargetMetric: "confidence"},
	"clarity":         {Text: "Focus on pronouncing each word clearly.", TargetMetric: "clarity"},
	"pitch_variation": {Text: "Add more expression - make your voice go up and down!", TargetMetric: "expression"},
	"pace":            {Text: "Watch your speaking speed - not too fast, not too slow.", TargetMetric: "pace"},
	"filler":          {Text: "Try using fewer filler words like 'um' - pause silently instead!", TargetMetric: "confidence"},
	"stamina":         {Text: "Keep your energy up until the very end!", TargetMetric: "confidence"},
	"structure":       {Text: "Start with a greeting and end with 'thank you'!", TargetMetric: "clarity"},
}

func (p *Presenter) upperPrimary(r report.Raw) *UpperPrimaryView {
	scores := ScoreSet{
		"loudness":        float64(r.Scores.Loudness),
		"clarity":         float64(r.Scores.Clarity),
		"pitch_variation": float64(r.Scores.PitchVariation),
		"pace":            float64(r.Scores.Pace),
		"stamina":         float64(r.Scores.Stamina),
		"filler":          float64(r.Scores.Filler),
		"structure":       float64(r.Scores.Structure),
		"overall":         r.Scores.Overall,
	}

	bars := []ProgressBar{
		{ID: "confidence", Label: "Confidence", Value: r.Scores.Loudness, Color: metricColors["confidence"]},
		{ID: "clarity", Label: "Clarity", Value: r.Scores.Clarity, Color: metricColors["clarity"]},
		{ID: "expression", Label: "Expression", Value: r.Scores.PitchVariation, Color: metricColors["expression"]},
		{ID: "pace", Label: "Pace", Value: r.Scores.Pace, Color: metricColors["pace"]},
	}

	return &UpperPrimaryView{
		ProgressBars:   bars,
		ImprovementTip: improvementTip(scores),
		BadgesEarned:   p.badges[config.AgeUpperPrimary].earned(scores, r.Metadata.DurationSeconds),
		Streak:         nil,
	}
}

// improvementTip picks exactly one tip: the lowest-scoring metric in the
// fixed tie-break order, or generic praise when nothing scores below 80.
func improvementTip(scores ScoreSet) Tip {
	lowest := ""
	lowestScore := 0.0
	for _, name := range upperTipOrder {
		v, ok := scores[name]
		if !ok {
			continue
		}
		if lowest == "" || v < lowestScore {
			lowest = name
			lowestScore = v
		}
	}
	if lowest == "" {
		return Tip{Text: "Great job! Keep practicing!", TargetMetric: "confidence"}
	}
	if lowestScore >= 80 {
		return Tip{Text: "Amazing work! You're doing great - keep it up!", TargetMetric: "confidence"}
	}
	return upperTips[lowest]
}

func (p *Presenter) detailed(r report.Raw) *DetailedView {
	suggestions := r.ImprovementSuggestions
	if len(suggestions) > 5 {
		suggestions = suggestions[:5]
	}
	return &DetailedView{
		Scores:                 r.Scores,
		DetailedAnalysis:       r.DetailedAnalysis,
		ImprovementSuggestions: suggestions,
	}
}

// randomMessage picks one message from the configured pool for a category,
// falling back to the encouragement pool.
func (p *Presenter) randomMessage(category string) string {
	pool := p.cfg.Presentation.Messages[category]
	if len(pool) == 0 {
		pool = p.cfg.Presentation.Messages["encouragement"]
	}
	if len(pool) == 0 {
		return "You're doing great! Keep trying!"
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return pool[p.rng.Intn(len(pool))]
}
