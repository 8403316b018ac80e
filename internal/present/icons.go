package present

// Visual vocabulary for the child-facing tiers: level icons, pace icons and
// the UI color palette. These mirror what the client apps render and are
// part of the payload contract.

// iconLabel is one icon with its display label.
type iconLabel struct {
	icon  string
	label string
}

var voiceStrengthIcons = []iconLabel{
	{"🔇", "Very Quiet"},
	{"🔈", "Quiet"},
	{"🔉", "Good"},
	{"🔊", "Great"},
	{"📢", "Strong"},
	{"🔊✨", "Perfect!"},
}

var expressionIcons = []iconLabel{
	{"😐", "Flat"},
	{"🙂", "Okay"},
	{"😊", "Good"},
	{"😃", "Great"},
	{"🤩", "Amazing"},
	{"⭐", "Superstar!"},
}

var paceIcons = map[string]iconLabel{
	"too_slow":   {"🐢", "Turtle Pace"},
	"just_right": {"👍", "Perfect!"},
	"too_fast":   {"🐇", "Bunny Fast"},
}

// metricColors is the per-metric UI palette.
var metricColors = map[string]string{
	"confidence": "#4CAF50",
	"clarity":    "#2196F3",
	"expression": "#FF9800",
	"pace":       "#9C27B0",
	"stamina":    "#E91E63",
	"structure":  "#00BCD4",
}

// scoreToLevel maps a 0-100 score onto the 0-5 visual level scale.
func scoreToLevel(score int) int {
	switch {
	case score >= 90:
		return 5
	case score >= 75:
		return 4
	case score >= 60:
		return 3
	case score >= 40:
		return 2
	case score >= 20:
		return 1
	default:
		return 0
	}
}

// levelIcon returns the icon for a level, clamped to the table.
func levelIcon(icons []iconLabel, level int) iconLabel {
	if level >= len(icons) {
		level = len(icons) - 1
	}
	if level < 0 {
		level = 0
	}
	return icons[level]
}

// paceIcon picks the pace icon from the measured rate against the ideal
// band, with a 20% grace margin on both sides.
func paceIcon(wpm float64, wpmMin, wpmMax int) iconLabel {
	switch {
	case wpm < float64(wpmMin)*0.8:
		return paceIcons["too_slow"]
	case wpm > float64(wpmMax)*1.2:
		return paceIcons["too_fast"]
	default:
		return paceIcons["just_right"]
	}
}

// voiceStrengthLabel maps the loudness score to the pre-primary three-way
// label.
func voiceStrengthLabel(loudnessScore int) string {
	switch {
	case loudnessScore >= 70:
		return "lion"
	case loudnessScore < 40:
		return "mouse"
	default:
		return "just_right"
	}
}
