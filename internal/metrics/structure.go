package metrics

import (
	"fmt"
	"strings"

	"github.com/podium-ed/podium/internal/config"
)

// Structure scores the speech's shape: an introduction near the start, body
// content, and a conclusion near the end. Weighted more heavily for older
// students; younger groups get a flat boost.
type Structure struct {
	group             config.AgeGroup
	introMarkers      []string
	conclusionMarkers []string
}

// NewStructure returns the structure scorer for a student age.
func NewStructure(age int, cfg config.ScoringConfig) Structure {
	return Structure{
		group:             config.GroupForAge(age),
		introMarkers:      cfg.Transcript.IntroMarkers,
		conclusionMarkers: cfg.Transcript.ConclusionMarkers,
	}
}

// Name implements [Metric].
func (m Structure) Name() string { return NameStructure }

// Evaluate implements [Metric].
func (m Structure) Evaluate(in Input) Result { return m.Analyze(in).Result }

// StructureResult is the structure score with the detected parts.
type StructureResult struct {
	Result
	HasIntro      bool `json:"has_intro"`
	HasBody       bool `json:"has_body"`
	HasConclusion bool `json:"has_conclusion"`
}

// Analyze scores structure: 35 points for an intro marker in the first 200
// characters, 30 for body content, 35 for a conclusion marker in the last
// 200 characters.
func (m Structure) Analyze(in Input) StructureResult {
	if in.FullText == "" {
		return StructureResult{
			Result: Result{Score: 0, Feedback: []string{"No speech detected"}},
		}
	}

	lower := strings.ToLower(in.FullText)
	head := lower
	if len(head) > 200 {
		head = head[:200]
	}
	tail := lower
	if len(tail) > 200 {
		tail = tail[len(tail)-200:]
	}

	hasIntro := containsAny(head, m.introMarkers)
	hasConclusion := containsAny(tail, m.conclusionMarkers)
	hasBody := len(in.Segments) >= 3 || len(in.FullText) > 100

	score := 0
	if hasIntro {
		score += 35
	}
	if hasBody {
		score += 30
	}
	if hasConclusion {
		score += 35
	}

	// Structure matters less for younger students.
	switch {
	case m.group.IsYoung():
		score += 30
	case m.group == config.AgeUpperPrimary:
		score += 15
	}
	final := clampScore(float64(score))

	return StructureResult{
		Result:        Result{Score: final, Feedback: m.feedback(hasIntro, hasConclusion)},
		HasIntro:      hasIntro,
		HasBody:       hasBody,
		HasConclusion: hasConclusion,
	}
}

func containsAny(text string, markers []string) bool {
	for _, marker := range markers {
		if strings.Contains(text, marker) {
			return true
		}
	}
	return false
}

func (m Structure) feedback(hasIntro, hasConclusion bool) []string {
	var missing []string
	if !hasIntro {
		missing = append(missing, "introduction")
	}
	if !hasConclusion {
		missing = append(missing, "conclusion")
	}

	switch {
	case len(missing) > 0 && !m.group.IsYoung() && m.group != config.AgeUpperPrimary:
		return []string{fmt.Sprintf("Try adding a clear %s to your speech", strings.Join(missing, " and "))}
	case len(missing) > 0:
		if m.group.IsYoung() {
			return []string{"Great job! Next time, try starting with 'Hello' or ending with 'Thank you'!"}
		}
		return []string{"Great effort! Next time, try starting with a greeting or ending with 'thank you'"}
	default:
		if m.group.IsYoung() {
			return []string{"Excellent! You started and ended your speech perfectly!"}
		}
		return []string{"Excellent structure! Clear beginning, middle, and end"}
	}
}
