package present

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/podium-ed/podium/internal/config"
)

// voicePresentLoudness is the loudness score above which a voice counts as
// present for badge purposes.
const voicePresentLoudness = 30

// EarnedBadge is a badge the student unlocked, as delivered to the client.
type EarnedBadge struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Emoji     string `json:"emoji"`
	Animation string `json:"animation"`
}

// ScoreSet maps metric names to scores for badge evaluation. Each tier
// passes the subset of scores its badges may inspect.
type ScoreSet map[string]float64

// predicate is a compiled badge condition.
type predicate interface {
	matches(scores ScoreSet, duration float64) bool
}

type scoreAtLeast struct {
	key string
	min float64
}

func (p scoreAtLeast) matches(scores ScoreSet, _ float64) bool {
	return scores[p.key] >= p.min
}

type allAtLeast struct {
	min float64
}

func (p allAtLeast) matches(scores ScoreSet, _ float64) bool {
	for _, v := range scores {
		if v < p.min {
			return false
		}
	}
	return len(scores) > 0
}

type durationAtLeast struct {
	min float64
}

func (p durationAtLeast) matches(_ ScoreSet, duration float64) bool {
	return duration >= p.min
}

type voicePresent struct{}

func (voicePresent) matches(scores ScoreSet, _ float64) bool {
	return scores["loudness"] > voicePresentLoudness
}

type conjunction struct {
	left, right predicate
}

func (p conjunction) matches(scores ScoreSet, duration float64) bool {
	return p.left.matches(scores, duration) && p.right.matches(scores, duration)
}

// badge pairs a rule's display fields with its compiled predicate.
type badge struct {
	EarnedBadge
	pred predicate
}

// badgeTable is the compiled, ordered badge list for one age group.
type badgeTable []badge

// earned returns the badges whose predicates match, in declaration order.
// The first entry is the primary badge.
func (t badgeTable) earned(scores ScoreSet, duration float64) []EarnedBadge {
	var out []EarnedBadge
	for _, b := range t {
		if b.pred.matches(scores, duration) {
			out = append(out, b.EarnedBadge)
		}
	}
	return out
}

// compileBadges builds the per-group badge tables from configuration,
// parsing every condition string exactly once. An unparseable condition is a
// load-time error.
func compileBadges(rules map[config.AgeGroup][]config.BadgeRule) (map[config.AgeGroup]badgeTable, error) {
	tables := make(map[config.AgeGroup]badgeTable, len(rules))
	var errs []error
	for group, groupRules := range rules {
		table := make(badgeTable, 0, len(groupRules))
		for _, rule := range groupRules {
			pred, err := compileCondition(rule.Condition)
			if err != nil {
				errs = append(errs, fmt.Errorf("present: badge %q: %w", rule.ID, err))
				continue
			}
			table = append(table, badge{
				EarnedBadge: EarnedBadge{
					ID:        rule.ID,
					Name:      rule.Name,
					Emoji:     rule.Emoji,
					Animation: rule.Animation,
				},
				pred: pred,
			})
		}
		tables[group] = table
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return tables, nil
}

// compileCondition parses a badge condition into a predicate. The grammar is
// deliberately small: a clause is "voice_present", "duration >= N",
// "all_scores >= N" or "<metric>_score >= N", and a condition is one clause
// or two joined by "and".
func compileCondition(condition string) (predicate, error) {
	parts := strings.Split(condition, " and ")
	switch len(parts) {
	case 1:
		return compileClause(parts[0])
	case 2:
		left, err := compileClause(parts[0])
		if err != nil {
			return nil, err
		}
		right, err := compileClause(parts[1])
		if err != nil {
			return nil, err
		}
		return conjunction{left: left, right: right}, nil
	default:
		return nil, fmt.Errorf("condition %q has %d clauses, at most 2 supported", condition, len(parts))
	}
}

func compileClause(clause string) (predicate, error) {
	clause = strings.TrimSpace(clause)
	if clause == "voice_present" {
		return voicePresent{}, nil
	}

	name, value, found := strings.Cut(clause, " >= ")
	if !found {
		return nil, fmt.Errorf("unsupported clause %q", clause)
	}
	threshold, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return nil, fmt.Errorf("clause %q: bad threshold: %w", clause, err)
	}

	switch {
	case name == "duration":
		return durationAtLeast{min: threshold}, nil
	case name == "all_scores":
		return allAtLeast{min: threshold}, nil
	case strings.HasSuffix(name, "_score"):
		return scoreAtLeast{key: strings.TrimSuffix(name, "_score"), min: threshold}, nil
	default:
		return nil, fmt.Errorf("unsupported clause %q", clause)
	}
}
