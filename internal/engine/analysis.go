package engine

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/Asdafers/healerguide/internal/ability"
)

// ErrEmptySet is returned by Analyze when there is nothing to analyze.
var ErrEmptySet = errors.New("no abilities available for this encounter")

// Analyze aggregates the abilities of one encounter into a damage
// distribution, a healing-load estimate, cooldown timings and a cooldown
// plan. The only failure is an empty input.
func (e *Engine) Analyze(abilities []ability.Record) (DamageAnalysis, error) {
	if len(abilities) == 0 {
		return DamageAnalysis{}, ErrEmptySet
	}

	dist := make(map[ability.DamageTier]int, len(ability.AllDamageTiers()))
	for _, tier := range ability.AllDamageTiers() {
		dist[tier] = 0
	}

	analysis := DamageAnalysis{
		TotalAbilities:          len(abilities),
		Distribution:            dist,
		Timings:                 []AbilityTiming{},
		CooldownRecommendations: []CooldownRecommendation{},
	}

	var (
		cooldownSum float64
		timed       []ability.Record
	)
	for _, a := range abilities {
		dist[a.DamageTier]++
		if a.IsKeyMechanic {
			analysis.KeyMechanicCount++
		}
		if a.CooldownSeconds == nil {
			continue
		}
		cooldownSum += *a.CooldownSeconds
		timed = append(timed, a)
		if rec, ok := cooldownRecommendation(a); ok {
			analysis.CooldownRecommendations = append(analysis.CooldownRecommendations, rec)
		}
	}

	if n := len(timed); n > 0 {
		avg := cooldownSum / float64(n)
		analysis.AverageCooldownSeconds = &avg
	}
	slices.SortStableFunc(timed, func(x, y ability.Record) int {
		return cmp.Or(
			cmp.Compare(*x.CooldownSeconds, *y.CooldownSeconds),
			cmp.Compare(x.DisplayOrder, y.DisplayOrder),
		)
	})
	for _, a := range timed {
		analysis.Timings = append(analysis.Timings, AbilityTiming{
			AbilityID:       a.ID,
			Name:            a.Name,
			CooldownSeconds: *a.CooldownSeconds,
		})
	}

	analysis.HealingLoad = healingLoad(dist)
	return analysis, nil
}

// healingLoad grades sustained healing pressure from the tier counts.
func healingLoad(dist map[ability.DamageTier]int) HealingLoad {
	critical := dist[ability.TierCritical]
	high := dist[ability.TierHigh]
	moderate := dist[ability.TierModerate]
	switch {
	case critical >= 2:
		return HealingLoadBurst
	case critical >= 1 || high >= 3:
		return HealingLoadHeavy
	case high >= 1 || moderate >= 3:
		return HealingLoadModerate
	default:
		return HealingLoadLight
	}
}

// cooldownRecommendation plans a cooldown for a critical or high ability
// with a known cadence.
func cooldownRecommendation(a ability.Record) (CooldownRecommendation, bool) {
	if a.CooldownSeconds == nil {
		return CooldownRecommendation{}, false
	}
	var name string
	switch a.DamageTier {
	case ability.TierCritical:
		name = "Major defensive cooldown"
	case ability.TierHigh:
		name = "Healing cooldown"
	default:
		return CooldownRecommendation{}, false
	}

	action := strings.TrimSpace(a.HealerAction)
	if action == "" {
		action = "no healer action recorded"
	}
	return CooldownRecommendation{
		CooldownName:     name,
		SuggestedTiming:  fmt.Sprintf("every %ss", formatSeconds(*a.CooldownSeconds)),
		TargetAbilityIDs: []string{a.ID},
		Rationale:        fmt.Sprintf("%s (%s): %s", a.Name, a.DamageTier.Label(), action),
	}, true
}

// PrioritizeForHealer classifies each ability and orders them for display:
// highest priority first, ties broken by ascending display order.
func (e *Engine) PrioritizeForHealer(abilities []ability.Record) []PrioritizedAbility {
	result := make([]PrioritizedAbility, 0, len(abilities))
	for _, a := range SortByPriority(abilities) {
		result = append(result, PrioritizedAbility{
			Ability:        a,
			Priority:       PriorityScore(a),
			Reasoning:      priorityReasoning(a),
			DisplayHint:    DisplayHintFor(a),
			Classification: e.Classify(a),
		})
	}
	return result
}

func priorityReasoning(a ability.Record) string {
	reason := fmt.Sprintf("%s damage tier (%d)", a.DamageTier, a.DamageTier.Weight())
	if a.IsKeyMechanic {
		reason += fmt.Sprintf(" + key mechanic (%d)", keyMechanicBonus)
	}
	return reason
}
