package engine

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Asdafers/healerguide/internal/ability"
)

// Classify computes the urgency, complexity and impact of an ability along
// with a preparation text for the healer. It never fails: every combination
// of enum values falls through to a default.
func (e *Engine) Classify(a ability.Record) Classification {
	known := e.IsKnownCritical(a.Name)
	urgency := classifyUrgency(a, known)
	complexity := classifyComplexity(a)
	return Classification{
		Urgency:         urgency,
		Complexity:      complexity,
		Impact:          classifyImpact(a, known),
		PreparationText: preparationText(a, urgency, complexity),
	}
}

// classifyUrgency applies the urgency rules in order; the first match wins.
func classifyUrgency(a ability.Record, knownCritical bool) Urgency {
	switch {
	case knownCritical || containsFold(a.HealerAction, "immediate"):
		return UrgencyImmediate
	case a.DamageTier == ability.TierCritical && a.Target == ability.TargetGroup:
		return UrgencyImmediate
	case a.DamageTier == ability.TierCritical && a.Target == ability.TargetTank:
		return UrgencyHigh
	case a.DamageTier == ability.TierHigh && a.Target == ability.TargetTank:
		return UrgencyHigh
	case a.Type == ability.TypeInterrupt:
		return UrgencyHigh
	case a.DamageTier == ability.TierHigh:
		return UrgencyModerate
	case a.DamageTier == ability.TierModerate:
		return UrgencyModerate
	default:
		return UrgencyLow
	}
}

// classifyImpact applies the impact rules in order; the first match wins.
func classifyImpact(a ability.Record, knownCritical bool) Impact {
	switch {
	case knownCritical || a.DamageTier == ability.TierCritical:
		return ImpactCritical
	case a.DamageTier == ability.TierHigh && a.Target == ability.TargetGroup:
		return ImpactHigh
	case a.Type == ability.TypeInterrupt:
		return ImpactHigh
	case a.DamageTier == ability.TierHigh, a.DamageTier == ability.TierModerate:
		return ImpactModerate
	case a.Type == ability.TypeMechanic:
		return ImpactLow
	default:
		return ImpactModerate
	}
}

// classifyComplexity starts from a per-type base and adds one step each for
// a critical tier and a key mechanic, capped at extreme.
func classifyComplexity(a ability.Record) Complexity {
	c := baseComplexity(a)
	if a.DamageTier == ability.TierCritical {
		c++
	}
	if a.IsKeyMechanic {
		c++
	}
	if c > ComplexityExtreme {
		c = ComplexityExtreme
	}
	return c
}

func baseComplexity(a ability.Record) Complexity {
	switch a.Type {
	case ability.TypeDamage:
		if a.Target == ability.TargetGroup {
			return ComplexityModerate
		}
		return ComplexitySimple
	case ability.TypeMechanic, ability.TypeMovement:
		return ComplexityModerate
	default:
		return ComplexitySimple
	}
}

// preparationText joins the urgency and complexity instructions with the
// optional cooldown and key-mechanic clauses.
func preparationText(a ability.Record, u Urgency, c Complexity) string {
	parts := []string{u.Phrase(), c.Phrase()}
	if a.CooldownSeconds != nil {
		parts = append(parts, fmt.Sprintf("Track the %ss cooldown", formatSeconds(*a.CooldownSeconds)))
	}
	if a.IsKeyMechanic {
		parts = append(parts, "Treat as priority")
	}
	return strings.Join(parts, ". ")
}

// formatSeconds renders a cooldown without trailing zeros: 45 -> "45", 1.5 -> "1.5".
func formatSeconds(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
