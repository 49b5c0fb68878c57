package engine

import (
	"fmt"
	"strings"

	"github.com/Asdafers/healerguide/internal/ability"
)

// relevanceCheck inspects one ability. When it fires it returns the issue
// and the recommendation attached to it.
type relevanceCheck func(e *Engine, a ability.Record) (ValidationIssue, string, bool)

// relevanceChecks run independently and in this order; the order of issues
// and recommendations in a ValidationResult follows it.
var relevanceChecks = []relevanceCheck{
	checkHealerAction,
	checkCriticalInsight,
	checkKnownCriticalTier,
	checkHealerRelevance,
	checkCriticalCooldown,
	checkCriticalKeyMechanic,
}

// Validate inspects an ability for content completeness and healer
// relevance. Issues are data: an invalid result does not stop the caller from
// classifying or analyzing the same ability.
func (e *Engine) Validate(a ability.Record) ValidationResult {
	result := ValidationResult{
		Issues:          []ValidationIssue{},
		Recommendations: []string{},
	}
	for _, check := range relevanceChecks {
		issue, rec, fired := check(e, a)
		if !fired {
			continue
		}
		result.Issues = append(result.Issues, issue)
		if rec != "" {
			result.Recommendations = append(result.Recommendations, rec)
		}
	}
	result.IsValid = !result.HasSeverity(SeverityError)
	return result
}

func checkHealerAction(_ *Engine, a ability.Record) (ValidationIssue, string, bool) {
	if strings.TrimSpace(a.HealerAction) != "" {
		return ValidationIssue{}, "", false
	}
	return ValidationIssue{
		Severity: SeverityError,
		Message:  "Healer action is required",
		Field:    "healerAction",
	}, "Add specific healer action", true
}

func checkCriticalInsight(_ *Engine, a ability.Record) (ValidationIssue, string, bool) {
	if strings.TrimSpace(a.CriticalInsight) != "" {
		return ValidationIssue{}, "", false
	}
	return ValidationIssue{
		Severity: SeverityError,
		Message:  "Critical insight is required",
		Field:    "criticalInsight",
	}, "Add a critical insight describing what healers must know", true
}

func checkKnownCriticalTier(e *Engine, a ability.Record) (ValidationIssue, string, bool) {
	if !e.IsKnownCritical(a.Name) || a.DamageTier == ability.TierCritical {
		return ValidationIssue{}, "", false
	}
	return ValidationIssue{
		Severity: SeverityWarning,
		Message: fmt.Sprintf("%q requires immediate healer response but its damage profile is %s",
			a.Name, a.DamageTier),
		Field: "damageProfile",
	}, "Consider raising the damage profile to critical", true
}

// checkHealerRelevance flags positional abilities that give a healer nothing
// to do: they may be filtered out of healer-facing views.
func checkHealerRelevance(_ *Engine, a ability.Record) (ValidationIssue, string, bool) {
	if a.Type != ability.TypeMovement && a.Type != ability.TypeHeal {
		return ValidationIssue{}, "", false
	}
	if a.Target != ability.TargetLocation {
		return ValidationIssue{}, "", false
	}
	if containsFold(a.HealerAction, "dispel") || containsFold(a.HealerAction, "interrupt") {
		return ValidationIssue{}, "", false
	}
	return ValidationIssue{
		Severity: SeverityInfo,
		Message:  fmt.Sprintf("%s ability targeting a location may not need a healer response", a.Type.Label()),
		Field:    "type",
	}, "Consider excluding from healer-focused views", true
}

func checkCriticalCooldown(_ *Engine, a ability.Record) (ValidationIssue, string, bool) {
	if a.DamageTier != ability.TierCritical || a.CooldownSeconds != nil {
		return ValidationIssue{}, "", false
	}
	return ValidationIssue{
		Severity: SeverityWarning,
		Message:  "Critical ability has no recorded cooldown",
		Field:    "cooldown",
	}, "Add cooldown information so healers can plan cooldowns", true
}

func checkCriticalKeyMechanic(_ *Engine, a ability.Record) (ValidationIssue, string, bool) {
	if a.DamageTier != ability.TierCritical || a.IsKeyMechanic {
		return ValidationIssue{}, "", false
	}
	return ValidationIssue{
		Severity: SeverityInfo,
		Message:  "Critical ability is not marked as a key mechanic",
		Field:    "isKeyMechanic",
	}, "Consider marking critical abilities as key mechanics for prominence", true
}
