package engine

import (
	"cmp"
	"slices"

	"github.com/Asdafers/healerguide/internal/ability"
)

// keyMechanicBonus lifts every key mechanic above all non-key abilities,
// whatever their tier.
const keyMechanicBonus = 10

// PriorityScore returns the tier weight plus the key-mechanic bonus.
func PriorityScore(a ability.Record) int {
	score := a.DamageTier.Weight()
	if a.IsKeyMechanic {
		score += keyMechanicBonus
	}
	return score
}

// ComparePriority orders abilities for healer display. It returns a negative
// number when a ranks before b: higher priority first, then lower display
// order. It fits slices.SortFunc and slices.SortStableFunc.
func ComparePriority(a, b ability.Record) int {
	if c := cmp.Compare(PriorityScore(b), PriorityScore(a)); c != 0 {
		return c
	}
	return cmp.Compare(a.DisplayOrder, b.DisplayOrder)
}

// SortByPriority returns a priority-ordered copy of abilities.
func SortByPriority(abilities []ability.Record) []ability.Record {
	sorted := slices.Clone(abilities)
	slices.SortStableFunc(sorted, ComparePriority)
	return sorted
}

// KeyMechanics returns the key-mechanic subset of abilities, in input order.
func KeyMechanics(abilities []ability.Record) []ability.Record {
	out := make([]ability.Record, 0, len(abilities))
	for _, a := range abilities {
		if a.IsKeyMechanic {
			out = append(out, a)
		}
	}
	return out
}

// DisplayHintFor picks how prominently an ability should be rendered.
func DisplayHintFor(a ability.Record) DisplayHint {
	switch {
	case a.IsKeyMechanic:
		return HintHighlight
	case a.DamageTier == ability.TierCritical:
		return HintEmphasize
	case a.DamageTier == ability.TierMechanic:
		return HintMuted
	default:
		return HintStandard
	}
}
