package engine

import "github.com/Asdafers/healerguide/internal/ability"

// actionTable is the fixed response plan for each damage tier.
var actionTable = map[ability.DamageTier][]RecommendedAction{
	ability.TierCritical: {
		{
			Kind:        ActionCooldownUse,
			Timing:      TimingImmediate,
			Description: "Use a major healing or damage-reduction cooldown before the hit lands",
			KeybindHint: "Major cooldown",
		},
		{
			Kind:        ActionPreHeal,
			Timing:      TimingImmediate,
			Description: "Top the group off and pre-shield before impact",
		},
		{
			Kind:        ActionPositioning,
			Timing:      TimingFast,
			Description: "Stay in range of the whole group to heal through the aftermath",
		},
	},
	ability.TierHigh: {
		{
			Kind:        ActionPreHeal,
			Timing:      TimingFast,
			Description: "Pre-heal or shield the targets before the cast completes",
		},
		{
			Kind:        ActionReactiveHeal,
			Timing:      TimingFast,
			Description: "Follow up with strong direct heals on affected players",
		},
	},
	ability.TierModerate: {
		{
			Kind:        ActionReactiveHeal,
			Timing:      TimingPlanned,
			Description: "Heal the damage efficiently after it lands",
		},
		{
			Kind:        ActionPositioning,
			Timing:      TimingPlanned,
			Description: "Position to cover affected players without overextending",
		},
	},
	ability.TierMechanic: {
		{
			Kind:        ActionDispel,
			Timing:      TimingImmediate,
			Description: "Dispel the debuff as soon as it is applied",
			KeybindHint: "Dispel",
		},
		{
			Kind:        ActionInterrupt,
			Timing:      TimingImmediate,
			Description: "Interrupt or stop the cast if your kit allows it",
			KeybindHint: "Interrupt",
		},
	},
}

// RecommendedActions returns the ordered response plan for a damage tier.
// The result is a fresh copy; callers may modify it. Unknown tiers yield nil.
func RecommendedActions(tier ability.DamageTier) []RecommendedAction {
	actions, ok := actionTable[tier]
	if !ok {
		return nil
	}
	return append([]RecommendedAction(nil), actions...)
}
