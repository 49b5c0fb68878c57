package ability

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownValue is returned when a string does not name a known enum member.
var ErrUnknownValue = errors.New("unknown value")

// DamageTier is the severity bucket of an ability. The renderer switches on it
// to pick a color scheme, and the ranker uses its weight.
type DamageTier string

const (
	TierCritical DamageTier = "critical"
	TierHigh     DamageTier = "high"
	TierModerate DamageTier = "moderate"
	TierMechanic DamageTier = "mechanic"
)

type tierMeta struct {
	weight int
	label  string
}

var damageTiers = []DamageTier{TierCritical, TierHigh, TierModerate, TierMechanic}

var tierTable = map[DamageTier]tierMeta{
	TierCritical: {weight: 4, label: "Critical"},
	TierHigh:     {weight: 3, label: "High"},
	TierModerate: {weight: 2, label: "Moderate"},
	TierMechanic: {weight: 1, label: "Mechanic"},
}

// AllDamageTiers returns every tier from most to least severe.
func AllDamageTiers() []DamageTier {
	return append([]DamageTier(nil), damageTiers...)
}

// Weight returns the ranking weight of the tier, or 0 for an unknown tier.
func (t DamageTier) Weight() int { return tierTable[t].weight }

// Label returns the display label of the tier.
func (t DamageTier) Label() string { return labelOr(tierTable[t].label, string(t)) }

// Valid reports whether t is a known tier.
func (t DamageTier) Valid() bool {
	_, ok := tierTable[t]
	return ok
}

func (t DamageTier) String() string { return string(t) }

// ParseDamageTier parses a tier name such as "critical".
func ParseDamageTier(s string) (DamageTier, error) {
	return parseEnum("damage tier", s, DamageTier.Valid)
}

// Type describes what an ability does mechanically.
type Type string

const (
	TypeDamage    Type = "damage"
	TypeHeal      Type = "heal"
	TypeMechanic  Type = "mechanic"
	TypeMovement  Type = "movement"
	TypeInterrupt Type = "interrupt"
)

var types = []Type{TypeDamage, TypeHeal, TypeMechanic, TypeMovement, TypeInterrupt}

var typeLabels = map[Type]string{
	TypeDamage:    "Damage",
	TypeHeal:      "Heal",
	TypeMechanic:  "Mechanic",
	TypeMovement:  "Movement",
	TypeInterrupt: "Interrupt",
}

// AllTypes returns every ability type in declaration order.
func AllTypes() []Type {
	return append([]Type(nil), types...)
}

// Label returns the display label of the type.
func (t Type) Label() string { return labelOr(typeLabels[t], string(t)) }

// Valid reports whether t is a known ability type.
func (t Type) Valid() bool {
	_, ok := typeLabels[t]
	return ok
}

func (t Type) String() string { return string(t) }

// ParseType parses an ability type name such as "interrupt".
func ParseType(s string) (Type, error) {
	return parseEnum("ability type", s, Type.Valid)
}

// Target is who or what an ability hits.
type Target string

const (
	TargetTank         Target = "tank"
	TargetRandomPlayer Target = "random-player"
	TargetGroup        Target = "group"
	TargetHealers      Target = "healers"
	TargetLocation     Target = "location"
)

var targets = []Target{TargetTank, TargetRandomPlayer, TargetGroup, TargetHealers, TargetLocation}

var targetLabels = map[Target]string{
	TargetTank:         "Tank",
	TargetRandomPlayer: "Random Player",
	TargetGroup:        "Group",
	TargetHealers:      "Healers",
	TargetLocation:     "Location",
}

// AllTargets returns every target in declaration order.
func AllTargets() []Target {
	return append([]Target(nil), targets...)
}

// Label returns the display label of the target.
func (t Target) Label() string { return labelOr(targetLabels[t], string(t)) }

// Valid reports whether t is a known target.
func (t Target) Valid() bool {
	_, ok := targetLabels[t]
	return ok
}

func (t Target) String() string { return string(t) }

// ParseTarget parses a target name such as "random-player".
func ParseTarget(s string) (Target, error) {
	return parseEnum("target", s, Target.Valid)
}

// parseEnum normalizes s (case, surrounding space, "_" or " " for "-") and
// checks it against valid.
func parseEnum[T ~string](kind, s string, valid func(T) bool) (T, error) {
	norm := strings.ToLower(strings.TrimSpace(s))
	norm = strings.NewReplacer("_", "-", " ", "-").Replace(norm)
	v := T(norm)
	if !valid(v) {
		return "", fmt.Errorf("%s %q: %w", kind, s, ErrUnknownValue)
	}
	return v, nil
}

func labelOr(label, fallback string) string {
	if label == "" {
		return fallback
	}
	return label
}
