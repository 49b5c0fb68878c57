// Package engine classifies boss abilities for healers. It turns ability
// records into urgency/complexity/impact classifications, recommended
// responses, content-relevance reports, per-encounter damage analysis and a
// priority ranking.
//
// Every operation is a pure function of its arguments. An Engine holds only
// the immutable known-critical name table and may be shared freely between
// goroutines.
package engine

import (
	"fmt"

	"github.com/Asdafers/healerguide/internal/ability"
)

// Urgency is how quickly a healer must respond to an ability.
type Urgency int

const (
	UrgencyLow Urgency = iota + 1
	UrgencyModerate
	UrgencyHigh
	UrgencyImmediate
)

// Complexity is how many steps the healer's response takes.
type Complexity int

const (
	ComplexitySimple Complexity = iota + 1
	ComplexityModerate
	ComplexityComplex
	ComplexityExtreme
)

// Impact is how severe the consequence of mishandling an ability is.
type Impact int

const (
	ImpactLow Impact = iota + 1
	ImpactModerate
	ImpactHigh
	ImpactCritical
)

// levelMeta is the static metadata attached to each classification level.
type levelMeta struct {
	name   string
	phrase string
}

var urgencyTable = map[Urgency]levelMeta{
	UrgencyImmediate: {"immediate", "React instantly"},
	UrgencyHigh:      {"high", "Monitor closely, fast response"},
	UrgencyModerate:  {"moderate", "Plan response"},
	UrgencyLow:       {"low", "Monitor passively"},
}

var complexityTable = map[Complexity]levelMeta{
	ComplexitySimple:   {"simple", "Single response sufficient"},
	ComplexityModerate: {"moderate", "Requires positioning and healing"},
	ComplexityComplex:  {"complex", "Multi-step response required"},
	ComplexityExtreme:  {"extreme", "Coordinate with team — instant response, multi-step"},
}

var impactTable = map[Impact]levelMeta{
	ImpactLow:      {"low", ""},
	ImpactModerate: {"moderate", ""},
	ImpactHigh:     {"high", ""},
	ImpactCritical: {"critical", ""},
}

func (u Urgency) String() string    { return levelName(urgencyTable, u) }
func (c Complexity) String() string { return levelName(complexityTable, c) }
func (i Impact) String() string     { return levelName(impactTable, i) }

// Phrase returns the preparation instruction for the urgency level.
func (u Urgency) Phrase() string { return urgencyTable[u].phrase }

// Phrase returns the preparation instruction for the complexity level.
func (c Complexity) Phrase() string { return complexityTable[c].phrase }

func (u Urgency) MarshalText() ([]byte, error)    { return []byte(u.String()), nil }
func (c Complexity) MarshalText() ([]byte, error) { return []byte(c.String()), nil }
func (i Impact) MarshalText() ([]byte, error)     { return []byte(i.String()), nil }

func (u *Urgency) UnmarshalText(b []byte) error    { return unmarshalLevel(urgencyTable, b, u) }
func (c *Complexity) UnmarshalText(b []byte) error { return unmarshalLevel(complexityTable, b, c) }
func (i *Impact) UnmarshalText(b []byte) error     { return unmarshalLevel(impactTable, b, i) }

func levelName[L ~int](table map[L]levelMeta, l L) string {
	if m, ok := table[l]; ok {
		return m.name
	}
	return fmt.Sprintf("level(%d)", int(l))
}

func unmarshalLevel[L ~int](table map[L]levelMeta, b []byte, out *L) error {
	for l, m := range table {
		if m.name == string(b) {
			*out = l
			return nil
		}
	}
	return fmt.Errorf("unknown level %q", string(b))
}

// Classification is the derived view of a single ability. It is recomputed
// on demand and never stored.
type Classification struct {
	Urgency         Urgency    `json:"urgency"`
	Complexity      Complexity `json:"complexity"`
	Impact          Impact     `json:"impact"`
	PreparationText string     `json:"preparation_text"`
}

// ActionKind is the kind of response a healer performs.
type ActionKind string

const (
	ActionPreHeal      ActionKind = "pre-heal"
	ActionReactiveHeal ActionKind = "reactive-heal"
	ActionCooldownUse  ActionKind = "cooldown-use"
	ActionPositioning  ActionKind = "positioning"
	ActionDispel       ActionKind = "dispel"
	ActionInterrupt    ActionKind = "interrupt"
)

// Timing is the response window for an action.
type Timing string

const (
	TimingImmediate Timing = "immediate"
	TimingFast      Timing = "fast"
	TimingPlanned   Timing = "planned"
)

var timingWindows = map[Timing]string{
	TimingImmediate: "<1s",
	TimingFast:      "1-3s",
	TimingPlanned:   "3s+",
}

// Window returns the reaction window the timing stands for, e.g. "<1s".
func (t Timing) Window() string { return timingWindows[t] }

// RecommendedAction is one canned response to a damage tier.
type RecommendedAction struct {
	Kind        ActionKind `json:"kind"`
	Timing      Timing     `json:"timing"`
	Description string     `json:"description"`
	KeybindHint string     `json:"keybind_hint,omitempty"`
}

// Severity grades a validation issue.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// ValidationIssue is one content-quality finding for an ability.
type ValidationIssue struct {
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
	Field    string   `json:"field,omitempty"`
}

// ValidationResult is the outcome of checking one ability.
type ValidationResult struct {
	IsValid         bool              `json:"is_valid"`
	Issues          []ValidationIssue `json:"issues"`
	Recommendations []string          `json:"recommendations"`
}

// HasSeverity reports whether any issue has the given severity.
func (r ValidationResult) HasSeverity(s Severity) bool {
	for _, issue := range r.Issues {
		if issue.Severity == s {
			return true
		}
	}
	return false
}

// Count returns the number of issues with the given severity.
func (r ValidationResult) Count(s Severity) int {
	n := 0
	for _, issue := range r.Issues {
		if issue.Severity == s {
			n++
		}
	}
	return n
}

// HealingLoad estimates how demanding sustained healing is for an encounter.
type HealingLoad string

const (
	HealingLoadLight    HealingLoad = "light"
	HealingLoadModerate HealingLoad = "moderate"
	HealingLoadHeavy    HealingLoad = "heavy"
	HealingLoadBurst    HealingLoad = "burst"
)

// CooldownRecommendation suggests when to spend a cooldown.
type CooldownRecommendation struct {
	CooldownName     string   `json:"cooldown_name"`
	SuggestedTiming  string   `json:"suggested_timing"`
	TargetAbilityIDs []string `json:"target_ability_ids"`
	Rationale        string   `json:"rationale"`
}

// AbilityTiming is the recorded cadence of one ability.
type AbilityTiming struct {
	AbilityID       string  `json:"ability_id"`
	Name            string  `json:"name"`
	CooldownSeconds float64 `json:"cooldown_seconds"`
}

// DamageAnalysis aggregates the abilities of one encounter.
type DamageAnalysis struct {
	TotalAbilities          int                        `json:"total_abilities"`
	Distribution            map[ability.DamageTier]int `json:"distribution"`
	HealingLoad             HealingLoad                `json:"healing_load"`
	KeyMechanicCount        int                        `json:"key_mechanic_count"`
	AverageCooldownSeconds  *float64                   `json:"average_cooldown_seconds,omitempty"`
	Timings                 []AbilityTiming            `json:"timings"`
	CooldownRecommendations []CooldownRecommendation   `json:"cooldown_recommendations"`
}

// DisplayHint tells the renderer how prominently to show an ability.
type DisplayHint string

const (
	HintHighlight DisplayHint = "highlight"
	HintEmphasize DisplayHint = "emphasize"
	HintStandard  DisplayHint = "standard"
	HintMuted     DisplayHint = "muted"
)

// PrioritizedAbility is an ability placed in healer priority order.
type PrioritizedAbility struct {
	Ability        ability.Record `json:"ability"`
	Priority       int            `json:"priority"`
	Reasoning      string         `json:"reasoning"`
	DisplayHint    DisplayHint    `json:"display_hint"`
	Classification Classification `json:"classification"`
}
