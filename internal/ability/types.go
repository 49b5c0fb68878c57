// Package ability defines the dungeon content records consumed by the
// classification engine: dungeons, boss encounters and their abilities.
package ability

// Record is a single boss ability as authored in dungeon content. Records are
// treated as immutable values; nothing downstream of the store modifies them.
type Record struct {
	ID              string     `json:"id"`
	EncounterID     string     `json:"encounter_id,omitempty"`
	Name            string     `json:"name"`
	Type            Type       `json:"type"`
	Target          Target     `json:"target"`
	DamageTier      DamageTier `json:"damage_tier"`
	HealerAction    string     `json:"healer_action"`
	CriticalInsight string     `json:"critical_insight"`
	CooldownSeconds *float64   `json:"cooldown_seconds,omitempty"`
	DisplayOrder    int        `json:"display_order"`
	IsKeyMechanic   bool       `json:"is_key_mechanic"`
}

// HasCooldown reports whether a cooldown was recorded. A zero cooldown is
// still a recorded cooldown.
func (r Record) HasCooldown() bool {
	return r.CooldownSeconds != nil
}

// Cooldown returns a pointer to v, for building records with a cooldown.
func Cooldown(v float64) *float64 {
	return &v
}

// Dungeon is a top-level content container.
type Dungeon struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	ShortName        string `json:"short_name,omitempty"`
	Difficulty       string `json:"difficulty,omitempty"`
	EstimatedMinutes int    `json:"estimated_minutes,omitempty"`
	Notes            string `json:"notes,omitempty"`
}

// Encounter is a boss fight within a dungeon.
type Encounter struct {
	ID        string `json:"id"`
	DungeonID string `json:"dungeon_id"`
	Name      string `json:"name"`
	Order     int    `json:"order"`
	Summary   string `json:"summary,omitempty"`
}

// Pack is a fully resolved bundle of content, ready to be written to the
// store in one transaction.
type Pack struct {
	Dungeons   []Dungeon   `json:"dungeons"`
	Encounters []Encounter `json:"encounters"`
	Abilities  []Record    `json:"abilities"`
}
