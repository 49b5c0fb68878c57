// Package content loads dungeon content packs from YAML files and resolves
// them into records ready for the store.
package content

// fileDoc is the on-disk shape of a content file.
type fileDoc struct {
	Dungeons []dungeonDoc `yaml:"dungeons"`
}

type dungeonDoc struct {
	ID               string         `yaml:"id"`
	Name             string         `yaml:"name"`
	ShortName        string         `yaml:"short_name"`
	Difficulty       string         `yaml:"difficulty"`
	EstimatedMinutes int            `yaml:"estimated_minutes"`
	Notes            string         `yaml:"notes"`
	Encounters       []encounterDoc `yaml:"encounters"`
}

type encounterDoc struct {
	ID        string       `yaml:"id"`
	Name      string       `yaml:"name"`
	Order     *int         `yaml:"order"`
	Summary   string       `yaml:"summary"`
	Abilities []abilityDoc `yaml:"abilities"`
}

type abilityDoc struct {
	ID              string   `yaml:"id"`
	Name            string   `yaml:"name"`
	Type            string   `yaml:"type"`
	Target          string   `yaml:"target"`
	DamageTier      string   `yaml:"damage_tier"`
	HealerAction    string   `yaml:"healer_action"`
	CriticalInsight string   `yaml:"critical_insight"`
	CooldownSeconds *float64 `yaml:"cooldown_seconds"`
	DisplayOrder    *int     `yaml:"display_order"`
	KeyMechanic     bool     `yaml:"key_mechanic"`
}
