package content

import (
	"fmt"
	"strings"

	"github.com/Asdafers/healerguide/internal/ability"
)

// resolve turns a decoded document into records, filling generated IDs and
// default orders and collecting every structural problem.
func resolve(doc fileDoc, source string) (ability.Pack, error) {
	ve := &ValidationError{Source: source}
	var pack ability.Pack

	for di, dd := range doc.Dungeons {
		name := strings.TrimSpace(dd.Name)
		if name == "" {
			ve.addf("dungeon #%d: name is required", di+1)
			continue
		}
		d := ability.Dungeon{
			ID:               strings.TrimSpace(dd.ID),
			Name:             name,
			ShortName:        dd.ShortName,
			Difficulty:       dd.Difficulty,
			EstimatedMinutes: dd.EstimatedMinutes,
			Notes:            dd.Notes,
		}
		if d.ID == "" {
			d.ID = generateID("", name)
		}
		pack.Dungeons = append(pack.Dungeons, d)

		encounterNames := make(map[string]bool)
		for ei, ed := range dd.Encounters {
			e, ok := resolveEncounter(ve, d, ei, ed)
			if !ok {
				continue
			}
			key := strings.ToLower(e.Name)
			if encounterNames[key] {
				ve.addf("dungeon %q: duplicate encounter name %q", d.Name, e.Name)
			}
			encounterNames[key] = true
			pack.Encounters = append(pack.Encounters, e)
			pack.Abilities = append(pack.Abilities, resolveAbilities(ve, e, ed.Abilities)...)
		}
	}

	if err := ve.orNil(); err != nil {
		return ability.Pack{}, err
	}
	return pack, nil
}

func resolveEncounter(ve *ValidationError, d ability.Dungeon, index int, ed encounterDoc) (ability.Encounter, bool) {
	name := strings.TrimSpace(ed.Name)
	if name == "" {
		ve.addf("dungeon %q encounter #%d: name is required", d.Name, index+1)
		return ability.Encounter{}, false
	}
	e := ability.Encounter{
		ID:        strings.TrimSpace(ed.ID),
		DungeonID: d.ID,
		Name:      name,
		Order:     index + 1,
		Summary:   ed.Summary,
	}
	if ed.Order != nil {
		e.Order = *ed.Order
	}
	if e.ID == "" {
		e.ID = generateID(d.ID, name)
	}
	return e, true
}

func resolveAbilities(ve *ValidationError, e ability.Encounter, docs []abilityDoc) []ability.Record {
	var out []ability.Record
	names := make(map[string]bool)
	orders := make(map[int]string)

	for i, ad := range docs {
		where := fmt.Sprintf("%s ability #%d", e.Name, i+1)
		name := strings.TrimSpace(ad.Name)
		if name == "" {
			ve.addf("%s: name is required", where)
			continue
		}
		where = fmt.Sprintf("%s ability %q", e.Name, name)

		a := ability.Record{
			ID:              strings.TrimSpace(ad.ID),
			EncounterID:     e.ID,
			Name:            name,
			HealerAction:    strings.TrimSpace(ad.HealerAction),
			CriticalInsight: strings.TrimSpace(ad.CriticalInsight),
			CooldownSeconds: ad.CooldownSeconds,
			DisplayOrder:    i + 1,
			IsKeyMechanic:   ad.KeyMechanic,
		}
		if a.ID == "" {
			a.ID = generateID(e.ID, name)
		}
		if ad.DisplayOrder != nil {
			a.DisplayOrder = *ad.DisplayOrder
		}

		var err error
		if a.Type, err = ability.ParseType(ad.Type); err != nil {
			ve.addf("%s: %v", where, err)
		}
		if a.Target, err = ability.ParseTarget(ad.Target); err != nil {
			ve.addf("%s: %v", where, err)
		}
		if a.DamageTier, err = ability.ParseDamageTier(ad.DamageTier); err != nil {
			ve.addf("%s: %v", where, err)
		}
		if a.CooldownSeconds != nil && *a.CooldownSeconds < 0 {
			ve.addf("%s: cooldown_seconds must not be negative", where)
		}

		key := strings.ToLower(name)
		if names[key] {
			ve.addf("%s: duplicate ability name in encounter", where)
		}
		names[key] = true
		if prev, ok := orders[a.DisplayOrder]; ok {
			ve.addf("%s: display_order %d already used by %q", where, a.DisplayOrder, prev)
		} else {
			orders[a.DisplayOrder] = name
		}

		out = append(out, a)
	}
	return out
}
