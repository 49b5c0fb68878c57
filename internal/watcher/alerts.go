package watcher

import (
	"fmt"
	"sort"
	"time"
)

// Compare detects notable changes between two content states and returns
// alerts, critical first.
func Compare(prev, curr *ContentState) []Alert {
	var alerts []Alert

	alerts = append(alerts, compareCritical(prev, curr)...)
	alerts = append(alerts, compareWarning(prev, curr)...)
	alerts = append(alerts, compareInfo(prev, curr)...)

	return alerts
}

func loadFailed(s *ContentState) Alert {
	return Alert{
		Level:   LevelCritical,
		Title:   "Content failed to load",
		Message: s.LoadError,
		Time:    s.Timestamp,
	}
}

// compareCritical detects load failures and new validation errors.
func compareCritical(prev, curr *ContentState) []Alert {
	var alerts []Alert
	now := time.Now()

	if curr.LoadError != "" && curr.LoadError != prev.LoadError {
		alerts = append(alerts, loadFailed(curr))
	}

	for _, id := range sortedIDs(curr.Abilities) {
		c := curr.Abilities[id]
		p := prev.Abilities[id]
		if c.Errors > p.Errors {
			alerts = append(alerts, Alert{
				Level:   LevelCritical,
				Title:   fmt.Sprintf("Validation errors: %s", c.Name),
				Message: fmt.Sprintf("%d error(s) in encounter %s (was %d)", c.Errors, c.EncounterID, p.Errors),
				Time:    now,
			})
		}
	}

	return alerts
}

// compareWarning detects new validation warnings.
func compareWarning(prev, curr *ContentState) []Alert {
	var alerts []Alert
	now := time.Now()

	for _, id := range sortedIDs(curr.Abilities) {
		c := curr.Abilities[id]
		p := prev.Abilities[id]
		if c.Warnings > p.Warnings {
			alerts = append(alerts, Alert{
				Level:   LevelWarning,
				Title:   fmt.Sprintf("Validation warnings: %s", c.Name),
				Message: fmt.Sprintf("%d warning(s) in encounter %s (was %d)", c.Warnings, c.EncounterID, p.Warnings),
				Time:    now,
			})
		}
	}

	return alerts
}

// compareInfo detects recoveries, added and removed abilities, and resolved
// errors.
func compareInfo(prev, curr *ContentState) []Alert {
	var alerts []Alert
	now := time.Now()

	if prev.LoadError != "" && curr.LoadError == "" {
		alerts = append(alerts, Alert{
			Level:   LevelInfo,
			Title:   "Content loaded",
			Message: fmt.Sprintf("%d file(s), %d abilities", curr.Files, len(curr.Abilities)),
			Time:    now,
		})
	}

	for _, id := range sortedIDs(curr.Abilities) {
		c := curr.Abilities[id]
		p, existed := prev.Abilities[id]
		switch {
		case !existed && prev.LoadError != "":
			// Covered by the "Content loaded" alert.
		case !existed:
			alerts = append(alerts, Alert{
				Level:   LevelInfo,
				Title:   fmt.Sprintf("Ability added: %s", c.Name),
				Message: fmt.Sprintf("Encounter %s now has %d abilities", c.EncounterID, curr.Encounters[c.EncounterID]),
				Time:    now,
			})
		case p.Errors > 0 && c.Errors < p.Errors:
			alerts = append(alerts, Alert{
				Level:   LevelInfo,
				Title:   fmt.Sprintf("Validation errors resolved: %s", c.Name),
				Message: fmt.Sprintf("Errors decreased from %d to %d", p.Errors, c.Errors),
				Time:    now,
			})
		}
	}

	for _, id := range sortedIDs(prev.Abilities) {
		if _, ok := curr.Abilities[id]; ok {
			continue
		}
		p := prev.Abilities[id]
		alerts = append(alerts, Alert{
			Level:   LevelInfo,
			Title:   fmt.Sprintf("Ability removed: %s", p.Name),
			Message: fmt.Sprintf("Encounter %s now has %d abilities", p.EncounterID, curr.Encounters[p.EncounterID]),
			Time:    now,
		})
	}

	return alerts
}

func sortedIDs(m map[string]AbilityStatus) []string {
	ids := make([]string, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
