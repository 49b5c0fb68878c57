package export

import (
	"encoding/csv"
	"io"
	"strconv"
	"strings"

	"github.com/Asdafers/healerguide/internal/engine"
)

var csvHeader = []string{
	"id", "name", "type", "target", "damage_tier", "cooldown_seconds",
	"key_mechanic", "display_order", "urgency", "complexity", "impact",
	"priority", "display_hint", "valid", "issue_count", "issues",
	"healer_action", "preparation",
}

// WriteCSV writes one row per report.
func WriteCSV(w io.Writer, reports []AbilityReport) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, r := range reports {
		if err := cw.Write(csvRow(r)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func csvRow(r AbilityReport) []string {
	a := r.Ability
	cooldown := ""
	if a.CooldownSeconds != nil {
		cooldown = strconv.FormatFloat(*a.CooldownSeconds, 'f', -1, 64)
	}
	return []string{
		a.ID,
		a.Name,
		string(a.Type),
		string(a.Target),
		string(a.DamageTier),
		cooldown,
		strconv.FormatBool(a.IsKeyMechanic),
		strconv.Itoa(a.DisplayOrder),
		r.Classification.Urgency.String(),
		r.Classification.Complexity.String(),
		r.Classification.Impact.String(),
		strconv.Itoa(r.Priority),
		string(r.DisplayHint),
		strconv.FormatBool(r.Validation.IsValid),
		strconv.Itoa(len(r.Validation.Issues)),
		issueList(r.Validation.Issues),
		a.HealerAction,
		r.Classification.PreparationText,
	}
}

func issueList(issues []engine.ValidationIssue) string {
	parts := make([]string, 0, len(issues))
	for _, is := range issues {
		parts = append(parts, string(is.Severity)+":"+is.Field)
	}
	return strings.Join(parts, ";")
}
