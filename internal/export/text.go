package export

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

// WriteText writes a plain, field-labelled report meant for reading or
// pasting into notes.
func WriteText(w io.Writer, doc Document) error {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Encounter: %s\n", doc.Encounter.Name)
	if doc.Encounter.Summary != "" {
		fmt.Fprintf(&sb, "Summary: %s\n", doc.Encounter.Summary)
	}

	if a := doc.Analysis; a != nil {
		fmt.Fprintf(&sb, "\nHealing load: %s\n", a.HealingLoad)
		fmt.Fprintf(&sb, "Abilities: %d (%d key mechanics)\n", a.TotalAbilities, a.KeyMechanicCount)
		if a.AverageCooldownSeconds != nil {
			fmt.Fprintf(&sb, "Average cooldown: %ss\n", strconv.FormatFloat(*a.AverageCooldownSeconds, 'f', 1, 64))
		}
		for _, rec := range a.CooldownRecommendations {
			fmt.Fprintf(&sb, "Cooldown: %s, %s. %s\n", rec.CooldownName, rec.SuggestedTiming, rec.Rationale)
		}
	} else {
		sb.WriteString("\nNo abilities available for this encounter.\n")
	}

	for i, r := range doc.Abilities {
		a := r.Ability
		fmt.Fprintf(&sb, "\n%d. %s [%s]\n", i+1, a.Name, a.DamageTier.Label())
		fmt.Fprintf(&sb, "   Type: %s, targets %s\n", a.Type.Label(), a.Target.Label())
		fmt.Fprintf(&sb, "   Priority: %d (%s)\n", r.Priority, r.DisplayHint)
		fmt.Fprintf(&sb, "   Urgency: %s, complexity: %s, impact: %s\n",
			r.Classification.Urgency, r.Classification.Complexity, r.Classification.Impact)
		fmt.Fprintf(&sb, "   Prepare: %s\n", r.Classification.PreparationText)
		if a.HealerAction != "" {
			fmt.Fprintf(&sb, "   Healer action: %s\n", a.HealerAction)
		}
		if a.CriticalInsight != "" {
			fmt.Fprintf(&sb, "   Insight: %s\n", a.CriticalInsight)
		}
		for _, act := range r.Actions {
			fmt.Fprintf(&sb, "   - %s (%s, %s): %s\n", act.Kind, act.Timing, act.Timing.Window(), act.Description)
		}
		for _, is := range r.Validation.Issues {
			fmt.Fprintf(&sb, "   ! %s: %s\n", is.Severity, is.Message)
		}
	}

	_, err := io.WriteString(w, sb.String())
	return err
}
