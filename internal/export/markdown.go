package export

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/Asdafers/healerguide/internal/ability"
)

// WriteMarkdown writes the encounter as a Markdown guide: a damage profile
// table followed by one section per ability in priority order.
func WriteMarkdown(w io.Writer, doc Document) error {
	var sb strings.Builder

	fmt.Fprintf(&sb, "# %s\n\n", mdEscape(doc.Encounter.Name))
	if doc.Encounter.Summary != "" {
		fmt.Fprintf(&sb, "> %s\n\n", mdEscape(doc.Encounter.Summary))
	}

	a := doc.Analysis
	if a == nil {
		sb.WriteString("_No abilities available for this encounter._\n")
		_, err := io.WriteString(w, sb.String())
		return err
	}

	sb.WriteString("## Damage profile\n\n")
	fmt.Fprintf(&sb, "- **Healing load:** %s\n", a.HealingLoad)
	fmt.Fprintf(&sb, "- **Abilities:** %d (%d key mechanics)\n", a.TotalAbilities, a.KeyMechanicCount)
	if a.AverageCooldownSeconds != nil {
		fmt.Fprintf(&sb, "- **Average cooldown:** %ss\n", strconv.FormatFloat(*a.AverageCooldownSeconds, 'f', 1, 64))
	}
	sb.WriteString("\n| Tier | Count |\n|---|---:|\n")
	for _, tier := range ability.AllDamageTiers() {
		fmt.Fprintf(&sb, "| %s | %d |\n", tier.Label(), a.Distribution[tier])
	}

	if len(a.CooldownRecommendations) > 0 {
		sb.WriteString("\n### Cooldown plan\n\n")
		for _, rec := range a.CooldownRecommendations {
			fmt.Fprintf(&sb, "- **%s**, %s: %s\n", mdEscape(rec.CooldownName), rec.SuggestedTiming, mdEscape(rec.Rationale))
		}
	}

	sb.WriteString("\n## Abilities\n")
	for _, r := range doc.Abilities {
		ab := r.Ability
		marker := ""
		if ab.IsKeyMechanic {
			marker = " ★"
		}
		fmt.Fprintf(&sb, "\n### %s%s\n\n", mdEscape(ab.Name), marker)
		fmt.Fprintf(&sb, "*%s %s, targets %s. Priority %d.*\n\n", ab.DamageTier.Label(), strings.ToLower(ab.Type.Label()), strings.ToLower(ab.Target.Label()), r.Priority)
		if ab.HealerAction != "" {
			fmt.Fprintf(&sb, "**Do:** %s\n\n", mdEscape(ab.HealerAction))
		}
		if ab.CriticalInsight != "" {
			fmt.Fprintf(&sb, "**Watch for:** %s\n\n", mdEscape(ab.CriticalInsight))
		}
		fmt.Fprintf(&sb, "**Prepare:** %s\n\n", r.Classification.PreparationText)
		for i, act := range r.Actions {
			fmt.Fprintf(&sb, "%d. %s (%s): %s\n", i+1, act.Kind, act.Timing.Window(), act.Description)
		}
		if len(r.Validation.Issues) > 0 {
			sb.WriteString("\n")
			for _, is := range r.Validation.Issues {
				fmt.Fprintf(&sb, "> **%s** %s\n", is.Severity, mdEscape(is.Message))
			}
		}
	}

	_, err := io.WriteString(w, sb.String())
	return err
}

var mdReplacer = strings.NewReplacer(`\`, `\\`, "*", `\*`, "_", `\_`, "`", "\\`", "|", `\|`, "#", `\#`)

// mdEscape neutralizes Markdown syntax in content-authored text. Line breaks
// collapse to single spaces so the text stays inside its paragraph or quote.
func mdEscape(s string) string {
	return mdReplacer.Replace(strings.Join(strings.Fields(s), " "))
}
