package output

import (
	"fmt"
	"strings"

	"github.com/Asdafers/healerguide/internal/ability"
)

// maxPriority is the highest score the ranker can produce: a critical key
// mechanic.
const maxPriority = 14

// PriorityBar renders a bar for a priority score, colored by damage tier.
// Example: "██████████░░░░ 14"
func PriorityBar(score int, tier ability.DamageTier, width int) string {
	if width <= 0 {
		width = maxPriority
	}
	filled := score * width / maxPriority
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}

	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	return fmt.Sprintf("%s %s", TierStyle(tier).Render(bar), StyleMuted.Render(fmt.Sprintf("%d", score)))
}

// Section prints a styled section header with a horizontal rule.
func Section(title string) string {
	header := StyleHeader.Render(title)
	rule := StyleMuted.Render(strings.Repeat("─", 66))
	return fmt.Sprintf("\n %s\n %s", header, rule)
}

// Field renders one "label  value" line of a detail view.
func Field(label, value string) string {
	return fmt.Sprintf(" %s %s", StyleLabel.Render(label), value)
}
