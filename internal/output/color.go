// Package output provides styled terminal rendering helpers for healerguide.
package output

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"

	"github.com/Asdafers/healerguide/internal/ability"
	"github.com/Asdafers/healerguide/internal/engine"
)

// Color constants for consistent styling across the CLI.
var (
	// ColorPrimary is used for headers and emphasis.
	ColorPrimary = lipgloss.Color("#64b5f6")

	// ColorSuccess is used for positive indicators.
	ColorSuccess = lipgloss.Color("#66bb6a")

	// ColorError is used for errors and critical damage.
	ColorError = lipgloss.Color("#ef5350")

	// ColorWarning is used for caution indicators and moderate damage.
	ColorWarning = lipgloss.Color("#fff59d")

	// ColorHigh is used for high damage.
	ColorHigh = lipgloss.Color("#ffa726")

	// ColorMechanic is used for mechanic-tier abilities.
	ColorMechanic = lipgloss.Color("#ba68c8")

	// ColorMuted is used for secondary text and borders.
	ColorMuted = lipgloss.Color("#888888")
)

// Styles provides reusable lipgloss styles.
var (
	StyleHeader  lipgloss.Style
	StyleSuccess lipgloss.Style
	StyleError   lipgloss.Style
	StyleWarning lipgloss.Style
	StyleMuted   lipgloss.Style
	StyleBold    lipgloss.Style

	// StyleLabel is used for field labels in detail views.
	StyleLabel lipgloss.Style

	// StyleValue is used for field values in detail views.
	StyleValue lipgloss.Style
)

// tierStyles holds one style per damage tier.
var tierStyles map[ability.DamageTier]lipgloss.Style

func init() {
	applyStyles(true)
}

func applyStyles(color bool) {
	base := lipgloss.NewStyle()
	fg := func(c lipgloss.Color) lipgloss.Style {
		if !color {
			return base
		}
		return base.Foreground(c)
	}

	StyleHeader = fg(ColorPrimary).Bold(color)
	StyleSuccess = fg(ColorSuccess)
	StyleError = fg(ColorError)
	StyleWarning = fg(ColorWarning)
	StyleMuted = fg(ColorMuted)
	StyleBold = base.Bold(color)
	StyleLabel = base.Width(20)
	StyleValue = base.Bold(color)

	tierStyles = map[ability.DamageTier]lipgloss.Style{
		ability.TierCritical: fg(ColorError).Bold(color),
		ability.TierHigh:     fg(ColorHigh),
		ability.TierModerate: fg(ColorWarning),
		ability.TierMechanic: fg(ColorMechanic),
	}
}

// noColor tracks whether color output is disabled.
var noColor bool

// SetNoColor disables or enables color output globally.
func SetNoColor(disabled bool) {
	noColor = disabled
	applyStyles(!disabled)
}

// IsNoColor returns whether color output is currently disabled.
func IsNoColor() bool {
	return noColor
}

// ColorSupported reports whether f is a terminal that can show color.
// NO_COLOR in the environment always wins.
func ColorSupported(f *os.File) bool {
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	return IsTerminal(f)
}

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// TierStyle returns the fixed style for a damage tier. Unknown tiers render
// unstyled.
func TierStyle(tier ability.DamageTier) lipgloss.Style {
	if s, ok := tierStyles[tier]; ok {
		return s
	}
	return lipgloss.NewStyle()
}

// HintStyle returns the style a display hint asks for.
func HintStyle(hint engine.DisplayHint) lipgloss.Style {
	switch hint {
	case engine.HintHighlight:
		return TierStyle(ability.TierCritical)
	case engine.HintEmphasize:
		return StyleBold
	case engine.HintMuted:
		return StyleMuted
	default:
		return lipgloss.NewStyle()
	}
}

// Tier renders a damage tier label in its color.
func Tier(tier ability.DamageTier) string {
	return TierStyle(tier).Render(tier.Label())
}
