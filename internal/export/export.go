// Package export renders engine output for one encounter as JSON, CSV,
// plain text or Markdown.
package export

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/Asdafers/healerguide/internal/ability"
	"github.com/Asdafers/healerguide/internal/engine"
)

// Format names an export encoding.
type Format string

const (
	FormatJSON     Format = "json"
	FormatCSV      Format = "csv"
	FormatText     Format = "text"
	FormatMarkdown Format = "markdown"
)

// ParseFormat accepts "json", "csv", "text" or "markdown" ("md").
func ParseFormat(s string) (Format, error) {
	switch f := Format(s); f {
	case FormatJSON, FormatCSV, FormatText, FormatMarkdown:
		return f, nil
	case "md":
		return FormatMarkdown, nil
	}
	return "", fmt.Errorf("unknown export format %q (want json, csv, text or markdown)", s)
}

// AbilityReport is every derived view of one ability.
type AbilityReport struct {
	Ability        ability.Record             `json:"ability"`
	Classification engine.Classification      `json:"classification"`
	Actions        []engine.RecommendedAction `json:"actions"`
	Validation     engine.ValidationResult    `json:"validation"`
	Priority       int                        `json:"priority"`
	DisplayHint    engine.DisplayHint         `json:"display_hint"`
}

// Document is a full encounter export.
type Document struct {
	Encounter ability.Encounter      `json:"encounter"`
	Analysis  *engine.DamageAnalysis `json:"analysis,omitempty"`
	Abilities []AbilityReport        `json:"abilities"`
}

// BuildReports derives a report for every ability, in healer priority order.
func BuildReports(e *engine.Engine, abilities []ability.Record) []AbilityReport {
	sorted := engine.SortByPriority(abilities)
	reports := make([]AbilityReport, 0, len(sorted))
	for _, a := range sorted {
		reports = append(reports, AbilityReport{
			Ability:        a,
			Classification: e.Classify(a),
			Actions:        engine.RecommendedActions(a.DamageTier),
			Validation:     e.Validate(a),
			Priority:       engine.PriorityScore(a),
			DisplayHint:    engine.DisplayHintFor(a),
		})
	}
	return reports
}

// BuildDocument analyzes an encounter and builds its export. An encounter
// with no abilities exports without an analysis.
func BuildDocument(e *engine.Engine, enc ability.Encounter, abilities []ability.Record) Document {
	doc := Document{
		Encounter: enc,
		Abilities: BuildReports(e, abilities),
	}
	if analysis, err := e.Analyze(abilities); err == nil {
		doc.Analysis = &analysis
	}
	return doc
}

// Write encodes doc in the given format.
func Write(w io.Writer, f Format, doc Document) error {
	switch f {
	case FormatJSON:
		return WriteJSON(w, doc)
	case FormatCSV:
		return WriteCSV(w, doc.Abilities)
	case FormatText:
		return WriteText(w, doc)
	case FormatMarkdown:
		return WriteMarkdown(w, doc)
	}
	return fmt.Errorf("unknown export format %q", f)
}

// WriteJSON writes v as indented JSON.
func WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
