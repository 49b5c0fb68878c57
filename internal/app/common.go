package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/Asdafers/healerguide/internal/ability"
	"github.com/Asdafers/healerguide/internal/engine"
	"github.com/Asdafers/healerguide/internal/export"
	"github.com/Asdafers/healerguide/internal/output"
	"github.com/Asdafers/healerguide/internal/store"
)

// newEngine builds an engine with the configured known-critical table.
func newEngine() *engine.Engine {
	return engine.New(engine.Options{KnownCritical: appCfg.KnownCritical})
}

// openStore opens the configured database, creating it if needed.
func openStore() (*store.DB, error) {
	db, err := store.Open(appCfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening database %s: %w", appCfg.DBPath, err)
	}
	return db, nil
}

// writeJSON writes v as indented JSON to the command's output.
func writeJSON(cmd *cobra.Command, v any) error {
	return export.WriteJSON(cmd.OutOrStdout(), v)
}

// loadEncounter fetches an encounter and its abilities. An unknown ID is
// reported by name rather than as a bare not-found error.
func loadEncounter(ctx context.Context, db *store.DB, id string) (ability.Encounter, []ability.Record, error) {
	enc, err := db.GetEncounter(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return enc, nil, fmt.Errorf("encounter %q not found (see 'healerguide list')", id)
	}
	if err != nil {
		return enc, nil, err
	}
	abilities, err := db.FetchAbilitiesForEncounter(ctx, id)
	if err != nil {
		return enc, nil, err
	}
	return enc, abilities, nil
}

func formatCooldown(cd *float64) string {
	if cd == nil {
		return "-"
	}
	return strconv.FormatFloat(*cd, 'f', -1, 64) + "s"
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

// printIssues renders validation issues, one per line, colored by severity.
func printIssues(w io.Writer, indent string, issues []engine.ValidationIssue) {
	for _, is := range issues {
		style := output.StyleMuted
		switch is.Severity {
		case engine.SeverityError:
			style = output.StyleError
		case engine.SeverityWarning:
			style = output.StyleWarning
		}
		fmt.Fprintf(w, "%s%s %s\n", indent, style.Render(string(is.Severity)+":"), is.Message)
	}
}
