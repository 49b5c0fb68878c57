package app

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Asdafers/healerguide/internal/ability"
	"github.com/Asdafers/healerguide/internal/engine"
	"github.com/Asdafers/healerguide/internal/output"
)

var validateStrict bool

// errValidationFailed is returned by validate --strict when any ability has
// an error-severity issue.
var errValidationFailed = errors.New("content has validation errors")

var validateCmd = &cobra.Command{
	Use:   "validate [encounter-id]",
	Short: "Report content problems",
	Long: `Check every imported ability (or those of one encounter) for missing
healer guidance and for tiers that disagree with the known-critical table.
Issues never block other commands; use --strict to exit non-zero when any
error-severity issue is found, for example in CI.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runValidate,
}

func init() {
	validateCmd.Flags().BoolVar(&validateStrict, "strict", false, "Exit non-zero when any ability has an error")
	rootCmd.AddCommand(validateCmd)
}

type abilityValidation struct {
	AbilityID   string `json:"ability_id"`
	Name        string `json:"name"`
	EncounterID string `json:"encounter_id"`
	engine.ValidationResult
}

type validateOutput struct {
	Abilities []abilityValidation `json:"abilities"`
	Errors    int                 `json:"errors"`
	Warnings  int                 `json:"warnings"`
	Info      int                 `json:"info"`
}

func runValidate(cmd *cobra.Command, args []string) error {
	db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	var abilities []ability.Record
	if len(args) == 1 {
		_, abilities, err = loadEncounter(cmd.Context(), db, args[0])
	} else {
		abilities, err = db.AllAbilities(cmd.Context())
	}
	if err != nil {
		return err
	}

	eng := newEngine()
	out := validateOutput{Abilities: []abilityValidation{}}
	for _, a := range abilities {
		v := eng.Validate(a)
		out.Errors += v.Count(engine.SeverityError)
		out.Warnings += v.Count(engine.SeverityWarning)
		out.Info += v.Count(engine.SeverityInfo)
		if len(v.Issues) == 0 {
			continue
		}
		out.Abilities = append(out.Abilities, abilityValidation{
			AbilityID:        a.ID,
			Name:             a.Name,
			EncounterID:      a.EncounterID,
			ValidationResult: v,
		})
	}

	if flagJSON {
		if err := writeJSON(cmd, out); err != nil {
			return err
		}
	} else {
		renderValidation(cmd, len(abilities), out)
	}

	if validateStrict && out.Errors > 0 {
		return fmt.Errorf("%w: %d error(s)", errValidationFailed, out.Errors)
	}
	return nil
}

func renderValidation(cmd *cobra.Command, checked int, out validateOutput) {
	w := cmd.OutOrStdout()
	fmt.Fprintln(w, output.Section("Validation"))
	fmt.Fprintln(w)
	for _, av := range out.Abilities {
		status := output.StyleSuccess.Render("✓")
		if !av.IsValid {
			status = output.StyleError.Render("✗")
		}
		fmt.Fprintf(w, "  %s %s %s\n", status, output.StyleBold.Render(av.Name), output.StyleMuted.Render("("+av.AbilityID+")"))
		printIssues(w, "      ", av.Issues)
		for _, rec := range av.Recommendations {
			fmt.Fprintf(w, "      %s %s\n", output.StyleMuted.Render("→"), rec)
		}
	}
	if len(out.Abilities) > 0 {
		fmt.Fprintln(w)
	}

	summary := fmt.Sprintf("%d abilities checked: %d error(s), %d warning(s), %d info",
		checked, out.Errors, out.Warnings, out.Info)
	switch {
	case out.Errors > 0:
		fmt.Fprintf(w, " %s\n", output.StyleError.Render(summary))
	case out.Warnings > 0:
		fmt.Fprintf(w, " %s\n", output.StyleWarning.Render(summary))
	default:
		fmt.Fprintf(w, " %s\n", output.StyleSuccess.Render(summary))
	}
}
