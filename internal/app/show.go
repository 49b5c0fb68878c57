package app

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/Asdafers/healerguide/internal/ability"
	"github.com/Asdafers/healerguide/internal/export"
	"github.com/Asdafers/healerguide/internal/output"
	"github.com/Asdafers/healerguide/internal/store"
)

var showCmd = &cobra.Command{
	Use:   "show <ability-id>",
	Short: "Classify and validate a single ability",
	Long: `Show everything healerguide derives for one ability: its urgency,
complexity and impact, the preparation text, the recommended actions for its
damage tier, its priority, and any content problems.`,
	Args: cobra.ExactArgs(1),
	RunE: runShow,
}

func init() {
	rootCmd.AddCommand(showCmd)
}

func runShow(cmd *cobra.Command, args []string) error {
	db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	a, err := db.FetchAbilityByID(cmd.Context(), args[0])
	if errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("ability %q not found (try 'healerguide search')", args[0])
	}
	if err != nil {
		return err
	}

	report := export.BuildReports(newEngine(), []ability.Record{a})[0]
	if flagJSON {
		return writeJSON(cmd, report)
	}

	w := cmd.OutOrStdout()
	c := report.Classification
	fmt.Fprintln(w, output.Section(a.Name))
	fmt.Fprintln(w)
	fmt.Fprintln(w, output.Field("Damage tier", output.Tier(a.DamageTier)))
	fmt.Fprintln(w, output.Field("Type", a.Type.Label()))
	fmt.Fprintln(w, output.Field("Target", a.Target.Label()))
	fmt.Fprintln(w, output.Field("Cooldown", formatCooldown(a.CooldownSeconds)))
	fmt.Fprintln(w, output.Field("Key mechanic", yesNo(a.IsKeyMechanic)))
	fmt.Fprintln(w, output.Field("Priority", output.PriorityBar(report.Priority, a.DamageTier, 0)))
	fmt.Fprintln(w)
	fmt.Fprintln(w, output.Field("Urgency", output.StyleValue.Render(c.Urgency.String())))
	fmt.Fprintln(w, output.Field("Complexity", output.StyleValue.Render(c.Complexity.String())))
	fmt.Fprintln(w, output.Field("Impact", output.StyleValue.Render(c.Impact.String())))
	fmt.Fprintln(w, output.Field("Prepare", c.PreparationText))
	if a.HealerAction != "" {
		fmt.Fprintln(w, output.Field("Healer action", a.HealerAction))
	}
	if a.CriticalInsight != "" {
		fmt.Fprintln(w, output.Field("Insight", a.CriticalInsight))
	}

	fmt.Fprintln(w, output.Section("Recommended actions"))
	fmt.Fprintln(w)
	tbl := output.NewTable("#", "Action", "Timing", "Window", "Hint", "Description")
	for i, act := range report.Actions {
		tbl.AddRow(strconv.Itoa(i+1), string(act.Kind), string(act.Timing), act.Timing.Window(), act.KeybindHint, act.Description)
	}
	tbl.WriteTo(w)

	if len(report.Validation.Issues) > 0 {
		fmt.Fprintln(w, output.Section("Content issues"))
		fmt.Fprintln(w)
		printIssues(w, "  ", report.Validation.Issues)
		for _, rec := range report.Validation.Recommendations {
			fmt.Fprintf(w, "  %s %s\n", output.StyleMuted.Render("→"), rec)
		}
	}
	return nil
}
