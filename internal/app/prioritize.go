package app

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/Asdafers/healerguide/internal/engine"
	"github.com/Asdafers/healerguide/internal/output"
)

var (
	prioritizeKeyOnly bool
	prioritizeLimit   int
)

var prioritizeCmd = &cobra.Command{
	Use:   "prioritize <encounter-id>",
	Short: "Encounter abilities in healer priority order",
	Long: `Rank an encounter's abilities for a healer: key mechanics first, then by
damage tier, ties broken by the authored display order.`,
	Args: cobra.ExactArgs(1),
	RunE: runPrioritize,
}

func init() {
	prioritizeCmd.Flags().BoolVar(&prioritizeKeyOnly, "key-only", false, "Only show key mechanics")
	prioritizeCmd.Flags().IntVar(&prioritizeLimit, "limit", 0, "Show at most N abilities (0 = all)")
	rootCmd.AddCommand(prioritizeCmd)
}

func runPrioritize(cmd *cobra.Command, args []string) error {
	if prioritizeLimit < 0 {
		return fmt.Errorf("--limit must not be negative, got %d", prioritizeLimit)
	}
	db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	enc, abilities, err := loadEncounter(cmd.Context(), db, args[0])
	if err != nil {
		return err
	}
	if prioritizeKeyOnly {
		abilities = engine.KeyMechanics(abilities)
	}
	ranked := newEngine().PrioritizeForHealer(abilities)
	if prioritizeLimit > 0 && len(ranked) > prioritizeLimit {
		ranked = ranked[:prioritizeLimit]
	}

	if flagJSON {
		return writeJSON(cmd, ranked)
	}
	w := cmd.OutOrStdout()
	fmt.Fprintln(w, output.Section(enc.Name+": healer priority"))
	fmt.Fprintln(w)
	if len(ranked) == 0 {
		fmt.Fprintln(w, " No abilities to show.")
		return nil
	}
	rankedTable(ranked).WriteTo(w)
	return nil
}

// rankedTable renders prioritized abilities, each name styled by its
// display hint.
func rankedTable(ranked []engine.PrioritizedAbility) *output.Table {
	tbl := output.NewTable("#", "Priority", "Ability", "Tier", "Urgency", "Reason").AlignRight(0, 1)
	for i, p := range ranked {
		tbl.AddRow(
			strconv.Itoa(i+1),
			output.PriorityBar(p.Priority, p.Ability.DamageTier, 0),
			output.HintStyle(p.DisplayHint).Render(p.Ability.Name),
			output.Tier(p.Ability.DamageTier),
			p.Classification.Urgency.String(),
			p.Reasoning,
		)
	}
	return tbl
}
