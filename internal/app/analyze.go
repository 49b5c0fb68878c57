package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Asdafers/healerguide/internal/ability"
	"github.com/Asdafers/healerguide/internal/engine"
	"github.com/Asdafers/healerguide/internal/output"
	"github.com/Asdafers/healerguide/internal/store"
)

var analyzeAll bool

// analyzeParallelism bounds concurrent encounter analyses for --all.
const analyzeParallelism = 4

var analyzeCmd = &cobra.Command{
	Use:   "analyze [encounter-id]",
	Short: "Damage profile and cooldown plan for an encounter",
	Long: `Aggregate an encounter's abilities into a damage-tier distribution, a
healing-load estimate, cooldown timings and cooldown recommendations, followed
by the abilities in healer priority order.

Examples:
  healerguide analyze avanoxx
  healerguide analyze --all --json`,
	Args: func(cmd *cobra.Command, args []string) error {
		if analyzeAll {
			return cobra.NoArgs(cmd, args)
		}
		return cobra.ExactArgs(1)(cmd, args)
	},
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().BoolVar(&analyzeAll, "all", false, "Analyze every encounter")
	rootCmd.AddCommand(analyzeCmd)
}

// encounterAnalysis is the analysis of one encounter. Analysis is nil when
// the encounter has no abilities; Message says so.
type encounterAnalysis struct {
	Encounter ability.Encounter           `json:"encounter"`
	Analysis  *engine.DamageAnalysis      `json:"analysis,omitempty"`
	Ranked    []engine.PrioritizedAbility `json:"ranked"`
	Message   string                      `json:"message,omitempty"`
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()
	eng := newEngine()
	ctx := cmd.Context()

	var results []encounterAnalysis
	if analyzeAll {
		results, err = analyzeEncounters(ctx, db, eng)
	} else {
		var r encounterAnalysis
		r, err = analyzeEncounter(ctx, db, eng, args[0])
		results = []encounterAnalysis{r}
	}
	if err != nil {
		return err
	}

	if flagJSON {
		if analyzeAll {
			return writeJSON(cmd, results)
		}
		return writeJSON(cmd, results[0])
	}
	w := cmd.OutOrStdout()
	for _, r := range results {
		renderAnalysis(w, r)
	}
	return nil
}

func analyzeEncounter(ctx context.Context, db *store.DB, eng *engine.Engine, id string) (encounterAnalysis, error) {
	enc, abilities, err := loadEncounter(ctx, db, id)
	if err != nil {
		return encounterAnalysis{}, err
	}
	return analyzeRecords(eng, enc, abilities)
}

func analyzeRecords(eng *engine.Engine, enc ability.Encounter, abilities []ability.Record) (encounterAnalysis, error) {
	r := encounterAnalysis{Encounter: enc, Ranked: eng.PrioritizeForHealer(abilities)}
	analysis, err := eng.Analyze(abilities)
	switch {
	case errors.Is(err, engine.ErrEmptySet):
		r.Message = capitalize(err.Error())
	case err != nil:
		return r, err
	default:
		r.Analysis = &analysis
	}
	return r, nil
}

// analyzeEncounters analyzes every encounter concurrently. Results keep the
// store's encounter order.
func analyzeEncounters(ctx context.Context, db *store.DB, eng *engine.Engine) ([]encounterAnalysis, error) {
	encounters, err := db.ListEncounters(ctx, "")
	if err != nil {
		return nil, err
	}

	results := make([]encounterAnalysis, len(encounters))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(analyzeParallelism)
	for i, enc := range encounters {
		g.Go(func() error {
			abilities, err := db.FetchAbilitiesForEncounter(ctx, enc.ID)
			if err != nil {
				return fmt.Errorf("encounter %s: %w", enc.ID, err)
			}
			r, err := analyzeRecords(eng, enc, abilities)
			if err != nil {
				return fmt.Errorf("encounter %s: %w", enc.ID, err)
			}
			results[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	logger.Debug("analyzed encounters", zap.Int("count", len(results)))
	return results, nil
}

func renderAnalysis(w io.Writer, r encounterAnalysis) {
	fmt.Fprintln(w, output.Section(r.Encounter.Name))
	fmt.Fprintln(w)

	a := r.Analysis
	if a == nil {
		fmt.Fprintf(w, " %s\n\n", output.StyleMuted.Render(r.Message))
		return
	}

	fmt.Fprintln(w, output.Field("Healing load", output.StyleValue.Render(string(a.HealingLoad))))
	fmt.Fprintln(w, output.Field("Abilities", strconv.Itoa(a.TotalAbilities)))
	fmt.Fprintln(w, output.Field("Key mechanics", strconv.Itoa(a.KeyMechanicCount)))
	fmt.Fprintln(w, output.Field("Average cooldown", formatCooldown(a.AverageCooldownSeconds)))
	fmt.Fprintln(w)

	dist := output.NewTable("Tier", "Count").AlignRight(1)
	for _, tier := range ability.AllDamageTiers() {
		dist.AddRow(output.Tier(tier), strconv.Itoa(a.Distribution[tier]))
	}
	dist.WriteTo(w)

	if len(a.Timings) > 0 {
		fmt.Fprintln(w)
		timings := output.NewTable("Ability", "Cooldown")
		for _, t := range a.Timings {
			timings.AddRow(t.Name, formatCooldown(&t.CooldownSeconds))
		}
		timings.WriteTo(w)
	}

	if len(a.CooldownRecommendations) > 0 {
		fmt.Fprintln(w, output.Section("Cooldown plan"))
		fmt.Fprintln(w)
		for _, rec := range a.CooldownRecommendations {
			fmt.Fprintf(w, "  %s %s\n", output.StyleBold.Render(rec.CooldownName), output.StyleMuted.Render(rec.SuggestedTiming))
			fmt.Fprintf(w, "    %s\n", rec.Rationale)
		}
	}

	fmt.Fprintln(w, output.Section("Priority"))
	fmt.Fprintln(w)
	rankedTable(r.Ranked).WriteTo(w)
	fmt.Fprintln(w)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
