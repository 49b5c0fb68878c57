package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/Asdafers/healerguide/internal/config"
	"github.com/Asdafers/healerguide/internal/content"
	"github.com/Asdafers/healerguide/internal/engine"
	"github.com/Asdafers/healerguide/internal/output"
	"github.com/Asdafers/healerguide/internal/store"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check whether the healerguide setup is healthy",
	Long: `Run health checks against the configuration, the content files and the
database. Each check prints a pass/fail line, followed by a summary.`,
	RunE: runDoctor,
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}

// doctorCheck holds the result of a single health check.
type doctorCheck struct {
	Name    string `json:"name"`
	Passed  bool   `json:"passed"`
	Message string `json:"message"`
}

func pass(name, format string, args ...any) doctorCheck {
	return doctorCheck{Name: name, Passed: true, Message: fmt.Sprintf(format, args...)}
}

func fail(name, format string, args ...any) doctorCheck {
	return doctorCheck{Name: name, Message: fmt.Sprintf(format, args...)}
}

// doctorOutput is the JSON-serializable result of the doctor command.
type doctorOutput struct {
	Checks      []doctorCheck `json:"checks"`
	PassedCount int           `json:"passed"`
	TotalCount  int           `json:"total"`
}

// doctorProbe runs one family of checks.
type doctorProbe func(ctx context.Context, cfg *config.Config) []doctorCheck

var doctorProbes = []doctorProbe{
	probeConfigFile,
	probeContentPaths,
	probeContentHealth,
	probeDatabase,
	probeKnownCritical,
	probeTerminal,
}

func runDoctor(cmd *cobra.Command, args []string) error {
	var res doctorOutput
	for _, probe := range doctorProbes {
		res.Checks = append(res.Checks, probe(cmd.Context(), appCfg)...)
	}
	for _, c := range res.Checks {
		if c.Passed {
			res.PassedCount++
		}
	}
	res.TotalCount = len(res.Checks)

	if flagJSON {
		return writeJSON(cmd, res)
	}
	renderDoctor(cmd.OutOrStdout(), res)
	return nil
}

func renderDoctor(w io.Writer, res doctorOutput) {
	fmt.Fprintln(w, output.Section("Doctor"))
	fmt.Fprintln(w)
	for _, c := range res.Checks {
		indicator := output.StyleSuccess.Render("✓")
		if !c.Passed {
			indicator = output.StyleWarning.Render("✗")
		}
		fmt.Fprintf(w, "  %s  %-30s %s\n", indicator, output.StyleBold.Render(c.Name), output.StyleMuted.Render(c.Message))
	}
	fmt.Fprintln(w)

	summary := fmt.Sprintf("%d/%d checks passed", res.PassedCount, res.TotalCount)
	style := output.StyleSuccess
	if res.PassedCount != res.TotalCount {
		style = output.StyleWarning
	}
	fmt.Fprintf(w, " %s\n\n", style.Render(summary))
}

// probeConfigFile reports which config file was read. Running on defaults
// is fine, so a missing file still passes.
func probeConfigFile(_ context.Context, cfg *config.Config) []doctorCheck {
	const name = "Config file"
	if cfg.ConfigFileUsed == "" {
		return []doctorCheck{pass(name, "none found, using defaults (%s)",
			filepath.Join(config.ConfigDir(), config.DefaultConfigFile))}
	}
	return []doctorCheck{pass(name, "%s", cfg.ConfigFileUsed)}
}

// probeContentPaths checks that each content path exists and holds at least
// one content file.
func probeContentPaths(_ context.Context, cfg *config.Config) []doctorCheck {
	if len(cfg.ContentPaths) == 0 {
		return []doctorCheck{fail("Content paths", "no content paths configured")}
	}
	checks := make([]doctorCheck, 0, len(cfg.ContentPaths))
	for _, p := range cfg.ContentPaths {
		name := "Content: " + filepath.Base(p)
		files, err := content.Files(p)
		switch {
		case err != nil:
			checks = append(checks, fail(name, "not found: %s", p))
		case len(files) == 0:
			checks = append(checks, fail(name, "no .yaml files in %s", p))
		default:
			checks = append(checks, pass(name, "%d file(s) in %s", len(files), p))
		}
	}
	return checks
}

// probeContentHealth parses every configured content file and validates the
// abilities, the same pass import and watch make.
func probeContentHealth(ctx context.Context, cfg *config.Config) []doctorCheck {
	const name = "Content validation"
	files, err := content.Files(cfg.ContentPaths...)
	if err != nil || len(files) == 0 {
		return nil
	}
	pack, err := content.LoadPaths(ctx, cfg.ContentPaths...)
	if err != nil {
		return []doctorCheck{fail(name, "%v", err)}
	}

	eng := engine.New(engine.Options{KnownCritical: cfg.KnownCritical})
	broken := 0
	for _, a := range pack.Abilities {
		if eng.Validate(a).HasSeverity(engine.SeverityError) {
			broken++
		}
	}
	if broken > 0 {
		return []doctorCheck{fail(name, "%d of %d abilities have errors (run 'healerguide validate')", broken, len(pack.Abilities))}
	}
	return []doctorCheck{pass(name, "%d abilities parse and validate", len(pack.Abilities))}
}

// probeDatabase checks that the database exists, opens and has content.
func probeDatabase(ctx context.Context, cfg *config.Config) []doctorCheck {
	const name = "SQLite database"
	if _, err := os.Stat(cfg.DBPath); err != nil {
		return []doctorCheck{fail(name, "not found at %s (run 'healerguide import' to create)", cfg.DBPath)}
	}
	db, err := store.Open(cfg.DBPath)
	if err != nil {
		return []doctorCheck{fail(name, "cannot open %s: %v", cfg.DBPath, err)}
	}
	defer db.Close()

	stats, err := db.Stats(ctx)
	if err != nil {
		return []doctorCheck{fail(name, "cannot read %s: %v", cfg.DBPath, err)}
	}
	msg := fmt.Sprintf("%d dungeon(s), %d encounter(s), %d abilities",
		stats.Dungeons, stats.Encounters, stats.Abilities)
	if !stats.LastImport.IsZero() {
		msg += "; last import " + stats.LastImport.Local().Format("2006-01-02 15:04")
	}
	return []doctorCheck{{Name: name, Passed: stats.Abilities > 0, Message: msg}}
}

// probeKnownCritical reports the size of the known-critical table.
func probeKnownCritical(_ context.Context, cfg *config.Config) []doctorCheck {
	n := len(engine.New(engine.Options{KnownCritical: cfg.KnownCritical}).KnownCritical())
	c := pass("Known-critical abilities", "%d configured", n)
	c.Passed = n > 0
	return []doctorCheck{c}
}

// probeTerminal reports whether color output is active. It never fails.
func probeTerminal(context.Context, *config.Config) []doctorCheck {
	msg := "color enabled"
	switch {
	case output.IsNoColor():
		msg = "color disabled"
	case !output.IsTerminal(os.Stdout):
		msg = "stdout is not a terminal"
	}
	return []doctorCheck{pass("Terminal", "%s", msg)}
}
