// Package app contains the Cobra command tree for healerguide.
package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/Asdafers/healerguide/internal/config"
	"github.com/Asdafers/healerguide/internal/output"
)

var appVersion = "dev"

// SetVersion sets the application version (called from main with ldflags value).
func SetVersion(v string) {
	appVersion = v
	rootCmd.Version = v
}

var (
	flagNoColor bool
	flagJSON    bool
	flagVerbose bool
	flagConfig  string
	flagDB      string
)

// Loaded by PersistentPreRunE before any command runs.
var (
	appCfg *config.Config
	logger = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:   "healerguide",
	Short: "Healer-focused encounter guidance for dungeon content",
	Long: `healerguide classifies boss abilities for healers: how urgently to react,
how complex the response is, what to press, and which abilities matter most.
Content is authored as YAML packs, imported into a local SQLite database, and
served to the terminal or to MCP clients.

Run 'healerguide' with no arguments to see the command overview.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, "healerguide", appVersion)
		fmt.Fprintln(out)
		fmt.Fprintln(out, "Use a subcommand:")
		fmt.Fprintln(out, "  import      Load YAML content packs into the database")
		fmt.Fprintln(out, "  list        List dungeons, or the encounters of one dungeon")
		fmt.Fprintln(out, "  show        Classify and validate a single ability")
		fmt.Fprintln(out, "  analyze     Damage profile and cooldown plan for an encounter")
		fmt.Fprintln(out, "  prioritize  Encounter abilities in healer priority order")
		fmt.Fprintln(out, "  validate    Report content problems")
		fmt.Fprintln(out, "  search      Find abilities by text")
		fmt.Fprintln(out, "  export      Write an encounter report as JSON, CSV, text or Markdown")
		fmt.Fprintln(out, "  mcp         Serve the engine over MCP stdio")
		fmt.Fprintln(out, "  watch       Re-validate content files as they change")
		fmt.Fprintln(out, "  doctor      Check the local setup")
		return nil
	},
}

// Execute is the entry point called from main. SIGINT and SIGTERM cancel
// the command context, which stops long-running commands (mcp, watch).
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Config file path (default: ~/.config/healerguide/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&flagDB, "db", "", "Database path (overrides db_path from config)")
	rootCmd.PersistentFlags().BoolVar(&flagNoColor, "no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "Output as JSON")
	rootCmd.PersistentFlags().BoolVar(&flagVerbose, "verbose", false, "Enable debug logging")
}

// setup loads configuration and builds the logger shared by every command.
func setup(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if flagDB != "" {
		cfg.DBPath = flagDB
	}
	appCfg = cfg

	logger, err = buildLogger(cfg.LogLevel, flagVerbose, cmd.ErrOrStderr())
	if err != nil {
		return fmt.Errorf("initializing logger: %w", err)
	}

	if flagNoColor || !cfg.Output.Color || !output.ColorSupported(os.Stdout) {
		output.SetNoColor(true)
	}
	if output.IsTerminal(os.Stdout) {
		output.SetMaxWidth(cfg.Output.Width)
	}

	logger.Debug("configuration loaded",
		zap.String("config_file", cfg.ConfigFileUsed),
		zap.String("db_path", cfg.DBPath),
		zap.Strings("content_paths", cfg.ContentPaths))
	return nil
}

// buildLogger returns a production zap logger writing JSON to w. verbose
// forces the debug level.
func buildLogger(level string, verbose bool, w io.Writer) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	if verbose {
		lvl = zapcore.DebugLevel
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encCfg),
		zapcore.AddSync(w),
		zap.NewAtomicLevelAt(lvl),
	)
	return zap.New(core), nil
}
