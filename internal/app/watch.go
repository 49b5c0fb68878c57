package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/Asdafers/healerguide/internal/output"
	"github.com/Asdafers/healerguide/internal/watcher"
)

var (
	watchInterval time.Duration
	watchQuiet    bool
)

// minWatchInterval keeps the watcher from re-parsing content in a hot loop.
const minWatchInterval = time.Second

var watchCmd = &cobra.Command{
	Use:   "watch [content-path...]",
	Short: "Re-validate content files as they change",
	Long: `Follow content files while you author them. Every save, and every
--interval tick, re-parses the YAML and validates each ability; alerts are
printed when a file stops loading, when abilities gain errors or warnings,
and when abilities are added, removed or fixed. With no arguments the configured content_paths are watched.

Examples:
  healerguide watch ./content
  healerguide watch --interval 2s ./content/ara-kara.yaml
  healerguide watch --json ./content    # one JSON alert per line`,
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().DurationVar(&watchInterval, "interval", 0, "Check interval (default: watch.interval from config)")
	watchCmd.Flags().BoolVar(&watchQuiet, "quiet", false, "Only print critical alerts")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	paths := args
	if len(paths) == 0 {
		paths = appCfg.ContentPaths
	}
	interval := watchInterval
	if interval == 0 {
		interval = appCfg.Watch.Interval
	}
	if interval < minWatchInterval {
		return fmt.Errorf("interval must be at least %s, got %s", minWatchInterval, interval)
	}

	w := cmd.OutOrStdout()
	alertFn := func(a watcher.Alert) {
		if watchQuiet && a.Level != watcher.LevelCritical {
			return
		}
		if flagJSON {
			_ = json.NewEncoder(w).Encode(a)
			return
		}
		printAlert(w, a)
	}

	if !flagJSON && !watchQuiet {
		fmt.Fprintf(w, "healerguide watching %d path(s)... (checking every %s, ctrl-c to stop)\n", len(paths), interval)
	}

	err := watcher.New(paths, interval, newEngine(), logger, alertFn).Run(cmd.Context())
	if errors.Is(err, context.Canceled) {
		if !flagJSON && !watchQuiet {
			fmt.Fprintln(w, "\nStopped.")
		}
		return nil
	}
	return err
}

// printAlert formats and prints an alert to the terminal.
func printAlert(w io.Writer, a watcher.Alert) {
	timestamp := a.Time.Format("15:04:05")
	fmt.Fprintf(w, "[%s] %s %s\n", timestamp, alertIcon(a.Level), a.Title)
	if a.Message != "" {
		fmt.Fprintf(w, "           %s\n", output.StyleMuted.Render(a.Message))
	}
}

// alertIcon returns the terminal indicator for an alert level.
func alertIcon(level watcher.Level) string {
	switch level {
	case watcher.LevelCritical:
		return output.StyleError.Render("✗")
	case watcher.LevelWarning:
		return output.StyleWarning.Render("!")
	case watcher.LevelInfo:
		return output.StyleSuccess.Render("✓")
	default:
		return " "
	}
}
