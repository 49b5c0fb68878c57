package app

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Asdafers/healerguide/internal/export"
	"github.com/Asdafers/healerguide/internal/output"
)

var (
	exportFormat string
	exportOut    string
)

var exportCmd = &cobra.Command{
	Use:   "export <encounter-id>",
	Short: "Write an encounter report as JSON, CSV, text or Markdown",
	Long: `Export every derived view of an encounter: the damage analysis and, for
each ability in priority order, its classification, recommended actions and
validation result.

Examples:
  healerguide export avanoxx --format csv --out avanoxx.csv
  healerguide export avanoxx --format text
  healerguide export avanoxx --format markdown   # styled when printed to a terminal`,
	Args: cobra.ExactArgs(1),
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVar(&exportFormat, "format", "json", "Output format: json, csv, text or markdown")
	exportCmd.Flags().StringVar(&exportOut, "out", "", "Write to this file instead of stdout")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	format, err := export.ParseFormat(exportFormat)
	if err != nil {
		return err
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
	doc := export.BuildDocument(newEngine(), enc, abilities)

	if exportOut == "" {
		if format == export.FormatMarkdown && !output.IsNoColor() {
			return writeRenderedMarkdown(cmd, doc)
		}
		return export.Write(cmd.OutOrStdout(), format, doc)
	}

	f, err := os.Create(exportOut)
	if err != nil {
		return fmt.Errorf("creating %s: %w", exportOut, err)
	}
	if err := export.Write(f, format, doc); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	logger.Info("export written", zap.String("path", exportOut), zap.String("format", string(format)))
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s (%d abilities)\n", exportOut, len(doc.Abilities))
	return nil
}

// writeRenderedMarkdown styles the Markdown guide for the terminal.
func writeRenderedMarkdown(cmd *cobra.Command, doc export.Document) error {
	var md strings.Builder
	if err := export.WriteMarkdown(&md, doc); err != nil {
		return err
	}
	rendered, err := output.RenderMarkdown(md.String())
	if err != nil {
		return fmt.Errorf("rendering markdown: %w", err)
	}
	_, err = io.WriteString(cmd.OutOrStdout(), rendered)
	return err
}
