package app

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Asdafers/healerguide/internal/content"
	"github.com/Asdafers/healerguide/internal/engine"
	"github.com/Asdafers/healerguide/internal/store"
)

var importCmd = &cobra.Command{
	Use:   "import [path...]",
	Short: "Load YAML content packs into the database",
	Long: `Read YAML content files (or every *.yaml/*.yml file in a directory),
check them for structural problems, and write them to the database in a
single transaction. Each encounter's abilities are replaced by the imported
set. With no arguments the configured content_paths are imported.

Abilities that import cleanly but have content problems (a missing healer
action, a critical ability without a cooldown) are listed after the import.`,
	RunE: runImport,
}

func init() {
	rootCmd.AddCommand(importCmd)
}

// importIssue lists the validation findings for one imported ability.
type importIssue struct {
	AbilityID string                   `json:"ability_id"`
	Name      string                   `json:"name"`
	Issues    []engine.ValidationIssue `json:"issues"`
}

type importOutput struct {
	store.ImportResult
	Files  int           `json:"files"`
	Issues []importIssue `json:"issues"`
}

func runImport(cmd *cobra.Command, args []string) error {
	paths := args
	if len(paths) == 0 {
		paths = appCfg.ContentPaths
	}

	files, err := content.Files(paths...)
	if err != nil {
		return err
	}
	pack, err := content.LoadPaths(cmd.Context(), paths...)
	if err != nil {
		return err
	}

	db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	res, err := db.ImportContent(cmd.Context(), pack)
	if err != nil {
		return fmt.Errorf("importing content: %w", err)
	}
	logger.Info("content imported",
		zap.Int("files", len(files)),
		zap.Int("dungeons", res.Dungeons),
		zap.Int("encounters", res.Encounters),
		zap.Int("abilities", res.Abilities))

	eng := newEngine()
	out := importOutput{ImportResult: res, Files: len(files), Issues: []importIssue{}}
	for _, a := range pack.Abilities {
		v := eng.Validate(a)
		if len(v.Issues) == 0 {
			continue
		}
		out.Issues = append(out.Issues, importIssue{AbilityID: a.ID, Name: a.Name, Issues: v.Issues})
	}

	if flagJSON {
		return writeJSON(cmd, out)
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "Imported %d dungeon(s), %d encounter(s), %d abilities from %d file(s)\n",
		res.Dungeons, res.Encounters, res.Abilities, len(files))
	if len(out.Issues) > 0 {
		fmt.Fprintf(w, "\n%d ability(ies) with content issues:\n", len(out.Issues))
		for _, ii := range out.Issues {
			fmt.Fprintf(w, "  %s (%s)\n", ii.Name, ii.AbilityID)
			printIssues(w, "    ", ii.Issues)
		}
	}
	return nil
}
