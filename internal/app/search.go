package app

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Asdafers/healerguide/internal/output"
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Find abilities by text",
	Long: `Case-insensitive substring search over ability names, healer actions and
critical insights.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

func init() {
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	query := strings.Join(args, " ")
	db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	found, err := db.SearchAbilities(cmd.Context(), query)
	if err != nil {
		return err
	}
	if flagJSON {
		return writeJSON(cmd, found)
	}

	w := cmd.OutOrStdout()
	if len(found) == 0 {
		fmt.Fprintf(w, "No abilities match %q.\n", query)
		return nil
	}
	tbl := output.NewTable("ID", "Name", "Tier", "Encounter", "Healer action")
	for _, a := range found {
		tbl.AddRow(a.ID, a.Name, output.Tier(a.DamageTier), a.EncounterID, a.HealerAction)
	}
	tbl.WriteTo(w)
	return nil
}
