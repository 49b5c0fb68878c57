package app

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/Asdafers/healerguide/internal/ability"
	"github.com/Asdafers/healerguide/internal/output"
)

var listCmd = &cobra.Command{
	Use:   "list [dungeon-id]",
	Short: "List dungeons, or the encounters of one dungeon",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runList,
}

func init() {
	rootCmd.AddCommand(listCmd)
}

type dungeonRow struct {
	ability.Dungeon
	Encounters int `json:"encounters"`
}

type encounterRow struct {
	ability.Encounter
	Abilities int `json:"abilities"`
}

func runList(cmd *cobra.Command, args []string) error {
	db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()
	ctx := cmd.Context()
	w := cmd.OutOrStdout()

	if len(args) == 0 {
		dungeons, err := db.ListDungeons(ctx)
		if err != nil {
			return err
		}
		encounters, err := db.ListEncounters(ctx, "")
		if err != nil {
			return err
		}
		perDungeon := make(map[string]int)
		for _, e := range encounters {
			perDungeon[e.DungeonID]++
		}

		rows := make([]dungeonRow, 0, len(dungeons))
		for _, d := range dungeons {
			rows = append(rows, dungeonRow{Dungeon: d, Encounters: perDungeon[d.ID]})
		}
		if flagJSON {
			return writeJSON(cmd, rows)
		}
		if len(rows) == 0 {
			fmt.Fprintln(w, "No dungeons imported yet. Run 'healerguide import <path>'.")
			return nil
		}
		tbl := output.NewTable("ID", "Name", "Short", "Encounters").AlignRight(3)
		for _, r := range rows {
			tbl.AddRow(r.ID, r.Name, r.ShortName, strconv.Itoa(r.Encounters))
		}
		tbl.WriteTo(w)
		return nil
	}

	encounters, err := db.ListEncounters(ctx, args[0])
	if err != nil {
		return err
	}
	rows := make([]encounterRow, 0, len(encounters))
	for _, e := range encounters {
		abilities, err := db.FetchAbilitiesForEncounter(ctx, e.ID)
		if err != nil {
			return err
		}
		rows = append(rows, encounterRow{Encounter: e, Abilities: len(abilities)})
	}
	if flagJSON {
		return writeJSON(cmd, rows)
	}
	if len(rows) == 0 {
		fmt.Fprintf(w, "No encounters for dungeon %q.\n", args[0])
		return nil
	}
	tbl := output.NewTable("#", "ID", "Name", "Abilities").AlignRight(0, 3)
	for _, r := range rows {
		tbl.AddRow(strconv.Itoa(r.Order), r.ID, r.Name, strconv.Itoa(r.Abilities))
	}
	tbl.WriteTo(w)
	return nil
}
