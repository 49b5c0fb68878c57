package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Asdafers/healerguide/internal/ability"
)

// Stats summarizes the stored content.
type Stats struct {
	Dungeons   int       `json:"dungeons"`
	Encounters int       `json:"encounters"`
	Abilities  int       `json:"abilities"`
	Imports    int       `json:"imports"`
	LastImport time.Time `json:"last_import,omitzero"`
}

// ListDungeons returns every dungeon ordered by name.
func (db *DB) ListDungeons(ctx context.Context) ([]ability.Dungeon, error) {
	rows, err := db.conn.QueryContext(ctx,
		"SELECT id, name, short_name, difficulty, estimated_minutes, notes FROM dungeons ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	dungeons := []ability.Dungeon{}
	for rows.Next() {
		var d ability.Dungeon
		var short, difficulty, notes sql.NullString
		if err := rows.Scan(&d.ID, &d.Name, &short, &difficulty, &d.EstimatedMinutes, &notes); err != nil {
			return nil, err
		}
		d.ShortName, d.Difficulty, d.Notes = short.String, difficulty.String, notes.String
		dungeons = append(dungeons, d)
	}
	return dungeons, rows.Err()
}

// ListEncounters returns the encounters of a dungeon in fight order. An empty
// dungeonID lists every encounter.
func (db *DB) ListEncounters(ctx context.Context, dungeonID string) ([]ability.Encounter, error) {
	query := "SELECT id, dungeon_id, name, encounter_order, summary FROM encounters"
	var args []any
	if dungeonID != "" {
		query += " WHERE dungeon_id = ?"
		args = append(args, dungeonID)
	}
	query += " ORDER BY dungeon_id, encounter_order"

	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	encounters := []ability.Encounter{}
	for rows.Next() {
		e, err := scanEncounter(rows)
		if err != nil {
			return nil, err
		}
		encounters = append(encounters, e)
	}
	return encounters, rows.Err()
}

// GetEncounter returns one encounter, or ErrNotFound.
func (db *DB) GetEncounter(ctx context.Context, id string) (ability.Encounter, error) {
	row := db.conn.QueryRowContext(ctx,
		"SELECT id, dungeon_id, name, encounter_order, summary FROM encounters WHERE id = ?", id)
	e, err := scanEncounter(row)
	if errors.Is(err, sql.ErrNoRows) {
		return ability.Encounter{}, fmt.Errorf("encounter %q: %w", id, ErrNotFound)
	}
	return e, err
}

func scanEncounter(row rowScanner) (ability.Encounter, error) {
	var e ability.Encounter
	var summary sql.NullString
	if err := row.Scan(&e.ID, &e.DungeonID, &e.Name, &e.Order, &summary); err != nil {
		return ability.Encounter{}, err
	}
	e.Summary = summary.String
	return e, nil
}

// Stats counts stored dungeons, encounters, abilities and imports, and reports
// when the last import ran.
func (db *DB) Stats(ctx context.Context) (Stats, error) {
	var (
		s    Stats
		last sql.NullString
	)
	err := db.conn.QueryRowContext(ctx, `SELECT
		(SELECT COUNT(*) FROM dungeons),
		(SELECT COUNT(*) FROM encounters),
		(SELECT COUNT(*) FROM abilities),
		(SELECT COUNT(*) FROM imports),
		(SELECT MAX(imported_at) FROM imports)`).
		Scan(&s.Dungeons, &s.Encounters, &s.Abilities, &s.Imports, &last)
	if err != nil {
		return s, err
	}
	if last.Valid {
		if s.LastImport, err = time.Parse(time.RFC3339, last.String); err != nil {
			return s, fmt.Errorf("parsing last import time: %w", err)
		}
	}
	return s, nil
}
