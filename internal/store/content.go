package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Asdafers/healerguide/internal/ability"
)

// execer is satisfied by both *sql.DB and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// AbilitySource is the read side of the store used by commands and the MCP
// server.
type AbilitySource interface {
	FetchAbilitiesForEncounter(ctx context.Context, encounterID string) ([]ability.Record, error)
	FetchAbilityByID(ctx context.Context, id string) (ability.Record, error)
	SearchAbilities(ctx context.Context, query string) ([]ability.Record, error)
}

var _ AbilitySource = (*DB)(nil)

// now is replaced in tests.
var now = time.Now

// ImportResult counts what an import wrote.
type ImportResult struct {
	Dungeons   int `json:"dungeons"`
	Encounters int `json:"encounters"`
	Abilities  int `json:"abilities"`
}

// ImportContent writes a content pack in a single transaction. Dungeons and
// encounters are upserted; the abilities of every encounter in the pack are
// replaced, so reordering or renaming abilities never trips the uniqueness
// constraints half way through. Each import is logged in the imports table.
func (db *DB) ImportContent(ctx context.Context, pack ability.Pack) (ImportResult, error) {
	var res ImportResult

	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return res, err
	}
	defer func() { _ = tx.Rollback() }()

	for _, d := range pack.Dungeons {
		if err := upsertDungeon(ctx, tx, d); err != nil {
			return res, fmt.Errorf("dungeon %s: %w", d.ID, err)
		}
		res.Dungeons++
	}
	for _, e := range pack.Encounters {
		if err := upsertEncounter(ctx, tx, e); err != nil {
			return res, fmt.Errorf("encounter %s: %w", e.ID, err)
		}
		if _, err := tx.ExecContext(ctx, "DELETE FROM abilities WHERE encounter_id = ?", e.ID); err != nil {
			return res, fmt.Errorf("clearing abilities of %s: %w", e.ID, err)
		}
		res.Encounters++
	}
	for _, a := range pack.Abilities {
		if err := upsertAbility(ctx, tx, a); err != nil {
			return res, fmt.Errorf("ability %s: %w", a.ID, err)
		}
		res.Abilities++
	}

	if _, err := tx.ExecContext(ctx,
		"INSERT INTO imports (imported_at, dungeons, encounters, abilities) VALUES (?, ?, ?, ?)",
		now().UTC().Format(time.RFC3339), res.Dungeons, res.Encounters, res.Abilities); err != nil {
		return res, fmt.Errorf("recording import: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return res, err
	}
	return res, nil
}

// UpsertDungeon inserts or updates a dungeon.
func (db *DB) UpsertDungeon(ctx context.Context, d ability.Dungeon) error {
	return upsertDungeon(ctx, db.conn, d)
}

// UpsertEncounter inserts or updates an encounter. The dungeon must exist.
func (db *DB) UpsertEncounter(ctx context.Context, e ability.Encounter) error {
	return upsertEncounter(ctx, db.conn, e)
}

// UpsertAbility inserts or updates an ability. The encounter must exist.
func (db *DB) UpsertAbility(ctx context.Context, a ability.Record) error {
	return upsertAbility(ctx, db.conn, a)
}

func upsertDungeon(ctx context.Context, x execer, d ability.Dungeon) error {
	_, err := x.ExecContext(ctx,
		`INSERT INTO dungeons (id, name, short_name, difficulty, estimated_minutes, notes)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			short_name = excluded.short_name,
			difficulty = excluded.difficulty,
			estimated_minutes = excluded.estimated_minutes,
			notes = excluded.notes`,
		d.ID, d.Name, d.ShortName, d.Difficulty, d.EstimatedMinutes, d.Notes,
	)
	return err
}

func upsertEncounter(ctx context.Context, x execer, e ability.Encounter) error {
	_, err := x.ExecContext(ctx,
		`INSERT INTO encounters (id, dungeon_id, name, encounter_order, summary)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			dungeon_id = excluded.dungeon_id,
			name = excluded.name,
			encounter_order = excluded.encounter_order,
			summary = excluded.summary`,
		e.ID, e.DungeonID, e.Name, e.Order, e.Summary,
	)
	return err
}

func upsertAbility(ctx context.Context, x execer, a ability.Record) error {
	var cooldown sql.NullFloat64
	if a.CooldownSeconds != nil {
		cooldown = sql.NullFloat64{Float64: *a.CooldownSeconds, Valid: true}
	}
	_, err := x.ExecContext(ctx,
		`INSERT INTO abilities
		(id, encounter_id, name, type, target, damage_tier, healer_action,
		 critical_insight, cooldown_seconds, display_order, is_key_mechanic)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			encounter_id = excluded.encounter_id,
			name = excluded.name,
			type = excluded.type,
			target = excluded.target,
			damage_tier = excluded.damage_tier,
			healer_action = excluded.healer_action,
			critical_insight = excluded.critical_insight,
			cooldown_seconds = excluded.cooldown_seconds,
			display_order = excluded.display_order,
			is_key_mechanic = excluded.is_key_mechanic`,
		a.ID, a.EncounterID, a.Name, string(a.Type), string(a.Target), string(a.DamageTier),
		a.HealerAction, a.CriticalInsight, cooldown, a.DisplayOrder, a.IsKeyMechanic,
	)
	return err
}

const abilityColumns = `id, encounter_id, name, type, target, damage_tier, healer_action,
	critical_insight, cooldown_seconds, display_order, is_key_mechanic`

// FetchAbilitiesForEncounter returns the abilities of an encounter in display
// order. An unknown encounter yields an empty slice.
func (db *DB) FetchAbilitiesForEncounter(ctx context.Context, encounterID string) ([]ability.Record, error) {
	rows, err := db.conn.QueryContext(ctx,
		"SELECT "+abilityColumns+" FROM abilities WHERE encounter_id = ? ORDER BY display_order, name",
		encounterID,
	)
	if err != nil {
		return nil, err
	}
	return collectAbilities(rows)
}

// FetchAbilityByID returns a single ability, or ErrNotFound.
func (db *DB) FetchAbilityByID(ctx context.Context, id string) (ability.Record, error) {
	row := db.conn.QueryRowContext(ctx, "SELECT "+abilityColumns+" FROM abilities WHERE id = ?", id)
	a, err := scanAbility(row)
	if errors.Is(err, sql.ErrNoRows) {
		return ability.Record{}, fmt.Errorf("ability %q: %w", id, ErrNotFound)
	}
	return a, err
}

// SearchAbilities returns abilities whose name, healer action or critical
// insight contains query, ignoring case.
func (db *DB) SearchAbilities(ctx context.Context, query string) ([]ability.Record, error) {
	pattern := "%" + escapeLike(strings.ToLower(strings.TrimSpace(query))) + "%"
	rows, err := db.conn.QueryContext(ctx,
		"SELECT "+abilityColumns+` FROM abilities
		WHERE lower(name) LIKE ? ESCAPE '\'
		   OR lower(healer_action) LIKE ? ESCAPE '\'
		   OR lower(critical_insight) LIKE ? ESCAPE '\'
		ORDER BY encounter_id, display_order`,
		pattern, pattern, pattern,
	)
	if err != nil {
		return nil, err
	}
	return collectAbilities(rows)
}

// AllAbilities returns every stored ability grouped by encounter.
func (db *DB) AllAbilities(ctx context.Context) ([]ability.Record, error) {
	rows, err := db.conn.QueryContext(ctx,
		"SELECT "+abilityColumns+" FROM abilities ORDER BY encounter_id, display_order")
	if err != nil {
		return nil, err
	}
	return collectAbilities(rows)
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanAbility(row rowScanner) (ability.Record, error) {
	var (
		a                 ability.Record
		typ, target, tier string
		cooldown          sql.NullFloat64
	)
	err := row.Scan(&a.ID, &a.EncounterID, &a.Name, &typ, &target, &tier,
		&a.HealerAction, &a.CriticalInsight, &cooldown, &a.DisplayOrder, &a.IsKeyMechanic)
	if err != nil {
		return ability.Record{}, err
	}
	if a.Type, err = ability.ParseType(typ); err != nil {
		return ability.Record{}, fmt.Errorf("ability %s: %w", a.ID, err)
	}
	if a.Target, err = ability.ParseTarget(target); err != nil {
		return ability.Record{}, fmt.Errorf("ability %s: %w", a.ID, err)
	}
	if a.DamageTier, err = ability.ParseDamageTier(tier); err != nil {
		return ability.Record{}, fmt.Errorf("ability %s: %w", a.ID, err)
	}
	if cooldown.Valid {
		a.CooldownSeconds = ability.Cooldown(cooldown.Float64)
	}
	return a, nil
}

func collectAbilities(rows *sql.Rows) ([]ability.Record, error) {
	defer func() { _ = rows.Close() }()

	abilities := []ability.Record{}
	for rows.Next() {
		a, err := scanAbility(rows)
		if err != nil {
			return nil, err
		}
		abilities = append(abilities, a)
	}
	return abilities, rows.Err()
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
