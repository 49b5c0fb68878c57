package store

import (
	"database/sql"
	"errors"
	"fmt"
)

// migration is one forward schema step. Steps run in version order, each in
// its own transaction together with the version bump.
type migration struct {
	version int
	name    string
	stmts   []string
}

// migrations must stay sorted by version; released steps are never edited.
var migrations = []migration{
	{
		version: 1,
		name:    "content tables",
		// Name and display-order uniqueness within a parent are storage
		// constraints, enforced here rather than by the engine.
		stmts: []string{
			`CREATE TABLE IF NOT EXISTS dungeons (
				id                TEXT PRIMARY KEY,
				name              TEXT NOT NULL UNIQUE,
				short_name        TEXT,
				difficulty        TEXT,
				estimated_minutes INTEGER NOT NULL DEFAULT 0,
				notes             TEXT
			)`,
			`CREATE TABLE IF NOT EXISTS encounters (
				id              TEXT PRIMARY KEY,
				dungeon_id      TEXT NOT NULL REFERENCES dungeons(id) ON DELETE CASCADE,
				name            TEXT NOT NULL,
				encounter_order INTEGER NOT NULL,
				summary         TEXT,
				UNIQUE (dungeon_id, name)
			)`,
			`CREATE TABLE IF NOT EXISTS abilities (
				id               TEXT PRIMARY KEY,
				encounter_id     TEXT NOT NULL REFERENCES encounters(id) ON DELETE CASCADE,
				name             TEXT NOT NULL,
				type             TEXT NOT NULL,
				target           TEXT NOT NULL,
				damage_tier      TEXT NOT NULL,
				healer_action    TEXT NOT NULL,
				critical_insight TEXT NOT NULL,
				cooldown_seconds REAL,
				display_order    INTEGER NOT NULL,
				is_key_mechanic  BOOLEAN NOT NULL DEFAULT false,
				UNIQUE (encounter_id, name),
				UNIQUE (encounter_id, display_order)
			)`,
			`CREATE INDEX IF NOT EXISTS idx_encounters_dungeon ON encounters(dungeon_id)`,
			`CREATE INDEX IF NOT EXISTS idx_abilities_encounter ON abilities(encounter_id)`,
			`CREATE INDEX IF NOT EXISTS idx_abilities_tier ON abilities(damage_tier)`,
		},
	},
	{
		version: 2,
		name:    "import history",
		stmts: []string{
			`CREATE TABLE IF NOT EXISTS imports (
				id          INTEGER PRIMARY KEY AUTOINCREMENT,
				imported_at TEXT NOT NULL,
				dungeons    INTEGER NOT NULL,
				encounters  INTEGER NOT NULL,
				abilities   INTEGER NOT NULL
			)`,
		},
	},
}

// currentSchemaVersion is the version reached once every migration has run.
var currentSchemaVersion = migrations[len(migrations)-1].version

// Migrate applies every migration newer than the recorded schema version.
func (db *DB) Migrate() error {
	if _, err := db.conn.Exec(`CREATE TABLE IF NOT EXISTS schema_version (version INTEGER NOT NULL)`); err != nil {
		return fmt.Errorf("creating schema_version table: %w", err)
	}

	version, err := db.SchemaVersion()
	if err != nil {
		return err
	}
	for _, m := range migrations {
		if m.version <= version {
			continue
		}
		if err := db.apply(m); err != nil {
			return fmt.Errorf("migration v%d (%s): %w", m.version, m.name, err)
		}
	}
	return nil
}

// SchemaVersion returns the recorded schema version, 0 for a fresh database.
func (db *DB) SchemaVersion() (int, error) {
	var version int
	err := db.conn.QueryRow("SELECT version FROM schema_version LIMIT 1").Scan(&version)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("reading schema version: %w", err)
	}
	return version, nil
}

func (db *DB) apply(m migration) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	for _, stmt := range m.stmts {
		if _, err := tx.Exec(stmt); err != nil {
			return err
		}
	}
	if _, err := tx.Exec("DELETE FROM schema_version"); err != nil {
		return err
	}
	if _, err := tx.Exec("INSERT INTO schema_version (version) VALUES (?)", m.version); err != nil {
		return err
	}
	return tx.Commit()
}
