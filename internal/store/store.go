package store

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// #region schema
const schema = `
CREATE TABLE IF NOT EXISTS patterns (
	pattern_id       TEXT PRIMARY KEY,
	title            TEXT NOT NULL,
	pattern_text     TEXT NOT NULL,
	confidence       REAL NOT NULL,
	validation_count INTEGER NOT NULL DEFAULT -1,
	performance      TEXT,
	retention        TEXT NOT NULL,
	created_at       TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS ideas (
	idea_id           TEXT PRIMARY KEY,
	content           TEXT NOT NULL,
	state             TEXT NOT NULL,
	history_json      TEXT NOT NULL,
	metadata_json     TEXT,
	created_at        TEXT NOT NULL,
	last_state_change TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS pattern_outcomes (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	turn_id     TEXT NOT NULL,
	pattern_id  TEXT NOT NULL,
	confidence  REAL NOT NULL,
	applied     INTEGER NOT NULL DEFAULT 0,
	resonance   REAL NOT NULL,
	created_at  TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_pattern_outcomes_lookup
ON pattern_outcomes(pattern_id, applied);

CREATE TABLE IF NOT EXISTS evaluation_log (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	turn_id     TEXT NOT NULL,
	idea_id     TEXT,
	pattern_id  TEXT,
	match_conf  REAL,
	resonance   REAL,
	decision    TEXT NOT NULL,
	reason      TEXT,
	created_at  TEXT NOT NULL
);
`

// #endregion schema

// #region store-struct
// Store manages the pattern catalog, idea records, and evaluation telemetry
// in SQLite. The scoring packages never touch it; callers load snapshots here
// and pass them in by value.
type Store struct {
	db *sql.DB
}

// #endregion store-struct

// #region constructor
// NewStore opens a SQLite database and runs migrations.
func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return nil, fmt.Errorf("pragma: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &Store{db: db}, nil
}

// #endregion constructor

// #region close
// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// #endregion close

// #region db-accessor
// DB returns the underlying *sql.DB for use by other packages (e.g. logging
// and the link graph).
func (s *Store) DB() *sql.DB {
	return s.db
}

// #endregion db-accessor
