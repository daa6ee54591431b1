package store

import (
	"context"
	"database/sql"
	"fmt"
)

// SchemaVersion is the current schema version.
const SchemaVersion = 1

// schemaV1 is the initial schema for the SQLite run store.
const schemaV1 = `
-- One row per simulation run
CREATE TABLE IF NOT EXISTS runs (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    prob REAL NOT NULL,
    fc REAL NOT NULL,
    fs REAL NOT NULL,
    tmax INTEGER NOT NULL,
    seed INTEGER NOT NULL,
    steps INTEGER NOT NULL,   -- steps actually executed (< tmax on early stop)
    points INTEGER NOT NULL,  -- total recorded points, seed included
    created_at TEXT NOT NULL
);

-- Permanent point history, append-only within a run
CREATE TABLE IF NOT EXISTS points (
    run_id INTEGER NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
    idx INTEGER NOT NULL,     -- creation order within the run
    x REAL NOT NULL,
    y REAL NOT NULL,
    branch INTEGER NOT NULL,
    parent INTEGER NOT NULL,
    gen INTEGER NOT NULL,
    step INTEGER NOT NULL,
    PRIMARY KEY (run_id, idx)
);

-- Permanent heading history, index-aligned with points
CREATE TABLE IF NOT EXISTS angles (
    run_id INTEGER NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
    idx INTEGER NOT NULL,
    degrees REAL NOT NULL,
    gen INTEGER NOT NULL,
    PRIMARY KEY (run_id, idx)
);

-- Active-tip count per step, seed entry included
CREATE TABLE IF NOT EXISTS evolve (
    run_id INTEGER NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
    step INTEGER NOT NULL,
    tips INTEGER NOT NULL,
    PRIMARY KEY (run_id, step)
);

-- Schema version tracking
CREATE TABLE IF NOT EXISTS schema_version (
    version INTEGER PRIMARY KEY,
    applied_at TEXT NOT NULL
);
`

// InitSchema creates or upgrades the run store schema.
func InitSchema(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, schemaV1); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	var version sql.NullInt64
	if err := db.QueryRowContext(ctx, `SELECT MAX(version) FROM schema_version`).Scan(&version); err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}
	if !version.Valid || version.Int64 < SchemaVersion {
		_, err := db.ExecContext(ctx,
			`INSERT OR IGNORE INTO schema_version (version, applied_at) VALUES (?, datetime('now'))`,
			SchemaVersion)
		if err != nil {
			return fmt.Errorf("failed to record schema version: %w", err)
		}
	}
	return nil
}
