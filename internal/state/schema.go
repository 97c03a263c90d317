package state

import (
	"context"
	"database/sql"

	dbutil "github.com/llehouerou/neurobeats/internal/db"
)

const currentSchemaVersion = 1

func initSchema(ctx context.Context, db *sql.DB) error {
	return dbutil.WithTx(ctx, db, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			CREATE TABLE IF NOT EXISTS schema_version (
				version INTEGER PRIMARY KEY
			);

			CREATE TABLE IF NOT EXISTS preferences (
				id INTEGER PRIMARY KEY CHECK (id = 1),
				volume REAL,
				focus TEXT,
				updated_at INTEGER NOT NULL
			);
		`)
		if err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx, `
			INSERT OR IGNORE INTO schema_version (version) VALUES (?)
		`, currentSchemaVersion)
		return err
	})
}
