package storage

import "database/sql"

// initializeSchema creates all tables. Statements are idempotent so opening
// an existing database is a no-op.
func (db *DB) initializeSchema() error {
	return db.WithTx(func(tx *sql.Tx) error {
		if err := createWarningHistoryTable(tx); err != nil {
			return err
		}
		return createCampaignRunsTable(tx)
	})
}

// warning_history is an append-only log of live warning counts. Baselines and
// before/after percentages are always computed from this table.
func createWarningHistoryTable(tx *sql.Tx) error {
	_, err := tx.Exec(`
		CREATE TABLE IF NOT EXISTS warning_history (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			recorded_at TEXT NOT NULL,
			rule TEXT NOT NULL,
			count INTEGER NOT NULL,
			source TEXT NOT NULL
		)
	`)
	if err != nil {
		return err
	}
	_, err = tx.Exec(`
		CREATE INDEX IF NOT EXISTS idx_warning_history_rule
		ON warning_history(rule, recorded_at)
	`)
	return err
}

func createCampaignRunsTable(tx *sql.Tx) error {
	_, err := tx.Exec(`
		CREATE TABLE IF NOT EXISTS campaign_runs (
			run_id TEXT PRIMARY KEY,
			started_at TEXT NOT NULL,
			finished_at TEXT NOT NULL,
			profile TEXT NOT NULL,
			dry_run INTEGER NOT NULL,
			files_processed INTEGER NOT NULL,
			replacements INTEGER NOT NULL,
			documented INTEGER NOT NULL,
			preserved INTEGER NOT NULL,
			rollbacks INTEGER NOT NULL,
			failures INTEGER NOT NULL,
			warnings_before INTEGER NOT NULL,
			warnings_after INTEGER NOT NULL
		)
	`)
	return err
}
