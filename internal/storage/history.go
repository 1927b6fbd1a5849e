package storage

import (
	"database/sql"
	"time"
)

// WarningCount is one entry in the append-only warning history.
type WarningCount struct {
	ID         int64     `json:"id"`
	RecordedAt time.Time `json:"recordedAt"`
	Rule       string    `json:"rule"`
	Count      int       `json:"count"`
	Source     string    `json:"source"` // "analyze", "campaign-start", "campaign-end"
}

// RunRecord is one persisted campaign run.
type RunRecord struct {
	RunID          string    `json:"runId"`
	StartedAt      time.Time `json:"startedAt"`
	FinishedAt     time.Time `json:"finishedAt"`
	Profile        string    `json:"profile"`
	DryRun         bool      `json:"dryRun"`
	FilesProcessed int       `json:"filesProcessed"`
	Replacements   int       `json:"replacements"`
	Documented     int       `json:"documented"`
	Preserved      int       `json:"preserved"`
	Rollbacks      int       `json:"rollbacks"`
	Failures       int       `json:"failures"`
	WarningsBefore int       `json:"warningsBefore"`
	WarningsAfter  int       `json:"warningsAfter"`
}

// RecordWarningCount appends a live warning count to the history.
func (db *DB) RecordWarningCount(rule string, count int, source string) error {
	_, err := db.Exec(`
		INSERT INTO warning_history (recorded_at, rule, count, source)
		VALUES (?, ?, ?, ?)
	`, time.Now().UTC().Format(time.RFC3339), rule, count, source)
	return err
}

// LatestWarningCount returns the most recent recorded count for the rule.
// ok is false when no history exists yet.
func (db *DB) LatestWarningCount(rule string) (count int, recordedAt time.Time, ok bool, err error) {
	var at string
	err = db.QueryRow(`
		SELECT count, recorded_at FROM warning_history
		WHERE rule = ?
		ORDER BY id DESC
		LIMIT 1
	`, rule).Scan(&count, &at)
	if err == sql.ErrNoRows {
		return 0, time.Time{}, false, nil
	}
	if err != nil {
		return 0, time.Time{}, false, err
	}
	recordedAt, _ = time.Parse(time.RFC3339, at)
	return count, recordedAt, true, nil
}

// WarningHistory returns recent history entries, newest first.
func (db *DB) WarningHistory(rule string, limit int) ([]WarningCount, error) {
	rows, err := db.Query(`
		SELECT id, recorded_at, rule, count, source
		FROM warning_history
		WHERE rule = ?
		ORDER BY id DESC
		LIMIT ?
	`, rule, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []WarningCount
	for rows.Next() {
		var e WarningCount
		var at string
		if err := rows.Scan(&e.ID, &at, &e.Rule, &e.Count, &e.Source); err != nil {
			return nil, err
		}
		e.RecordedAt, _ = time.Parse(time.RFC3339, at)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// RecordRun persists a finished campaign run.
func (db *DB) RecordRun(r RunRecord) error {
	_, err := db.Exec(`
		INSERT INTO campaign_runs (
			run_id, started_at, finished_at, profile, dry_run,
			files_processed, replacements, documented, preserved,
			rollbacks, failures, warnings_before, warnings_after
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		r.RunID,
		r.StartedAt.UTC().Format(time.RFC3339),
		r.FinishedAt.UTC().Format(time.RFC3339),
		r.Profile,
		boolToInt(r.DryRun),
		r.FilesProcessed, r.Replacements, r.Documented, r.Preserved,
		r.Rollbacks, r.Failures, r.WarningsBefore, r.WarningsAfter,
	)
	return err
}

// GetRun returns one campaign run by ID. ok is false when it does not exist.
func (db *DB) GetRun(runID string) (RunRecord, bool, error) {
	r, err := scanRun(db.QueryRow(`
		SELECT run_id, started_at, finished_at, profile, dry_run,
		       files_processed, replacements, documented, preserved,
		       rollbacks, failures, warnings_before, warnings_after
		FROM campaign_runs
		WHERE run_id = ?
	`, runID))
	if err == sql.ErrNoRows {
		return RunRecord{}, false, nil
	}
	if err != nil {
		return RunRecord{}, false, err
	}
	return r, true, nil
}

// LatestRun returns the most recently started campaign run.
func (db *DB) LatestRun() (RunRecord, bool, error) {
	r, err := scanRun(db.QueryRow(`
		SELECT run_id, started_at, finished_at, profile, dry_run,
		       files_processed, replacements, documented, preserved,
		       rollbacks, failures, warnings_before, warnings_after
		FROM campaign_runs
		ORDER BY started_at DESC
		LIMIT 1
	`))
	if err == sql.ErrNoRows {
		return RunRecord{}, false, nil
	}
	if err != nil {
		return RunRecord{}, false, err
	}
	return r, true, nil
}

// ListRuns returns recent campaign runs, newest first.
func (db *DB) ListRuns(limit int) ([]RunRecord, error) {
	rows, err := db.Query(`
		SELECT run_id, started_at, finished_at, profile, dry_run,
		       files_processed, replacements, documented, preserved,
		       rollbacks, failures, warnings_before, warnings_after
		FROM campaign_runs
		ORDER BY started_at DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []RunRecord
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// CleanupOldHistory removes history entries older than the retention period.
func (db *DB) CleanupOldHistory(retention time.Duration) (int64, error) {
	cutoff := time.Now().Add(-retention).UTC().Format(time.RFC3339)
	result, err := db.Exec(`
		DELETE FROM warning_history WHERE recorded_at < ?
	`, cutoff)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

// rowScanner covers *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanRun(row rowScanner) (RunRecord, error) {
	var r RunRecord
	var started, finished string
	var dryRun int
	err := row.Scan(
		&r.RunID, &started, &finished, &r.Profile, &dryRun,
		&r.FilesProcessed, &r.Replacements, &r.Documented, &r.Preserved,
		&r.Rollbacks, &r.Failures, &r.WarningsBefore, &r.WarningsAfter,
	)
	if err != nil {
		return RunRecord{}, err
	}
	r.StartedAt, _ = time.Parse(time.RFC3339, started)
	r.FinishedAt, _ = time.Parse(time.RFC3339, finished)
	r.DryRun = dryRun != 0
	return r, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
