package db

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/dtnitsch/levelwatch/models"
)

const timeLayout = time.RFC3339Nano

// Run statuses.
const (
	StatusRunning = "running"
	StatusOK      = "ok"
	StatusFailed  = "failed"
)

// Run is one tracker invocation.
type Run struct {
	RunID        int64
	StartedAt    time.Time
	FinishedAt   time.Time
	RunDate      string
	Status       string
	NamesSeen    int
	Bootstrapped bool
	DigestPosted bool
	NewMembers   int
	ErrorMessage string
}

// RunSummary is what FinishRun records.
type RunSummary struct {
	NamesSeen    int
	Bootstrapped bool
	DigestPosted bool
	NewMembers   int
	Err          error
}

// SourceResult is the outcome for one ranking page.
type SourceResult struct {
	Source  string
	URL     string
	Success bool
	Records int
	Members int
	Error   string
}

// LevelUpRecord is a posted level-up.
type LevelUpRecord struct {
	RunID      int64
	DigestDate string
	models.LevelUp
}

// BeginRun creates the run row and returns its ID.
func (db *DB) BeginRun(startedAt time.Time, runDate string) (int64, error) {
	result, err := db.Exec(`
		INSERT INTO runs (started_at, run_date, status)
		VALUES (?, ?, ?)
	`, startedAt.UTC().Format(timeLayout), runDate, StatusRunning)
	if err != nil {
		return 0, fmt.Errorf("failed to create run: %w", err)
	}

	runID, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get run ID: %w", err)
	}
	return runID, nil
}

// RecordSource stores the outcome of one source within a run.
func (db *DB) RecordSource(runID int64, r SourceResult) error {
	_, err := db.Exec(`
		INSERT INTO source_results (run_id, source, url, success, records, members, error_message)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, runID, r.Source, r.URL, r.Success, r.Records, r.Members, NewNullString(r.Error))
	if err != nil {
		return fmt.Errorf("failed to record source result: %w", err)
	}
	return nil
}

// RecordDigest stores the events of a posted digest in one transaction.
func (db *DB) RecordDigest(runID int64, date string, events []models.LevelUp) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }() // no-op after commit

	stmt, err := tx.Prepare(`
		INSERT INTO level_ups (run_id, digest_date, name, old_level, new_level)
		VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare level-up insert: %w", err)
	}
	defer stmt.Close()

	for _, e := range events {
		if _, err := stmt.Exec(runID, date, e.Name, e.Old, e.New); err != nil {
			return fmt.Errorf("failed to record level-up for %s: %w", e.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit digest: %w", err)
	}
	return nil
}

// FinishRun closes the run row.
func (db *DB) FinishRun(runID int64, finishedAt time.Time, s RunSummary) error {
	status, errMsg := StatusOK, ""
	if s.Err != nil {
		status, errMsg = StatusFailed, s.Err.Error()
	}
	_, err := db.Exec(`
		UPDATE runs
		SET finished_at = ?, status = ?, names_seen = ?, bootstrapped = ?,
		    digest_posted = ?, new_members = ?, error_message = ?
		WHERE run_id = ?
	`, finishedAt.UTC().Format(timeLayout), status, s.NamesSeen, s.Bootstrapped,
		s.DigestPosted, s.NewMembers, NewNullString(errMsg), runID)
	if err != nil {
		return fmt.Errorf("failed to finish run: %w", err)
	}
	return nil
}

// ListRuns returns the most recent runs, newest first.
func (db *DB) ListRuns(limit int) ([]Run, error) {
	rows, err := db.Query(`
		SELECT run_id, started_at, finished_at, run_date, status, names_seen,
		       bootstrapped, digest_posted, new_members, error_message
		FROM runs
		ORDER BY run_id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var run Run
		var started string
		var finished, errMsg sql.NullString
		if err := rows.Scan(&run.RunID, &started, &finished, &run.RunDate, &run.Status,
			&run.NamesSeen, &run.Bootstrapped, &run.DigestPosted, &run.NewMembers, &errMsg); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		run.StartedAt = parseTime(started)
		if finished.Valid {
			run.FinishedAt = parseTime(finished.String)
		}
		run.ErrorMessage = errMsg.String
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// SourceResults returns the per-source outcomes of a run.
func (db *DB) SourceResults(runID int64) ([]SourceResult, error) {
	rows, err := db.Query(`
		SELECT source, url, success, records, members, error_message
		FROM source_results
		WHERE run_id = ?
		ORDER BY result_id
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to get source results: %w", err)
	}
	defer rows.Close()

	var results []SourceResult
	for rows.Next() {
		var r SourceResult
		var errMsg sql.NullString
		if err := rows.Scan(&r.Source, &r.URL, &r.Success, &r.Records, &r.Members, &errMsg); err != nil {
			return nil, fmt.Errorf("failed to scan source result: %w", err)
		}
		r.Error = errMsg.String
		results = append(results, r)
	}
	return results, rows.Err()
}

// RecentLevelUps returns posted level-ups, newest first. An empty name matches
// everyone; otherwise the name is matched case-insensitively.
func (db *DB) RecentLevelUps(name string, limit int) ([]LevelUpRecord, error) {
	rows, err := db.Query(`
		SELECT run_id, digest_date, name, old_level, new_level
		FROM level_ups
		WHERE ? = '' OR name = ? COLLATE NOCASE
		ORDER BY digest_date DESC, level_up_id
		LIMIT ?
	`, name, name, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get level-ups: %w", err)
	}
	defer rows.Close()

	var records []LevelUpRecord
	for rows.Next() {
		var r LevelUpRecord
		if err := rows.Scan(&r.RunID, &r.DigestDate, &r.Name, &r.Old, &r.New); err != nil {
			return nil, fmt.Errorf("failed to scan level-up: %w", err)
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

// NewNullString converts an empty string to NULL.
func NewNullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func parseTime(s string) time.Time {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
