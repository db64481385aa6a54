// Package store is the local SQLite persistence layer: calendar snapshots
// fetched from the booking store, and a log of submitted booking requests.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"staybook/internal/models"
)

// DB wraps sql.DB for the local store.
type DB struct {
	*sql.DB
}

// NewDB opens the database at path and runs migrations.
func NewDB(path string) (*DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}
	if err := createTables(db); err != nil {
		return nil, err
	}
	return &DB{db}, nil
}

func createTables(db *sql.DB) error {
	queries := []string{
		// Calendar snapshots: one row per interval per property fetch
		`CREATE TABLE IF NOT EXISTS calendar_intervals (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			property_id TEXT NOT NULL,
			check_in TEXT NOT NULL,
			check_out TEXT NOT NULL,
			status TEXT NOT NULL,
			fetched_at DATETIME NOT NULL
		)`,

		// Submission log: every booking request handed to the store
		`CREATE TABLE IF NOT EXISTS submissions (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			session_id TEXT NOT NULL,
			property_id TEXT NOT NULL,
			check_in TEXT NOT NULL,
			check_out TEXT NOT NULL,
			guests INTEGER NOT NULL,
			outcome TEXT NOT NULL,
			booking_id TEXT,
			detail TEXT,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE INDEX IF NOT EXISTS idx_calendar_property ON calendar_intervals(property_id)`,
		`CREATE INDEX IF NOT EXISTS idx_submissions_property ON submissions(property_id)`,
		`CREATE INDEX IF NOT EXISTS idx_submissions_created ON submissions(created_at)`,
	}

	for _, q := range queries {
		if _, err := db.Exec(q); err != nil {
			return fmt.Errorf("exec migration: %w", err)
		}
	}
	return nil
}

// SaveSnapshot replaces the stored calendar for a property with the freshly
// fetched interval set.
func (db *DB) SaveSnapshot(ctx context.Context, propertyID string, intervals []models.BookingInterval) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin snapshot tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		"DELETE FROM calendar_intervals WHERE property_id = ?", propertyID,
	); err != nil {
		return fmt.Errorf("clear snapshot: %w", err)
	}

	now := time.Now()
	for _, iv := range intervals {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO calendar_intervals (property_id, check_in, check_out, status, fetched_at)
			VALUES (?, ?, ?, ?, ?)`,
			propertyID,
			iv.CheckIn.Format(models.DateFormat),
			iv.CheckOut.Format(models.DateFormat),
			iv.Status,
			now,
		); err != nil {
			return fmt.Errorf("insert interval: %w", err)
		}
	}
	return tx.Commit()
}

// LoadSnapshot returns the stored calendar for a property and when it was
// fetched. An empty snapshot returns a zero fetchedAt.
func (db *DB) LoadSnapshot(ctx context.Context, propertyID string) ([]models.BookingInterval, time.Time, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT check_in, check_out, status, fetched_at
		FROM calendar_intervals
		WHERE property_id = ?
		ORDER BY check_in`,
		propertyID,
	)
	if err != nil {
		return nil, time.Time{}, err
	}
	defer rows.Close()

	var intervals []models.BookingInterval
	var fetchedAt time.Time
	for rows.Next() {
		var checkIn, checkOut, status string
		if err := rows.Scan(&checkIn, &checkOut, &status, &fetchedAt); err != nil {
			return nil, time.Time{}, err
		}
		in, err := time.Parse(models.DateFormat, checkIn)
		if err != nil {
			return nil, time.Time{}, fmt.Errorf("corrupt snapshot check_in %q: %w", checkIn, err)
		}
		out, err := time.Parse(models.DateFormat, checkOut)
		if err != nil {
			return nil, time.Time{}, fmt.Errorf("corrupt snapshot check_out %q: %w", checkOut, err)
		}
		intervals = append(intervals, models.BookingInterval{CheckIn: in, CheckOut: out, Status: status})
	}
	return intervals, fetchedAt, rows.Err()
}

// Submission is one logged booking request with its outcome.
type Submission struct {
	ID         int64
	SessionID  string
	PropertyID string
	CheckIn    string
	CheckOut   string
	Guests     int
	Outcome    string // accepted, rejected, error
	BookingID  string
	Detail     string
	CreatedAt  time.Time
}

// LogSubmission appends a submission record.
func (db *DB) LogSubmission(ctx context.Context, s *Submission) error {
	res, err := db.ExecContext(ctx, `
		INSERT INTO submissions (session_id, property_id, check_in, check_out, guests, outcome, booking_id, detail)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		s.SessionID, s.PropertyID, s.CheckIn, s.CheckOut, s.Guests, s.Outcome, s.BookingID, s.Detail,
	)
	if err != nil {
		return fmt.Errorf("log submission: %w", err)
	}
	s.ID, _ = res.LastInsertId()
	return nil
}

// sqliteTime renders t the way CURRENT_TIMESTAMP stores it (UTC, second
// precision), so text comparisons against created_at are well ordered. A raw
// time.Time bind carries a timezone suffix and compares lexicographically.
func sqliteTime(t time.Time) string {
	return t.UTC().Format("2006-01-02 15:04:05")
}

// ListSubmissions returns submissions created within [from, to).
func (db *DB) ListSubmissions(ctx context.Context, from, to time.Time) ([]Submission, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT id, session_id, property_id, check_in, check_out, guests, outcome,
		       COALESCE(booking_id, ''), COALESCE(detail, ''), created_at
		FROM submissions
		WHERE created_at >= ? AND created_at < ?
		ORDER BY created_at`,
		sqliteTime(from), sqliteTime(to),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var subs []Submission
	for rows.Next() {
		var s Submission
		if err := rows.Scan(
			&s.ID, &s.SessionID, &s.PropertyID, &s.CheckIn, &s.CheckOut,
			&s.Guests, &s.Outcome, &s.BookingID, &s.Detail, &s.CreatedAt,
		); err != nil {
			return nil, err
		}
		subs = append(subs, s)
	}
	return subs, rows.Err()
}

// DeleteOldSubmissions removes log entries older than the retention window
// and reports how many were deleted.
func (db *DB) DeleteOldSubmissions(ctx context.Context, olderThan time.Duration) (int64, error) {
	cutoff := time.Now().Add(-olderThan)
	res, err := db.ExecContext(ctx,
		"DELETE FROM submissions WHERE created_at < ?", sqliteTime(cutoff),
	)
	if err != nil {
		return 0, fmt.Errorf("delete old submissions: %w", err)
	}
	return res.RowsAffected()
}
