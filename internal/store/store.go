package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"property-feed/internal/model"
)

// ErrNotFound is returned when no record exists for a key.
var ErrNotFound = errors.New("record not found")

// Store is the durable layer backing the cache. Append-oriented: every
// ingestion cycle inserts a new row per record, history is retained, and
// lookups return the most recently inserted row for a key.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the SQLite database and ensures the schema.
func Open(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}

	recordTable := `
	CREATE TABLE IF NOT EXISTS records (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		category TEXT NOT NULL,
		record_key TEXT NOT NULL,
		payload TEXT NOT NULL,
		created_at DATETIME NOT NULL
	);
	`
	recordKeyIndex := `
	CREATE INDEX IF NOT EXISTS idx_records_key ON records (record_key, id);
	`
	cycleRunTable := `
	CREATE TABLE IF NOT EXISTS cycle_runs (
		run_id TEXT PRIMARY KEY,
		category TEXT NOT NULL,
		started_at DATETIME NOT NULL,
		finished_at DATETIME NOT NULL,
		status TEXT NOT NULL,
		records_in INTEGER NOT NULL,
		records_out INTEGER NOT NULL,
		error_message TEXT
	);
	`

	for _, stmt := range []string{recordTable, recordKeyIndex, cycleRunTable} {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, err
		}
	}

	return &Store{db: db}, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// Insert appends a new row for the key. No uniqueness across cycles: a
// later cycle writing the same key supersedes without updating in place.
func (s *Store) Insert(ctx context.Context, category model.Category, key string, payload []byte) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO records (category, record_key, payload, created_at) VALUES (?, ?, ?, ?)`,
		string(category), key, string(payload), time.Now().UTC())
	return err
}

// FindByKey returns the most recently inserted payload for the key, or
// ErrNotFound.
func (s *Store) FindByKey(ctx context.Context, key string) ([]byte, error) {
	var payload string
	err := s.db.QueryRowContext(ctx,
		`SELECT payload FROM records WHERE record_key = ? ORDER BY id DESC LIMIT 1`, key).
		Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return []byte(payload), nil
}

// LatestByCategory returns the payload of the newest row in the category,
// or ErrNotFound. Serves the query endpoints on a cold cache.
func (s *Store) LatestByCategory(ctx context.Context, category model.Category) ([]byte, error) {
	var payload string
	err := s.db.QueryRowContext(ctx,
		`SELECT payload FROM records WHERE category = ? ORDER BY id DESC LIMIT 1`, string(category)).
		Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return []byte(payload), nil
}

// SaveCycleRun records the outcome of one scheduled job execution.
func (s *Store) SaveCycleRun(ctx context.Context, run model.CycleRun) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO cycle_runs (run_id, category, started_at, finished_at, status, records_in, records_out, error_message)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		run.RunID, string(run.Category), run.StartedAt, run.FinishedAt,
		run.Status, run.RecordsIn, run.RecordsOut, run.Error)
	return err
}

// RecentCycleRuns lists the newest cycle runs across all categories.
func (s *Store) RecentCycleRuns(ctx context.Context, limit int) ([]model.CycleRun, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT run_id, category, started_at, finished_at, status, records_in, records_out, COALESCE(error_message, '')
		 FROM cycle_runs ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []model.CycleRun
	for rows.Next() {
		var run model.CycleRun
		var category string
		if err := rows.Scan(&run.RunID, &category, &run.StartedAt, &run.FinishedAt,
			&run.Status, &run.RecordsIn, &run.RecordsOut, &run.Error); err != nil {
			return nil, err
		}
		run.Category = model.Category(category)
		runs = append(runs, run)
	}
	return runs, rows.Err()
}
