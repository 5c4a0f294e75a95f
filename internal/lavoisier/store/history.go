package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

// Status of a recorded balancing attempt
type Status string

const (
	StatusBalanced Status = "BALANCED"
	StatusFailed   Status = "FAILED"
)

// ErrNotFound is returned by Get for an unknown record ID
var ErrNotFound = errors.New("history record not found")

// Record is one balancing attempt
type Record struct {
	ID           string        `json:"id" yaml:"id"`
	Timestamp    time.Time     `json:"timestamp" yaml:"timestamp"`
	Equation     string        `json:"equation" yaml:"equation"`
	Balanced     string        `json:"balanced,omitempty" yaml:"balanced,omitempty"`
	Coefficients []int         `json:"coefficients,omitempty" yaml:"coefficients,omitempty"`
	Status       Status        `json:"status" yaml:"status"`
	ErrorCode    string        `json:"error_code,omitempty" yaml:"error_code,omitempty"`
	ErrorMessage string        `json:"error_message,omitempty" yaml:"error_message,omitempty"`
	Source       string        `json:"source,omitempty" yaml:"source,omitempty"`
	RequestID    string        `json:"request_id,omitempty" yaml:"request_id,omitempty"`
	Duration     time.Duration `json:"duration" yaml:"duration"`
}

// Filter defines criteria for listing records
type Filter struct {
	Status Status
	Source string
	Since  time.Time
	Limit  int
	Offset int
}

// Stats summarizes the history
type Stats struct {
	Total       int64            `json:"total" yaml:"total"`
	Balanced    int64            `json:"balanced" yaml:"balanced"`
	Failed      int64            `json:"failed" yaml:"failed"`
	ByErrorCode map[string]int64 `json:"by_error_code,omitempty" yaml:"by_error_code,omitempty"` // failures only
}

// HistoryStore defines the interface for balancing history persistence
type HistoryStore interface {
	Record(ctx context.Context, rec *Record) error
	Get(ctx context.Context, id string) (*Record, error)
	List(ctx context.Context, filter Filter) ([]*Record, error)
	Stats(ctx context.Context) (*Stats, error)
	Prune(ctx context.Context, olderThan time.Duration) (int64, error)
	Ping(ctx context.Context) error
	Close() error
}

// SQLiteHistoryStore implements HistoryStore using SQLite
type SQLiteHistoryStore struct {
	db *sql.DB
	mu sync.RWMutex
}

// SQLiteConfig holds configuration for the SQLite store
type SQLiteConfig struct {
	Path string
}

// DefaultConfig returns default configuration
func DefaultConfig() SQLiteConfig {
	return SQLiteConfig{
		Path: "./data/history.db",
	}
}

// NewSQLiteHistoryStore opens or creates the history database
func NewSQLiteHistoryStore(cfg SQLiteConfig) (*SQLiteHistoryStore, error) {
	// Ensure directory exists
	dir := filepath.Dir(cfg.Path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	// Open database with WAL mode
	db, err := sql.Open("sqlite3", cfg.Path+"?_journal_mode=WAL&_synchronous=NORMAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &SQLiteHistoryStore{db: db}

	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return store, nil
}

// initSchema creates the necessary tables
func (s *SQLiteHistoryStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS history (
		id TEXT PRIMARY KEY,
		timestamp DATETIME NOT NULL,
		equation TEXT NOT NULL,
		balanced TEXT,
		coefficients TEXT,
		status TEXT NOT NULL,
		error_code TEXT,
		error_message TEXT,
		source TEXT,
		request_id TEXT,
		duration_us INTEGER NOT NULL DEFAULT 0
	);

	CREATE INDEX IF NOT EXISTS idx_history_timestamp ON history(timestamp DESC);
	CREATE INDEX IF NOT EXISTS idx_history_status ON history(status);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Record stores rec, assigning an ID and timestamp when missing
func (s *SQLiteHistoryStore) Record(ctx context.Context, rec *Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	if rec.Timestamp.IsZero() {
		rec.Timestamp = time.Now()
	}
	rec.Timestamp = rec.Timestamp.UTC()

	var coefficientsJSON []byte
	if rec.Coefficients != nil {
		coefficientsJSON, _ = json.Marshal(rec.Coefficients)
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO history (id, timestamp, equation, balanced, coefficients, status,
			error_code, error_message, source, request_id, duration_us)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, rec.ID, rec.Timestamp, rec.Equation, rec.Balanced, string(coefficientsJSON), rec.Status,
		rec.ErrorCode, rec.ErrorMessage, rec.Source, rec.RequestID, rec.Duration.Microseconds())

	if err != nil {
		return fmt.Errorf("failed to insert history record: %w", err)
	}

	return nil
}

const selectColumns = `SELECT id, timestamp, equation, balanced, coefficients, status,
	error_code, error_message, source, request_id, duration_us FROM history`

// Get returns the record with the given ID
func (s *SQLiteHistoryStore) Get(ctx context.Context, id string) (*Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, selectColumns+" WHERE id = ?", id)
	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// List returns records matching filter, newest first
func (s *SQLiteHistoryStore) List(ctx context.Context, filter Filter) ([]*Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := selectColumns + " WHERE 1=1"
	var args []interface{}

	if filter.Status != "" {
		query += " AND status = ?"
		args = append(args, filter.Status)
	}
	if filter.Source != "" {
		query += " AND source = ?"
		args = append(args, filter.Source)
	}
	if !filter.Since.IsZero() {
		query += " AND timestamp >= ?"
		args = append(args, filter.Since.UTC())
	}

	query += " ORDER BY timestamp DESC, rowid DESC"

	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
		if filter.Offset > 0 {
			query += " OFFSET ?"
			args = append(args, filter.Offset)
		}
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer rows.Close()

	var records []*Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// Stats counts records by status and failures by error code
func (s *SQLiteHistoryStore) Stats(ctx context.Context) (*Stats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := &Stats{ByErrorCode: make(map[string]int64)}

	rows, err := s.db.QueryContext(ctx, `
		SELECT status, COALESCE(error_code, ''), COUNT(*) FROM history GROUP BY status, error_code
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query history stats: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var status, code string
		var count int64
		if err := rows.Scan(&status, &code, &count); err != nil {
			return nil, fmt.Errorf("failed to scan history stats: %w", err)
		}
		stats.Total += count
		switch Status(status) {
		case StatusBalanced:
			stats.Balanced += count
		case StatusFailed:
			stats.Failed += count
			if code != "" {
				stats.ByErrorCode[code] += count
			}
		}
	}
	return stats, rows.Err()
}

// Prune removes records older than the given age
func (s *SQLiteHistoryStore) Prune(ctx context.Context, olderThan time.Duration) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := time.Now().Add(-olderThan).UTC()
	result, err := s.db.ExecContext(ctx, "DELETE FROM history WHERE timestamp < ?", cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to prune history: %w", err)
	}
	return result.RowsAffected()
}

// Ping checks the database connection
func (s *SQLiteHistoryStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the database connection
func (s *SQLiteHistoryStore) Close() error {
	return s.db.Close()
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanRecord(sc scanner) (*Record, error) {
	var rec Record
	var balanced, coefficientsJSON, errorCode, errorMessage, source, requestID sql.NullString
	var durationUS int64

	if err := sc.Scan(&rec.ID, &rec.Timestamp, &rec.Equation, &balanced, &coefficientsJSON,
		&rec.Status, &errorCode, &errorMessage, &source, &requestID, &durationUS); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan history record: %w", err)
	}

	rec.Balanced = balanced.String
	rec.ErrorCode = errorCode.String
	rec.ErrorMessage = errorMessage.String
	rec.Source = source.String
	rec.RequestID = requestID.String
	rec.Duration = time.Duration(durationUS) * time.Microsecond
	if coefficientsJSON.Valid && coefficientsJSON.String != "" {
		if err := json.Unmarshal([]byte(coefficientsJSON.String), &rec.Coefficients); err != nil {
			return nil, fmt.Errorf("failed to decode coefficients of %s: %w", rec.ID, err)
		}
	}
	return &rec, nil
}
