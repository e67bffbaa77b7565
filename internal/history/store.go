package history

import (
	"database/sql"
	_ "embed"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schemaSQL string

// Entry represents a single query history entry
type Entry struct {
	ID           int
	ProfileID    string
	DatabaseName string
	Query        string
	ExecutedAt   time.Time
	Duration     time.Duration
	RowsAffected int64
	Success      bool
	ErrorMessage string
}

// Store manages query history persistence
type Store struct {
	db *sql.DB
}

// NewStore creates a new history store
func NewStore(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	// Create schema
	_, err = db.Exec(schemaSQL)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

// Add adds a new query to history
func (s *Store) Add(entry Entry) error {
	_, err := s.db.Exec(`
		INSERT INTO query_history
		(profile_id, database_name, query, duration_ms, rows_affected, success, error_message)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		entry.ProfileID,
		entry.DatabaseName,
		entry.Query,
		entry.Duration.Milliseconds(),
		entry.RowsAffected,
		entry.Success,
		entry.ErrorMessage,
	)
	return err
}

// Recent retrieves the most recent query history entries for a profile
func (s *Store) Recent(profileID string, limit int) ([]Entry, error) {
	rows, err := s.db.Query(`
		SELECT id, profile_id, database_name, query, executed_at,
		       duration_ms, rows_affected, success, error_message
		FROM query_history
		WHERE profile_id = ?
		ORDER BY executed_at DESC
		LIMIT ?`, profileID, limit)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	return scanEntries(rows)
}

// Search searches query history by query text
func (s *Store) Search(query string, limit int) ([]Entry, error) {
	rows, err := s.db.Query(`
		SELECT id, profile_id, database_name, query, executed_at,
		       duration_ms, rows_affected, success, error_message
		FROM query_history
		WHERE query LIKE ?
		ORDER BY executed_at DESC
		LIMIT ?`, "%"+query+"%", limit)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	return scanEntries(rows)
}

// Prune deletes everything beyond the newest maxEntries rows
func (s *Store) Prune(maxEntries int) error {
	_, err := s.db.Exec(`
		DELETE FROM query_history
		WHERE id NOT IN (
			SELECT id FROM query_history ORDER BY executed_at DESC LIMIT ?
		)`, maxEntries)
	return err
}

func scanEntries(rows *sql.Rows) ([]Entry, error) {
	var entries []Entry
	for rows.Next() {
		var e Entry
		var durationMs int64
		var executedAt string

		err := rows.Scan(
			&e.ID,
			&e.ProfileID,
			&e.DatabaseName,
			&e.Query,
			&executedAt,
			&durationMs,
			&e.RowsAffected,
			&e.Success,
			&e.ErrorMessage,
		)
		if err != nil {
			return nil, err
		}

		e.Duration = time.Duration(durationMs) * time.Millisecond
		e.ExecutedAt, _ = time.Parse("2006-01-02 15:04:05", executedAt)

		entries = append(entries, e)
	}

	return entries, rows.Err()
}

// Close closes the database connection
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
