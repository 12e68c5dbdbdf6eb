package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"crptrelay/internal/models"

	_ "modernc.org/sqlite"
)

// SQLiteStorage implements the Storage interface on a local SQLite database.
// Suitable for single-node deployments that need the journal to survive
// restarts without running a database server.
type SQLiteStorage struct {
	db *sql.DB
}

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS submissions (
	id           TEXT PRIMARY KEY,
	doc_id       TEXT NOT NULL,
	doc_type     TEXT NOT NULL,
	status       TEXT NOT NULL,
	response     TEXT NOT NULL DEFAULT '',
	error        TEXT NOT NULL DEFAULT '',
	submitted_at TIMESTAMP NOT NULL,
	duration_ns  INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_submissions_submitted_at ON submissions(submitted_at DESC);
`

// NewSQLiteStorage creates a new SQLite storage instance and applies the schema
func NewSQLiteStorage(config Config) (*SQLiteStorage, error) {
	if config.ConnectionString == "" {
		return nil, fmt.Errorf("connection string is required for SQLite storage")
	}

	db, err := sql.Open("sqlite", config.ConnectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if config.MaxOpenConns > 0 {
		db.SetMaxOpenConns(config.MaxOpenConns)
	}
	if config.MaxIdleConns > 0 {
		db.SetMaxIdleConns(config.MaxIdleConns)
	}

	// Test the connection
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	return &SQLiteStorage{
		db: db,
	}, nil
}

// SaveSubmission appends one journal record
func (s *SQLiteStorage) SaveSubmission(ctx context.Context, sub *models.Submission) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO submissions (id, doc_id, doc_type, status, response, error, submitted_at, duration_ns)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			doc_id = excluded.doc_id,
			doc_type = excluded.doc_type,
			status = excluded.status,
			response = excluded.response,
			error = excluded.error,
			submitted_at = excluded.submitted_at,
			duration_ns = excluded.duration_ns`,
		sub.ID, sub.DocID, sub.DocType, sub.Status, sub.Response, sub.Error,
		sub.SubmittedAt.UTC(), int64(sub.Duration))
	if err != nil {
		return fmt.Errorf("failed to save submission: %w", err)
	}
	return nil
}

// GetSubmission retrieves a journal record by its ID
func (s *SQLiteStorage) GetSubmission(ctx context.Context, id string) (*models.Submission, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, doc_id, doc_type, status, response, error, submitted_at, duration_ns
		FROM submissions WHERE id = ?`, id)

	sub, err := scanSubmission(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSubmissionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get submission: %w", err)
	}
	return sub, nil
}

// Submissions returns journal records, newest first, with pagination
func (s *SQLiteStorage) Submissions(ctx context.Context, limit, offset int) ([]*models.Submission, int, error) {
	var total int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM submissions`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count submissions: %w", err)
	}

	if limit <= 0 {
		limit = -1 // SQLite treats a negative LIMIT as unlimited
	}
	if offset < 0 {
		offset = 0
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, doc_id, doc_type, status, response, error, submitted_at, duration_ns
		FROM submissions ORDER BY submitted_at DESC LIMIT ? OFFSET ?`, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list submissions: %w", err)
	}
	defer rows.Close()

	subs := []*models.Submission{}
	for rows.Next() {
		sub, err := scanSubmission(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan submission: %w", err)
		}
		subs = append(subs, sub)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate submissions: %w", err)
	}

	return subs, total, nil
}

// Ping verifies the storage backend is reachable and operational
func (s *SQLiteStorage) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the storage connection
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSubmission(row rowScanner) (*models.Submission, error) {
	var sub models.Submission
	var submittedAt time.Time
	var durationNs int64
	if err := row.Scan(&sub.ID, &sub.DocID, &sub.DocType, &sub.Status, &sub.Response, &sub.Error, &submittedAt, &durationNs); err != nil {
		return nil, err
	}
	sub.SubmittedAt = submittedAt
	sub.Duration = time.Duration(durationNs)
	return &sub, nil
}
