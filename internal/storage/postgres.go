package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"crptrelay/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStorage implements the Storage interface on PostgreSQL via a pgx
// connection pool. This is the production backend for multi-node deployments
// that share one journal.
type PostgresStorage struct {
	pool *pgxpool.Pool
}

const postgresSchema = `
CREATE TABLE IF NOT EXISTS submissions (
	id           TEXT PRIMARY KEY,
	doc_id       TEXT NOT NULL,
	doc_type     TEXT NOT NULL,
	status       TEXT NOT NULL,
	response     TEXT NOT NULL DEFAULT '',
	error        TEXT NOT NULL DEFAULT '',
	submitted_at TIMESTAMPTZ NOT NULL,
	duration_ns  BIGINT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_submissions_submitted_at ON submissions(submitted_at DESC);
`

// NewPostgresStorage creates a new PostgreSQL storage instance and applies the schema
func NewPostgresStorage(config Config) (*PostgresStorage, error) {
	if config.ConnectionString == "" {
		return nil, fmt.Errorf("connection string is required for PostgreSQL storage")
	}

	poolConfig, err := pgxpool.ParseConfig(config.ConnectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to parse connection string: %w", err)
	}
	if config.MaxOpenConns > 0 {
		poolConfig.MaxConns = int32(config.MaxOpenConns)
	}
	if config.MaxIdleConns > 0 {
		poolConfig.MinConns = int32(config.MaxIdleConns)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	// Test the connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if _, err := pool.Exec(ctx, postgresSchema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	return &PostgresStorage{
		pool: pool,
	}, nil
}

// SaveSubmission appends one journal record
func (p *PostgresStorage) SaveSubmission(ctx context.Context, sub *models.Submission) error {
	_, err := p.pool.Exec(ctx, `
		INSERT INTO submissions (id, doc_id, doc_type, status, response, error, submitted_at, duration_ns)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO UPDATE SET
			doc_id = EXCLUDED.doc_id,
			doc_type = EXCLUDED.doc_type,
			status = EXCLUDED.status,
			response = EXCLUDED.response,
			error = EXCLUDED.error,
			submitted_at = EXCLUDED.submitted_at,
			duration_ns = EXCLUDED.duration_ns`,
		sub.ID, sub.DocID, sub.DocType, sub.Status, sub.Response, sub.Error,
		sub.SubmittedAt.UTC(), int64(sub.Duration))
	if err != nil {
		return fmt.Errorf("failed to save submission: %w", err)
	}
	return nil
}

// GetSubmission retrieves a journal record by its ID
func (p *PostgresStorage) GetSubmission(ctx context.Context, id string) (*models.Submission, error) {
	row := p.pool.QueryRow(ctx, `
		SELECT id, doc_id, doc_type, status, response, error, submitted_at, duration_ns
		FROM submissions WHERE id = $1`, id)

	sub, err := scanSubmission(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrSubmissionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get submission: %w", err)
	}
	return sub, nil
}

// Submissions returns journal records, newest first, with pagination
func (p *PostgresStorage) Submissions(ctx context.Context, limit, offset int) ([]*models.Submission, int, error) {
	var total int
	if err := p.pool.QueryRow(ctx, `SELECT COUNT(*) FROM submissions`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count submissions: %w", err)
	}

	if limit <= 0 {
		limit = total
	}
	if offset < 0 {
		offset = 0
	}

	rows, err := p.pool.Query(ctx, `
		SELECT id, doc_id, doc_type, status, response, error, submitted_at, duration_ns
		FROM submissions ORDER BY submitted_at DESC LIMIT $1 OFFSET $2`, limit, offset)
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
func (p *PostgresStorage) Ping(ctx context.Context) error {
	return p.pool.Ping(ctx)
}

// Close closes the connection pool
func (p *PostgresStorage) Close() error {
	p.pool.Close()
	return nil
}
