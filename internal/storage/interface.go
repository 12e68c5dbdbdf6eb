package storage

import (
	"context"

	"crptrelay/internal/models"
)

// Storage defines the interface for the submission journal. It provides a
// clean abstraction that can be implemented by different backends such as
// JSON files or databases.
type Storage interface {
	// SaveSubmission appends one journal record
	SaveSubmission(ctx context.Context, sub *models.Submission) error

	// GetSubmission retrieves a journal record by its ID
	GetSubmission(ctx context.Context, id string) (*models.Submission, error)

	// Submissions returns journal records, newest first, with pagination.
	// The second return value is the total record count before paging.
	Submissions(ctx context.Context, limit, offset int) ([]*models.Submission, int, error)

	// Ping verifies the storage backend is reachable and operational
	Ping(ctx context.Context) error

	// Close closes the storage connection and cleans up resources
	Close() error
}

// Config holds configuration for storage backends
type Config struct {
	// Type specifies the storage backend type (memory, json, sqlite, postgres)
	Type string `json:"type" yaml:"type"`

	// Path is used for file-based storage backends
	Path string `json:"path,omitempty" yaml:"path,omitempty"`

	// ConnectionString is used for database backends
	ConnectionString string `json:"connection_string,omitempty" yaml:"connection_string,omitempty"`

	// MaxOpenConns bounds the database connection pool
	MaxOpenConns int `json:"max_open_conns,omitempty" yaml:"max_open_conns,omitempty"`

	// MaxIdleConns bounds idle connections kept in the pool
	MaxIdleConns int `json:"max_idle_conns,omitempty" yaml:"max_idle_conns,omitempty"`
}
