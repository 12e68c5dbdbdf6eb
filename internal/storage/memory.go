package storage

import (
	"context"
	"sort"
	"sync"

	"crptrelay/internal/models"
)

// MemoryStorage implements the Storage interface using in-memory data structures.
// This provider is ideal for development, testing, and scenarios where journal
// persistence is not required. Data is lost on restart.
type MemoryStorage struct {
	mu          sync.RWMutex
	submissions map[string]*models.Submission
	order       []string // IDs in insertion order
}

// NewMemoryStorage creates a new memory-based storage instance
func NewMemoryStorage(config Config) (*MemoryStorage, error) {
	return &MemoryStorage{
		submissions: make(map[string]*models.Submission),
	}, nil
}

// SaveSubmission appends one journal record
func (m *MemoryStorage) SaveSubmission(ctx context.Context, sub *models.Submission) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	// Store a copy to prevent external modification
	subCopy := *sub
	if _, exists := m.submissions[sub.ID]; !exists {
		m.order = append(m.order, sub.ID)
	}
	m.submissions[sub.ID] = &subCopy

	return nil
}

// GetSubmission retrieves a journal record by its ID
func (m *MemoryStorage) GetSubmission(ctx context.Context, id string) (*models.Submission, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	sub, exists := m.submissions[id]
	if !exists {
		return nil, ErrSubmissionNotFound
	}

	// Return a copy
	subCopy := *sub
	return &subCopy, nil
}

// Submissions returns journal records, newest first, with pagination
func (m *MemoryStorage) Submissions(ctx context.Context, limit, offset int) ([]*models.Submission, int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	all := make([]*models.Submission, 0, len(m.submissions))
	for _, id := range m.order {
		subCopy := *m.submissions[id]
		all = append(all, &subCopy)
	}

	// Sort by submission time (latest first)
	sort.Slice(all, func(i, j int) bool {
		return all[j].SubmittedAt.Before(all[i].SubmittedAt)
	})

	return paginate(all, limit, offset), len(all), nil
}

// Ping verifies the storage backend is reachable and operational.
func (m *MemoryStorage) Ping(_ context.Context) error {
	return nil
}

// Close closes the storage connection and cleans up resources
func (m *MemoryStorage) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	// Clear all data
	m.submissions = make(map[string]*models.Submission)
	m.order = nil

	return nil
}

// paginate slices a sorted result set. A non-positive limit means no limit.
func paginate(subs []*models.Submission, limit, offset int) []*models.Submission {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(subs) {
		return []*models.Submission{}
	}
	subs = subs[offset:]
	if limit > 0 && limit < len(subs) {
		subs = subs[:limit]
	}
	return subs
}
