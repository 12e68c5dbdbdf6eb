package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"crptrelay/internal/models"
)

// JSONStorage implements the Storage interface using a JSON file for
// persistence. All reads and writes go through an in-memory copy guarded by a
// mutex; every save rewrites the file.
type JSONStorage struct {
	filePath string
	mu       sync.RWMutex
	data     *JSONData
}

// JSONData represents the structure of data stored in JSON format
type JSONData struct {
	Submissions []*models.Submission `json:"submissions"`
	LastUpdated time.Time            `json:"last_updated"`
}

// NewJSONStorage creates a new JSON-based storage instance
func NewJSONStorage(config Config) (*JSONStorage, error) {
	if config.Path == "" {
		return nil, fmt.Errorf("path is required for JSON storage")
	}

	storage := &JSONStorage{
		filePath: config.Path,
	}

	// Initialize with empty data if file doesn't exist
	if err := storage.ensureFileExists(); err != nil {
		return nil, fmt.Errorf("failed to ensure file exists: %w", err)
	}

	// Load initial data
	if err := storage.loadData(); err != nil {
		return nil, fmt.Errorf("failed to load initial data: %w", err)
	}

	return storage, nil
}

// ensureFileExists creates the JSON file with empty data if it doesn't exist
func (j *JSONStorage) ensureFileExists() error {
	if _, err := os.Stat(j.filePath); os.IsNotExist(err) {
		// Create directory if it doesn't exist
		if err := os.MkdirAll(filepath.Dir(j.filePath), 0700); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}

		emptyData := &JSONData{
			Submissions: []*models.Submission{},
			LastUpdated: time.Now(),
		}

		return j.saveData(emptyData)
	}
	return nil
}

// loadData loads data from the JSON file into memory
func (j *JSONStorage) loadData() error {
	j.mu.Lock()
	defer j.mu.Unlock()

	fileData, err := os.ReadFile(j.filePath)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}

	var data JSONData
	if err := json.Unmarshal(fileData, &data); err != nil {
		return fmt.Errorf("failed to unmarshal JSON: %w", err)
	}
	if data.Submissions == nil {
		data.Submissions = []*models.Submission{}
	}

	j.data = &data
	return nil
}

// saveData saves data to the JSON file
func (j *JSONStorage) saveData(data *JSONData) error {
	data.LastUpdated = time.Now()

	fileData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if err := os.WriteFile(j.filePath, fileData, 0600); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}

	return nil
}

// SaveSubmission appends one journal record
func (j *JSONStorage) SaveSubmission(ctx context.Context, sub *models.Submission) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	subCopy := *sub
	replaced := false
	for i, existing := range j.data.Submissions {
		if existing.ID == sub.ID {
			j.data.Submissions[i] = &subCopy
			replaced = true
			break
		}
	}
	if !replaced {
		j.data.Submissions = append(j.data.Submissions, &subCopy)
	}

	return j.saveData(j.data)
}

// GetSubmission retrieves a journal record by its ID
func (j *JSONStorage) GetSubmission(ctx context.Context, id string) (*models.Submission, error) {
	j.mu.RLock()
	defer j.mu.RUnlock()

	for _, sub := range j.data.Submissions {
		if sub.ID == id {
			subCopy := *sub
			return &subCopy, nil
		}
	}

	return nil, ErrSubmissionNotFound
}

// Submissions returns journal records, newest first, with pagination
func (j *JSONStorage) Submissions(ctx context.Context, limit, offset int) ([]*models.Submission, int, error) {
	j.mu.RLock()
	defer j.mu.RUnlock()

	all := make([]*models.Submission, len(j.data.Submissions))
	for i, sub := range j.data.Submissions {
		subCopy := *sub
		all[i] = &subCopy
	}

	sort.Slice(all, func(i, k int) bool {
		return all[k].SubmittedAt.Before(all[i].SubmittedAt)
	})

	return paginate(all, limit, offset), len(all), nil
}

// Ping verifies the backing file is still accessible.
func (j *JSONStorage) Ping(_ context.Context) error {
	_, err := os.Stat(j.filePath)
	if err != nil {
		return fmt.Errorf("failed to stat journal file: %w", err)
	}
	return nil
}

// Close closes the storage connection and cleans up resources
func (j *JSONStorage) Close() error {
	return nil
}
