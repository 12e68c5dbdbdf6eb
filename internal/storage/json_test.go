package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONStorage(t *testing.T) {
	store, err := NewJSONStorage(Config{Path: filepath.Join(t.TempDir(), "journal.json")})
	require.NoError(t, err)
	defer store.Close()

	testStorageContract(t, store)
}

func TestJSONStorage_RequiresPath(t *testing.T) {
	_, err := NewJSONStorage(Config{})
	assert.Error(t, err)
}

func TestJSONStorage_CreatesFileAndDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "journal.json")

	store, err := NewJSONStorage(Config{Path: path})
	require.NoError(t, err)
	defer store.Close()

	_, err = os.Stat(path)
	assert.NoError(t, err)
}

func TestJSONStorage_PersistsAcrossInstances(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal.json")
	ctx := context.Background()

	store, err := NewJSONStorage(Config{Path: path})
	require.NoError(t, err)

	sub := newSubmission("doc-persist", time.Now().UTC())
	require.NoError(t, store.SaveSubmission(ctx, sub))
	require.NoError(t, store.Close())

	// A fresh instance must see the record written by the first one
	reopened, err := NewJSONStorage(Config{Path: path})
	require.NoError(t, err)
	defer reopened.Close()

	got, err := reopened.GetSubmission(ctx, sub.ID)
	require.NoError(t, err)
	assert.Equal(t, sub.DocID, got.DocID)
}

func TestJSONStorage_RejectsCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0600))

	_, err := NewJSONStorage(Config{Path: path})
	assert.Error(t, err)
}
