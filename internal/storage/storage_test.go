package storage

import (
	"context"
	"fmt"
	"testing"
	"time"

	"crptrelay/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSubmission(docID string, submittedAt time.Time) *models.Submission {
	return &models.Submission{
		ID:          uuid.New().String(),
		DocID:       docID,
		DocType:     models.DocTypeIntroduceGoods,
		Status:      models.SubmissionStatusAccepted,
		Response:    `{"value":"ok"}`,
		SubmittedAt: submittedAt,
		Duration:    125 * time.Millisecond,
	}
}

// testStorageContract runs the behavior every journal backend must share.
func testStorageContract(t *testing.T, store Storage) {
	t.Helper()
	ctx := context.Background()

	t.Run("get missing submission", func(t *testing.T) {
		_, err := store.GetSubmission(ctx, "does-not-exist")
		assert.ErrorIs(t, err, ErrSubmissionNotFound)
	})

	t.Run("save and get", func(t *testing.T) {
		sub := newSubmission("doc-save", time.Now().UTC().Truncate(time.Millisecond))
		require.NoError(t, store.SaveSubmission(ctx, sub))

		got, err := store.GetSubmission(ctx, sub.ID)
		require.NoError(t, err)
		assert.Equal(t, sub.ID, got.ID)
		assert.Equal(t, sub.DocID, got.DocID)
		assert.Equal(t, sub.DocType, got.DocType)
		assert.Equal(t, sub.Status, got.Status)
		assert.Equal(t, sub.Response, got.Response)
		assert.Equal(t, sub.Duration, got.Duration)
		assert.WithinDuration(t, sub.SubmittedAt, got.SubmittedAt, time.Second)
	})

	t.Run("save same id twice updates", func(t *testing.T) {
		sub := newSubmission("doc-update", time.Now().UTC())
		require.NoError(t, store.SaveSubmission(ctx, sub))

		sub.Status = models.SubmissionStatusFailed
		sub.Error = "upstream rejected"
		require.NoError(t, store.SaveSubmission(ctx, sub))

		got, err := store.GetSubmission(ctx, sub.ID)
		require.NoError(t, err)
		assert.Equal(t, models.SubmissionStatusFailed, got.Status)
		assert.Equal(t, "upstream rejected", got.Error)
	})

	t.Run("list newest first with pagination", func(t *testing.T) {
		base := time.Now().UTC().Add(time.Hour)
		var ids []string
		for i := 0; i < 5; i++ {
			sub := newSubmission(fmt.Sprintf("doc-page-%d", i), base.Add(time.Duration(i)*time.Minute))
			require.NoError(t, store.SaveSubmission(ctx, sub))
			ids = append(ids, sub.ID)
		}

		subs, total, err := store.Submissions(ctx, 2, 0)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, total, 5)
		require.Len(t, subs, 2)
		// Newest of the batch first
		assert.Equal(t, ids[4], subs[0].ID)
		assert.Equal(t, ids[3], subs[1].ID)

		subs, _, err = store.Submissions(ctx, 2, 2)
		require.NoError(t, err)
		require.Len(t, subs, 2)
		assert.Equal(t, ids[2], subs[0].ID)
	})

	t.Run("offset beyond end", func(t *testing.T) {
		subs, _, err := store.Submissions(ctx, 10, 100000)
		require.NoError(t, err)
		assert.Empty(t, subs)
	})

	t.Run("ping", func(t *testing.T) {
		assert.NoError(t, store.Ping(ctx))
	})
}

func TestMemoryStorage(t *testing.T) {
	store, err := NewMemoryStorage(Config{})
	require.NoError(t, err)
	defer store.Close()

	testStorageContract(t, store)
}

func TestMemoryStorage_CloseClearsData(t *testing.T) {
	store, err := NewMemoryStorage(Config{})
	require.NoError(t, err)

	sub := newSubmission("doc-close", time.Now())
	require.NoError(t, store.SaveSubmission(context.Background(), sub))
	require.NoError(t, store.Close())

	_, err = store.GetSubmission(context.Background(), sub.ID)
	assert.ErrorIs(t, err, ErrSubmissionNotFound)
}

func TestMemoryStorage_ReturnsCopies(t *testing.T) {
	store, err := NewMemoryStorage(Config{})
	require.NoError(t, err)
	defer store.Close()

	ctx := context.Background()
	sub := newSubmission("doc-copy", time.Now())
	require.NoError(t, store.SaveSubmission(ctx, sub))

	got, err := store.GetSubmission(ctx, sub.ID)
	require.NoError(t, err)
	got.Status = "tampered"

	again, err := store.GetSubmission(ctx, sub.ID)
	require.NoError(t, err)
	assert.Equal(t, models.SubmissionStatusAccepted, again.Status)
}
