package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/example/gymbook/internal/domain/booking"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAttemptRepo_RecentNewestFirst(t *testing.T) {
	ctx := context.Background()
	repo, err := Open(ctx, ":memory:")
	require.NoError(t, err)
	defer repo.Close()

	runID := uuid.New()
	start := time.Date(2025, time.November, 25, 6, 0, 0, 0, time.UTC)
	for i, reason := range []booking.Reason{booking.ReasonEventNotFound, booking.ReasonSlotUnavailable, booking.ReasonBooked} {
		require.NoError(t, repo.Record(ctx, booking.AttemptRecord{
			RunID:     runID,
			Attempt:   i + 1,
			StartedAt: start.Add(time.Duration(i)*5*time.Second + 250*time.Millisecond*time.Duration(i%2)),
			Duration:  time.Duration(i+1) * time.Second,
			Success:   reason == booking.ReasonBooked,
			Reason:    reason,
		}))
	}

	recs, err := repo.Recent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, 3, recs[0].Attempt)
	assert.True(t, recs[0].Success)
	assert.Equal(t, booking.ReasonBooked, recs[0].Reason)
	assert.Equal(t, runID, recs[0].RunID)
	assert.Equal(t, 2, recs[1].Attempt)
	assert.Equal(t, 2*time.Second, recs[1].Duration)
	assert.True(t, start.Add(5250*time.Millisecond).Equal(recs[1].StartedAt))
}

func TestOpen_CreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "gymbook.db")
	repo, err := Open(context.Background(), path)
	require.NoError(t, err)
	require.NoError(t, repo.Close())

	assert.FileExists(t, path)
}
