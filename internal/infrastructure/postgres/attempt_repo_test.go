package postgres

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/example/gymbook/internal/domain/booking"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAttemptRepo_RoundTrip(t *testing.T) {
	url := os.Getenv("GYMBOOK_TEST_POSTGRES_URL")
	if url == "" {
		t.Skip("GYMBOOK_TEST_POSTGRES_URL not set")
	}
	ctx := context.Background()
	repo, err := Open(ctx, url)
	require.NoError(t, err)
	defer repo.Close()

	runID := uuid.New()
	t.Cleanup(func() {
		_, _ = repo.pool.Exec(context.Background(), `DELETE FROM attempts WHERE run_id=$1`, runID)
	})

	// Far in the future so these rows sort first.
	start := time.Date(2999, time.January, 5, 6, 0, 0, 0, time.UTC)
	require.NoError(t, repo.Record(ctx, booking.AttemptRecord{
		RunID: runID, Attempt: 1, StartedAt: start, Duration: 1500 * time.Millisecond,
		Reason: booking.ReasonEventNotFound,
	}))
	require.NoError(t, repo.Record(ctx, booking.AttemptRecord{
		RunID: runID, Attempt: 2, StartedAt: start.Add(5 * time.Second), Duration: 4 * time.Second,
		Success: true, Reason: booking.ReasonBooked, Detail: "Fitnes Tuesday",
	}))

	recs, err := repo.Recent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, 2, recs[0].Attempt)
	assert.Equal(t, runID, recs[0].RunID)
	assert.True(t, recs[0].Success)
	assert.Equal(t, booking.ReasonBooked, recs[0].Reason)
	assert.Equal(t, "Fitnes Tuesday", recs[0].Detail)
	assert.Equal(t, 1500*time.Millisecond, recs[1].Duration)
	assert.True(t, start.Equal(recs[1].StartedAt))
}
