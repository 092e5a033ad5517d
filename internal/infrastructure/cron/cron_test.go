package cron

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/example/gymbook/internal/infrastructure/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_InvalidSpec(t *testing.T) {
	_, err := New("every morning", time.UTC, logger.Discard(), func(context.Context) {})
	assert.Error(t, err)
}

func TestNext(t *testing.T) {
	tr, err := New("55 5 * * *", time.UTC, logger.Discard(), func(context.Context) {})
	require.NoError(t, err)

	next := tr.Next()
	assert.True(t, next.After(time.Now()))
	assert.Equal(t, 5, next.In(time.UTC).Hour())
	assert.Equal(t, 55, next.In(time.UTC).Minute())
}

func TestNext_UsesTriggerLocation(t *testing.T) {
	ljubljana := time.FixedZone("CET", 3600)
	tr, err := New("55 5 * * *", ljubljana, logger.Discard(), func(context.Context) {})
	require.NoError(t, err)

	// 05:00 UTC is 06:00 in the trigger's zone, past today's 05:55.
	now := time.Date(2025, time.November, 25, 5, 0, 0, 0, time.UTC)
	next := tr.nextAfter(now)
	assert.Equal(t, ljubljana, next.Location())
	want := time.Date(2025, time.November, 26, 5, 55, 0, 0, ljubljana)
	assert.True(t, want.Equal(next), "next = %s", next)
}

func TestStop_CancelsRunningJob(t *testing.T) {
	started := make(chan struct{})
	done := make(chan error, 1)
	var once sync.Once
	tr, err := New("@every 1s", time.UTC, logger.Discard(), func(ctx context.Context) {
		once.Do(func() { close(started) })
		<-ctx.Done()
		select {
		case done <- ctx.Err():
		default:
		}
	})
	require.NoError(t, err)

	tr.Start(context.Background())
	select {
	case <-started:
	case <-time.After(5 * time.Second):
		t.Fatal("job never fired")
	}
	tr.Stop()
	assert.ErrorIs(t, <-done, context.Canceled)
}
