package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNew(t *testing.T) {
	noop := func(ctx context.Context) error { return nil }

	_, err := New("*/5 * * * *", noop, zap.NewNop())
	assert.NoError(t, err)

	_, err = New("not a cron", noop, zap.NewNop())
	assert.ErrorContains(t, err, "invalid cron expression")
}

func TestScheduler_Run(t *testing.T) {
	var runs atomic.Int32
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	s, err := New("* * * * *", func(ctx context.Context) error {
		if runs.Add(1) == 3 {
			cancel()
		}
		return errors.New("job errors do not stop the schedule")
	}, zap.NewNop())
	require.NoError(t, err)

	s.next = func(after time.Time) (time.Time, error) {
		return after.Add(5 * time.Millisecond), nil
	}

	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("scheduler did not stop after cancellation")
	}
	assert.Equal(t, int32(3), runs.Load())
}

func TestScheduler_RunNextTickError(t *testing.T) {
	s, err := New("* * * * *", func(ctx context.Context) error { return nil }, zap.NewNop())
	require.NoError(t, err)

	s.next = func(after time.Time) (time.Time, error) {
		return time.Time{}, errors.New("no tick")
	}

	assert.ErrorContains(t, s.Run(context.Background()), "no tick")
}
