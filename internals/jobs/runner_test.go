package jobs

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScheduleRunsUntilStopped(t *testing.T) {
	r := New(context.Background())

	var ok, failing atomic.Int32
	require.NoError(t, r.Schedule("@every 1s", "ok", func(context.Context) error {
		ok.Add(1)
		return nil
	}))
	require.NoError(t, r.Schedule("@every 1s", "failing", func(context.Context) error {
		failing.Add(1)
		return errors.New("boom")
	}))
	r.Start()

	assert.Eventually(t, func() bool { return ok.Load() >= 1 && failing.Load() >= 1 }, 3*time.Second, 20*time.Millisecond)
	r.Stop()

	after := ok.Load()
	time.Sleep(1200 * time.Millisecond)
	assert.Equal(t, after, ok.Load())
}

func TestScheduleRejectsBadSpec(t *testing.T) {
	r := New(context.Background())
	assert.Error(t, r.Schedule("every day", "bad", func(context.Context) error { return nil }))
	assert.NoError(t, r.Schedule("0 2 * * *", "nightly", func(context.Context) error { return nil }))
}

func TestSlowJobIsNotStacked(t *testing.T) {
	r := New(context.Background())

	var runs atomic.Int32
	release := make(chan struct{})
	require.NoError(t, r.Schedule("@every 1s", "slow", func(ctx context.Context) error {
		runs.Add(1)
		select {
		case <-release:
		case <-ctx.Done():
		}
		return nil
	}))
	r.Start()

	assert.Eventually(t, func() bool { return runs.Load() == 1 }, 3*time.Second, 20*time.Millisecond)
	time.Sleep(1500 * time.Millisecond)
	assert.Equal(t, int32(1), runs.Load(), "the next slot is skipped while the first run is busy")

	close(release)
	r.Stop()
}

func TestRunsGetBoundedContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	r := New(ctx)
	r.Timeout = 50 * time.Millisecond

	got := make(chan error, 1)
	require.NoError(t, r.Schedule("@every 1s", "bounded", func(ctx context.Context) error {
		<-ctx.Done()
		select {
		case got <- ctx.Err():
		default:
		}
		return ctx.Err()
	}))
	r.Start()

	select {
	case err := <-got:
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	case <-time.After(3 * time.Second):
		t.Fatal("job did not run")
	}
	cancel()
	r.Stop()
}
