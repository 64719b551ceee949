package scheduler

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScheduler_FirstRunImmediately(t *testing.T) {
	var runs atomic.Int32
	s := New(time.Hour, func(ctx context.Context) {
		runs.Add(1)
	})

	s.Start(context.Background(), true)
	defer s.Stop()

	require.Eventually(t, func() bool {
		return runs.Load() == 1
	}, time.Second, 5*time.Millisecond)
	assert.True(t, s.IsRunning())
}

func TestScheduler_PeriodicRuns(t *testing.T) {
	var runs atomic.Int32
	s := New(10*time.Millisecond, func(ctx context.Context) {
		runs.Add(1)
	})

	s.Start(context.Background(), false)
	defer s.Stop()

	require.Eventually(t, func() bool {
		return runs.Load() >= 3
	}, time.Second, 5*time.Millisecond)
}

func TestScheduler_Stop(t *testing.T) {
	var runs atomic.Int32
	s := New(5*time.Millisecond, func(ctx context.Context) {
		runs.Add(1)
	})

	s.Start(context.Background(), false)
	require.Eventually(t, func() bool {
		return runs.Load() >= 1
	}, time.Second, time.Millisecond)

	s.Stop()
	assert.False(t, s.IsRunning())

	countAfterStop := runs.Load()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, countAfterStop, runs.Load())
}

func TestScheduler_StartTwice(t *testing.T) {
	var runs atomic.Int32
	s := New(time.Hour, func(ctx context.Context) {
		runs.Add(1)
	})

	s.Start(context.Background(), true)
	s.Start(context.Background(), true)
	defer s.Stop()

	require.Eventually(t, func() bool {
		return runs.Load() == 1
	}, time.Second, 5*time.Millisecond)

	// A second Start on a running scheduler is a no-op
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, int32(1), runs.Load())
}

func TestScheduler_StopWithoutStart(t *testing.T) {
	s := New(time.Hour, func(ctx context.Context) {})
	s.Stop()
	assert.False(t, s.IsRunning())
}

func TestScheduler_ParentContextCancel(t *testing.T) {
	var runs atomic.Int32
	ctx, cancel := context.WithCancel(context.Background())

	s := New(5*time.Millisecond, func(ctx context.Context) {
		runs.Add(1)
	})
	s.Start(ctx, false)
	defer s.Stop()

	cancel()
	time.Sleep(20 * time.Millisecond)

	countAfterCancel := runs.Load()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, countAfterCancel, runs.Load())
}
