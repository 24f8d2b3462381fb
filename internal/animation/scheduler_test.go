package animation

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/particles/internal/monitoring"
	"github.com/banshee-data/particles/internal/timeutil"
)

func init() {
	monitoring.SetLogger(nil)
}

func startScheduler(t *testing.T, s *Scheduler, clock *timeutil.MockClock) <-chan error {
	t.Helper()
	errCh := make(chan error, 1)
	go func() { errCh <- s.Run(context.Background()) }()
	require.Eventually(t, func() bool { return clock.Tickers() == 1 }, time.Second, time.Millisecond)
	return errCh
}

func TestNewScheduler_Defaults(t *testing.T) {
	s := NewScheduler(nil, 0, nil)
	assert.Equal(t, time.Second/60, s.Interval())

	s = NewScheduler(nil, 10, nil)
	assert.Equal(t, 100*time.Millisecond, s.Interval())
}

func TestScheduler_FramesReportElapsed(t *testing.T) {
	clock := timeutil.NewMockClock(time.Unix(1000, 0))
	elapsed := make(chan time.Duration, 4)
	s := NewScheduler(clock, 10, func(d time.Duration) { elapsed <- d })

	errCh := startScheduler(t, s, clock)

	clock.Advance(100 * time.Millisecond)
	assert.Equal(t, 100*time.Millisecond, <-elapsed)
	clock.Advance(100 * time.Millisecond)
	assert.Equal(t, 200*time.Millisecond, <-elapsed)

	s.Stop()
	require.NoError(t, <-errCh)
	assert.Equal(t, uint64(2), s.Frames())
	assert.Equal(t, 200*time.Millisecond, s.Elapsed())
}

func TestScheduler_SinglePendingFrame(t *testing.T) {
	clock := timeutil.NewMockClock(time.Unix(0, 0))
	entered := make(chan struct{}, 8)
	release := make(chan struct{})
	var calls atomic.Int32

	s := NewScheduler(clock, 100, func(time.Duration) {
		if calls.Add(1) == 1 {
			entered <- struct{}{}
			<-release
		}
	})
	errCh := startScheduler(t, s, clock)

	clock.Advance(10 * time.Millisecond)
	<-entered

	// The first frame is still executing; these ticks collapse into one.
	for i := 0; i < 5; i++ {
		clock.Advance(10 * time.Millisecond)
	}
	close(release)

	require.Eventually(t, func() bool { return s.Frames() == 2 }, time.Second, time.Millisecond)
	assert.Never(t, func() bool { return s.Frames() > 2 }, 50*time.Millisecond, 5*time.Millisecond)

	s.Stop()
	require.NoError(t, <-errCh)
}

func TestScheduler_TasksDoNotOverlapFrames(t *testing.T) {
	clock := timeutil.NewMockClock(time.Unix(0, 0))
	var active, overlaps atomic.Int32

	enter := func() {
		if active.Add(1) > 1 {
			overlaps.Add(1)
		}
		time.Sleep(time.Millisecond)
		active.Add(-1)
	}
	s := NewScheduler(clock, 1000, func(time.Duration) { enter() })
	errCh := startScheduler(t, s, clock)

	var ran atomic.Int32
	for i := 0; i < 20; i++ {
		require.True(t, s.Post(func() { enter(); ran.Add(1) }))
		clock.Advance(time.Millisecond)
	}

	require.Eventually(t, func() bool { return ran.Load() == 20 }, time.Second, time.Millisecond)
	s.Stop()
	require.NoError(t, <-errCh)
	assert.Zero(t, overlaps.Load())
}

func TestScheduler_ContextCancel(t *testing.T) {
	s := NewScheduler(timeutil.NewMockClock(time.Unix(0, 0)), 60, nil)
	ctx, cancel := context.WithCancel(context.Background())

	errCh := make(chan error, 1)
	go func() { errCh <- s.Run(ctx) }()
	cancel()

	assert.ErrorIs(t, <-errCh, context.Canceled)
	<-s.Done()
}

func TestScheduler_PostAfterContextCancel(t *testing.T) {
	s := NewScheduler(timeutil.NewMockClock(time.Unix(0, 0)), 60, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, s.Run(ctx), context.Canceled)
	<-s.Done()

	posted := make(chan bool, 1)
	go func() {
		accepted := 0
		for i := 0; i < taskQueueSize+1; i++ {
			if s.Post(func() {}) {
				accepted++
			}
		}
		posted <- accepted == 0
	}()

	select {
	case none := <-posted:
		assert.True(t, none, "tasks posted after the loop exited must be refused")
	case <-time.After(time.Second):
		t.Fatal("Post blocked after the loop exited")
	}
}

func TestScheduler_RunTwice(t *testing.T) {
	clock := timeutil.NewMockClock(time.Unix(0, 0))
	s := NewScheduler(clock, 60, nil)
	errCh := startScheduler(t, s, clock)

	assert.ErrorIs(t, s.Run(context.Background()), ErrAlreadyRunning)

	s.Stop()
	require.NoError(t, <-errCh)
}

func TestScheduler_PostAfterStop(t *testing.T) {
	s := NewScheduler(nil, 60, nil)
	s.Stop()
	s.Stop()
	assert.False(t, s.Post(func() {}))
}
