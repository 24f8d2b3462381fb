package debugpanel

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/particles/internal/timeutil"
)

func TestDebouncer_CommitsOnceAfterQuietPeriod(t *testing.T) {
	clock := timeutil.NewMockClock(time.Unix(0, 0))
	k := knobs{Count: 128, Radius: 2.5, Color: "#b9b5ff"}
	p := newKnobPanel(&k)

	var commits atomic.Int32
	ctl, _ := p.Controller("radius")
	ctl.OnFinishChange(func() { commits.Add(1) })

	d := NewDebouncer(clock, 250*time.Millisecond, Direct)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go d.Run(ctx)

	for _, raw := range []string{"3", "4", "5"} {
		require.NoError(t, ctl.Input(raw))
		d.Touch(ctl)
		clock.Advance(100 * time.Millisecond)
	}
	assert.Equal(t, 1, d.Pending())
	assert.Zero(t, commits.Load(), "edits inside the quiet period must not commit")

	clock.Advance(150 * time.Millisecond)
	require.Eventually(t, func() bool { return commits.Load() == 1 }, time.Second, time.Millisecond)
	assert.Equal(t, 0, d.Pending())
	assert.False(t, ctl.Pending())
}

func TestDebouncer_DispatchesCommits(t *testing.T) {
	clock := timeutil.NewMockClock(time.Unix(0, 0))
	k := knobs{Count: 128}
	p := newKnobPanel(&k)
	ctl, _ := p.Controller("count")

	dispatched := make(chan func(), 1)
	d := NewDebouncer(clock, time.Second, func(fn func()) { dispatched <- fn })
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go d.Run(ctx)

	require.NoError(t, ctl.Input("256"))
	d.Touch(ctl)
	clock.Advance(time.Second)

	select {
	case fn := <-dispatched:
		assert.True(t, ctl.Pending(), "commit must wait for the dispatcher")
		fn()
		assert.False(t, ctl.Pending())
	case <-time.After(time.Second):
		t.Fatal("commit was not dispatched")
	}
}
