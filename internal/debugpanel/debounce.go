package debugpanel

import (
	"context"
	"sync"
	"time"

	"github.com/banshee-data/particles/internal/timeutil"
)

// Dispatcher runs fn on the goroutine that owns the panel.
type Dispatcher func(fn func())

// Direct runs fn on the calling goroutine.
func Direct(fn func()) { fn() }

// Debouncer commits touched controls once no new edit has arrived for a
// quiet period, turning a burst of Input calls into a single Finish.
type Debouncer struct {
	clock    timeutil.Clock
	quiet    time.Duration
	dispatch Dispatcher

	mu      sync.Mutex
	timer   timeutil.Timer
	pending []*Controller
}

// NewDebouncer creates a debouncer. Commits are handed to dispatch.
func NewDebouncer(clock timeutil.Clock, quiet time.Duration, dispatch Dispatcher) *Debouncer {
	if clock == nil {
		clock = timeutil.RealClock{}
	}
	if dispatch == nil {
		dispatch = Direct
	}
	timer := clock.NewTimer(quiet)
	timer.Stop()
	return &Debouncer{clock: clock, quiet: quiet, dispatch: dispatch, timer: timer}
}

// Touch marks c as edited and restarts the quiet period.
func (d *Debouncer) Touch(c *Controller) {
	d.mu.Lock()
	defer d.mu.Unlock()

	found := false
	for _, p := range d.pending {
		if p == c {
			found = true
			break
		}
	}
	if !found {
		d.pending = append(d.pending, c)
	}
	d.timer.Stop()
	d.timer.Reset(d.quiet)
}

// Pending returns the number of controls waiting for a commit.
func (d *Debouncer) Pending() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.pending)
}

// Run delivers commits until ctx is done.
func (d *Debouncer) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			d.timer.Stop()
			return
		case <-d.timer.C():
			d.mu.Lock()
			pending := d.pending
			d.pending = nil
			d.mu.Unlock()

			if len(pending) == 0 {
				continue
			}
			d.dispatch(func() {
				for _, c := range pending {
					c.Finish()
				}
			})
		}
	}
}
