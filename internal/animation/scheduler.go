// Package animation runs the demo's main loop: frame ticks and posted tasks
// execute one at a time on the goroutine that calls Run.
package animation

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/banshee-data/particles/internal/monitoring"
	"github.com/banshee-data/particles/internal/timeutil"
)

var logf = monitoring.Tagged("Scheduler")

// DefaultFrameRate is used when a non-positive frame rate is configured.
const DefaultFrameRate = 60.0

// taskQueueSize bounds pending posted tasks. Post blocks when it is full.
const taskQueueSize = 64

// ErrAlreadyRunning is returned by Run on a scheduler that has been started.
var ErrAlreadyRunning = errors.New("scheduler already running")

// FrameFunc draws one frame. elapsed is measured from the start of Run.
type FrameFunc func(elapsed time.Duration)

// Scheduler owns the loop goroutine. At most one frame is pending at any
// time: ticks that arrive while a frame or task is executing collapse into a
// single pending tick. Frames never overlap each other or posted tasks.
type Scheduler struct {
	clock    timeutil.Clock
	interval time.Duration
	frame    FrameFunc

	tasks    chan func()
	stopCh   chan struct{}
	doneCh   chan struct{}
	stopOnce sync.Once

	started atomic.Bool
	frames  atomic.Uint64
	elapsed atomic.Int64
}

// NewScheduler creates a scheduler that calls frame frameRate times a second.
func NewScheduler(clock timeutil.Clock, frameRate float64, frame FrameFunc) *Scheduler {
	if frameRate <= 0 {
		frameRate = DefaultFrameRate
	}
	if clock == nil {
		clock = timeutil.RealClock{}
	}
	return &Scheduler{
		clock:    clock,
		interval: time.Duration(float64(time.Second) / frameRate),
		frame:    frame,
		tasks:    make(chan func(), taskQueueSize),
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// Interval returns the time between frame ticks.
func (s *Scheduler) Interval() time.Duration { return s.interval }

// Run executes frames and posted tasks until Stop is called or ctx is done.
// A frame or task already executing always completes. Run returns nil after
// Stop and ctx.Err() after cancellation; either way the scheduler is stopped
// when Run returns.
func (s *Scheduler) Run(ctx context.Context) error {
	if !s.started.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer close(s.doneCh)
	// Closing stopCh on every exit path makes later Posts fail fast.
	defer s.Stop()

	start := s.clock.Now()
	ticker := s.clock.NewTicker(s.interval)
	defer ticker.Stop()

	logf("running at %.1f fps", float64(time.Second)/float64(s.interval))

	for {
		select {
		case <-ctx.Done():
			logf("context done after %d frames", s.frames.Load())
			return ctx.Err()
		case <-s.stopCh:
			logf("stopped after %d frames", s.frames.Load())
			return nil
		case task := <-s.tasks:
			task()
		case now := <-ticker.C():
			elapsed := now.Sub(start)
			s.elapsed.Store(int64(elapsed))
			if s.frame != nil {
				s.frame(elapsed)
			}
			s.frames.Add(1)
		}
	}
}

// Post queues task to run on the loop goroutine and reports whether it was
// accepted. Tasks posted after Stop are dropped.
func (s *Scheduler) Post(task func()) bool {
	select {
	case <-s.stopCh:
		return false
	default:
	}
	select {
	case s.tasks <- task:
		return true
	case <-s.stopCh:
		return false
	}
}

// Stop ends the loop. It is safe to call more than once and before Run.
func (s *Scheduler) Stop() {
	s.stopOnce.Do(func() { close(s.stopCh) })
}

// Done is closed when Run returns.
func (s *Scheduler) Done() <-chan struct{} { return s.doneCh }

// Frames returns the number of completed frames.
func (s *Scheduler) Frames() uint64 { return s.frames.Load() }

// Elapsed returns the elapsed time passed to the most recent frame.
func (s *Scheduler) Elapsed() time.Duration { return time.Duration(s.elapsed.Load()) }
