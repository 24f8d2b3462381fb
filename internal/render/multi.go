package render

import (
	"errors"
	"fmt"
	"time"

	"github.com/banshee-data/particles/internal/scene"
	"github.com/banshee-data/particles/internal/timeutil"
)

// MultiRenderer renders every frame with each of its renderers in order. All
// renderers run even if an earlier one fails; the errors are joined.
type MultiRenderer []scene.Renderer

// Render draws the frame with every renderer.
func (m MultiRenderer) Render(s *scene.Scene, camera *scene.PerspectiveCamera) error {
	var errs []error
	for _, r := range m {
		if err := r.Render(s, camera); err != nil {
			errs = append(errs, fmt.Errorf("%T: %w", r, err))
		}
	}
	return errors.Join(errs...)
}

// SetSize forwards to every resizable renderer.
func (m MultiRenderer) SetSize(width, height int) {
	for _, r := range m {
		if rs, ok := r.(scene.Resizable); ok {
			rs.SetSize(width, height)
		}
	}
}

// SetPixelRatio forwards to every resizable renderer.
func (m MultiRenderer) SetPixelRatio(ratio float64) {
	for _, r := range m {
		if rs, ok := r.(scene.Resizable); ok {
			rs.SetPixelRatio(ratio)
		}
	}
}

// Throttled passes at most one frame per interval through to its renderer.
// The first frame always passes.
type Throttled struct {
	next     scene.Renderer
	clock    timeutil.Clock
	interval time.Duration
	last     time.Time
	passed   uint64
}

// NewThrottled wraps next.
func NewThrottled(next scene.Renderer, clock timeutil.Clock, interval time.Duration) *Throttled {
	if clock == nil {
		clock = timeutil.RealClock{}
	}
	return &Throttled{next: next, clock: clock, interval: interval}
}

// Render forwards the frame if the interval has elapsed since the last one
// forwarded.
func (t *Throttled) Render(s *scene.Scene, camera *scene.PerspectiveCamera) error {
	now := t.clock.Now()
	if !t.last.IsZero() && now.Sub(t.last) < t.interval {
		return nil
	}
	t.last = now
	t.passed++
	return t.next.Render(s, camera)
}

// Passed returns how many frames reached the wrapped renderer.
func (t *Throttled) Passed() uint64 { return t.passed }

// SetSize forwards to the wrapped renderer when it is resizable.
func (t *Throttled) SetSize(width, height int) {
	if rs, ok := t.next.(scene.Resizable); ok {
		rs.SetSize(width, height)
	}
}

// SetPixelRatio forwards to the wrapped renderer when it is resizable.
func (t *Throttled) SetPixelRatio(ratio float64) {
	if rs, ok := t.next.(scene.Resizable); ok {
		rs.SetPixelRatio(ratio)
	}
}
