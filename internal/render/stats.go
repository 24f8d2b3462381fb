package render

import (
	"time"

	"github.com/banshee-data/particles/internal/monitoring"
	"github.com/banshee-data/particles/internal/scene"
	"github.com/banshee-data/particles/internal/timeutil"
)

var logf = monitoring.Tagged("Render")

// StatsRenderer counts frames and visible points and logs a summary every
// LogEvery frames. It draws nothing.
type StatsRenderer struct {
	LogEvery uint64

	clock      timeutil.Clock
	frames     uint64
	lastPoints int
	lastObjs   int
	lastLog    time.Time
	lastLogged uint64
}

// NewStatsRenderer creates a stats renderer that logs every 600 frames.
func NewStatsRenderer(clock timeutil.Clock) *StatsRenderer {
	if clock == nil {
		clock = timeutil.RealClock{}
	}
	return &StatsRenderer{LogEvery: 600, clock: clock, lastLog: clock.Now()}
}

// Render records the frame.
func (r *StatsRenderer) Render(s *scene.Scene, _ *scene.PerspectiveCamera) error {
	r.frames++
	r.lastObjs = s.Len()
	r.lastPoints = 0
	for _, p := range s.Points() {
		if p.Visible && p.Geometry != nil {
			r.lastPoints += p.Geometry.VertexCount()
		}
	}

	now := r.clock.Now()
	if r.LogEvery > 0 && r.frames-r.lastLogged >= r.LogEvery {
		fps := 0.0
		if elapsed := now.Sub(r.lastLog).Seconds(); elapsed > 0 {
			fps = float64(r.frames-r.lastLogged) / elapsed
		}
		logf("frames=%d fps=%.1f objects=%d points=%d", r.frames, fps, r.lastObjs, r.lastPoints)
		r.lastLog = now
		r.lastLogged = r.frames
	}
	return nil
}

// Frames returns the number of frames rendered.
func (r *StatsRenderer) Frames() uint64 { return r.frames }

// LastPoints returns the visible point count of the most recent frame.
func (r *StatsRenderer) LastPoints() int { return r.lastPoints }

// LastObjects returns the attached object count of the most recent frame.
func (r *StatsRenderer) LastObjects() int { return r.lastObjs }
