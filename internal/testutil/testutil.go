// Package testutil provides shared test helpers for the demo packages.
package testutil

import (
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/banshee-data/particles/internal/monitoring"
)

// LogCapture records lines written through monitoring.Logf.
type LogCapture struct {
	mu    sync.Mutex
	lines []string
}

// CaptureLogs redirects the diagnostic logger into a LogCapture until the
// test ends. Tests that capture logs must not run in parallel.
func CaptureLogs(t testing.TB) *LogCapture {
	t.Helper()
	c := &LogCapture{}
	old := monitoring.Logf
	monitoring.SetLogger(func(format string, v ...interface{}) {
		c.mu.Lock()
		defer c.mu.Unlock()
		c.lines = append(c.lines, fmt.Sprintf(format, v...))
	})
	t.Cleanup(func() { monitoring.SetLogger(old) })
	return c
}

// Lines returns a copy of the captured lines.
func (c *LogCapture) Lines() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.lines...)
}

// Contains reports whether any captured line contains substr.
func (c *LogCapture) Contains(substr string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, l := range c.lines {
		if strings.Contains(l, substr) {
			return true
		}
	}
	return false
}

// AssertInRange checks that every value lies in [lo, hi). It reports the
// first offending index only.
func AssertInRange(t testing.TB, values []float32, lo, hi float32) bool {
	t.Helper()
	for i, v := range values {
		if v < lo || v >= hi {
			t.Errorf("value %d = %v outside [%v, %v)", i, v, lo, hi)
			return false
		}
	}
	return true
}
