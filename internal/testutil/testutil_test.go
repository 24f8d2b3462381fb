package testutil

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/banshee-data/particles/internal/monitoring"
)

// recorder captures failures instead of failing the enclosing test.
type recorder struct {
	testing.TB
	errors []string
}

func (r *recorder) Helper() {}

func (r *recorder) Errorf(format string, args ...interface{}) {
	r.errors = append(r.errors, fmt.Sprintf(format, args...))
}

func TestCaptureLogs(t *testing.T) {
	var lines []string
	monitoring.SetLogger(func(format string, v ...interface{}) {
		lines = append(lines, fmt.Sprintf(format, v...))
	})
	defer monitoring.SetLogger(nil)

	t.Run("capture", func(t *testing.T) {
		c := CaptureLogs(t)
		monitoring.Tagged("Test")("hello %d", 42)
		assert.Equal(t, []string{"[Test] hello 42"}, c.Lines())
		assert.True(t, c.Contains("hello"))
		assert.False(t, c.Contains("goodbye"))
	})

	monitoring.Logf("after")
	assert.Equal(t, []string{"after"}, lines, "previous logger restored")
}

func TestAssertInRange(t *testing.T) {
	r := &recorder{}
	assert.True(t, AssertInRange(r, []float32{-0.5, 0, 0.49}, -0.5, 0.5))
	assert.Empty(t, r.errors)

	assert.False(t, AssertInRange(r, []float32{0.1, 0.5, 0.7}, -0.5, 0.5))
	assert.Equal(t, []string{"value 1 = 0.5 outside [-0.5, 0.5)"}, r.errors)

	assert.True(t, AssertInRange(r, nil, 0, 1))
}
