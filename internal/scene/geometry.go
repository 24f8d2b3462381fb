package scene

import (
	"math"
	"sync"

	"github.com/google/uuid"
)

// positionPool reuses position buffers released by Dispose. Buffers are
// sized for the default sphere (129x129 vertices).
var positionPool = sync.Pool{
	New: func() interface{} {
		return make([]float32, 0, 3*129*129)
	},
}

// maxPooledPositions caps what Dispose hands back to the pool so one huge
// cloud does not pin memory forever.
const maxPooledPositions = 3 * 1025 * 1025

// AllocPositions returns a zeroed position buffer of length n, reusing a
// released buffer when one is large enough.
func AllocPositions(n int) []float32 {
	s := positionPool.Get().([]float32)
	if cap(s) < n {
		positionPool.Put(s)
		return make([]float32, n)
	}
	s = s[:n]
	clear(s)
	return s
}

func releasePositions(s []float32) {
	if cap(s) > 0 && cap(s) <= maxPooledPositions {
		positionPool.Put(s[:0])
	}
}

// BufferGeometry holds a flat xyz position buffer. Dispose releases the
// buffer; a disposed geometry reports no positions.
type BufferGeometry struct {
	id        uuid.UUID
	kind      string
	positions []float32
	disposed  bool
}

// NewBufferGeometry wraps positions, which must hold xyz triples. The
// geometry takes ownership of the slice.
func NewBufferGeometry(positions []float32) *BufferGeometry {
	return &BufferGeometry{id: uuid.New(), kind: "BufferGeometry", positions: positions}
}

// UUID returns the geometry's identity.
func (g *BufferGeometry) UUID() uuid.UUID { return g.id }

// Kind reports the primitive that produced the geometry.
func (g *BufferGeometry) Kind() string { return g.kind }

// Positions returns the position buffer, or nil once disposed.
func (g *BufferGeometry) Positions() []float32 { return g.positions }

// VertexCount returns the number of xyz triples.
func (g *BufferGeometry) VertexCount() int { return len(g.positions) / 3 }

// Disposed reports whether Dispose has been called.
func (g *BufferGeometry) Disposed() bool { return g.disposed }

// Dispose releases the position buffer. Calling it again is a no-op.
func (g *BufferGeometry) Dispose() {
	if g.disposed {
		return
	}
	releasePositions(g.positions)
	g.positions = nil
	g.disposed = true
}

// NewSphereGeometry builds the vertex grid of a UV sphere. Segment counts
// below the primitive's minimum (3 around, 2 top to bottom) are raised to
// it, so the result always has (w+1)*(h+1) vertices.
func NewSphereGeometry(radius float64, widthSegments, heightSegments int) *BufferGeometry {
	w := max(3, widthSegments)
	h := max(2, heightSegments)

	positions := AllocPositions(3 * (w + 1) * (h + 1))
	i := 0
	for iy := 0; iy <= h; iy++ {
		v := float64(iy) / float64(h)
		sinTheta, cosTheta := math.Sincos(v * math.Pi)
		for ix := 0; ix <= w; ix++ {
			u := float64(ix) / float64(w)
			sinPhi, cosPhi := math.Sincos(u * 2 * math.Pi)

			positions[i] = float32(-radius * cosPhi * sinTheta)
			positions[i+1] = float32(radius * cosTheta)
			positions[i+2] = float32(radius * sinPhi * sinTheta)
			i += 3
		}
	}

	g := NewBufferGeometry(positions)
	g.kind = "SphereGeometry"
	return g
}
