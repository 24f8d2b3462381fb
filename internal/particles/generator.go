// Package particles generates the demo's point cloud and swaps it in the
// scene whenever the committed parameters change.
package particles

import (
	"fmt"
	"sync"

	"github.com/banshee-data/particles/internal/monitoring"
	"github.com/banshee-data/particles/internal/scene"
)

var logf = monitoring.Tagged("Particles")

// State reports whether a generator currently owns a point cloud.
type State int

const (
	StateEmpty     State = 0
	StatePopulated State = 1
)

func (s State) String() string {
	switch s {
	case StateEmpty:
		return "empty"
	case StatePopulated:
		return "populated"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Resource is one generated point cloud: its geometry, its material and the
// renderable that binds them into the scene.
type Resource struct {
	Geometry *scene.BufferGeometry
	Material scene.Material
	Points   *scene.Points
	Params   Parameters
}

// Generator owns the single live point cloud of a scene.
//
// Regenerate is normally called from the application loop only, but the
// resource slot is guarded so Current may be read from any goroutine.
type Generator struct {
	mu         sync.Mutex
	scene      *scene.Scene
	geometry   GeometryStrategy
	material   MaterialPolicy
	current    *Resource
	generation uint64
}

// NewGenerator creates a generator that attaches its clouds to s.
func NewGenerator(s *scene.Scene, geometry GeometryStrategy, material MaterialPolicy) *Generator {
	return &Generator{scene: s, geometry: geometry, material: material}
}

// Regenerate replaces the live point cloud with one built from p.
//
// Invalid parameters fail with ErrInvalidParameter before anything is
// touched, leaving the previous cloud attached. Otherwise the previous
// cloud's geometry is disposed, then its material, then its renderable is
// detached, and only then is the new cloud built and attached.
func (g *Generator) Regenerate(p Parameters) (*Resource, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	g.releaseLocked()

	geometry := g.geometry.Build(p)
	material := g.material.Build(p)
	points := scene.NewPoints(geometry, material)
	points.SetName("particles")

	res := &Resource{
		Geometry: geometry,
		Material: material,
		Points:   points,
		Params:   p,
	}
	g.scene.Add(points)
	g.current = res
	g.generation++

	logf("generation %d: %s/%s count=%d radius=%g vertices=%d",
		g.generation, g.geometry.Name(), g.material.Name(), p.Count, p.Radius, geometry.VertexCount())
	return res, nil
}

// Current returns the live resource, or nil while the generator is empty.
func (g *Generator) Current() *Resource {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.current
}

// State reports whether a resource is live.
func (g *Generator) State() State {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.current == nil {
		return StateEmpty
	}
	return StatePopulated
}

// Generation counts successful regenerations.
func (g *Generator) Generation() uint64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.generation
}

// Close releases the live resource and returns the generator to empty.
func (g *Generator) Close() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.current != nil {
		logf("releasing generation %d", g.generation)
	}
	g.releaseLocked()
}

func (g *Generator) releaseLocked() {
	if g.current == nil {
		return
	}
	g.current.Geometry.Dispose()
	g.current.Material.Dispose()
	g.scene.Remove(g.current.Points)
	g.current = nil
}
