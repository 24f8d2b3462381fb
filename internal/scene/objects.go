package scene

import (
	"gonum.org/v1/gonum/spatial/r3"
)

// Points renders each vertex of its geometry as a point sprite.
type Points struct {
	Node
	Geometry *BufferGeometry
	Material Material
}

// NewPoints creates a point cloud renderable.
func NewPoints(geometry *BufferGeometry, material Material) *Points {
	return &Points{Node: newNode("points"), Geometry: geometry, Material: material}
}

// Kind reports "Points".
func (p *Points) Kind() string { return "Points" }

// Mesh renders its geometry as a lit surface.
type Mesh struct {
	Node
	Geometry *BufferGeometry
	Material Material
}

// NewMesh creates a mesh renderable.
func NewMesh(geometry *BufferGeometry, material Material) *Mesh {
	return &Mesh{Node: newNode("mesh"), Geometry: geometry, Material: material}
}

// Kind reports "Mesh".
func (m *Mesh) Kind() string { return "Mesh" }

// AmbientLight lights every surface equally.
type AmbientLight struct {
	Node
	Color     Color
	Intensity float64
}

// NewAmbientLight creates an ambient light.
func NewAmbientLight(color Color, intensity float64) *AmbientLight {
	return &AmbientLight{Node: newNode("ambient"), Color: color, Intensity: intensity}
}

// Kind reports "AmbientLight".
func (l *AmbientLight) Kind() string { return "AmbientLight" }

// DirectionalLight shines from its position towards the origin.
type DirectionalLight struct {
	Node
	Color     Color
	Intensity float64
}

// NewDirectionalLight creates a directional light positioned straight above
// the origin.
func NewDirectionalLight(color Color, intensity float64) *DirectionalLight {
	l := &DirectionalLight{Node: newNode("directional"), Color: color, Intensity: intensity}
	l.Position = r3.Vec{Y: 1}
	return l
}

// Kind reports "DirectionalLight".
func (l *DirectionalLight) Kind() string { return "DirectionalLight" }

// PerspectiveCamera describes a viewing frustum. Projection itself belongs to
// the renderer; the camera only tracks the parameters.
type PerspectiveCamera struct {
	Node
	FOV    float64
	Aspect float64
	Near   float64
	Far    float64
	Target r3.Vec

	projectionUpdates int
}

// NewPerspectiveCamera creates a camera looking at the origin.
func NewPerspectiveCamera(fov, aspect, near, far float64) *PerspectiveCamera {
	return &PerspectiveCamera{Node: newNode("camera"), FOV: fov, Aspect: aspect, Near: near, Far: far}
}

// Kind reports "PerspectiveCamera".
func (c *PerspectiveCamera) Kind() string { return "PerspectiveCamera" }

// SetAspect changes the aspect ratio and marks the projection stale.
func (c *PerspectiveCamera) SetAspect(aspect float64) {
	c.Aspect = aspect
	c.projectionUpdates++
}

// ProjectionUpdates counts aspect changes since creation.
func (c *PerspectiveCamera) ProjectionUpdates() int { return c.projectionUpdates }

// Distance returns how far the camera sits from its target.
func (c *PerspectiveCamera) Distance() float64 {
	return r3.Norm(r3.Sub(c.Position, c.Target))
}

// Renderer draws a scene as seen from a camera.
type Renderer interface {
	Render(s *Scene, camera *PerspectiveCamera) error
}

// Resizable is implemented by renderers whose output tracks the viewport.
type Resizable interface {
	SetSize(width, height int)
	SetPixelRatio(ratio float64)
}
