package scene

import (
	"github.com/google/uuid"
)

// Material is a disposable shading description attached to a renderable.
type Material interface {
	UUID() uuid.UUID
	Kind() string
	Dispose()
	Disposed() bool
}

type materialBase struct {
	id       uuid.UUID
	disposed bool
}

func newMaterialBase() materialBase { return materialBase{id: uuid.New()} }

// UUID returns the material's identity.
func (m *materialBase) UUID() uuid.UUID { return m.id }

// Disposed reports whether Dispose has been called.
func (m *materialBase) Disposed() bool { return m.disposed }

// Uniform is a named shader input.
type Uniform struct {
	Value interface{}
}

// ShaderMaterial runs caller-supplied shader sources with a set of uniforms.
type ShaderMaterial struct {
	materialBase
	VertexShader   string
	FragmentShader string
	VertexColors   bool
	Uniforms       map[string]*Uniform
}

// NewShaderMaterial creates a shader material. A nil uniforms map is
// replaced with an empty one.
func NewShaderMaterial(vertexShader, fragmentShader string, uniforms map[string]*Uniform) *ShaderMaterial {
	if uniforms == nil {
		uniforms = make(map[string]*Uniform)
	}
	return &ShaderMaterial{
		materialBase:   newMaterialBase(),
		VertexShader:   vertexShader,
		FragmentShader: fragmentShader,
		Uniforms:       uniforms,
	}
}

// Kind reports "ShaderMaterial".
func (m *ShaderMaterial) Kind() string { return "ShaderMaterial" }

// SetUniform updates an existing uniform and reports whether it exists.
// Disposed materials ignore updates.
func (m *ShaderMaterial) SetUniform(name string, value interface{}) bool {
	if m.disposed {
		return false
	}
	u, ok := m.Uniforms[name]
	if !ok {
		return false
	}
	u.Value = value
	return true
}

// Dispose releases the material's program and uniforms.
func (m *ShaderMaterial) Dispose() {
	m.disposed = true
	m.Uniforms = nil
}

// PointsMaterial draws every vertex as a fixed-size, fixed-colour sprite.
type PointsMaterial struct {
	materialBase
	Size            float64
	Color           Color
	SizeAttenuation bool
}

// NewPointsMaterial creates a points material with size attenuation on.
func NewPointsMaterial(size float64, color Color) *PointsMaterial {
	return &PointsMaterial{
		materialBase:    newMaterialBase(),
		Size:            size,
		Color:           color,
		SizeAttenuation: true,
	}
}

// Kind reports "PointsMaterial".
func (m *PointsMaterial) Kind() string { return "PointsMaterial" }

// Dispose releases the material.
func (m *PointsMaterial) Dispose() { m.disposed = true }

// StandardMaterial is the lit surface material used for meshes.
type StandardMaterial struct {
	materialBase
	Color     Color
	Roughness float64
	Metalness float64
}

// NewStandardMaterial creates a white, fully rough, non-metallic material.
func NewStandardMaterial() *StandardMaterial {
	return &StandardMaterial{
		materialBase: newMaterialBase(),
		Color:        Color{R: 1, G: 1, B: 1},
		Roughness:    1,
	}
}

// Kind reports "StandardMaterial".
func (m *StandardMaterial) Kind() string { return "StandardMaterial" }

// Dispose releases the material.
func (m *StandardMaterial) Dispose() { m.disposed = true }
