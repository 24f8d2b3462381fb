package particles

import (
	_ "embed"
	"fmt"
	"math/rand"
	"time"

	"github.com/banshee-data/particles/internal/scene"
)

// GeometryStrategy builds the geometry for one regeneration.
type GeometryStrategy interface {
	Name() string
	Build(p Parameters) *scene.BufferGeometry
}

// MaterialPolicy builds the material for one regeneration. Build expects
// parameters that passed Validate and panics on an unparseable colour.
type MaterialPolicy interface {
	Name() string
	Build(p Parameters) scene.Material
}

// SphereStrategy delegates point placement to the sphere primitive, using
// Count as both the horizontal and vertical segment count.
type SphereStrategy struct{}

func (SphereStrategy) Name() string { return "sphere" }

func (SphereStrategy) Build(p Parameters) *scene.BufferGeometry {
	return scene.NewSphereGeometry(p.Radius, p.Count, p.Count)
}

// ScatterStrategy places Count points with each coordinate drawn
// independently from [-0.5, 0.5). The cloud fills a unit cube; it is not
// a sphere.
type ScatterStrategy struct {
	rng *rand.Rand
}

// NewScatterStrategy creates a scatter strategy. A zero seed seeds from the
// current time.
func NewScatterStrategy(seed int64) *ScatterStrategy {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &ScatterStrategy{rng: rand.New(rand.NewSource(seed))}
}

func (s *ScatterStrategy) Name() string { return "scatter" }

func (s *ScatterStrategy) Build(p Parameters) *scene.BufferGeometry {
	positions := scene.AllocPositions(3 * p.Count)
	for i := range positions {
		positions[i] = s.rng.Float32() - 0.5
	}
	return scene.NewBufferGeometry(positions)
}

//go:embed shaders/vertex.glsl
var particleVertexShader string

//go:embed shaders/fragment.glsl
var particleFragmentShader string

// ShaderMaterialPolicy builds an animated shader material with a uTime
// uniform (starting at 1) and a uColor uniform from the parameters.
type ShaderMaterialPolicy struct {
	VertexShader   string
	FragmentShader string
}

// NewShaderMaterialPolicy uses the bundled particle shaders.
func NewShaderMaterialPolicy() ShaderMaterialPolicy {
	return ShaderMaterialPolicy{
		VertexShader:   particleVertexShader,
		FragmentShader: particleFragmentShader,
	}
}

func (ShaderMaterialPolicy) Name() string { return "shader" }

func (m ShaderMaterialPolicy) Build(p Parameters) scene.Material {
	color := scene.MustParseColor(p.Color)
	mat := scene.NewShaderMaterial(m.VertexShader, m.FragmentShader, map[string]*scene.Uniform{
		UniformTime:  {Value: 1.0},
		UniformColor: {Value: color},
	})
	mat.VertexColors = true
	return mat
}

// Uniform names understood by the particle shaders.
const (
	UniformTime  = "uTime"
	UniformColor = "uColor"
)

// PointsMaterialPolicy builds a fixed-size, fixed-colour points material.
type PointsMaterialPolicy struct{}

func (PointsMaterialPolicy) Name() string { return "points" }

func (PointsMaterialPolicy) Build(p Parameters) scene.Material {
	color := scene.MustParseColor(p.Color)
	return scene.NewPointsMaterial(p.Size, color)
}

// StrategyByName resolves a geometry strategy from its config name.
func StrategyByName(name string, seed int64) (GeometryStrategy, error) {
	switch name {
	case "sphere", "":
		return SphereStrategy{}, nil
	case "scatter":
		return NewScatterStrategy(seed), nil
	default:
		return nil, fmt.Errorf("unknown geometry strategy %q (want sphere or scatter)", name)
	}
}

// MaterialByName resolves a material policy from its config name.
func MaterialByName(name string) (MaterialPolicy, error) {
	switch name {
	case "shader", "":
		return NewShaderMaterialPolicy(), nil
	case "points":
		return PointsMaterialPolicy{}, nil
	default:
		return nil, fmt.Errorf("unknown material policy %q (want shader or points)", name)
	}
}
