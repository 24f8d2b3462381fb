// Package render provides the scene.Renderer implementations the demo can
// draw with: frame statistics, and HTML and PNG snapshots of the point
// clouds written through a fsutil.FileSystem.
package render

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/banshee-data/particles/internal/scene"
)

// cloud is a decimated copy of one renderable's vertices.
type cloud struct {
	name   string
	kind   string
	color  scene.Color
	xs     []float64
	ys     []float64
	zs     []float64
	total  int // vertices before decimation
	stride int
}

// snapshot is everything a file renderer draws for one frame.
type snapshot struct {
	clouds []cloud
	extent float64 // max |coordinate| across all clouds
	points int     // visible point-cloud vertices before decimation
}

// collect copies the visible geometry out of s, keeping at most maxPoints
// vertices per object by taking every stride-th vertex. Disposed geometry
// is skipped.
func collect(s *scene.Scene, maxPoints int) snapshot {
	var snap snapshot
	for _, obj := range s.Objects() {
		var (
			geom    *scene.BufferGeometry
			mat     scene.Material
			visible bool
		)
		switch o := obj.(type) {
		case *scene.Points:
			geom, mat, visible = o.Geometry, o.Material, o.Visible
		case *scene.Mesh:
			geom, mat, visible = o.Geometry, o.Material, o.Visible
		default:
			continue
		}
		if !visible || geom == nil || geom.Disposed() {
			continue
		}

		pos := geom.Positions()
		n := len(pos) / 3
		stride := 1
		if maxPoints > 0 && n > maxPoints {
			stride = (n + maxPoints - 1) / maxPoints
		}

		c := cloud{
			name:   obj.Name(),
			kind:   obj.Kind(),
			color:  materialColor(mat),
			total:  n,
			stride: stride,
		}
		for i := 0; i < n; i += stride {
			c.xs = append(c.xs, float64(pos[3*i]))
			c.ys = append(c.ys, float64(pos[3*i+1]))
			c.zs = append(c.zs, float64(pos[3*i+2]))
		}
		if len(c.xs) > 0 {
			for _, axis := range [][]float64{c.xs, c.ys, c.zs} {
				snap.extent = math.Max(snap.extent, math.Max(math.Abs(floats.Min(axis)), math.Abs(floats.Max(axis))))
			}
		}
		if c.kind == "Points" {
			snap.points += n
		}
		snap.clouds = append(snap.clouds, c)
	}
	return snap
}

// materialColor picks the colour a material would draw flat geometry with.
func materialColor(m scene.Material) scene.Color {
	switch mat := m.(type) {
	case *scene.PointsMaterial:
		return mat.Color
	case *scene.StandardMaterial:
		return mat.Color
	case *scene.ShaderMaterial:
		if u, ok := mat.Uniforms["uColor"]; ok {
			if c, ok := u.Value.(scene.Color); ok {
				return c
			}
		}
	}
	return scene.Color{R: 1, G: 1, B: 1}
}

// axisPad rounds the extent up so axes stay stable across small changes.
func axisPad(extent float64) float64 {
	if extent <= 0 {
		return 1
	}
	return math.Ceil(extent*2) / 2
}
