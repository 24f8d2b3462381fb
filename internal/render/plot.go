package render

import (
	"fmt"
	"image/color"
	"io"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/banshee-data/particles/internal/fsutil"
	"github.com/banshee-data/particles/internal/scene"
)

// PlotFile is the name of the PNG snapshot inside the output directory.
const PlotFile = "particles.png"

// PlotRenderer writes each rendered frame as a front-view (X/Y) PNG scatter.
type PlotRenderer struct {
	fs         fsutil.FileSystem
	dir        string
	maxPoints  int
	width      int
	height     int
	pixelRatio float64
}

// NewPlotRenderer writes snapshots to dir/particles.png.
func NewPlotRenderer(fs fsutil.FileSystem, dir string, maxPoints int) *PlotRenderer {
	return &PlotRenderer{fs: fs, dir: dir, maxPoints: maxPoints, width: 800, height: 800, pixelRatio: 1}
}

// Path returns the snapshot file path.
func (r *PlotRenderer) Path() string { return filepath.Join(r.dir, PlotFile) }

// SetSize sets the image size in CSS pixels.
func (r *PlotRenderer) SetSize(width, height int) {
	r.width, r.height = width, height
}

// SetPixelRatio scales the image size.
func (r *PlotRenderer) SetPixelRatio(ratio float64) {
	if ratio > 0 {
		r.pixelRatio = ratio
	}
}

// Render writes the snapshot image.
func (r *PlotRenderer) Render(s *scene.Scene, _ *scene.PerspectiveCamera) error {
	snap := collect(s, r.maxPoints)
	pad := axisPad(snap.extent)

	p := plot.New()
	p.Title.Text = fmt.Sprintf("Particles (%d points)", snap.points)
	p.X.Label.Text = "X"
	p.Y.Label.Text = "Y"
	p.X.Min, p.X.Max = -pad, pad
	p.Y.Min, p.Y.Max = -pad, pad
	p.BackgroundColor = color.Black
	p.Title.TextStyle.Color = color.White

	for _, c := range snap.clouds {
		xys := make(plotter.XYs, len(c.xs))
		for i := range c.xs {
			xys[i] = plotter.XY{X: c.xs[i], Y: c.ys[i]}
		}
		sc, err := plotter.NewScatter(xys)
		if err != nil {
			return fmt.Errorf("failed to build scatter for %s: %w", c.name, err)
		}
		sc.GlyphStyle.Shape = draw.CircleGlyph{}
		sc.GlyphStyle.Radius = vg.Points(0.75)
		sc.GlyphStyle.Color = c.color.RGBA8()
		p.Add(sc)
	}

	// vgimg draws at 96 dpi; lengths are in points (1/72 inch).
	w := vg.Length(float64(r.width)*r.pixelRatio) * vg.Inch / 96
	h := vg.Length(float64(r.height)*r.pixelRatio) * vg.Inch / 96
	wt, err := p.WriterTo(w, h, "png")
	if err != nil {
		return fmt.Errorf("failed to create png writer: %w", err)
	}

	return fsutil.WriteAtomic(r.fs, r.Path(), func(out io.Writer) error {
		_, err := wt.WriteTo(out)
		return err
	})
}
