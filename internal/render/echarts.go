package render

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/banshee-data/particles/internal/fsutil"
	"github.com/banshee-data/particles/internal/scene"
)

// EChartsFile is the name of the HTML snapshot inside the output directory.
const EChartsFile = "particles.html"

// EChartsRenderer writes each rendered frame as an interactive 3D scatter
// page. The browser does the projection, so the page can be orbited freely.
type EChartsRenderer struct {
	fs        fsutil.FileSystem
	dir       string
	maxPoints int
	width     int
	height    int
	frames    int
}

// NewEChartsRenderer writes snapshots to dir/particles.html.
func NewEChartsRenderer(fs fsutil.FileSystem, dir string, maxPoints int) *EChartsRenderer {
	return &EChartsRenderer{fs: fs, dir: dir, maxPoints: maxPoints, width: 900, height: 900}
}

// Path returns the snapshot file path.
func (r *EChartsRenderer) Path() string { return filepath.Join(r.dir, EChartsFile) }

// SetSize sets the chart size in CSS pixels.
func (r *EChartsRenderer) SetSize(width, height int) {
	r.width, r.height = width, height
}

// SetPixelRatio is a no-op: the page renders at the browser's own ratio.
func (r *EChartsRenderer) SetPixelRatio(float64) {}

// Render writes the snapshot page.
func (r *EChartsRenderer) Render(s *scene.Scene, camera *scene.PerspectiveCamera) error {
	r.frames++
	snap := collect(s, r.maxPoints)
	pad := axisPad(snap.extent)
	subtitle := fmt.Sprintf("frame=%d points=%d", r.frames, snap.points)
	if camera != nil {
		subtitle += fmt.Sprintf(" fov=%g camera distance=%.2f", camera.FOV, camera.Distance())
	}

	chart := charts.NewScatter3D()
	chart.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: "Particles",
			Theme:     "dark",
			Width:     fmt.Sprintf("%dpx", r.width),
			Height:    fmt.Sprintf("%dpx", r.height),
		}),
		charts.WithTitleOpts(opts.Title{Title: "Particles", Subtitle: subtitle}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxis3DOpts(opts.XAxis3D{Name: "X", Min: -pad, Max: pad}),
		charts.WithYAxis3DOpts(opts.YAxis3D{Name: "Y", Min: -pad, Max: pad}),
		charts.WithZAxis3DOpts(opts.ZAxis3D{Name: "Z", Min: -pad, Max: pad}),
	)

	for _, c := range snap.clouds {
		data := make([]opts.Chart3DData, len(c.xs))
		for i := range c.xs {
			data[i] = opts.Chart3DData{Value: []interface{}{c.xs[i], c.ys[i], c.zs[i]}}
		}
		chart.AddSeries(fmt.Sprintf("%s (%s)", c.name, c.kind), data,
			charts.WithItemStyleOpts(opts.ItemStyle{Color: c.color.Hex()}))
	}

	return fsutil.WriteAtomic(r.fs, r.Path(), func(w io.Writer) error {
		return chart.Render(w)
	})
}
