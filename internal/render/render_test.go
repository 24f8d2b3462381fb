package render

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/banshee-data/particles/internal/fsutil"
	"github.com/banshee-data/particles/internal/scene"
	"github.com/banshee-data/particles/internal/testutil"
	"github.com/banshee-data/particles/internal/timeutil"
)

func testScene(t *testing.T, n int) (*scene.Scene, *scene.Points) {
	t.Helper()
	s := scene.NewScene()
	pos := make([]float32, 3*n)
	for i := range pos {
		pos[i] = float32(i%7)/7 - 0.5
	}
	pts := scene.NewPoints(scene.NewBufferGeometry(pos), scene.NewPointsMaterial(0.02, scene.MustParseColor("#b9b5ff")))
	pts.SetName("particles")
	s.Add(pts)
	s.Add(scene.NewMesh(scene.NewSphereGeometry(2.4, 8, 6), scene.NewStandardMaterial()))
	s.Add(scene.NewAmbientLight(scene.MustParseColor("#6b6982"), 0.121))
	return s, pts
}

func testCamera() *scene.PerspectiveCamera {
	c := scene.NewPerspectiveCamera(75, 1, 0.1, 100)
	c.Position = r3.Vec{X: 3, Y: 3, Z: 3}
	return c
}

func TestCollect(t *testing.T) {
	s, pts := testScene(t, 100)

	snap := collect(s, 0)
	require.Len(t, snap.clouds, 2)
	assert.Equal(t, "particles", snap.clouds[0].name)
	assert.Equal(t, "Points", snap.clouds[0].kind)
	assert.Len(t, snap.clouds[0].xs, 100)
	assert.Equal(t, 100, snap.points)
	assert.InDelta(t, 2.4, snap.extent, 1e-6)

	snap = collect(s, 30)
	assert.Equal(t, 4, snap.clouds[0].stride)
	assert.Len(t, snap.clouds[0].xs, 25)
	assert.Equal(t, 100, snap.clouds[0].total)

	pts.Geometry.Dispose()
	snap = collect(s, 0)
	require.Len(t, snap.clouds, 1)
	assert.Equal(t, "Mesh", snap.clouds[0].kind)
	assert.Zero(t, snap.points)
}

func TestCollect_SkipsHidden(t *testing.T) {
	s, pts := testScene(t, 10)
	pts.Visible = false
	snap := collect(s, 0)
	require.Len(t, snap.clouds, 1)
	assert.Zero(t, snap.points)
}

func TestMaterialColor(t *testing.T) {
	c := scene.MustParseColor("#ff0000")
	sm := scene.NewShaderMaterial("", "", map[string]*scene.Uniform{"uColor": {Value: c}})
	assert.Equal(t, c, materialColor(sm))
	assert.Equal(t, scene.Color{R: 1, G: 1, B: 1}, materialColor(nil))
}

func TestAxisPad(t *testing.T) {
	assert.Equal(t, 1.0, axisPad(0))
	assert.Equal(t, 0.5, axisPad(0.49))
	assert.Equal(t, 2.5, axisPad(2.4))
}

func TestEChartsRenderer(t *testing.T) {
	fs := fsutil.NewMemoryFileSystem()
	r := NewEChartsRenderer(fs, "out", 50)
	r.SetSize(640, 480)
	s, _ := testScene(t, 200)

	require.NoError(t, r.Render(s, testCamera()))

	data, err := fs.ReadFile(r.Path())
	require.NoError(t, err)
	html := string(data)
	assert.Contains(t, html, "particles (Points)")
	assert.Contains(t, html, "mesh (Mesh)")
	assert.Contains(t, html, "640px")
	assert.Contains(t, html, "points=200")
	assert.False(t, fs.Exists(r.Path()+".tmp"))
}

func TestPlotRenderer(t *testing.T) {
	fs := fsutil.NewMemoryFileSystem()
	r := NewPlotRenderer(fs, "out", 50)
	r.SetSize(200, 150)
	r.SetPixelRatio(2)
	s, _ := testScene(t, 200)

	require.NoError(t, r.Render(s, testCamera()))

	data, err := fs.ReadFile(r.Path())
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("\x89PNG\r\n\x1a\n")))
	assert.Equal(t, []string{"out/particles.png"}, fs.Files("out"))
}

func TestStatsRenderer(t *testing.T) {
	logs := testutil.CaptureLogs(t)
	clock := timeutil.NewMockClock(time.Unix(0, 0))
	r := NewStatsRenderer(clock)
	r.LogEvery = 2
	s, _ := testScene(t, 12)

	for i := 0; i < 3; i++ {
		clock.Advance(time.Second / 60)
		require.NoError(t, r.Render(s, nil))
	}
	assert.Equal(t, uint64(3), r.Frames())
	assert.Equal(t, 12, r.LastPoints())
	assert.Equal(t, 3, r.LastObjects())
	assert.Equal(t, []string{"[Render] frames=2 fps=60.0 objects=3 points=12"}, logs.Lines())
}

type fakeRenderer struct {
	calls  int
	err    error
	width  int
	height int
	ratio  float64
}

func (f *fakeRenderer) Render(*scene.Scene, *scene.PerspectiveCamera) error {
	f.calls++
	return f.err
}

func (f *fakeRenderer) SetSize(w, h int)        { f.width, f.height = w, h }
func (f *fakeRenderer) SetPixelRatio(r float64) { f.ratio = r }

type plainRenderer struct{ calls int }

func (p *plainRenderer) Render(*scene.Scene, *scene.PerspectiveCamera) error {
	p.calls++
	return nil
}

func TestMultiRenderer(t *testing.T) {
	boom := errors.New("boom")
	a := &fakeRenderer{err: boom}
	b := &plainRenderer{}
	c := &fakeRenderer{}
	m := MultiRenderer{a, b, c}

	err := m.Render(scene.NewScene(), nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.True(t, strings.Contains(err.Error(), "fakeRenderer"))
	assert.Equal(t, 1, a.calls)
	assert.Equal(t, 1, b.calls)
	assert.Equal(t, 1, c.calls)

	m.SetSize(320, 200)
	m.SetPixelRatio(2)
	assert.Equal(t, 320, a.width)
	assert.Equal(t, 200, c.height)
	assert.Equal(t, 2.0, c.ratio)

	assert.NoError(t, MultiRenderer{b}.Render(scene.NewScene(), nil))
}

func TestThrottled(t *testing.T) {
	clock := timeutil.NewMockClock(time.Unix(100, 0))
	inner := &fakeRenderer{}
	th := NewThrottled(inner, clock, time.Second)
	s := scene.NewScene()

	require.NoError(t, th.Render(s, nil))
	assert.Equal(t, 1, inner.calls, "first frame always passes")

	clock.Advance(500 * time.Millisecond)
	require.NoError(t, th.Render(s, nil))
	assert.Equal(t, 1, inner.calls)

	clock.Advance(500 * time.Millisecond)
	require.NoError(t, th.Render(s, nil))
	assert.Equal(t, 2, inner.calls)
	assert.Equal(t, uint64(2), th.Passed())

	th.SetSize(10, 20)
	th.SetPixelRatio(1.5)
	assert.Equal(t, 10, inner.width)
	assert.Equal(t, 1.5, inner.ratio)
}
