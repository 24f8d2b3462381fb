// Package app assembles the point-cloud demo: the scene and its lights, the
// particle generator, the debug panel bindings, the frame loop and the
// renderers.
package app

import (
	"context"
	"fmt"
	"io"
	"math"
	"sync"
	"time"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/banshee-data/particles/internal/animation"
	"github.com/banshee-data/particles/internal/config"
	"github.com/banshee-data/particles/internal/debugpanel"
	"github.com/banshee-data/particles/internal/fsutil"
	"github.com/banshee-data/particles/internal/monitoring"
	"github.com/banshee-data/particles/internal/particles"
	"github.com/banshee-data/particles/internal/render"
	"github.com/banshee-data/particles/internal/scene"
	"github.com/banshee-data/particles/internal/timeutil"
)

var logf = monitoring.Tagged("App")

// MaxPixelRatio caps the device pixel ratio handed to renderers.
const MaxPixelRatio = 2.0

// Static sphere and camera settings.
const (
	sphereRadius         = 2.4
	sphereWidthSegments  = 64
	sphereHeightSegments = 32
	cameraNear           = 0.1
	cameraFar            = 100
)

// Viewport is the drawable area the demo renders into.
type Viewport struct {
	Width            int
	Height           int
	DevicePixelRatio float64
}

// Aspect returns width over height, or 1 for a degenerate viewport.
func (v Viewport) Aspect() float64 {
	if v.Width <= 0 || v.Height <= 0 {
		return 1
	}
	return float64(v.Width) / float64(v.Height)
}

// PixelRatio returns the device pixel ratio clamped to (0, MaxPixelRatio].
func (v Viewport) PixelRatio() float64 {
	if v.DevicePixelRatio <= 0 {
		return 1
	}
	return math.Min(v.DevicePixelRatio, MaxPixelRatio)
}

// Options supplies the collaborators New does not build from config.
type Options struct {
	Clock timeutil.Clock
	FS    fsutil.FileSystem

	// Renderer replaces the snapshot renderers built from config when set.
	// Frame statistics are always recorded.
	Renderer scene.Renderer
}

// App is one running demo. Everything except Post, Console and Stop must be
// called from the loop goroutine, or before Run starts.
type App struct {
	cfg   *config.DemoConfig
	clock timeutil.Clock

	scene       *scene.Scene
	camera      *scene.PerspectiveCamera
	sphere      *scene.Mesh
	ambient     *scene.AmbientLight
	directional *scene.DirectionalLight

	generator  *particles.Generator
	params     particles.Parameters // panel-bound working copy
	lightColor string

	panel     *debugpanel.Panel
	debouncer *debugpanel.Debouncer
	scheduler *animation.Scheduler

	stats    *render.StatsRenderer
	renderer scene.Renderer
	viewport Viewport

	renderErrors uint64
	closeOnce    sync.Once
}

// New builds the scene described by cfg and generates the first point cloud.
func New(cfg *config.DemoConfig, opts Options) (*App, error) {
	if cfg == nil {
		cfg = config.DefaultDemoConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if opts.Clock == nil {
		opts.Clock = timeutil.RealClock{}
	}
	if opts.FS == nil {
		opts.FS = fsutil.OSFileSystem{}
	}

	geometry, err := particles.StrategyByName(cfg.GetGeometry(), cfg.GetSeed())
	if err != nil {
		return nil, err
	}
	material, err := particles.MaterialByName(cfg.GetMaterial())
	if err != nil {
		return nil, err
	}
	lightColor, err := scene.ParseColor(cfg.GetLightColor())
	if err != nil {
		return nil, fmt.Errorf("invalid light colour: %w", err)
	}

	a := &App{
		cfg:        cfg,
		clock:      opts.Clock,
		scene:      scene.NewScene(),
		params:     parametersFrom(cfg),
		lightColor: lightColor.Hex(),
	}
	a.stats = render.NewStatsRenderer(a.clock)
	a.buildScene(lightColor)
	a.generator = particles.NewGenerator(a.scene, geometry, material)
	a.scheduler = animation.NewScheduler(a.clock, cfg.GetFrameRate(), a.Frame)
	a.debouncer = debugpanel.NewDebouncer(a.clock, cfg.GetDebounceQuiet(), a.Dispatch)
	a.buildPanel()

	if opts.Renderer != nil {
		a.renderer = render.MultiRenderer{a.stats, opts.Renderer}
	} else {
		a.renderer = a.buildRenderers(opts.FS)
	}

	if _, err := a.generator.Regenerate(a.params); err != nil {
		return nil, fmt.Errorf("initial point cloud: %w", err)
	}

	a.Resize(Viewport{Width: cfg.GetWidth(), Height: cfg.GetHeight(), DevicePixelRatio: cfg.GetPixelRatio()})
	return a, nil
}

func parametersFrom(cfg *config.DemoConfig) particles.Parameters {
	return particles.Parameters{
		Count:  cfg.GetCount(),
		Radius: cfg.GetRadius(),
		Size:   cfg.GetSize(),
		Color:  cfg.GetColor(),
	}
}

func (a *App) buildScene(lightColor scene.Color) {
	pos := a.cfg.GetCameraPosition()
	a.camera = scene.NewPerspectiveCamera(a.cfg.GetCameraFOV(), 1, cameraNear, cameraFar)
	a.camera.Position = r3.Vec{X: pos[0], Y: pos[1], Z: pos[2]}
	a.scene.Add(a.camera)

	a.sphere = scene.NewMesh(
		scene.NewSphereGeometry(sphereRadius, sphereWidthSegments, sphereHeightSegments),
		scene.NewStandardMaterial(),
	)
	a.sphere.SetName("sphere")
	a.scene.Add(a.sphere)

	a.ambient = scene.NewAmbientLight(lightColor, a.cfg.GetAmbientIntensity())
	a.scene.Add(a.ambient)

	dir := a.cfg.GetDirectionalPosition()
	a.directional = scene.NewDirectionalLight(lightColor, a.cfg.GetDirectionalIntensity())
	a.directional.SetName("moonLight")
	a.directional.Position = r3.Vec{X: dir[0], Y: dir[1], Z: dir[2]}
	a.scene.Add(a.directional)
}

func (a *App) buildPanel() {
	p := debugpanel.New()

	p.AddInt("count", &a.params.Count).
		Min(0).Max(1024).Step(128).
		OnFinishChange(a.regenerate)
	p.AddFloat("radius", &a.params.Radius).
		Min(1).Max(10).Step(0.5).
		OnFinishChange(a.regenerate)

	p.AddFloat("ambientIntensity", &a.ambient.Intensity).Min(0).Max(1).Step(0.001)
	p.AddFloat("directionalIntensity", &a.directional.Intensity).Min(0).Max(1).Step(0.001)
	p.AddFloat("x", &a.directional.Position.X).Min(-10).Max(10).Step(0.001)
	p.AddFloat("y", &a.directional.Position.Y).Min(-10).Max(10).Step(0.001)
	p.AddFloat("z", &a.directional.Position.Z).Min(-10).Max(10).Step(0.001)

	p.AddColor("lightColor", &a.lightColor).OnChange(a.applyLightColor)

	a.panel = p
}

func (a *App) buildRenderers(fs fsutil.FileSystem) scene.Renderer {
	renderers := render.MultiRenderer{a.stats}
	dir := a.cfg.GetOutputDir()
	interval := a.cfg.GetSnapshotInterval()
	maxPoints := a.cfg.GetMaxSnapshotPoints()

	if a.cfg.GetHTMLSnapshot() {
		html := render.NewEChartsRenderer(fs, dir, maxPoints)
		renderers = append(renderers, render.NewThrottled(html, a.clock, interval))
		logf("writing HTML snapshots to %s every %s", html.Path(), interval)
	}
	if a.cfg.GetPNGSnapshot() {
		png := render.NewPlotRenderer(fs, dir, maxPoints)
		renderers = append(renderers, render.NewThrottled(png, a.clock, interval))
		logf("writing PNG snapshots to %s every %s", png.Path(), interval)
	}
	return renderers
}

// regenerate commits the panel's working parameters. A rejected snapshot
// leaves the current cloud in place and rolls the panel back to its
// parameters, so one bad edit does not poison later commits.
func (a *App) regenerate() {
	if _, err := a.generator.Regenerate(a.params); err != nil {
		logf("keeping generation %d: %v", a.generator.Generation(), err)
		if cur := a.generator.Current(); cur != nil {
			a.params = cur.Params
		}
	}
}

func (a *App) applyLightColor() {
	c, err := scene.ParseColor(a.lightColor)
	if err != nil {
		logf("ignoring light colour %q: %v", a.lightColor, err)
		return
	}
	a.lightColor = c.Hex()
	a.ambient.Color = c
	a.directional.Color = c
}

// ApplyConfig adopts the particle and light settings of a reloaded config.
// The cloud is regenerated only when its parameters changed. Geometry and
// material strategies are fixed for the life of the App.
func (a *App) ApplyConfig(cfg *config.DemoConfig) {
	if cfg.GetGeometry() != a.cfg.GetGeometry() || cfg.GetMaterial() != a.cfg.GetMaterial() {
		logf("geometry/material changes take effect on restart (%s/%s)", cfg.GetGeometry(), cfg.GetMaterial())
	}

	a.ambient.Intensity = cfg.GetAmbientIntensity()
	a.directional.Intensity = cfg.GetDirectionalIntensity()
	dir := cfg.GetDirectionalPosition()
	a.directional.Position = r3.Vec{X: dir[0], Y: dir[1], Z: dir[2]}
	a.lightColor = cfg.GetLightColor()
	a.applyLightColor()

	if params := parametersFrom(cfg); params != a.params {
		a.params = params
		a.regenerate()
	}
}

// Resize applies a new viewport: the camera aspect follows it and renderers
// get the new size and the capped pixel ratio.
func (a *App) Resize(v Viewport) {
	a.viewport = v
	a.camera.SetAspect(v.Aspect())
	if rs, ok := a.renderer.(scene.Resizable); ok {
		rs.SetSize(v.Width, v.Height)
		rs.SetPixelRatio(v.PixelRatio())
	}
}

// Frame advances the shader clock to elapsed and renders the scene. Render
// failures are logged and do not stop the loop.
func (a *App) Frame(elapsed time.Duration) {
	if res := a.generator.Current(); res != nil {
		if sm, ok := res.Material.(*scene.ShaderMaterial); ok {
			sm.SetUniform(particles.UniformTime, elapsed.Seconds())
		}
	}
	if err := a.renderer.Render(a.scene, a.camera); err != nil {
		a.renderErrors++
		logf("render failed (%d so far): %v", a.renderErrors, err)
	}
}

// Run drives the frame loop and the debounced panel commits until Stop is
// called or ctx is done.
func (a *App) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		a.debouncer.Run(ctx)
	}()

	err := a.scheduler.Run(ctx)
	cancel()
	wg.Wait()
	return err
}

// Dispatch runs fn on the loop goroutine. It is dropped once the loop has
// stopped.
func (a *App) Dispatch(fn func()) {
	if !a.scheduler.Post(fn) {
		logf("loop stopped, dropping task")
	}
}

// Console returns a command console bound to the debug panel. Edits it makes
// run on the loop goroutine.
func (a *App) Console(out io.Writer) *debugpanel.Console {
	return debugpanel.NewConsole(a.panel, a.debouncer, a.Dispatch, out)
}

// Stop ends Run. It is safe to call from any goroutine.
func (a *App) Stop() { a.scheduler.Stop() }

// Close stops the loop and releases every disposable resource. Call it after
// Run has returned.
func (a *App) Close() {
	a.closeOnce.Do(func() {
		a.scheduler.Stop()
		a.generator.Close()
		a.sphere.Geometry.Dispose()
		a.sphere.Material.Dispose()
		for _, obj := range a.scene.Objects() {
			a.scene.Remove(obj)
		}
		logf("closed after %d frames", a.scheduler.Frames())
	})
}

// Scene returns the scene graph.
func (a *App) Scene() *scene.Scene { return a.scene }

// Camera returns the scene camera.
func (a *App) Camera() *scene.PerspectiveCamera { return a.camera }

// Panel returns the debug panel.
func (a *App) Panel() *debugpanel.Panel { return a.panel }

// Generator returns the point-cloud generator.
func (a *App) Generator() *particles.Generator { return a.generator }

// Scheduler returns the frame loop.
func (a *App) Scheduler() *animation.Scheduler { return a.scheduler }

// Stats returns the frame statistics renderer.
func (a *App) Stats() *render.StatsRenderer { return a.stats }

// Lights returns the ambient and directional lights.
func (a *App) Lights() (*scene.AmbientLight, *scene.DirectionalLight) {
	return a.ambient, a.directional
}

// Sphere returns the static lit sphere.
func (a *App) Sphere() *scene.Mesh { return a.sphere }

// Viewport returns the last applied viewport.
func (a *App) Viewport() Viewport { return a.viewport }

// Params returns the panel's working parameters.
func (a *App) Params() particles.Parameters { return a.params }

// RenderErrors counts frames whose render failed.
func (a *App) RenderErrors() uint64 { return a.renderErrors }
