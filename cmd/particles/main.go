// Command particles runs the point-cloud demo headless: the particle cloud is
// regenerated from the debug panel, which is driven from stdin, and frames
// are written out as HTML and PNG snapshots.
//
// Usage:
//
//	go run ./cmd/particles [flags]
//
// Flags:
//
//	-config    JSON config file (default: built-in defaults)
//	-watch     Reload -config when it changes on disk
//	-count     Particle count, or sphere segments for the sphere geometry
//	-radius    Sphere radius
//	-geometry  sphere or scatter
//	-material  shader or points
//	-seed      Scatter seed (0 seeds from the clock)
//	-fps       Frame rate in Hz
//	-out       Snapshot output directory
//	-html      Write the 3D scatter HTML snapshot
//	-png       Write the PNG snapshot
//	-console   Read debug panel commands from stdin; EOF stops the demo
//	-version   Print version and exit
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/banshee-data/particles/internal/app"
	"github.com/banshee-data/particles/internal/config"
	"github.com/banshee-data/particles/internal/fsutil"
	"github.com/banshee-data/particles/internal/timeutil"
	"github.com/banshee-data/particles/internal/version"
)

type flags struct {
	configPath  string
	watch       bool
	count       int
	radius      float64
	geometry    string
	material    string
	seed        int64
	fps         float64
	out         string
	html        bool
	png         bool
	console     bool
	showVersion bool
}

func newFlagSet(out io.Writer) (*flag.FlagSet, *flags) {
	f := &flags{}
	def := config.DefaultDemoConfig()
	fs := flag.NewFlagSet("particles", flag.ContinueOnError)
	fs.SetOutput(out)
	fs.StringVar(&f.configPath, "config", "", "JSON config file")
	fs.BoolVar(&f.watch, "watch", false, "Reload -config when it changes on disk")
	fs.IntVar(&f.count, "count", def.GetCount(), "Particle count, or sphere segments for the sphere geometry")
	fs.Float64Var(&f.radius, "radius", def.GetRadius(), "Sphere radius")
	fs.StringVar(&f.geometry, "geometry", def.GetGeometry(), "Geometry strategy: sphere or scatter")
	fs.StringVar(&f.material, "material", def.GetMaterial(), "Material policy: shader or points")
	fs.Int64Var(&f.seed, "seed", def.GetSeed(), "Scatter seed (0 seeds from the clock)")
	fs.Float64Var(&f.fps, "fps", def.GetFrameRate(), "Frame rate in Hz")
	fs.StringVar(&f.out, "out", def.GetOutputDir(), "Snapshot output directory")
	fs.BoolVar(&f.html, "html", def.GetHTMLSnapshot(), "Write the 3D scatter HTML snapshot")
	fs.BoolVar(&f.png, "png", def.GetPNGSnapshot(), "Write the PNG snapshot")
	fs.BoolVar(&f.console, "console", true, "Read debug panel commands from stdin")
	fs.BoolVar(&f.showVersion, "version", false, "Print version and exit")
	return fs, f
}

// loadConfig reads the config file, if any, and lays the explicitly set
// flags over it.
func loadConfig(fs *flag.FlagSet, f *flags) (*config.DemoConfig, error) {
	cfg := config.DefaultDemoConfig()
	if f.configPath != "" {
		loaded, err := config.LoadDemoConfig(f.configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	fs.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "count":
			cfg.Count = &f.count
		case "radius":
			cfg.Radius = &f.radius
		case "geometry":
			cfg.Geometry = &f.geometry
		case "material":
			cfg.Material = &f.material
		case "seed":
			cfg.Seed = &f.seed
		case "fps":
			cfg.FrameRate = &f.fps
		case "out":
			cfg.OutputDir = &f.out
		case "html":
			cfg.HTMLSnapshot = &f.html
		case "png":
			cfg.PNGSnapshot = &f.png
		}
	})

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func main() {
	fs, f := newFlagSet(os.Stderr)
	if err := fs.Parse(os.Args[1:]); err != nil {
		os.Exit(2)
	}

	if f.showVersion {
		fmt.Printf("particles %s\n", version.String())
		return
	}

	cfg, err := loadConfig(fs, f)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	demo, err := app.New(cfg, app.Options{Clock: timeutil.RealClock{}, FS: fsutil.OSFileSystem{}})
	if err != nil {
		log.Fatalf("Failed to start demo: %v", err)
	}
	defer demo.Close()

	log.Printf("Starting particles %s: %s/%s count=%d radius=%g at %.0f fps",
		version.Version, cfg.GetGeometry(), cfg.GetMaterial(), cfg.GetCount(), cfg.GetRadius(), cfg.GetFrameRate())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if f.watch && f.configPath != "" {
		watcher, err := config.NewWatcher(f.configPath, timeutil.RealClock{}, config.DefaultSettle, func(reloaded *config.DemoConfig) {
			demo.Dispatch(func() { demo.ApplyConfig(reloaded) })
		})
		if err != nil {
			log.Fatalf("Failed to watch config: %v", err)
		}
		log.Printf("Watching %s for changes", watcher.Path())
		go func() {
			if err := watcher.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				log.Printf("config watcher error: %v", err)
			}
		}()
	}

	if f.console {
		// The console goroutine is not joined: a blocked stdin read cannot be
		// interrupted, and the process exits once the loop stops.
		go func() {
			console := demo.Console(os.Stdout)
			if err := console.Run(ctx, os.Stdin); err != nil && !errors.Is(err, context.Canceled) {
				log.Printf("console error: %v", err)
			}
			log.Printf("console closed")
			demo.Stop()
		}()
	}

	if err := demo.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Printf("loop error: %v", err)
	}
	log.Printf("frame loop stopped after %d frames", demo.Scheduler().Frames())
	log.Printf("Graceful shutdown complete")
}
