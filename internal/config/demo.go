package config

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/banshee-data/particles/internal/scene"
)

// DefaultConfigPath is the path to the canonical demo defaults file.
const DefaultConfigPath = "config/particles.defaults.json"

// DemoConfig is the root configuration for the point-cloud demo. Every
// field is optional; the Get* accessors supply defaults for nil fields, so
// partial configs are safe.
type DemoConfig struct {
	// Point cloud
	Count    *int     `json:"count,omitempty"`
	Radius   *float64 `json:"radius,omitempty"`
	Size     *float64 `json:"size,omitempty"`
	Color    *string  `json:"color,omitempty"`
	Geometry *string  `json:"geometry,omitempty"` // "sphere" or "scatter"
	Material *string  `json:"material,omitempty"` // "shader" or "points"
	Seed     *int64   `json:"seed,omitempty"`     // scatter seed; 0 seeds from the clock

	// Lights
	LightColor           *string     `json:"light_color,omitempty"`
	AmbientIntensity     *float64    `json:"ambient_intensity,omitempty"`
	DirectionalIntensity *float64    `json:"directional_intensity,omitempty"`
	DirectionalPosition  *[3]float64 `json:"directional_position,omitempty"`

	// Camera and viewport
	CameraFOV      *float64    `json:"camera_fov,omitempty"`
	CameraPosition *[3]float64 `json:"camera_position,omitempty"`
	Width          *int        `json:"width,omitempty"`
	Height         *int        `json:"height,omitempty"`
	PixelRatio     *float64    `json:"pixel_ratio,omitempty"`

	// Loop and debug panel
	FrameRate     *float64 `json:"frame_rate,omitempty"`
	DebounceQuiet *string  `json:"debounce_quiet,omitempty"` // duration string like "250ms"

	// Snapshot output
	OutputDir         *string `json:"output_dir,omitempty"`
	SnapshotInterval  *string `json:"snapshot_interval,omitempty"` // duration string like "5s"
	HTMLSnapshot      *bool   `json:"html_snapshot,omitempty"`
	PNGSnapshot       *bool   `json:"png_snapshot,omitempty"`
	MaxSnapshotPoints *int    `json:"max_snapshot_points,omitempty"`
}

func ptrFloat64(v float64) *float64 { return &v }
func ptrBool(v bool) *bool          { return &v }
func ptrString(v string) *string    { return &v }
func ptrInt(v int) *int             { return &v }
func ptrInt64(v int64) *int64       { return &v }
func ptrVec(x, y, z float64) *[3]float64 {
	v := [3]float64{x, y, z}
	return &v
}

// EmptyDemoConfig returns a DemoConfig with all fields nil.
func EmptyDemoConfig() *DemoConfig {
	return &DemoConfig{}
}

// DefaultDemoConfig returns a DemoConfig with every field set to its default.
func DefaultDemoConfig() *DemoConfig {
	return &DemoConfig{
		Count:                ptrInt(128),
		Radius:               ptrFloat64(2.5),
		Size:                 ptrFloat64(0.02),
		Color:                ptrString("#b9b5ff"),
		Geometry:             ptrString("sphere"),
		Material:             ptrString("shader"),
		Seed:                 ptrInt64(0),
		LightColor:           ptrString("#6b6982"),
		AmbientIntensity:     ptrFloat64(0.121),
		DirectionalIntensity: ptrFloat64(0.25),
		DirectionalPosition:  ptrVec(-10, 7.385, 1.099),
		CameraFOV:            ptrFloat64(75),
		CameraPosition:       ptrVec(3, 3, 3),
		Width:                ptrInt(1280),
		Height:               ptrInt(720),
		PixelRatio:           ptrFloat64(1),
		FrameRate:            ptrFloat64(60),
		DebounceQuiet:        ptrString("250ms"),
		OutputDir:            ptrString("out"),
		SnapshotInterval:     ptrString("5s"),
		HTMLSnapshot:         ptrBool(true),
		PNGSnapshot:          ptrBool(false),
		MaxSnapshotPoints:    ptrInt(20000),
	}
}

// LoadDemoConfig loads a DemoConfig from a JSON file.
// The file must have a .json extension and be at most 1MB.
func LoadDemoConfig(path string) (*DemoConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024 // 1MB
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := EmptyDemoConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// MustLoadDefaultConfig loads the canonical defaults from DefaultConfigPath,
// searching the current directory and its parents up to the repo root.
// Panics if the file cannot be loaded, intended for test setup.
func MustLoadDefaultConfig() *DemoConfig {
	candidates := []string{
		DefaultConfigPath,
		"../" + DefaultConfigPath,
		"../../" + DefaultConfigPath, // from internal/config/
		"../../../" + DefaultConfigPath,
	}
	for _, path := range candidates {
		if cfg, err := LoadDemoConfig(path); err == nil {
			return cfg
		}
	}
	panic("cannot find " + DefaultConfigPath + " - run tests from repository root")
}

// Validate checks the fields that are set. Count may be zero here: the
// generator decides what a zero count means.
func (c *DemoConfig) Validate() error {
	if c.Count != nil && *c.Count < 0 {
		return fmt.Errorf("count must be non-negative, got %d", *c.Count)
	}
	for name, v := range map[string]*float64{
		"radius":      c.Radius,
		"size":        c.Size,
		"camera_fov":  c.CameraFOV,
		"pixel_ratio": c.PixelRatio,
	} {
		if v != nil && !(*v > 0 && !math.IsInf(*v, 0)) {
			return fmt.Errorf("%s must be a positive finite number, got %v", name, *v)
		}
	}
	for name, v := range map[string]*float64{
		"ambient_intensity":     c.AmbientIntensity,
		"directional_intensity": c.DirectionalIntensity,
	} {
		if v != nil && (*v < 0 || *v > 1) {
			return fmt.Errorf("%s must be between 0 and 1, got %f", name, *v)
		}
	}
	for name, v := range map[string]*string{"color": c.Color, "light_color": c.LightColor} {
		if v != nil {
			if _, err := scene.ParseColor(*v); err != nil {
				return fmt.Errorf("%s: %w", name, err)
			}
		}
	}
	if c.Geometry != nil && *c.Geometry != "sphere" && *c.Geometry != "scatter" {
		return fmt.Errorf("geometry must be sphere or scatter, got %q", *c.Geometry)
	}
	if c.Material != nil && *c.Material != "shader" && *c.Material != "points" {
		return fmt.Errorf("material must be shader or points, got %q", *c.Material)
	}
	if c.Width != nil && *c.Width <= 0 {
		return fmt.Errorf("width must be positive, got %d", *c.Width)
	}
	if c.Height != nil && *c.Height <= 0 {
		return fmt.Errorf("height must be positive, got %d", *c.Height)
	}
	if c.FrameRate != nil && (*c.FrameRate <= 0 || *c.FrameRate > 240) {
		return fmt.Errorf("frame_rate must be in (0, 240], got %f", *c.FrameRate)
	}
	if c.MaxSnapshotPoints != nil && *c.MaxSnapshotPoints <= 0 {
		return fmt.Errorf("max_snapshot_points must be positive, got %d", *c.MaxSnapshotPoints)
	}
	for name, v := range map[string]*string{
		"debounce_quiet":    c.DebounceQuiet,
		"snapshot_interval": c.SnapshotInterval,
	} {
		if v != nil && *v != "" {
			if _, err := time.ParseDuration(*v); err != nil {
				return fmt.Errorf("invalid %s '%s': %w", name, *v, err)
			}
		}
	}
	return nil
}

// GetCount returns the count value or the default.
func (c *DemoConfig) GetCount() int {
	if c.Count == nil {
		return 128
	}
	return *c.Count
}

// GetRadius returns the radius value or the default.
func (c *DemoConfig) GetRadius() float64 {
	if c.Radius == nil {
		return 2.5
	}
	return *c.Radius
}

// GetSize returns the size value or the default.
func (c *DemoConfig) GetSize() float64 {
	if c.Size == nil {
		return 0.02
	}
	return *c.Size
}

// GetColor returns the point colour or the default.
func (c *DemoConfig) GetColor() string {
	if c.Color == nil {
		return "#b9b5ff"
	}
	return *c.Color
}

// GetGeometry returns the geometry strategy name or the default.
func (c *DemoConfig) GetGeometry() string {
	if c.Geometry == nil {
		return "sphere"
	}
	return *c.Geometry
}

// GetMaterial returns the material policy name or the default.
func (c *DemoConfig) GetMaterial() string {
	if c.Material == nil {
		return "shader"
	}
	return *c.Material
}

// GetSeed returns the scatter seed or 0 (seed from the clock).
func (c *DemoConfig) GetSeed() int64 {
	if c.Seed == nil {
		return 0
	}
	return *c.Seed
}

// GetLightColor returns the shared light colour or the default.
func (c *DemoConfig) GetLightColor() string {
	if c.LightColor == nil {
		return "#6b6982"
	}
	return *c.LightColor
}

// GetAmbientIntensity returns the ambient light intensity or the default.
func (c *DemoConfig) GetAmbientIntensity() float64 {
	if c.AmbientIntensity == nil {
		return 0.121
	}
	return *c.AmbientIntensity
}

// GetDirectionalIntensity returns the directional light intensity or the default.
func (c *DemoConfig) GetDirectionalIntensity() float64 {
	if c.DirectionalIntensity == nil {
		return 0.25
	}
	return *c.DirectionalIntensity
}

// GetDirectionalPosition returns the directional light position or the default.
func (c *DemoConfig) GetDirectionalPosition() [3]float64 {
	if c.DirectionalPosition == nil {
		return [3]float64{-10, 7.385, 1.099}
	}
	return *c.DirectionalPosition
}

// GetCameraFOV returns the vertical field of view in degrees or the default.
func (c *DemoConfig) GetCameraFOV() float64 {
	if c.CameraFOV == nil {
		return 75
	}
	return *c.CameraFOV
}

// GetCameraPosition returns the camera position or the default.
func (c *DemoConfig) GetCameraPosition() [3]float64 {
	if c.CameraPosition == nil {
		return [3]float64{3, 3, 3}
	}
	return *c.CameraPosition
}

// GetWidth returns the viewport width or the default.
func (c *DemoConfig) GetWidth() int {
	if c.Width == nil {
		return 1280
	}
	return *c.Width
}

// GetHeight returns the viewport height or the default.
func (c *DemoConfig) GetHeight() int {
	if c.Height == nil {
		return 720
	}
	return *c.Height
}

// GetPixelRatio returns the device pixel ratio or the default.
func (c *DemoConfig) GetPixelRatio() float64 {
	if c.PixelRatio == nil {
		return 1
	}
	return *c.PixelRatio
}

// GetFrameRate returns the frame rate in Hz or the default.
func (c *DemoConfig) GetFrameRate() float64 {
	if c.FrameRate == nil {
		return 60
	}
	return *c.FrameRate
}

// GetDebounceQuiet parses and returns DebounceQuiet as a time.Duration.
func (c *DemoConfig) GetDebounceQuiet() time.Duration {
	return parseDurationOr(c.DebounceQuiet, 250*time.Millisecond)
}

// GetOutputDir returns the snapshot directory or the default.
func (c *DemoConfig) GetOutputDir() string {
	if c.OutputDir == nil || *c.OutputDir == "" {
		return "out"
	}
	return *c.OutputDir
}

// GetSnapshotInterval parses and returns SnapshotInterval as a time.Duration.
func (c *DemoConfig) GetSnapshotInterval() time.Duration {
	return parseDurationOr(c.SnapshotInterval, 5*time.Second)
}

// GetHTMLSnapshot returns whether HTML snapshots are written.
func (c *DemoConfig) GetHTMLSnapshot() bool {
	if c.HTMLSnapshot == nil {
		return true
	}
	return *c.HTMLSnapshot
}

// GetPNGSnapshot returns whether PNG snapshots are written.
func (c *DemoConfig) GetPNGSnapshot() bool {
	if c.PNGSnapshot == nil {
		return false
	}
	return *c.PNGSnapshot
}

// GetMaxSnapshotPoints returns the per-snapshot point cap or the default.
func (c *DemoConfig) GetMaxSnapshotPoints() int {
	if c.MaxSnapshotPoints == nil {
		return 20000
	}
	return *c.MaxSnapshotPoints
}

func parseDurationOr(s *string, def time.Duration) time.Duration {
	if s == nil || *s == "" {
		return def
	}
	d, err := time.ParseDuration(*s)
	if err != nil {
		return def // default on parse error
	}
	return d
}
