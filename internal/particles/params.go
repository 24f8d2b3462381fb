package particles

import (
	"errors"
	"fmt"
	"math"

	"github.com/banshee-data/particles/internal/scene"
)

// ErrInvalidParameter is returned by Regenerate for a parameter set that
// cannot describe a point cloud.
var ErrInvalidParameter = errors.New("invalid parameter")

// Parameters is the committed snapshot of debug-panel knobs a regeneration
// reads.
type Parameters struct {
	Count  int     // points (scatter) or sphere segments (structured)
	Radius float64 // sphere radius
	Size   float64 // point sprite size for fixed-size materials
	Color  string  // "#rrggbb"
}

// DefaultParameters returns the startup parameter set.
func DefaultParameters() Parameters {
	return Parameters{
		Count:  128,
		Radius: 2.5,
		Size:   0.02,
		Color:  "#b9b5ff",
	}
}

// Validate rejects a non-positive count and non-positive or non-finite
// extents. Errors wrap ErrInvalidParameter.
func (p Parameters) Validate() error {
	if p.Count <= 0 {
		return fmt.Errorf("%w: count must be positive, got %d", ErrInvalidParameter, p.Count)
	}
	if !positiveFinite(p.Radius) {
		return fmt.Errorf("%w: radius must be a positive finite number, got %v", ErrInvalidParameter, p.Radius)
	}
	if !positiveFinite(p.Size) {
		return fmt.Errorf("%w: size must be a positive finite number, got %v", ErrInvalidParameter, p.Size)
	}
	if _, err := scene.ParseColor(p.Color); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidParameter, err)
	}
	return nil
}

func positiveFinite(v float64) bool {
	return v > 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}
