package terrain

import (
	"math"
)

// applyShape transforms a normalized elevation v at normalized coordinates
// (nx, ny) in [0, 1). Both transforms keep values inside [0, 1].
func applyShape(shape Shape, nx, ny, v float64) float64 {
	switch shape {
	case ShapeRidge:
		// Fold the value range so mid-range elevations become crests.
		return 1 - math.Abs(2*v-1)
	case ShapeIsland:
		// Radial falloff toward 0 at the grid edge, producing an island
		// silhouette. d is 0 at the center and 1 at the nearest edge midpoint.
		dx := nx - 0.5
		dy := ny - 0.5
		d := math.Sqrt(dx*dx+dy*dy) * 2
		falloff := 1 - d*d
		if falloff < 0 {
			falloff = 0
		}
		return v * falloff
	default:
		return v
	}
}
