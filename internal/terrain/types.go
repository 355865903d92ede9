package terrain

import (
	"time"
)

const (
	// MaxOctaves caps octave count; more octaves than this add cost but no
	// visible detail at the frequencies used.
	MaxOctaves = 12

	// DefaultTalusThreshold is the minimum elevation difference between
	// neighboring cells required to trigger erosion transport. Tunable per
	// request, not a fixed contract.
	DefaultTalusThreshold = 0.01
)

// Shape selects the domain shaping applied to the raw octave sum.
type Shape string

const (
	ShapeNone   Shape = ""
	ShapeIsland Shape = "island"
	ShapeRidge  Shape = "ridge"
)

// NoiseType selects the base noise algorithm. Empty means Perlin.
type NoiseType string

const (
	NoiseDefault NoiseType = ""
	NoisePerlin  NoiseType = "perlin"
	NoiseSimplex NoiseType = "simplex"
)

// Config holds the parameters of one generation run. Immutable for the
// duration of the run.
type Config struct {
	Width             int       `json:"width"`
	Height            int       `json:"height"`
	OctaveCount       int       `json:"octave_count"`
	BaseFrequency     float64   `json:"base_frequency"`
	Persistence       float64   `json:"persistence"`
	Lacunarity        float64   `json:"lacunarity"`
	ErosionIterations int       `json:"erosion_iterations"`
	ErosionStrength   float64   `json:"erosion_strength"`
	TalusThreshold    *float64  `json:"talus_threshold,omitempty"`
	WarpStrength      float64   `json:"warp_strength,omitempty"`
	NoiseType         NoiseType `json:"noise_type,omitempty"`
	Shape             Shape     `json:"shape,omitempty"`
}

// Validate checks every field against its declared constraint and fails fast
// with a *ConfigError before any sampling or grid allocation happens.
// maxCells bounds width*height to keep memory in check.
func (c Config) Validate(maxCells int) error {
	if c.Width <= 0 {
		return &ConfigError{Field: "width", Reason: "must be positive"}
	}
	if c.Height <= 0 {
		return &ConfigError{Field: "height", Reason: "must be positive"}
	}
	if maxCells > 0 && c.Width*c.Height > maxCells {
		return &ConfigError{Field: "width", Reason: "width*height exceeds maximum cell count"}
	}
	if c.OctaveCount <= 0 {
		return &ConfigError{Field: "octave_count", Reason: "must be positive"}
	}
	if c.OctaveCount > MaxOctaves {
		return &ConfigError{Field: "octave_count", Reason: "exceeds maximum octave count"}
	}
	if c.BaseFrequency <= 0 {
		return &ConfigError{Field: "base_frequency", Reason: "must be positive"}
	}
	if c.Persistence <= 0 || c.Persistence >= 1 {
		return &ConfigError{Field: "persistence", Reason: "must be in (0, 1)"}
	}
	if c.Lacunarity <= 1 {
		return &ConfigError{Field: "lacunarity", Reason: "must be greater than 1"}
	}
	if c.ErosionIterations < 0 {
		return &ConfigError{Field: "erosion_iterations", Reason: "must not be negative"}
	}
	if c.ErosionStrength < 0 || c.ErosionStrength > 1 {
		return &ConfigError{Field: "erosion_strength", Reason: "must be in [0, 1]"}
	}
	if c.TalusThreshold != nil && *c.TalusThreshold < 0 {
		return &ConfigError{Field: "talus_threshold", Reason: "must not be negative"}
	}
	if c.WarpStrength < 0 {
		return &ConfigError{Field: "warp_strength", Reason: "must not be negative"}
	}
	switch c.NoiseType {
	case NoiseDefault, NoisePerlin, NoiseSimplex:
	default:
		return &ConfigError{Field: "noise_type", Reason: "unknown noise type"}
	}
	switch c.Shape {
	case ShapeNone, ShapeIsland, ShapeRidge:
	default:
		return &ConfigError{Field: "shape", Reason: "unknown shape"}
	}
	return nil
}

// talus returns the configured talus threshold, or the default when the field
// is absent. An explicit 0 disables the threshold rather than falling back.
func (c Config) talus() float64 {
	if c.TalusThreshold != nil {
		return *c.TalusThreshold
	}
	return DefaultTalusThreshold
}

// HeightGrid is a row-major 2D array of normalized elevation values in
// [0, 1]. Dimensions are immutable after creation.
type HeightGrid struct {
	Width  int       `json:"width"`
	Height int       `json:"height"`
	Cells  []float64 `json:"cells"`
}

// NewHeightGrid allocates a zeroed Width x Height grid.
func NewHeightGrid(width, height int) *HeightGrid {
	return &HeightGrid{
		Width:  width,
		Height: height,
		Cells:  make([]float64, width*height),
	}
}

// At returns the elevation at (row, col).
func (g *HeightGrid) At(row, col int) float64 {
	return g.Cells[row*g.Width+col]
}

// Set writes the elevation at (row, col).
func (g *HeightGrid) Set(row, col int, v float64) {
	g.Cells[row*g.Width+col] = v
}

// Sum returns the total elevation mass of the grid.
func (g *HeightGrid) Sum() float64 {
	total := 0.0
	for _, v := range g.Cells {
		total += v
	}
	return total
}

// Clone returns a deep copy of the grid.
func (g *HeightGrid) Clone() *HeightGrid {
	cells := make([]float64, len(g.Cells))
	copy(cells, g.Cells)
	return &HeightGrid{Width: g.Width, Height: g.Height, Cells: cells}
}

// Heightmap is a frozen generation result, ready for handoff to the
// persistence boundary. The grid is never mutated after the pipeline freezes
// it.
type Heightmap struct {
	ID        string      `json:"id"`
	Name      string      `json:"name"`
	Seed      int64       `json:"seed"`
	Config    Config      `json:"config"`
	Grid      *HeightGrid `json:"grid"`
	CreatedAt time.Time   `json:"created_at"`
}
