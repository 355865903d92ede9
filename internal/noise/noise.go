package noise

import (
	"github.com/aquilax/go-perlin"
	opensimplex "github.com/ojrac/opensimplex-go"
)

// Perlin shape parameters. alpha/beta control smoothness and frequency
// falloff inside the underlying generator, n is its internal octave count.
// These values give good terrain-like noise.
const (
	perlinAlpha = 2.0
	perlinBeta  = 2.0
	perlinN     = 3
)

// Field is a deterministic pseudo-random scalar field over continuous 2D
// coordinates. A Field owns its permutation state exclusively: construct a
// fresh instance per seed instead of reseeding a shared one.
type Field struct {
	sample func(x, y float64) float64
	seed   int64
}

// NewField creates a seeded Perlin noise field.
func NewField(seed int64) *Field {
	p := perlin.NewPerlin(perlinAlpha, perlinBeta, perlinN, seed)
	return &Field{
		sample: p.Noise2D,
		seed:   seed,
	}
}

// NewSimplexField creates a seeded OpenSimplex noise field. Simplex noise has
// better isotropy than Perlin, at the cost of a different visual character.
func NewSimplexField(seed int64) *Field {
	n := opensimplex.New(seed)
	return &Field{
		sample: n.Eval2,
		seed:   seed,
	}
}

// Sample returns the noise value at (x, y) in [-1, 1]. It is a pure function
// of (seed, x, y): repeated calls with identical inputs return identical
// output.
func (f *Field) Sample(x, y float64) float64 {
	v := f.sample(x, y)
	// Extreme coordinates can overshoot the nominal range slightly.
	if v > 1 {
		return 1
	}
	if v < -1 {
		return -1
	}
	return v
}

// Seed returns the seed the field was constructed with.
func (f *Field) Seed() int64 {
	return f.seed
}
