package noise

// Warp sampling constants. The warp displacement field is the base field read
// at a higher frequency, with the y displacement offset so the two components
// decorrelate.
const (
	warpFrequency = 3.0
	warpOffset    = 5.2
)

// Compositor combines multiple octaves of a Field into a single normalized
// elevation function (fractal Brownian motion). Octave i samples the field at
// frequency baseFrequency*lacunarity^i with amplitude persistence^i. A
// non-zero warpStrength displaces the input coordinates by a noise-driven
// offset first, bending the otherwise grid-aligned features.
type Compositor struct {
	field        *Field
	octaves      int
	baseFreq     float64
	persistence  float64
	lacunarity   float64
	warpStrength float64
	maxAmp       float64
}

// NewCompositor builds a compositor over field. Parameters are expected to be
// validated by the caller before any sampling starts (octaves >= 1,
// baseFreq > 0, persistence in (0,1), lacunarity > 1, warpStrength >= 0).
func NewCompositor(field *Field, octaves int, baseFreq, persistence, lacunarity, warpStrength float64) *Compositor {
	// Maximum possible amplitude sum, used for analytic renormalization.
	// Rescaling by the known bound instead of a per-grid min/max pass keeps
	// the same (x, y) mapping to the same elevation regardless of grid size.
	maxAmp := 0.0
	amp := 1.0
	for i := 0; i < octaves; i++ {
		maxAmp += amp
		amp *= persistence
	}

	return &Compositor{
		field:        field,
		octaves:      octaves,
		baseFreq:     baseFreq,
		persistence:  persistence,
		lacunarity:   lacunarity,
		warpStrength: warpStrength,
		maxAmp:       maxAmp,
	}
}

// Evaluate returns the combined octave sum at (x, y), normalized to [0, 1].
func (c *Compositor) Evaluate(x, y float64) float64 {
	if c.warpStrength > 0 {
		x, y = c.warp(x, y)
	}

	total := 0.0
	amp := 1.0
	freq := c.baseFreq

	for i := 0; i < c.octaves; i++ {
		total += c.field.Sample(x*freq, y*freq) * amp
		amp *= c.persistence
		freq *= c.lacunarity
	}

	// [-maxAmp, maxAmp] -> [0, 1]
	v := (total/c.maxAmp + 1) / 2
	if v > 1 {
		return 1
	}
	if v < 0 {
		return 0
	}
	return v
}

// warp displaces (x, y) by two decorrelated noise reads scaled by the warp
// strength. Warped coordinates are clamped to [0, 1] so shaping and edge
// behavior keep their frame of reference.
func (c *Compositor) warp(x, y float64) (float64, float64) {
	dx := c.field.Sample(x*warpFrequency, y*warpFrequency)
	dy := c.field.Sample((x+warpOffset)*warpFrequency, (y+warpOffset)*warpFrequency)
	return clamp01(x + dx*c.warpStrength), clamp01(y + dy*c.warpStrength)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// Seed returns the seed of the underlying field.
func (c *Compositor) Seed() int64 {
	return c.field.Seed()
}
