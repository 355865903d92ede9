package terrain

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/Reliefmesh/api/internal/noise"
	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

// Generator runs the full generation pipeline:
// config -> sampling -> eroding -> frozen.
// Runs are independent and share no mutable state; each run allocates and
// exclusively owns its grid until the frozen Heightmap is handed to the
// caller. A Generator is safe for concurrent use.
type Generator struct {
	workers  int
	maxCells int
}

// NewGenerator creates a generator. workers bounds the synthesis worker pool,
// maxCells bounds width*height per run (0 means unbounded).
func NewGenerator(workers, maxCells int) *Generator {
	return &Generator{
		workers:  workers,
		maxCells: maxCells,
	}
}

// Generate produces a frozen Heightmap for (seed, cfg). The same seed and
// config always produce an identical grid. Any failure discards all partial
// grid state; no partially-synthesized grid is ever returned.
func (g *Generator) Generate(ctx context.Context, seed int64, cfg Config) (*Heightmap, error) {
	log.Debug("starting generation run", "seed", seed, "width", cfg.Width, "height", cfg.Height, "octaves", cfg.OctaveCount)
	start := time.Now()

	// Configured
	if err := cfg.Validate(g.maxCells); err != nil {
		return nil, err
	}

	// Sampling
	var field *noise.Field
	switch cfg.NoiseType {
	case NoiseSimplex:
		field = noise.NewSimplexField(seed)
	default:
		field = noise.NewField(seed)
	}
	comp := noise.NewCompositor(field, cfg.OctaveCount, cfg.BaseFrequency, cfg.Persistence, cfg.Lacunarity, cfg.WarpStrength)

	grid, err := Synthesize(ctx, cfg, comp, g.workers)
	if err != nil {
		return nil, &GenerationError{Stage: StageSampling, Err: err}
	}
	if err := checkBounds(grid); err != nil {
		return nil, &GenerationError{Stage: StageSampling, Err: err}
	}

	// Eroding
	if err := Erode(ctx, grid, cfg.ErosionIterations, cfg.ErosionStrength, cfg.talus()); err != nil {
		return nil, &GenerationError{Stage: StageEroding, Err: err}
	}
	if err := checkBounds(grid); err != nil {
		return nil, &GenerationError{Stage: StageEroding, Err: err}
	}

	// Frozen
	hm := &Heightmap{
		ID:        uuid.NewString(),
		Seed:      seed,
		Config:    cfg,
		Grid:      grid,
		CreatedAt: time.Now().UTC(),
	}

	log.Info("generation run completed", "seed", seed, "cells", len(grid.Cells), "duration", time.Since(start))
	return hm, nil
}

// checkBounds surfaces invariant violations (NaN, Inf, out-of-range cells)
// instead of letting them propagate silently into stored data. It should
// never fire if the pipeline is correct.
func checkBounds(grid *HeightGrid) error {
	for i, v := range grid.Cells {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("cell %d is not finite: %v", i, v)
		}
		if v < 0 || v > 1 {
			return fmt.Errorf("cell %d out of range [0,1]: %v", i, v)
		}
	}
	return nil
}
