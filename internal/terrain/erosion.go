package terrain

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// neighborOffsets covers the full 8-neighborhood.
var neighborOffsets = [8][2]int{
	{-1, -1}, {-1, 0}, {-1, 1},
	{0, -1}, {0, 1},
	{1, -1}, {1, 0}, {1, 1},
}

// Erode applies thermal erosion to the grid in place. Each iteration finds,
// for every cell, the steepest downhill neighbor; if the elevation difference
// exceeds the talus threshold, a fraction of the excess moves to that
// neighbor. Deltas accumulate in a separate buffer and apply after the full
// pass, so reads within one pass never see that pass's writes and the result
// is order-independent and deterministic.
//
// Grid edges do not wrap: out-of-range neighbors simply do not exist, since
// terrain is not assumed toroidal. Values are clamped to [0, 1] after every
// iteration. iterations=0 is a no-op. Cancellation is checked between
// iterations.
func Erode(ctx context.Context, grid *HeightGrid, iterations int, strength, talus float64) error {
	if iterations == 0 || strength == 0 {
		return nil
	}

	start := time.Now()
	delta := make([]float64, len(grid.Cells))

	for i := 0; i < iterations; i++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		for j := range delta {
			delta[j] = 0
		}

		for row := 0; row < grid.Height; row++ {
			for col := 0; col < grid.Width; col++ {
				curr := grid.At(row, col)

				maxDiff := 0.0
				maxRow, maxCol := 0, 0
				for _, off := range neighborOffsets {
					nr := row + off[0]
					nc := col + off[1]
					if nr < 0 || nr >= grid.Height || nc < 0 || nc >= grid.Width {
						continue
					}
					diff := curr - grid.At(nr, nc)
					if diff > maxDiff {
						maxDiff = diff
						maxRow, maxCol = nr, nc
					}
				}

				if maxDiff > talus {
					// Move half the excess, scaled by strength, so donor and
					// receiver converge instead of overshooting.
					amount := strength * (maxDiff - talus) / 2
					delta[row*grid.Width+col] -= amount
					delta[maxRow*grid.Width+maxCol] += amount
				}
			}
		}

		for j, d := range delta {
			v := grid.Cells[j] + d
			if v < 0 {
				v = 0
			} else if v > 1 {
				v = 1
			}
			grid.Cells[j] = v
		}
	}

	log.Debug("erosion completed", "iterations", iterations, "strength", strength, "talus", talus, "duration", time.Since(start))
	return nil
}
