package terrain

import (
	"context"
	"sync"
	"time"

	"github.com/Reliefmesh/api/internal/noise"
	"github.com/charmbracelet/log"
)

const defaultWorkers = 4

// Synthesize samples the compositor over a discrete cfg.Width x cfg.Height
// grid. Cell (row, col) maps to the continuous coordinate
// (col/width, row/height). Cells are independent, so rows are distributed
// across a fixed pool of workers, each writing only its own cells.
// Cancellation is checked per row; a cancelled run returns no grid.
func Synthesize(ctx context.Context, cfg Config, comp *noise.Compositor, workers int) (*HeightGrid, error) {
	start := time.Now()
	grid := NewHeightGrid(cfg.Width, cfg.Height)

	if workers <= 0 {
		workers = defaultWorkers
	}
	if cfg.Height < workers {
		workers = cfg.Height
	}

	rowChan := make(chan int, cfg.Height)
	var wg sync.WaitGroup

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for row := range rowChan {
				select {
				case <-ctx.Done():
					return
				default:
				}
				synthesizeRow(cfg, comp, grid, row)
			}
		}()
	}

	for row := 0; row < cfg.Height; row++ {
		rowChan <- row
	}
	close(rowChan)
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	log.Debug("synthesized grid", "width", cfg.Width, "height", cfg.Height, "workers", workers, "duration", time.Since(start))
	return grid, nil
}

func synthesizeRow(cfg Config, comp *noise.Compositor, grid *HeightGrid, row int) {
	ny := float64(row) / float64(cfg.Height)
	for col := 0; col < cfg.Width; col++ {
		nx := float64(col) / float64(cfg.Width)
		v := comp.Evaluate(nx, ny)
		grid.Set(row, col, applyShape(cfg.Shape, nx, ny, v))
	}
}
