package store

import (
	"encoding/binary"
	"fmt"
	"math"
)

// Cells are stored as little-endian IEEE 754 float64 values in row-major
// order. Compact, reconstructable without re-running generation, and
// re-validated against the stored dimensions on load.

func encodeCells(cells []float64) []byte {
	buf := make([]byte, 8*len(cells))
	for i, v := range cells {
		binary.LittleEndian.PutUint64(buf[i*8:], math.Float64bits(v))
	}
	return buf
}

func decodeCells(buf []byte) ([]float64, error) {
	if len(buf)%8 != 0 {
		return nil, fmt.Errorf("grid blob length %d is not a multiple of 8", len(buf))
	}
	cells := make([]float64, len(buf)/8)
	for i := range cells {
		cells[i] = math.Float64frombits(binary.LittleEndian.Uint64(buf[i*8:]))
	}
	return cells, nil
}
