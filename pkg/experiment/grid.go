package experiment

import (
	"github.com/pkg/errors"
)

// Grid is the iteration domain of the study: every sample size crossed
// with every collinearity strength. It is immutable for the run.
type Grid struct {
	Sizes []int
	Rhos  []float64
}

// DefaultGrid returns the sweep used throughout the study.
func DefaultGrid() Grid {
	return Grid{
		Sizes: []int{50, 200, 1000},
		Rhos:  []float64{0.2, 0.5, 0.9},
	}
}

// Validate checks the grid axes.
func (g Grid) Validate() error {
	if len(g.Sizes) == 0 || len(g.Rhos) == 0 {
		return ErrGridEmpty
	}
	for _, n := range g.Sizes {
		if n <= 0 {
			return errors.Wrapf(ErrSampleSize, "sample size %d", n)
		}
	}

	return nil
}

// Cell is one (sample size, rho) combination. Index is the position in
// the fixed iteration order and seeds the cell's sampler stream.
type Cell struct {
	Index int
	N     int
	Rho   float64
}

// Cells returns the grid cells in fixed nested order: sample sizes
// outer, rhos inner. Reordering the grid changes every generated
// dataset from that point onward, so the order is part of the contract.
func (g Grid) Cells() []Cell {
	cells := make([]Cell, 0, len(g.Sizes)*len(g.Rhos))
	for _, n := range g.Sizes {
		for _, rho := range g.Rhos {
			cells = append(cells, Cell{Index: len(cells), N: n, Rho: rho})
		}
	}

	return cells
}
