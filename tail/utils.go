package tail

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// linspace returns num evenly spaced points over [start, stop] with both
// endpoints exact. num must be at least 2.
func linspace(start, stop float64, num int) []float64 {
	grid := floats.Span(make([]float64, num), start, stop)
	grid[num-1] = stop
	return grid
}

func fillNaN(dst []float64) {
	nan := math.NaN()
	for i := range dst {
		dst[i] = nan
	}
}
