package model

import (
	"fmt"
	"math"
)

// TailProbability is one answered query P(X > A | Y > B).
// Value is NaN when the query lies outside the integration domain.
type TailProbability struct {
	A     float64 `json:"a"`
	B     float64 `json:"b"`
	Value float64 `json:"value"`
}

func (t TailProbability) Defined() bool {
	return !math.IsNaN(t.Value)
}

func (t TailProbability) String() string {
	return fmt.Sprintf("P(X > %v | Y > %v) = %v", t.A, t.B, t.Value)
}

// Surface is a display-resolution sampling of the conditional field.
// Z[r][c] holds the value at (X[c], Y[r]).
type Surface struct {
	X []float64
	Y []float64
	Z [][]float64
}

func (s *Surface) IsEmpty() bool {
	if s == nil {
		return true
	}
	return len(s.X) == 0 || len(s.Y) == 0
}

// Range returns the smallest and largest defined value, skipping NaN.
// ok is false when every value is NaN.
func (s *Surface) Range() (lower, upper float64, ok bool) {
	lower, upper = math.Inf(1), math.Inf(-1)
	if s == nil {
		return lower, upper, false
	}
	for _, row := range s.Z {
		for _, v := range row {
			if math.IsNaN(v) {
				continue
			}
			lower = math.Min(lower, v)
			upper = math.Max(upper, v)
			ok = true
		}
	}
	return lower, upper, ok
}
