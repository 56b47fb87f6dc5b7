// Package bvn evaluates the bivariate normal probability density.
package bvn

import (
	"math"

	"github.com/uyouii/bivariate-tail/model"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"
)

// Normal2D is a validated bivariate normal density. It holds no mutable
// state and may be evaluated from several goroutines.
type Normal2D struct {
	params model.DistributionParams

	normalization float64 // 1 / (2*pi*sx*sy*sqrt(1-rho^2))
	expScale      float64 // 1 / (2*(1-rho^2))
}

func NewNormal2D(params model.DistributionParams) (*Normal2D, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	rhoSquared := params.Corr * params.Corr
	return &Normal2D{
		params:        params,
		normalization: 1.0 / (2 * math.Pi * params.XStddev * params.YStddev * math.Sqrt(1-rhoSquared)),
		expScale:      1.0 / (2 * (1 - rhoSquared)),
	}, nil
}

func (n *Normal2D) Params() model.DistributionParams {
	return n.params
}

func (n *Normal2D) Density(x, y float64) float64 {
	zx := (x - n.params.XMean) / n.params.XStddev
	zy := (y - n.params.YMean) / n.params.YStddev
	exponent := -n.expScale * (zx*zx + zy*zy - 2*n.params.Corr*zx*zy)
	return n.normalization * math.Exp(exponent)
}

// EvaluateGrid returns a len(ys) x len(xs) matrix whose (j, i) element is
// the density at (xs[i], ys[j]).
func (n *Normal2D) EvaluateGrid(xs, ys []float64) *mat.Dense {
	if len(xs) == 0 || len(ys) == 0 {
		return &mat.Dense{}
	}
	grid := mat.NewDense(len(ys), len(xs), nil)
	for j, y := range ys {
		row := grid.RawRowView(j)
		for i, x := range xs {
			row[i] = n.Density(x, y)
		}
	}
	return grid
}

// MarginalY is the univariate normal distribution of Y.
func (n *Normal2D) MarginalY() distuv.Normal {
	return distuv.Normal{Mu: n.params.YMean, Sigma: n.params.YStddev}
}
