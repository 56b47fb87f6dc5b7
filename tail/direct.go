package tail

import (
	"math"

	"github.com/uyouii/bivariate-tail/bvn"
	"github.com/uyouii/bivariate-tail/model"
	"gonum.org/v1/gonum/integrate/quad"
)

// DirectConditional estimates P(X > a | Y > b) for a single query without
// building a field. It integrates over the same finite domain Build would
// use, with Gauss-Legendre quadrature in each axis. The result is NaN
// when a or b lies beyond the domain or P(Y > b) vanishes.
func DirectConditional(params model.DistributionParams, a, b float64, opts ...Option) (float64, error) {
	cfg := newBuildConfig(opts)
	if err := cfg.resolve(params); err != nil {
		return math.NaN(), err
	}

	dist, err := bvn.NewNormal2D(params)
	if err != nil {
		return math.NaN(), err
	}

	xMin, xMax := params.XMean-cfg.rangeFactor, params.XMean+cfg.rangeFactor
	yMin, yMax := params.YMean-cfg.rangeFactor, params.YMean+cfg.rangeFactor
	if math.IsNaN(a) || math.IsNaN(b) || a > xMax || b > yMax {
		return math.NaN(), nil
	}
	lowX, lowY := math.Max(a, xMin), math.Max(b, yMin)

	marginalY := dist.MarginalY()
	marginal := quad.Fixed(marginalY.Prob, lowY, yMax, cfg.nodes, nil, 0)
	if !(marginal > 0) {
		return math.NaN(), nil
	}

	overX := func(y float64) float64 {
		return quad.Fixed(func(x float64) float64 {
			return dist.Density(x, y)
		}, lowX, xMax, cfg.nodes, nil, 0)
	}
	joint := quad.Fixed(overX, lowY, yMax, cfg.nodes, nil, 0)

	return math.Min(joint/marginal, MaxProbability), nil
}
