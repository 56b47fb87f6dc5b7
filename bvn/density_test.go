package bvn

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/uyouii/bivariate-tail/common"
	"github.com/uyouii/bivariate-tail/model"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distmv"
)

var testParams = []model.DistributionParams{
	{XMean: 0, XStddev: 1, YMean: 0, YStddev: 1, Corr: 0},
	{XMean: 1.5, XStddev: 2, YMean: -3, YStddev: 0.5, Corr: 0.7},
	{XMean: -10, XStddev: 0.3, YMean: 4, YStddev: 3, Corr: -0.95},
}

// TestDensityMatchesGonum compares the closed form with distmv.Normal.
func TestDensityMatchesGonum(t *testing.T) {
	for _, p := range testParams {
		n, err := NewNormal2D(p)
		require.NoError(t, err)

		cov := p.Corr * p.XStddev * p.YStddev
		sigma := mat.NewSymDense(2, []float64{
			p.XStddev * p.XStddev, cov,
			cov, p.YStddev * p.YStddev,
		})
		ref, ok := distmv.NewNormal([]float64{p.XMean, p.YMean}, sigma, nil)
		require.True(t, ok)

		for _, d := range [][2]float64{{0, 0}, {1, -1}, {-2.5, 0.3}, {0.1, 3}} {
			x := p.XMean + d[0]*p.XStddev
			y := p.YMean + d[1]*p.YStddev
			got := n.Density(x, y)
			require.Greater(t, got, 0.0)
			require.InDelta(t, ref.Prob([]float64{x, y}), got, 1e-12*math.Max(1, got))
		}
	}
}

// TestDensitySymmetry checks reflection about the x mean when uncorrelated.
func TestDensitySymmetry(t *testing.T) {
	p := model.DistributionParams{XMean: 2, XStddev: 1.5, YMean: -1, YStddev: 0.7}
	n, err := NewNormal2D(p)
	require.NoError(t, err)

	for _, d := range []float64{0.01, 0.5, 1, 3.3, 7} {
		require.Equal(t, n.Density(p.XMean+d, p.YMean), n.Density(p.XMean-d, p.YMean))
	}
}

// TestDensityIntegratesToOne sums the density over a +/-5 sigma grid.
func TestDensityIntegratesToOne(t *testing.T) {
	for _, p := range testParams {
		n, err := NewNormal2D(p)
		require.NoError(t, err)

		const steps = 400
		xs := floats.Span(make([]float64, steps), p.XMean-5*p.XStddev, p.XMean+5*p.XStddev)
		ys := floats.Span(make([]float64, steps), p.YMean-5*p.YStddev, p.YMean+5*p.YStddev)
		dx, dy := xs[1]-xs[0], ys[1]-ys[0]

		grid := n.EvaluateGrid(xs, ys)
		rows, cols := grid.Dims()
		require.Equal(t, steps, rows)
		require.Equal(t, steps, cols)

		mass := mat.Sum(grid) * dx * dy
		require.InDelta(t, 1.0, mass, 0.03)
	}
}

// TestEvaluateGridLayout verifies rows follow y and columns follow x.
func TestEvaluateGridLayout(t *testing.T) {
	n, err := NewNormal2D(testParams[1])
	require.NoError(t, err)

	xs := []float64{-1, 0, 2}
	ys := []float64{-3, 1}
	grid := n.EvaluateGrid(xs, ys)
	for j, y := range ys {
		for i, x := range xs {
			require.Equal(t, n.Density(x, y), grid.At(j, i))
		}
	}

	empty := n.EvaluateGrid(nil, ys)
	require.True(t, empty.IsEmpty())
}

func TestNewNormal2DInvalid(t *testing.T) {
	cases := map[string]model.DistributionParams{
		"zero x stddev":     {XStddev: 0, YStddev: 1},
		"negative y stddev": {XStddev: 1, YStddev: -1},
		"corr one":          {XStddev: 1, YStddev: 1, Corr: 1},
		"corr minus one":    {XStddev: 1, YStddev: 1, Corr: -1},
		"nan corr":          {XStddev: 1, YStddev: 1, Corr: math.NaN()},
		"inf mean":          {XMean: math.Inf(1), XStddev: 1, YStddev: 1},
	}
	for name, p := range cases {
		t.Run(name, func(t *testing.T) {
			n, err := NewNormal2D(p)
			require.Nil(t, n)
			require.True(t, errors.Is(err, common.ErrorInvalidParameter))
		})
	}
}

func TestMarginalY(t *testing.T) {
	n, err := NewNormal2D(testParams[1])
	require.NoError(t, err)

	marginal := n.MarginalY()
	require.Equal(t, -3.0, marginal.Mu)
	require.Equal(t, 0.5, marginal.Sigma)
	require.InDelta(t, 0.5, marginal.Survival(-3), 1e-12)
}
