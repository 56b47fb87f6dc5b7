// Package tail builds the conditional tail-probability field
// P(X > x | Y > y) of a bivariate normal distribution over a finite grid
// and answers point queries against it.
package tail

import (
	"context"
	"math"
	"sort"
	"time"

	"github.com/uyouii/bivariate-tail/bvn"
	"github.com/uyouii/bivariate-tail/model"
	"github.com/uyouii/bivariate-tail/utils"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Field holds the marginal, joint and conditional tail arrays of one
// distribution. It is immutable after Build returns and safe for
// concurrent queries.
type Field struct {
	params      model.DistributionParams
	steps       int
	rangeFactor float64

	xValues []float64
	yValues []float64
	dx      float64
	dy      float64

	// marginalTailY[j] = P(Y > y_j)
	marginalTailY []float64
	// jointTail(j, i) = P(X > x_i, Y > y_j)
	jointTail *mat.Dense
	// conditional(j, i) = P(X > x_i | Y > y_j), NaN where undefined
	conditional *mat.Dense
}

// Build discretizes the distribution over steps x steps points on
// [mean - rangeFactor, mean + rangeFactor] in each axis and derives the
// tail fields. Parameters are validated before any allocation; an error
// wraps common.ErrorInvalidParameter.
func Build(ctx context.Context, params model.DistributionParams, opts ...Option) (*Field, error) {
	logger := utils.GetLogger(ctx)

	cfg := newBuildConfig(opts)
	if err := cfg.resolve(params); err != nil {
		logger.Warn("invalid tail field parameters", zap.Error(err),
			zap.String("params", params.DebugString()), zap.Int("steps", cfg.steps))
		return nil, err
	}

	dist, err := bvn.NewNormal2D(params)
	if err != nil {
		return nil, err
	}

	begin := time.Now()
	steps, rangeFactor := cfg.steps, cfg.rangeFactor

	xValues := linspace(params.XMean-rangeFactor, params.XMean+rangeFactor, steps)
	yValues := linspace(params.YMean-rangeFactor, params.YMean+rangeFactor, steps)
	dx := (xValues[steps-1] - xValues[0]) / float64(steps-1)
	dy := (yValues[steps-1] - yValues[0]) / float64(steps-1)

	// The density buffer is turned into the joint tail in place.
	joint := dist.EvaluateGrid(xValues, yValues)
	marginal := marginalTail(joint, dx, dy)
	jointTail(joint, dx, dy)
	conditional := conditionalField(joint, marginal)

	f := &Field{
		params:        params,
		steps:         steps,
		rangeFactor:   rangeFactor,
		xValues:       xValues,
		yValues:       yValues,
		dx:            dx,
		dy:            dy,
		marginalTailY: marginal,
		jointTail:     joint,
		conditional:   conditional,
	}

	logger.Info("tail field built", zap.String("params", params.DebugString()),
		zap.Int("steps", steps), zap.Float64("rangeFactor", rangeFactor),
		zap.Float64("mass", marginal[0]), zap.Duration("cost", time.Since(begin)))
	return f, nil
}

// marginalTail integrates each row over x, then accumulates the row sums
// from the top row down: out[j] = dx*dy * sum_{k>=j} rowSum[k].
func marginalTail(density *mat.Dense, dx, dy float64) []float64 {
	rows, _ := density.Dims()
	res := make([]float64, rows)

	var cumSum float64
	for j := rows - 1; j >= 0; j-- {
		cumSum += floats.Sum(density.RawRowView(j))
		res[j] = math.Min(cumSum*dx*dy, MaxProbability)
	}
	return res
}

// jointTail replaces density with its 2D suffix sum scaled by dx*dy:
// first accumulated along y (rows, descending), then along x (columns,
// descending).
func jointTail(density *mat.Dense, dx, dy float64) {
	rows, cols := density.Dims()

	for j := rows - 2; j >= 0; j-- {
		floats.Add(density.RawRowView(j), density.RawRowView(j+1))
	}

	for j := 0; j < rows; j++ {
		row := density.RawRowView(j)
		for i := cols - 2; i >= 0; i-- {
			row[i] += row[i+1]
		}
		for i := range row {
			row[i] = math.Min(row[i]*dx*dy, MaxProbability)
		}
	}
}

func conditionalField(joint *mat.Dense, marginal []float64) *mat.Dense {
	rows, cols := joint.Dims()
	res := mat.NewDense(rows, cols, nil)

	for j := 0; j < rows; j++ {
		dst := res.RawRowView(j)
		denom := marginal[j]
		if !(denom > 0) {
			fillNaN(dst)
			continue
		}
		for i, v := range joint.RawRowView(j) {
			dst[i] = math.Min(v/denom, MaxProbability)
		}
	}
	return res
}

// Lookup returns P(X > a | Y > b) at the first grid point with
// x >= a and y >= b. It returns NaN when a or b lies beyond the grid or
// the marginal tail there is zero.
func (f *Field) Lookup(a, b float64) float64 {
	ix := sort.SearchFloat64s(f.xValues, a)
	iy := sort.SearchFloat64s(f.yValues, b)
	if ix >= f.steps || iy >= f.steps {
		return math.NaN()
	}
	return f.conditional.At(iy, ix)
}

func (f *Field) Query(a, b float64) model.TailProbability {
	return model.TailProbability{
		A:     a,
		B:     b,
		Value: f.Lookup(a, b),
	}
}

func (f *Field) Params() model.DistributionParams {
	return f.params
}

func (f *Field) Steps() int {
	return f.steps
}

func (f *Field) RangeFactor() float64 {
	return f.rangeFactor
}

// XValues returns a copy of the x grid coordinates.
func (f *Field) XValues() []float64 {
	return append([]float64(nil), f.xValues...)
}

// YValues returns a copy of the y grid coordinates.
func (f *Field) YValues() []float64 {
	return append([]float64(nil), f.yValues...)
}

func (f *Field) Dx() float64 {
	return f.dx
}

func (f *Field) Dy() float64 {
	return f.dy
}

// MarginalTailY returns a copy of P(Y > y_j) for every grid row.
func (f *Field) MarginalTailY() []float64 {
	return append([]float64(nil), f.marginalTailY...)
}

// JointTail returns P(X > x_i, Y > y_j). It panics if i or j is out of range.
func (f *Field) JointTail(j, i int) float64 {
	return f.jointTail.At(j, i)
}

// Conditional returns P(X > x_i | Y > y_j). It panics if i or j is out of range.
func (f *Field) Conditional(j, i int) float64 {
	return f.conditional.At(j, i)
}
