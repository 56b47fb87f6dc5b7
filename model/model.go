package model

import (
	"fmt"
	"math"

	"github.com/uyouii/bivariate-tail/common"
)

// DistributionParams describes a bivariate normal distribution of (X, Y).
type DistributionParams struct {
	XMean   float64 `json:"x_mean" yaml:"x_mean"`
	XStddev float64 `json:"x_stddev" yaml:"x_stddev"`
	YMean   float64 `json:"y_mean" yaml:"y_mean"`
	YStddev float64 `json:"y_stddev" yaml:"y_stddev"`
	Corr    float64 `json:"corr" yaml:"corr"`
}

func (p DistributionParams) DebugString() string {
	return fmt.Sprintf("x: N(%v, %v), y: N(%v, %v), corr: %v",
		p.XMean, p.XStddev, p.YMean, p.YStddev, p.Corr)
}

// Validate rejects degenerate distributions: non-positive deviations,
// correlation outside (-1, 1), and non-finite values.
func (p DistributionParams) Validate() error {
	if !isFinite(p.XMean) || !isFinite(p.YMean) {
		return fmt.Errorf("means must be finite, got x_mean=%v y_mean=%v: %w",
			p.XMean, p.YMean, common.ErrorInvalidParameter)
	}
	if !(p.XStddev > 0) || !(p.YStddev > 0) || math.IsInf(p.XStddev, 0) || math.IsInf(p.YStddev, 0) {
		return fmt.Errorf("standard deviations must be positive, got x_stddev=%v y_stddev=%v: %w",
			p.XStddev, p.YStddev, common.ErrorInvalidParameter)
	}
	if !(p.Corr > -1 && p.Corr < 1) {
		return fmt.Errorf("correlation must be in (-1, 1), got %v: %w",
			p.Corr, common.ErrorInvalidParameter)
	}
	return nil
}

// DefaultRangeFactor is max(5*XStddev, 5*YStddev).
func (p DistributionParams) DefaultRangeFactor() float64 {
	return math.Max(5.0*p.XStddev, 5.0*p.YStddev)
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
