package tail

import (
	"fmt"
	"math"

	"github.com/uyouii/bivariate-tail/common"
	"github.com/uyouii/bivariate-tail/model"
)

// Option configures Build and DirectConditional.
type Option func(*buildConfig)

type buildConfig struct {
	steps       int
	rangeFactor float64 // 0 means derive from the deviations
	nodes       int
}

func newBuildConfig(opts []Option) *buildConfig {
	cfg := &buildConfig{
		steps: DefaultSteps,
		nodes: DefaultQuadratureNodes,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// WithSteps sets the number of grid points per axis.
func WithSteps(steps int) Option {
	return func(c *buildConfig) {
		c.steps = steps
	}
}

// WithRangeFactor sets the half-width of the integration domain around
// each mean. Zero keeps the default max(5*XStddev, 5*YStddev).
func WithRangeFactor(rangeFactor float64) Option {
	return func(c *buildConfig) {
		c.rangeFactor = rangeFactor
	}
}

// WithQuadratureNodes sets the per-axis node count for DirectConditional.
func WithQuadratureNodes(nodes int) Option {
	return func(c *buildConfig) {
		c.nodes = nodes
	}
}

// resolve validates the configuration against params and fills in the
// default range factor.
func (c *buildConfig) resolve(params model.DistributionParams) error {
	if err := params.Validate(); err != nil {
		return err
	}
	if c.steps < 2 {
		return fmt.Errorf("steps must be at least 2, got %d: %w", c.steps, common.ErrorInvalidParameter)
	}
	if c.nodes < 1 {
		return fmt.Errorf("quadrature nodes must be positive, got %d: %w", c.nodes, common.ErrorInvalidParameter)
	}
	if c.rangeFactor == 0 {
		c.rangeFactor = params.DefaultRangeFactor()
	}
	if !(c.rangeFactor > 0) || math.IsInf(c.rangeFactor, 0) {
		return fmt.Errorf("range factor must be positive and finite, got %v: %w",
			c.rangeFactor, common.ErrorInvalidParameter)
	}
	return nil
}
