package tail

const (
	// DefaultSteps is the grid resolution per axis.
	DefaultSteps = 3000

	// DefaultSampleSteps is the display grid resolution used by Sample.
	DefaultSampleSteps = 100

	// DefaultQuadratureNodes is the Gauss-Legendre node count per axis
	// used by DirectConditional.
	DefaultQuadratureNodes = 200

	// MaxProbability caps tail sums and ratios that overshoot from
	// discretization error.
	MaxProbability = 1.0
)
