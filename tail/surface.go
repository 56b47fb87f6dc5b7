package tail

import "github.com/uyouii/bivariate-tail/model"

// Sample evaluates Lookup over an n x n display grid spanning the field's
// domain. n below 2 uses DefaultSampleSteps.
func (f *Field) Sample(n int) model.Surface {
	if n < 2 {
		n = DefaultSampleSteps
	}

	xs := linspace(f.xValues[0], f.xValues[f.steps-1], n)
	ys := linspace(f.yValues[0], f.yValues[f.steps-1], n)

	z := make([][]float64, len(ys))
	for r, y := range ys {
		z[r] = make([]float64, len(xs))
		for c, x := range xs {
			z[r][c] = f.Lookup(x, y)
		}
	}

	return model.Surface{X: xs, Y: ys, Z: z}
}
