package render

import (
	"fmt"
	"io"
	"math"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/uyouii/bivariate-tail/common"
	"github.com/uyouii/bivariate-tail/model"
)

// missingValue is how ECharts expects an absent data point.
const missingValue = "-"

var viridis = []string{"#440154", "#482777", "#3e4989", "#31688e", "#26828e",
	"#1f9e89", "#35b779", "#6ece58", "#b5de2b", "#fde725"}

func surfaceData(surface *model.Surface) []opts.Chart3DData {
	data := make([]opts.Chart3DData, 0, len(surface.X)*len(surface.Y))
	for r, y := range surface.Y {
		for c, x := range surface.X {
			var z interface{} = surface.Z[r][c]
			if math.IsNaN(surface.Z[r][c]) {
				z = missingValue
			}
			data = append(data, opts.Chart3DData{Value: []interface{}{x, y, z}})
		}
	}
	return data
}

// WriteSurfaceHTML renders the surface as a standalone HTML page.
func WriteSurfaceHTML(w io.Writer, surface *model.Surface, title string) error {
	if surface.IsEmpty() {
		return fmt.Errorf("empty surface: %w", common.ErrorInvalidValue)
	}
	if title == "" {
		title = "Plot of F(x, y) = P(X > x | Y > y)"
	}

	nx, ny := len(surface.X), len(surface.Y)

	chart := charts.NewSurface3D()
	chart.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: title, Width: "1000px", Height: "800px"}),
		charts.WithTitleOpts(opts.Title{Title: title, Subtitle: fmt.Sprintf("grid=%dx%d", nx, ny)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithVisualMapOpts(opts.VisualMap{
			Show:       opts.Bool(true),
			Calculable: opts.Bool(true),
			Min:        0,
			Max:        1,
			Dimension:  "2",
			InRange:    &opts.VisualMapInRange{Color: viridis},
		}),
		charts.WithXAxis3DOpts(opts.XAxis3D{Name: "X", Min: surface.X[0], Max: surface.X[nx-1]}),
		charts.WithYAxis3DOpts(opts.YAxis3D{Name: "Y", Min: surface.Y[0], Max: surface.Y[ny-1]}),
		charts.WithZAxis3DOpts(opts.ZAxis3D{Name: "Probability", Min: 0, Max: 1}),
	)
	chart.AddSeries("F(x, y)", surfaceData(surface))

	if err := chart.Render(w); err != nil {
		return fmt.Errorf("failed to render surface: %w", err)
	}
	return nil
}
