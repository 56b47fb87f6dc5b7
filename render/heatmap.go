// Package render draws a sampled conditional tail-probability surface as a
// heat map with contours (gonum/plot) or as an interactive 3D chart
// (go-echarts).
package render

import (
	"fmt"
	"image/color"
	"math"

	"github.com/uyouii/bivariate-tail/common"
	"github.com/uyouii/bivariate-tail/model"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette/moreland"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// ContourLevels are the probability levels outlined on the heat map.
var ContourLevels = []float64{0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8, 0.9}

type PlotOptions struct {
	Title string
	// Query, when set, is marked on the plot.
	Query  *model.TailProbability
	Width  vg.Length
	Height vg.Length
}

// surfaceGrid adapts model.Surface to plotter.GridXYZ. rows limits the
// grid to the first rows of the surface; zero means all of them.
type surfaceGrid struct {
	surface *model.Surface
	rows    int
}

func (g surfaceGrid) Dims() (c, r int) {
	if g.rows > 0 {
		return len(g.surface.X), g.rows
	}
	return len(g.surface.X), len(g.surface.Y)
}

func (g surfaceGrid) Z(c, r int) float64 { return g.surface.Z[r][c] }
func (g surfaceGrid) X(c int) float64    { return g.surface.X[c] }
func (g surfaceGrid) Y(r int) float64    { return g.surface.Y[r] }

// HeatMapPlot builds the heat map plot without saving it.
func HeatMapPlot(surface *model.Surface, options PlotOptions) (*plot.Plot, error) {
	if surface.IsEmpty() || len(surface.X) < 2 || len(surface.Y) < 2 {
		return nil, fmt.Errorf("surface needs at least 2x2 points: %w", common.ErrorInvalidValue)
	}
	if _, _, ok := surface.Range(); !ok {
		return nil, fmt.Errorf("surface has no defined values: %w", common.ErrorInvalidValue)
	}

	title := options.Title
	if title == "" {
		title = "F(x, y) = P(X > x | Y > y)"
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "X"
	p.Y.Label.Text = "Y"

	grid := surfaceGrid{surface: surface}

	heatMap := plotter.NewHeatMap(grid, moreland.ExtendedBlackBody().Palette(255))
	heatMap.Min, heatMap.Max = 0, 1
	heatMap.NaN = color.Transparent
	p.Add(heatMap)

	// Undefined values only fill whole rows at the top of the surface;
	// contours are traced below them.
	if rows := definedRows(surface); rows >= 2 {
		contour := plotter.NewContour(surfaceGrid{surface: surface, rows: rows}, ContourLevels, nil)
		contour.Min, contour.Max = 0, 1
		contour.LineStyles = []draw.LineStyle{{
			Color: color.Gray{Y: 200},
			Width: vg.Points(0.75),
		}}
		p.Add(contour)
	}

	if options.Query != nil {
		marker, err := plotter.NewScatter(plotter.XYs{{X: options.Query.A, Y: options.Query.B}})
		if err != nil {
			return nil, err
		}
		marker.GlyphStyle.Shape = draw.CrossGlyph{}
		marker.GlyphStyle.Color = color.RGBA{R: 0, G: 160, B: 255, A: 255}
		marker.GlyphStyle.Radius = vg.Points(5)
		p.Add(marker)
		p.Legend.Add(options.Query.String(), marker)
		p.Legend.Top = true
	}

	return p, nil
}

// definedRows counts the leading rows of the surface without NaN values.
func definedRows(surface *model.Surface) int {
	for r, row := range surface.Z {
		for _, v := range row {
			if math.IsNaN(v) {
				return r
			}
		}
	}
	return len(surface.Z)
}

// WriteHeatMap saves the heat map to path. The image format follows the
// file extension (png, svg, pdf, ...).
func WriteHeatMap(surface *model.Surface, path string, options PlotOptions) error {
	p, err := HeatMapPlot(surface, options)
	if err != nil {
		return err
	}

	width, height := options.Width, options.Height
	if width == 0 {
		width = 8 * vg.Inch
	}
	if height == 0 {
		height = 7 * vg.Inch
	}
	if err := p.Save(width, height, path); err != nil {
		return fmt.Errorf("failed to save heat map: %w", err)
	}
	return nil
}
