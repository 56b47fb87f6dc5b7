package render

import (
	"bytes"
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/uyouii/bivariate-tail/common"
	"github.com/uyouii/bivariate-tail/model"
)

// testSurface returns an n x n surface of a smooth decreasing function
// with the last nanRows rows undefined.
func testSurface(n, nanRows int) *model.Surface {
	s := &model.Surface{X: make([]float64, n), Y: make([]float64, n), Z: make([][]float64, n)}
	for i := 0; i < n; i++ {
		s.X[i] = -3 + 6*float64(i)/float64(n-1)
		s.Y[i] = s.X[i]
	}
	for r := range s.Y {
		s.Z[r] = make([]float64, n)
		for c := range s.X {
			if r >= n-nanRows {
				s.Z[r][c] = math.NaN()
				continue
			}
			s.Z[r][c] = 1 / (1 + math.Exp(2*s.X[c]-0.5*s.Y[r]))
		}
	}
	return s
}

func TestWriteHeatMapPNG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "field.png")
	query := &model.TailProbability{A: 0.5, B: -0.5, Value: 0.4}

	err := WriteHeatMap(testSurface(30, 4), path, PlotOptions{Query: query})
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(data, []byte("\x89PNG")))
}

func TestWriteHeatMapSVG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "field.svg")

	require.NoError(t, WriteHeatMap(testSurface(12, 0), path, PlotOptions{Title: "custom"}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), "<svg")
	require.Contains(t, string(data), "custom")
}

func TestHeatMapPlotInvalid(t *testing.T) {
	_, err := HeatMapPlot(&model.Surface{}, PlotOptions{})
	require.True(t, errors.Is(err, common.ErrorInvalidValue))

	_, err = HeatMapPlot(testSurface(5, 5), PlotOptions{})
	require.True(t, errors.Is(err, common.ErrorInvalidValue))
}

func TestDefinedRows(t *testing.T) {
	require.Equal(t, 10, definedRows(testSurface(10, 0)))
	require.Equal(t, 7, definedRows(testSurface(10, 3)))
	require.Equal(t, 0, definedRows(testSurface(10, 10)))
}

func TestSurfaceGridDims(t *testing.T) {
	s := testSurface(8, 0)

	c, r := surfaceGrid{surface: s}.Dims()
	require.Equal(t, 8, c)
	require.Equal(t, 8, r)

	_, r = surfaceGrid{surface: s, rows: 3}.Dims()
	require.Equal(t, 3, r)

	g := surfaceGrid{surface: s}
	require.Equal(t, s.Z[2][5], g.Z(5, 2))
	require.Equal(t, s.X[5], g.X(5))
	require.Equal(t, s.Y[2], g.Y(2))
}

func TestWriteSurfaceHTML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteSurfaceHTML(&buf, testSurface(10, 2), "tail surface"))

	html := buf.String()
	require.Contains(t, html, "tail surface")
	require.Contains(t, html, "echarts")
	require.Contains(t, html, `"-"`)
}

func TestSurfaceData(t *testing.T) {
	s := testSurface(4, 1)
	data := surfaceData(s)
	require.Len(t, data, 16)

	require.Equal(t, []interface{}{s.X[1], s.Y[0], s.Z[0][1]}, data[1].Value)
	require.Equal(t, missingValue, data[15].Value[2])
}

func TestWriteSurfaceHTMLEmpty(t *testing.T) {
	var buf bytes.Buffer
	err := WriteSurfaceHTML(&buf, &model.Surface{}, "")
	require.True(t, errors.Is(err, common.ErrorInvalidValue))
}
