// Command bvtail computes P(X > a | Y > b) for a bivariate normal
// distribution and optionally plots F(x, y) = P(X > x | Y > y).
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/uyouii/bivariate-tail/config"
	"github.com/uyouii/bivariate-tail/model"
	"github.com/uyouii/bivariate-tail/render"
	"github.com/uyouii/bivariate-tail/tail"
	"github.com/uyouii/bivariate-tail/utils"
	"go.uber.org/zap"
)

const usage = `Usage: bvtail [flags] (x_mean) (x_stddev) (y_mean) (y_stddev) (corr) (a) (b) [range_factor] [steps]
  [range_factor] - optional - defines how far away to integrate and draw the graph from the x and y means.
    By default it is set to 5 * x_stddev or 5 * y_stddev, whichever is larger.
  [steps] - optional - number of steps used for numerical integration. The default value is 3000.
`

var errUsage = errors.New("usage")

type arguments struct {
	params model.DistributionParams
	a, b   float64

	rangeFactor *float64
	steps       *int
}

type cliFlags struct {
	configPath string
	heatMap    string
	surface    string
	plotSteps  int
	direct     bool
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("bvtail", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprint(stderr, usage)
		fmt.Fprintln(stderr, "Flags:")
		fs.PrintDefaults()
	}

	var flags cliFlags
	fs.StringVar(&flags.configPath, "config", "", "path to a YAML config file")
	fs.StringVar(&flags.heatMap, "png", "", "write a heat map of F(x, y) to this image file")
	fs.StringVar(&flags.surface, "html", "", "write an interactive 3D surface of F(x, y) to this HTML file")
	fs.IntVar(&flags.plotSteps, "plot-steps", 0, "display grid resolution (default from config, 100)")
	fs.BoolVar(&flags.direct, "direct", false, "also estimate the query by direct quadrature")

	if err := fs.Parse(args); err != nil {
		return 1
	}

	parsed, err := parseArguments(fs.Args())
	if err != nil {
		if !errors.Is(err, errUsage) {
			fmt.Fprintln(stderr, err)
		}
		fmt.Fprint(stderr, usage)
		return 1
	}

	cfg, err := config.Load(flags.configPath)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	applyOverrides(cfg, parsed, flags)
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(stderr, err)
		fmt.Fprint(stderr, usage)
		return 1
	}
	if err := utils.InitLogger(cfg.LogLevel); err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}

	if err := execute(context.Background(), cfg, parsed, flags.direct, stdout); err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	return 0
}

func parseArguments(args []string) (*arguments, error) {
	if len(args) < 7 || len(args) > 9 {
		return nil, errUsage
	}

	values := make([]float64, 7)
	for i := range values {
		v, err := strconv.ParseFloat(args[i], 64)
		if err != nil {
			return nil, fmt.Errorf("argument %d (%q) is not a number", i+1, args[i])
		}
		values[i] = v
	}

	res := &arguments{
		params: model.DistributionParams{
			XMean:   values[0],
			XStddev: values[1],
			YMean:   values[2],
			YStddev: values[3],
			Corr:    values[4],
		},
		a: values[5],
		b: values[6],
	}

	if len(args) > 7 {
		rangeFactor, err := strconv.ParseFloat(args[7], 64)
		if err != nil || !(rangeFactor > 0) {
			return nil, fmt.Errorf("range_factor must be a positive number, got %q", args[7])
		}
		res.rangeFactor = &rangeFactor
	}
	if len(args) > 8 {
		steps, err := strconv.Atoi(args[8])
		if err != nil || steps < 2 {
			return nil, fmt.Errorf("steps must be an integer of at least 2, got %q", args[8])
		}
		res.steps = &steps
	}

	if res.params.XStddev <= 0 || res.params.YStddev <= 0 {
		return nil, errors.New("the x and y standard deviations cannot be negative or zero")
	}
	if !(-1 < res.params.Corr && res.params.Corr < 1) {
		return nil, errors.New("correlation coefficient must be between (-1, 1), not including {-1, 1}")
	}
	return res, nil
}

func applyOverrides(cfg *config.Config, args *arguments, flags cliFlags) {
	if args.rangeFactor != nil {
		cfg.RangeFactor = *args.rangeFactor
	}
	if args.steps != nil {
		cfg.Steps = *args.steps
	}
	if flags.plotSteps != 0 {
		cfg.PlotSteps = flags.plotSteps
	}
	if flags.heatMap != "" {
		cfg.Output.HeatMap = flags.heatMap
	}
	if flags.surface != "" {
		cfg.Output.Surface = flags.surface
	}
}

func execute(ctx context.Context, cfg *config.Config, args *arguments, direct bool, stdout io.Writer) (err error) {
	logger := utils.GetLogger(ctx)

	defer func() {
		if r := recover(); r != nil {
			logger.Error("bvtail recover panic error!", zap.Any("err", r),
				zap.String("panic info", utils.GetPanicInfo()), zap.String("params", args.params.DebugString()))
			err = fmt.Errorf("internal error: %v", r)
		}
	}()

	field, err := tail.Build(ctx, args.params, cfg.FieldOptions()...)
	if err != nil {
		return err
	}

	query := field.Query(args.a, args.b)
	fmt.Fprintln(stdout, query.String())

	if direct {
		value, err := tail.DirectConditional(args.params, args.a, args.b, tail.WithRangeFactor(field.RangeFactor()))
		if err != nil {
			return err
		}
		fmt.Fprintf(stdout, "direct quadrature: %v\n", utils.FormatFloat(value, 6))
	}

	if cfg.Output.HeatMap == "" && cfg.Output.Surface == "" {
		return nil
	}

	surface := field.Sample(cfg.PlotSteps)

	if cfg.Output.HeatMap != "" {
		if err := render.WriteHeatMap(&surface, cfg.Output.HeatMap, render.PlotOptions{Query: &query}); err != nil {
			return err
		}
		logger.Info("heat map written", zap.String("path", cfg.Output.HeatMap))
	}

	if cfg.Output.Surface != "" {
		if err := writeSurface(&surface, cfg.Output.Surface); err != nil {
			return err
		}
		logger.Info("surface written", zap.String("path", cfg.Output.Surface))
	}
	return nil
}

func writeSurface(surface *model.Surface, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := render.WriteSurfaceHTML(f, surface, ""); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
