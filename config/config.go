// Package config loads bvtail settings from an optional YAML file, an
// optional .env file and BVTAIL_* environment variables, in that order of
// increasing precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/uyouii/bivariate-tail/common"
	"github.com/uyouii/bivariate-tail/tail"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

const (
	EnvSteps       = "BVTAIL_STEPS"
	EnvRangeFactor = "BVTAIL_RANGE_FACTOR"
	EnvPlotSteps   = "BVTAIL_PLOT_STEPS"
	EnvLogLevel    = "BVTAIL_LOG_LEVEL"
	EnvHeatMap     = "BVTAIL_HEATMAP"
	EnvSurface     = "BVTAIL_SURFACE"

	DefaultEnvFile = ".env"
)

type Config struct {
	// Steps is the field grid resolution per axis.
	Steps int `yaml:"steps"`
	// RangeFactor is the half-width of the domain; 0 derives it from the
	// standard deviations.
	RangeFactor float64 `yaml:"range_factor"`
	// PlotSteps is the display grid resolution.
	PlotSteps int          `yaml:"plot_steps"`
	LogLevel  string       `yaml:"log_level"`
	Output    OutputConfig `yaml:"output"`
}

type OutputConfig struct {
	// HeatMap is an image path (png, svg, pdf); empty disables it.
	HeatMap string `yaml:"heatmap"`
	// Surface is an HTML path for the 3D chart; empty disables it.
	Surface string `yaml:"surface"`
}

func Default() *Config {
	return &Config{
		Steps:     tail.DefaultSteps,
		PlotSteps: tail.DefaultSampleSteps,
		LogLevel:  "info",
	}
}

// Load builds a Config from defaults, the YAML file at path (skipped when
// path is empty), the env files (DefaultEnvFile when none are given,
// missing files ignored) and the process environment.
func Load(path string, envFiles ...string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if err := loadConfigFile(path, cfg); err != nil {
			return nil, err
		}
	}

	if err := loadEnvFiles(envFiles); err != nil {
		return nil, err
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadConfigFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse config file %s: %v: %w", path, err, common.ErrorInvalidValue)
	}
	return nil
}

func loadEnvFiles(envFiles []string) error {
	if len(envFiles) == 0 {
		envFiles = []string{DefaultEnvFile}
	}
	for _, envFile := range envFiles {
		if _, err := os.Stat(envFile); errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(envFile); err != nil {
			return fmt.Errorf("failed to load env file %s: %w", envFile, err)
		}
	}
	return nil
}

func (c *Config) applyEnv() error {
	var err error
	if c.Steps, err = parseIntEnv(EnvSteps, c.Steps); err != nil {
		return err
	}
	if c.RangeFactor, err = parseFloatEnv(EnvRangeFactor, c.RangeFactor); err != nil {
		return err
	}
	if c.PlotSteps, err = parseIntEnv(EnvPlotSteps, c.PlotSteps); err != nil {
		return err
	}
	c.LogLevel = getEnv(EnvLogLevel, c.LogLevel)
	c.Output.HeatMap = getEnv(EnvHeatMap, c.Output.HeatMap)
	c.Output.Surface = getEnv(EnvSurface, c.Output.Surface)
	return nil
}

func (c *Config) Validate() error {
	if c.Steps < 2 {
		return fmt.Errorf("steps must be at least 2, got %d: %w", c.Steps, common.ErrorInvalidValue)
	}
	if c.RangeFactor < 0 || math.IsNaN(c.RangeFactor) || math.IsInf(c.RangeFactor, 0) {
		return fmt.Errorf("range_factor must be a non-negative number, got %v: %w", c.RangeFactor, common.ErrorInvalidValue)
	}
	if c.PlotSteps < 2 {
		return fmt.Errorf("plot_steps must be at least 2, got %d: %w", c.PlotSteps, common.ErrorInvalidValue)
	}
	if _, err := zapcore.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("log_level %q: %v: %w", c.LogLevel, err, common.ErrorInvalidValue)
	}
	return nil
}

// FieldOptions converts the grid settings into tail.Build options.
func (c *Config) FieldOptions() []tail.Option {
	return []tail.Option{
		tail.WithSteps(c.Steps),
		tail.WithRangeFactor(c.RangeFactor),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseIntEnv(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	res, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s=%q is not an integer: %w", key, value, common.ErrorInvalidValue)
	}
	return res, nil
}

func parseFloatEnv(key string, defaultValue float64) (float64, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	res, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("%s=%q is not a number: %w", key, value, common.ErrorInvalidValue)
	}
	return res, nil
}
