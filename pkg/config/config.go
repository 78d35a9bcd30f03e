// Package config loads optimiser settings from YAML files.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/dd0wney/cluso-communities/pkg/algorithms"
	"github.com/dd0wney/cluso-communities/pkg/logging"
	"github.com/dd0wney/cluso-communities/pkg/metrics"
	"github.com/dd0wney/cluso-communities/pkg/validation"
)

// LinearityConfig holds the linearity weights
type LinearityConfig struct {
	A float64 `yaml:"a" validate:"gte=0,finite"`
	B float64 `yaml:"b" validate:"gte=0,finite"`
	C float64 `yaml:"c" validate:"gte=0,finite"`
}

// Config is the on-disk optimiser configuration
type Config struct {
	Objective                  string          `yaml:"objective" validate:"required"`
	Linearity                  LinearityConfig `yaml:"linearity"`
	Epsilon                    float64         `yaml:"epsilon" validate:"gt=0,finite"`
	MaxLevels                  int             `yaml:"max_levels" validate:"gte=0"`
	Seed                       string          `yaml:"seed" validate:"required"`
	LabelPropagationIterations int             `yaml:"label_propagation_iterations" validate:"gte=1"`
	Expand                     bool            `yaml:"expand"`
	LogLevel                   string          `yaml:"log_level" validate:"required,oneof=debug info warn warning error"`
}

// Default returns the configuration used when a key is absent
func Default() *Config {
	return &Config{
		Objective:                  "modularity",
		Linearity:                  LinearityConfig{A: 1, B: 1, C: 0.01},
		Epsilon:                    algorithms.DefaultEpsilon,
		Seed:                       algorithms.SeedNone.String(),
		LabelPropagationIterations: algorithms.DefaultLabelPropagationIterations,
		LogLevel:                   "info",
	}
}

// Load reads and validates the YAML file at path
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes YAML over the defaults and validates the result. Unknown
// keys are rejected.
func Parse(data []byte) (*Config, error) {
	cfg := Default()

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks field ranges and the objective and seed names. The
// linearity weights are checked by the optimiser's own rules, so any file
// accepted here is accepted by algorithms.LinearityParams.Validate.
func (c *Config) Validate() error {
	if err := validation.Struct(c); err != nil {
		return err
	}
	return validation.NewConfigValidator("Config").
		OneOf("Objective", c.Objective, validation.ObjectiveNames).
		OneOf("Seed", c.Seed, validation.SeedNames).
		Custom("Linearity", c.LinearityParams().Validate).
		Validate()
}

// LinearityParams returns the configured linearity weights
func (c *Config) LinearityParams() algorithms.LinearityParams {
	return algorithms.LinearityParams{A: c.Linearity.A, B: c.Linearity.B, C: c.Linearity.C}
}

// ObjectiveSpec returns the objective selected by the configuration
func (c *Config) ObjectiveSpec() algorithms.ObjectiveSpec {
	if c.Objective == algorithms.KindLinearity.String() {
		return algorithms.LinearityObjective(c.LinearityParams())
	}
	return algorithms.ModularityObjective()
}

// Options converts the configuration into optimiser options. logger and
// registry may be nil.
func (c *Config) Options(logger logging.Logger, registry *metrics.Registry) (algorithms.LouvainOptions, error) {
	seed, err := algorithms.ParseSeedStrategy(c.Seed)
	if err != nil {
		return algorithms.LouvainOptions{}, err
	}

	opts := algorithms.DefaultLouvainOptions()
	opts.Objective = c.ObjectiveSpec()
	opts.Epsilon = c.Epsilon
	opts.MaxLevels = c.MaxLevels
	opts.Seed = seed
	opts.LabelPropagationIterations = c.LabelPropagationIterations
	opts.Expand = c.Expand
	if logger != nil {
		opts.Logger = logger
	}
	opts.Metrics = registry

	if err := opts.Validate(); err != nil {
		return algorithms.LouvainOptions{}, err
	}
	return opts, nil
}

// Logger builds a JSON logger writing to w at the configured level. The
// COMMUNITIES_LOG_LEVEL environment variable takes precedence.
func (c *Config) Logger(w io.Writer) logging.Logger {
	level := logging.ParseLevel(c.LogLevel)
	if s := os.Getenv(logging.EnvLogLevel); s != "" {
		level = logging.ParseLevel(s)
	}
	return logging.NewJSONLogger(w, level)
}
