package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/heatsim/internal/heat"
	"github.com/san-kum/heatsim/internal/profile"
)

// Defaults of the interactive parameter form.
const (
	DefaultLength   = 10.0
	DefaultDuration = 100.0
	DefaultPoints   = 100
	DefaultSteps    = 2000
	DefaultAlpha    = 0.01
	DefaultLeft     = 0.0
	DefaultRight    = 0.0
)

type Config struct {
	Length        float64       `yaml:"length"`
	Duration      float64       `yaml:"duration"`
	Points        int           `yaml:"points"`
	Steps         int           `yaml:"steps"`
	Alpha         float64       `yaml:"alpha"`
	Left          float64       `yaml:"t_left"`
	Right         float64       `yaml:"t_right"`
	SnapshotEvery int           `yaml:"snapshot_every"`
	Initial       InitialConfig `yaml:"initial"`
}

// InitialConfig selects the initial temperature field. Explicit Values take
// precedence over the named Profile.
type InitialConfig struct {
	Profile string    `yaml:"profile"`
	Peak    float64   `yaml:"peak"`
	Values  []float64 `yaml:"values,omitempty"`
}

func DefaultConfig() *Config {
	return &Config{
		Length:        DefaultLength,
		Duration:      DefaultDuration,
		Points:        DefaultPoints,
		Steps:         DefaultSteps,
		Alpha:         DefaultAlpha,
		Left:          DefaultLeft,
		Right:         DefaultRight,
		SnapshotEvery: heat.DefaultSnapshotInterval,
		Initial: InitialConfig{
			Profile: profile.DefaultName,
			Peak:    profile.DefaultPeak,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Simulation returns the engine parameters described by c.
func (c *Config) Simulation() heat.Config {
	return heat.Config{
		Length:   c.Length,
		Duration: c.Duration,
		Points:   c.Points,
		Steps:    c.Steps,
		Alpha:    c.Alpha,
		Left:     c.Left,
		Right:    c.Right,
	}
}

// InitialField builds the starting field from explicit values or from the
// named profile in reg.
func (c *Config) InitialField(reg *profile.Registry) (heat.Field, error) {
	if len(c.Initial.Values) > 0 {
		if len(c.Initial.Values) != c.Points {
			return nil, fmt.Errorf("initial values: expected %d samples, got %d", c.Points, len(c.Initial.Values))
		}
		return heat.Field(c.Initial.Values).Clone(), nil
	}
	return reg.Build(c.Initial.Profile, profile.Params{
		Points: c.Points,
		Peak:   c.Initial.Peak,
		Left:   c.Left,
		Right:  c.Right,
	})
}
