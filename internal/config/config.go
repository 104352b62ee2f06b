package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/pairpot/internal/distance"
	"github.com/san-kum/pairpot/internal/interaction"
	"github.com/san-kum/pairpot/internal/pairpot"
)

const (
	DefaultDim         = 3
	DefaultInteraction = "lj"
	DefaultBoundary    = "cartesian"
)

var ErrInvalidConfig = errors.New("config: invalid system")

// Config describes a particle system: the boundary, the pair interaction and
// a coordinate snapshot. Coords and Radii are always written particle-major;
// Layout only selects how Build hands them to the engine.
type Config struct {
	Dim         int               `yaml:"dim"`
	Boundary    BoundaryConfig    `yaml:"boundary"`
	Layout      string            `yaml:"layout,omitempty"`
	Interaction InteractionConfig `yaml:"interaction"`
	Radii       []float64         `yaml:"radii,omitempty"`
	RadiusScale float64           `yaml:"radius_scale,omitempty"`
	Coords      []float64         `yaml:"coords"`
}

type BoundaryConfig struct {
	Kind  string    `yaml:"kind"`
	Box   []float64 `yaml:"box,omitempty"`
	Shear float64   `yaml:"shear,omitempty"`
}

type InteractionConfig struct {
	Name   string             `yaml:"name"`
	Params map[string]float64 `yaml:"params,omitempty"`
}

func DefaultConfig() *Config {
	return &Config{
		Dim:         DefaultDim,
		Boundary:    BoundaryConfig{Kind: DefaultBoundary},
		Interaction: InteractionConfig{Name: DefaultInteraction},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse decodes a YAML document on top of DefaultConfig and validates it.
func Parse(data []byte) (*Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
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

// NumAtoms returns the number of particles in Coords.
func (c *Config) NumAtoms() int {
	if c.Dim < 1 {
		return 0
	}
	return len(c.Coords) / c.Dim
}

func (c *Config) Validate() error {
	if c.Dim < 1 {
		return fmt.Errorf("%w: dim must be positive, got %d", ErrInvalidConfig, c.Dim)
	}
	if _, err := distance.ParseKind(c.Boundary.Kind); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if _, err := distance.ParseLayout(c.Layout); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if c.Interaction.Name == "" {
		return fmt.Errorf("%w: interaction name is required", ErrInvalidConfig)
	}
	if len(c.Coords)%c.Dim != 0 {
		return fmt.Errorf("%w: %d coordinates do not split into %d-d particles", ErrInvalidConfig, len(c.Coords), c.Dim)
	}
	if len(c.Radii) != 0 && len(c.Radii) != c.NumAtoms() {
		return fmt.Errorf("%w: %d radii for %d particles", ErrInvalidConfig, len(c.Radii), c.NumAtoms())
	}
	if c.RadiusScale < 0 {
		return fmt.Errorf("%w: radius_scale must be non-negative", ErrInvalidConfig)
	}
	return nil
}

// Policy builds the distance policy for the configured boundary.
func (c *Config) Policy() (distance.Policy, error) {
	kind, err := distance.ParseKind(c.Boundary.Kind)
	if err != nil {
		return nil, err
	}
	return distance.New(distance.Spec{
		Kind:  kind,
		Dim:   c.Dim,
		Box:   c.Boundary.Box,
		Shear: c.Boundary.Shear,
	})
}

// Build returns the configured potential together with the coordinates in
// the potential's layout.
func (c *Config) Build(reg *interaction.Registry) (*pairpot.Potential, []float64, error) {
	if err := c.Validate(); err != nil {
		return nil, nil, err
	}
	dist, err := c.Policy()
	if err != nil {
		return nil, nil, err
	}
	in, err := reg.Get(c.Interaction.Name, c.Interaction.Params)
	if err != nil {
		return nil, nil, err
	}
	layout, _ := distance.ParseLayout(c.Layout)

	opts := []pairpot.Option{pairpot.WithLayout(layout), pairpot.WithRadiusScale(c.RadiusScale)}
	if len(c.Radii) > 0 {
		opts = append(opts, pairpot.WithRadii(c.Radii))
	}
	pot, err := pairpot.New(in, dist, opts...)
	if err != nil {
		return nil, nil, err
	}

	x := append([]float64(nil), c.Coords...)
	if layout == distance.SoA {
		if x, err = distance.ToSoA(x, c.Dim); err != nil {
			return nil, nil, err
		}
	}
	return pot, x, nil
}

// Clone returns a deep copy, so presets can be edited without touching the
// shared table.
func (c *Config) Clone() *Config {
	out := *c
	out.Boundary.Box = append([]float64(nil), c.Boundary.Box...)
	out.Radii = append([]float64(nil), c.Radii...)
	out.Coords = append([]float64(nil), c.Coords...)
	if c.Interaction.Params != nil {
		out.Interaction.Params = make(map[string]float64, len(c.Interaction.Params))
		for k, v := range c.Interaction.Params {
			out.Interaction.Params[k] = v
		}
	}
	return &out
}
