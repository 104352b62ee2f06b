package config

import (
	"math"
	"sort"
)

// Presets groups ready-made systems by interaction name.
var Presets = map[string]map[string]*Config{
	"lj": {
		"dimer": {
			Dim: 3, Boundary: BoundaryConfig{Kind: "cartesian"},
			Interaction: InteractionConfig{Name: "lj", Params: map[string]float64{"eps": 1, "sigma": 1}},
			Coords:      []float64{0, 0, 0, math.Pow(2, 1.0/6), 0, 0},
		},
		"cluster": {
			Dim: 3, Boundary: BoundaryConfig{Kind: "cartesian"},
			Interaction: InteractionConfig{Name: "lj", Params: map[string]float64{"eps": 1, "sigma": 1}},
			Coords:      Lattice(8, 3, 1.12, 0.03),
		},
		"crystal": {
			Dim: 3, Boundary: BoundaryConfig{Kind: "periodic", Box: []float64{3.36, 3.36, 3.36}},
			Interaction: InteractionConfig{Name: "lj", Params: map[string]float64{"eps": 1, "sigma": 1}},
			Coords:      Lattice(27, 3, 1.12, 0.02),
		},
		"sheared": {
			Dim: 2, Boundary: BoundaryConfig{Kind: "lees-edwards", Box: []float64{4.48, 4.48}, Shear: 0.1},
			Interaction: InteractionConfig{Name: "lj", Params: map[string]float64{"eps": 1, "sigma": 1}},
			Coords:      Lattice(16, 2, 1.12, 0.02),
		},
	},
	"harmonic": {
		"jammed": {
			Dim: 2, Boundary: BoundaryConfig{Kind: "periodic", Box: []float64{4, 4}},
			Interaction: InteractionConfig{Name: "harmonic", Params: map[string]float64{"k": 1}},
			Radii:       bidisperse(16, 0.5, 0.6),
			RadiusScale: 0.1,
			Coords:      Lattice(16, 2, 1.0, 0.05),
		},
		"sheared": {
			Dim: 2, Boundary: BoundaryConfig{Kind: "lees-edwards", Box: []float64{4, 4}, Shear: 0.05},
			Interaction: InteractionConfig{Name: "harmonic", Params: map[string]float64{"k": 1}},
			Radii:       bidisperse(16, 0.5, 0.6),
			RadiusScale: 0.1,
			Coords:      Lattice(16, 2, 1.0, 0.05),
		},
	},
	"inverse_power": {
		"soft": {
			Dim: 3, Boundary: BoundaryConfig{Kind: "periodic", Box: []float64{3, 3, 3}},
			Interaction: InteractionConfig{Name: "inverse_power", Params: map[string]float64{"eps": 1, "pow": 2.5}},
			Radii:       bidisperse(27, 0.55, 0.65),
			Coords:      Lattice(27, 3, 1.0, 0.04),
		},
		"sheared": {
			Dim: 2, Boundary: BoundaryConfig{Kind: "lees-edwards", Box: []float64{4, 4}, Shear: 0.2},
			Interaction: InteractionConfig{Name: "inverse_power", Params: map[string]float64{"eps": 1, "pow": 2}},
			Radii:       bidisperse(16, 0.5, 0.7),
			Coords:      Lattice(16, 2, 1.0, 0.05),
		},
	},
}

// GetPreset returns a copy of the named preset, or nil if it does not exist.
func GetPreset(interaction, preset string) *Config {
	group, ok := Presets[interaction]
	if !ok {
		return nil
	}
	cfg, ok := group[preset]
	if !ok {
		return nil
	}
	return cfg.Clone()
}

func ListPresets(interaction string) []string {
	group, ok := Presets[interaction]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(group))
	for name := range group {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Lattice places n particles on a square lattice and offsets them by a
// deterministic pattern of amplitude jitter, so presets are reproducible and
// not exactly at a stationary point.
func Lattice(n, ndim int, spacing, jitter float64) []float64 {
	side := 1
	for int(math.Pow(float64(side), float64(ndim))) < n {
		side++
	}
	x := make([]float64, n*ndim)
	for i := 0; i < n; i++ {
		cell := i
		for k := 0; k < ndim; k++ {
			x[i*ndim+k] = float64(cell%side)*spacing + jitter*math.Sin(float64(7*i+3*k+1))
			cell /= side
		}
	}
	return x
}

// bidisperse alternates between two radii.
func bidisperse(n int, small, large float64) []float64 {
	r := make([]float64, n)
	for i := range r {
		if i%2 == 0 {
			r[i] = small
		} else {
			r[i] = large
		}
	}
	return r
}
