package interaction

import (
	"fmt"
	"sort"

	"github.com/san-kum/pairpot/internal/pairpot"
)

// Params carries named interaction parameters from a configuration file.
type Params map[string]float64

// Get returns p[name], or def when the parameter is absent.
func (p Params) Get(name string, def float64) float64 {
	if v, ok := p[name]; ok {
		return v
	}
	return def
}

type Registry struct {
	ctors map[string]func(Params) (pairpot.Interaction, error)
}

func NewRegistry() *Registry {
	r := &Registry{
		ctors: make(map[string]func(Params) (pairpot.Interaction, error)),
	}

	r.ctors["harmonic"] = func(p Params) (pairpot.Interaction, error) {
		k := p.Get("k", 1.0)
		if k <= 0 {
			return nil, fmt.Errorf("harmonic: k must be positive, got %g", k)
		}
		return NewHarmonic(k), nil
	}
	r.ctors["lj"] = func(p Params) (pairpot.Interaction, error) {
		eps, sigma := p.Get("eps", 1.0), p.Get("sigma", 1.0)
		if sigma <= 0 {
			return nil, fmt.Errorf("lj: sigma must be positive, got %g", sigma)
		}
		return NewLJ(eps, sigma), nil
	}
	r.ctors["inverse_power"] = func(p Params) (pairpot.Interaction, error) {
		pow := p.Get("pow", 2.5)
		if pow < 2 {
			return nil, fmt.Errorf("inverse_power: pow must be at least 2, got %g", pow)
		}
		return NewInversePower(p.Get("eps", 1.0), pow), nil
	}

	return r
}

// Register adds or replaces a named constructor.
func (r *Registry) Register(name string, fn func(Params) (pairpot.Interaction, error)) {
	r.ctors[name] = fn
}

func (r *Registry) Get(name string, params Params) (pairpot.Interaction, error) {
	fn, ok := r.ctors[name]
	if !ok {
		return nil, fmt.Errorf("unknown interaction: %s", name)
	}
	return fn(params)
}

func (r *Registry) List() []string {
	names := make([]string, 0, len(r.ctors))
	for name := range r.ctors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
