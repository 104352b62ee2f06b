package pairpot

import (
	"math"

	"github.com/san-kum/pairpot/internal/distance"
)

// Potential sums an Interaction over all particle pairs under a distance
// policy. It is immutable after New.
type Potential struct {
	interaction Interaction
	dist        distance.Policy
	ndim        int
	radii       []float64
	radiusScale float64
	layout      distance.Layout
}

func New(in Interaction, dist distance.Policy, opts ...Option) (*Potential, error) {
	if in == nil {
		return nil, ErrNilInteraction
	}
	if dist == nil {
		return nil, ErrNilPolicy
	}
	p := &Potential{
		interaction: in,
		dist:        dist,
		ndim:        dist.Dim(),
	}
	for _, opt := range opts {
		opt(p)
	}
	for _, r := range p.radii {
		if !(r >= 0) || math.IsInf(r, 0) {
			return nil, ErrInvalidRadius
		}
	}
	return p, nil
}

func (p *Potential) Dim() int                 { return p.ndim }
func (p *Potential) Layout() distance.Layout  { return p.layout }
func (p *Potential) Policy() distance.Policy  { return p.dist }
func (p *Potential) Interaction() Interaction { return p.interaction }
func (p *Potential) RadiusScale() float64     { return p.radiusScale }

// Radii returns a copy of the particle radii, nil when none are set.
func (p *Potential) Radii() []float64 {
	if len(p.radii) == 0 {
		return nil
	}
	return append([]float64(nil), p.radii...)
}

// InLayout returns a potential sharing p's interaction, policy and radii but
// reading coordinates in layout l.
func (p *Potential) InLayout(l distance.Layout) *Potential {
	q := *p
	q.layout = l
	return &q
}

func (p *Potential) numAtoms(op string, x []float64) (int, error) {
	natoms := len(x) / p.ndim
	if natoms*p.ndim != len(x) {
		return 0, &EvalError{Op: op, Got: len(x), Want: (natoms + 1) * p.ndim, Wrapped: ErrDimensionMismatch}
	}
	if len(p.radii) != 0 && len(p.radii) != natoms {
		return 0, &EvalError{Op: op, Got: len(p.radii), Want: natoms, Wrapped: ErrRadiiSize}
	}
	return natoms, nil
}

func (p *Potential) sumRadii(i, j int) float64 {
	if len(p.radii) == 0 {
		return 0
	}
	return p.radii[i] + p.radii[j]
}

// rij writes the displacement from particle j to particle i into dr.
func (p *Potential) rij(dr, x []float64, i, j, natoms int) {
	if p.layout == distance.SoA {
		p.dist.RijSoA(dr, x[i:], x[j:], natoms)
		return
	}
	p.dist.Rij(dr, x[i*p.ndim:], x[j*p.ndim:])
}

// Rij writes the nearest-image displacement from particle j to particle i.
func (p *Potential) Rij(dr, x []float64, i, j int) error {
	natoms, err := p.numAtoms("rij", x)
	if err != nil {
		return err
	}
	if len(dr) < p.ndim {
		return &EvalError{Op: "rij", Got: len(dr), Want: p.ndim, Wrapped: ErrDimensionMismatch}
	}
	for _, k := range []int{i, j} {
		if k < 0 || k >= natoms {
			return &EvalError{Op: "rij", Got: k, Want: natoms, Wrapped: ErrIndexRange}
		}
	}
	p.rij(dr, x, i, j, natoms)
	return nil
}

func dot(v []float64) float64 {
	s := 0.0
	for _, x := range v {
		s += x * x
	}
	return s
}

func (p *Potential) Energy(x []float64) (float64, error) {
	natoms, err := p.numAtoms("energy", x)
	if err != nil {
		return 0, err
	}

	return p.accumulateEnergy(x, natoms, 0, natoms, 1), nil
}

func (p *Potential) accumulateEnergy(x []float64, natoms, start, end, step int) float64 {
	dr := make([]float64, p.ndim)
	e := 0.0
	for i := start; i < end; i += step {
		for j := 0; j < i; j++ {
			p.rij(dr, x, i, j, natoms)
			e += p.interaction.Energy(dot(dr), p.sumRadii(i, j))
		}
	}
	return e
}

// EnergyGradient zeroes grad and fills it with the gradient at x.
func (p *Potential) EnergyGradient(x, grad []float64) (float64, error) {
	natoms, err := p.numAtoms("energy_gradient", x)
	if err != nil {
		return 0, err
	}
	if err := p.checkGradient("energy_gradient", x, grad); err != nil {
		return 0, err
	}
	clear(grad)
	return p.accumulateGradient(x, grad, natoms, 0, natoms, 1), nil
}

// AddEnergyGradient adds the gradient at x to grad without clearing it.
func (p *Potential) AddEnergyGradient(x, grad []float64) (float64, error) {
	natoms, err := p.numAtoms("add_energy_gradient", x)
	if err != nil {
		return 0, err
	}
	if err := p.checkGradient("add_energy_gradient", x, grad); err != nil {
		return 0, err
	}
	return p.accumulateGradient(x, grad, natoms, 0, natoms, 1), nil
}

// accumulateGradient runs the pair loop over outer rows start, start+step, ...
// below end. The serial path uses step 1; Parallel interleaves rows.
func (p *Potential) accumulateGradient(x, grad []float64, natoms, start, end, step int) float64 {
	ndim := p.ndim
	soa := p.layout == distance.SoA
	dr := make([]float64, ndim)
	e := 0.0

	for i := start; i < end; i += step {
		for j := 0; j < i; j++ {
			p.rij(dr, x, i, j, natoms)
			eij, g := p.interaction.EnergyGradient(dot(dr), p.sumRadii(i, j))
			e += eij
			if g == 0 {
				continue
			}
			for k := 0; k < ndim; k++ {
				dr[k] *= g
				if soa {
					k1 := k * natoms
					grad[i+k1] -= dr[k]
					grad[j+k1] += dr[k]
				} else {
					grad[i*ndim+k] -= dr[k]
					grad[j*ndim+k] += dr[k]
				}
			}
		}
	}
	return e
}

// EnergyGradientHessian zeroes grad and hess and fills them at x. hess is
// row-major with len(x) rows.
func (p *Potential) EnergyGradientHessian(x, grad, hess []float64) (float64, error) {
	if err := p.checkHessian("energy_gradient_hessian", x, grad, hess); err != nil {
		return 0, err
	}
	clear(grad)
	clear(hess)
	return p.AddEnergyGradientHessian(x, grad, hess)
}

// AddEnergyGradientHessian adds the gradient and Hessian at x to grad and
// hess without clearing them.
func (p *Potential) AddEnergyGradientHessian(x, grad, hess []float64) (float64, error) {
	natoms, err := p.numAtoms("add_energy_gradient_hessian", x)
	if err != nil {
		return 0, err
	}
	if err := p.checkHessian("add_energy_gradient_hessian", x, grad, hess); err != nil {
		return 0, err
	}

	ndim := p.ndim
	n := len(x)
	dr := make([]float64, ndim)
	idx := func(atom, k int) int { return p.layout.Index(atom, k, natoms, ndim) }
	e := 0.0

	for i := 0; i < natoms; i++ {
		for j := 0; j < i; j++ {
			p.rij(dr, x, i, j, natoms)
			r2 := dot(dr)
			eij, g, h := p.interaction.EnergyGradientHessian(r2, p.sumRadii(i, j))
			e += eij

			if g != 0 {
				for k := 0; k < ndim; k++ {
					grad[idx(i, k)] -= g * dr[k]
					grad[idx(j, k)] += g * dr[k]
				}
			}
			if g == 0 && h == 0 {
				continue
			}

			hg := h + g
			for k := 0; k < ndim; k++ {
				ik, jk := idx(i, k), idx(j, k)

				hd := hg*dr[k]*dr[k]/r2 - g
				hess[n*ik+ik] += hd
				hess[n*jk+jk] += hd
				hess[n*ik+jk] -= hd
				hess[n*jk+ik] -= hd

				for l := k + 1; l < ndim; l++ {
					il, jl := idx(i, l), idx(j, l)

					ho := hg * dr[k] * dr[l] / r2
					hess[n*ik+il] += ho
					hess[n*il+ik] += ho
					hess[n*jk+jl] += ho
					hess[n*jl+jk] += ho
					hess[n*ik+jl] -= ho
					hess[n*il+jk] -= ho
					hess[n*jk+il] -= ho
					hess[n*jl+ik] -= ho
				}
			}
		}
	}
	return e, nil
}

func (p *Potential) checkGradient(op string, x, grad []float64) error {
	if len(grad) != len(x) {
		return &EvalError{Op: op, Got: len(grad), Want: len(x), Wrapped: ErrGradientSize}
	}
	return nil
}

func (p *Potential) checkHessian(op string, x, grad, hess []float64) error {
	if _, err := p.numAtoms(op, x); err != nil {
		return err
	}
	if err := p.checkGradient(op, x, grad); err != nil {
		return err
	}
	if len(hess) != len(x)*len(x) {
		return &EvalError{Op: op, Got: len(hess), Want: len(x) * len(x), Wrapped: ErrHessianSize}
	}
	return nil
}

// MaxAtomNorm returns the largest Euclidean norm of a single particle's
// coordinates.
func (p *Potential) MaxAtomNorm(x []float64) (float64, error) {
	natoms, err := p.numAtoms("max_atom_norm", x)
	if err != nil {
		return 0, err
	}
	maxSq := 0.0
	for i := 0; i < natoms; i++ {
		s := 0.0
		for k := 0; k < p.ndim; k++ {
			v := x[p.layout.Index(i, k, natoms, p.ndim)]
			s += v * v
		}
		maxSq = math.Max(maxSq, s)
	}
	return math.Sqrt(maxSq), nil
}
