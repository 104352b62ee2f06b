package pairpot

import "github.com/san-kum/pairpot/internal/distance"

// Interaction is the functional form of a pair potential. r2 is the squared
// separation and radius the combined radius of the pair (zero when the
// potential has no radii).
//
// g is the gradient magnitude -E'(r)/r: the gradient on particle i is
// -g*r_ij and on particle j is +g*r_ij. h is E''(r).
type Interaction interface {
	Energy(r2, radius float64) float64
	EnergyGradient(r2, radius float64) (e, g float64)
	EnergyGradientHessian(r2, radius float64) (e, g, h float64)
}

type Option func(*Potential)

// WithRadii sets per-particle radii. The pair interaction receives
// radii[i]+radii[j]; neighbor and overlap queries require radii.
func WithRadii(radii []float64) Option {
	return func(p *Potential) {
		p.radii = append([]float64(nil), radii...)
	}
}

// WithRadiusScale widens neighbor cutoffs to (1+s) times the combined radius.
func WithRadiusScale(s float64) Option {
	return func(p *Potential) { p.radiusScale = s }
}

// WithLayout selects particle-major (default) or dimension-major coordinates.
func WithLayout(l distance.Layout) Option {
	return func(p *Potential) { p.layout = l }
}

// NeighborList holds, for every particle, the indices of its neighbors and
// the displacement from each neighbor to the particle.
type NeighborList struct {
	Indices       [][]int
	Displacements [][][]float64
}

// Len returns the number of particles covered by the list.
func (n *NeighborList) Len() int { return len(n.Indices) }

// Pairs returns the number of unordered neighbor pairs.
func (n *NeighborList) Pairs() int {
	total := 0
	for _, ids := range n.Indices {
		total += len(ids)
	}
	return total / 2
}
