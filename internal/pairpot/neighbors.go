package pairpot

import "fmt"

// NeighborsPicky lists, for every included particle, the included particles
// within cutoffFactor*(1+radiusScale)*(r_i+r_j). Each pair appears on both
// sides: particle i stores r_ij and particle j stores -r_ij. Excluded
// particles get empty entries.
func (p *Potential) NeighborsPicky(x []float64, include []bool, cutoffFactor float64) (*NeighborList, error) {
	if len(p.radii) == 0 {
		return nil, fmt.Errorf("neighbors: %w", ErrMissingRadii)
	}
	natoms, err := p.numAtoms("neighbors", x)
	if err != nil {
		return nil, err
	}
	if include != nil && len(include) != natoms {
		return nil, &EvalError{Op: "neighbors", Got: len(include), Want: natoms, Wrapped: ErrIncludeSize}
	}

	scale := cutoffFactor * (1 + p.radiusScale)
	nl := &NeighborList{
		Indices:       make([][]int, natoms),
		Displacements: make([][][]float64, natoms),
	}
	dr := make([]float64, p.ndim)

	for i := 0; i < natoms; i++ {
		if include != nil && !include[i] {
			continue
		}
		for j := 0; j < i; j++ {
			if include != nil && !include[j] {
				continue
			}
			p.rij(dr, x, i, j, natoms)
			rc := scale * p.sumRadii(i, j)
			if dot(dr) > rc*rc {
				continue
			}

			fwd := append([]float64(nil), dr...)
			back := make([]float64, p.ndim)
			for k, v := range dr {
				back[k] = -v
			}
			nl.Indices[i] = append(nl.Indices[i], j)
			nl.Displacements[i] = append(nl.Displacements[i], fwd)
			nl.Indices[j] = append(nl.Indices[j], i)
			nl.Displacements[j] = append(nl.Displacements[j], back)
		}
	}
	return nl, nil
}

// Neighbors is NeighborsPicky with every particle included.
func (p *Potential) Neighbors(x []float64, cutoffFactor float64) (*NeighborList, error) {
	return p.NeighborsPicky(x, nil, cutoffFactor)
}

// Overlaps returns the pairs whose separation is at most the sum of their
// radii, flattened as [i0, j0, i1, j1, ...] with j < i.
func (p *Potential) Overlaps(x []float64) ([]int, error) {
	if len(p.radii) == 0 {
		return nil, fmt.Errorf("overlaps: %w", ErrMissingRadii)
	}
	natoms, err := p.numAtoms("overlaps", x)
	if err != nil {
		return nil, err
	}

	var out []int
	dr := make([]float64, p.ndim)
	for i := 0; i < natoms; i++ {
		for j := 0; j < i; j++ {
			p.rij(dr, x, i, j, natoms)
			rc := p.sumRadii(i, j)
			if dot(dr) <= rc*rc {
				out = append(out, i, j)
			}
		}
	}
	return out, nil
}
