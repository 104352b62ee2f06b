package distance

// Cartesian is the open-space policy: no box, no folding.
type Cartesian struct {
	ndim int
}

func NewCartesian(ndim int) (*Cartesian, error) {
	if ndim < 1 {
		return nil, ErrInvalidDim
	}
	return &Cartesian{ndim: ndim}, nil
}

func (c *Cartesian) Dim() int { return c.ndim }

func (c *Cartesian) Rij(rij, r1, r2 []float64) {
	for k := 0; k < c.ndim; k++ {
		rij[k] = r1[k] - r2[k]
	}
}

func (c *Cartesian) RijSoA(rij, r1, r2 []float64, natoms int) {
	for k := 0; k < c.ndim; k++ {
		i := k * natoms
		rij[k] = r1[i] - r2[i]
	}
}

// PutAtomInBox does nothing: every position is inside an unbounded box.
func (c *Cartesian) PutAtomInBox(x []float64) {}

func (c *Cartesian) PutAtomInBoxSoA(x []float64, natoms int) {}
