package distance

// Periodic applies nearest-image folding in a rectangular box.
type Periodic struct {
	box  []float64
	ibox []float64
}

// NewPeriodic builds a periodic policy. There is no default box: an empty
// box vector fails with ErrNoBox.
func NewPeriodic(ndim int, box []float64) (*Periodic, error) {
	if ndim < 1 {
		return nil, ErrInvalidDim
	}
	b, ib, err := checkBox(ndim, box)
	if err != nil {
		return nil, err
	}
	return &Periodic{box: b, ibox: ib}, nil
}

func (p *Periodic) Dim() int { return len(p.box) }

// Box returns a copy of the box lengths.
func (p *Periodic) Box() []float64 {
	return append([]float64(nil), p.box...)
}

func (p *Periodic) Rij(rij, r1, r2 []float64) {
	for k, b := range p.box {
		d := r1[k] - r2[k]
		rij[k] = d - round(d*p.ibox[k])*b
	}
}

func (p *Periodic) RijSoA(rij, r1, r2 []float64, natoms int) {
	for k, b := range p.box {
		i := k * natoms
		d := r1[i] - r2[i]
		rij[k] = d - round(d*p.ibox[k])*b
	}
}

func (p *Periodic) PutAtomInBox(x []float64) {
	for k, b := range p.box {
		x[k] = foldImage(x[k], b, p.ibox[k])
	}
}

func (p *Periodic) PutAtomInBoxSoA(x []float64, natoms int) {
	for k, b := range p.box {
		i := k * natoms
		x[i] = foldImage(x[i], b, p.ibox[k])
	}
}

// foldImage maps v into [-b/2, b/2]. Rounding can leave v a few ulps past the
// half-box edge, which the second step pulls back by one box length.
func foldImage(v, b, ib float64) float64 {
	v -= round(v*ib) * b
	half := 0.5 * b
	if v > half {
		v -= b
	}
	if v < -half {
		v += b
	}
	return v
}
