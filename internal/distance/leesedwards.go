package distance

import "math"

// LeesEdwards is a periodic box whose images along dimension 1 are displaced
// along dimension 0 by the shear offset dx. Crossing n box lengths in
// dimension 1 drags dimension 0 by n*dx on top of its ordinary periodic fold.
// Dimensions 2 and up fold exactly as in Periodic.
type LeesEdwards struct {
	box   []float64
	ibox  []float64
	shear float64
	dx    float64
}

// NewLeesEdwards builds a sheared periodic policy. Only the fractional part
// of shear matters: a strain of γ and γ+1 produce the same lattice, so the
// offset is reduced to math.Mod(shear, 1)*box[1].
func NewLeesEdwards(ndim int, box []float64, shear float64) (*LeesEdwards, error) {
	if ndim < 2 {
		return nil, ErrInvalidDim
	}
	b, ib, err := checkBox(ndim, box)
	if err != nil {
		return nil, err
	}
	return &LeesEdwards{
		box:   b,
		ibox:  ib,
		shear: shear,
		dx:    math.Mod(shear, 1.0) * b[1],
	}, nil
}

func (le *LeesEdwards) Dim() int { return len(le.box) }

// Box returns a copy of the box lengths.
func (le *LeesEdwards) Box() []float64 {
	return append([]float64(nil), le.box...)
}

// Shear returns the strain the policy was built with.
func (le *LeesEdwards) Shear() float64 { return le.shear }

// Offset returns the reduced image displacement dx along dimension 0.
func (le *LeesEdwards) Offset() float64 { return le.dx }

func (le *LeesEdwards) Rij(rij, r1, r2 []float64) {
	d0 := r1[0] - r2[0]
	d1 := r1[1] - r2[1]
	ny := round(d1 * le.ibox[1])
	d0 -= ny * le.dx
	rij[1] = d1 - ny*le.box[1]
	rij[0] = d0 - round(d0*le.ibox[0])*le.box[0]

	for k := 2; k < len(le.box); k++ {
		d := r1[k] - r2[k]
		rij[k] = d - round(d*le.ibox[k])*le.box[k]
	}
}

func (le *LeesEdwards) RijSoA(rij, r1, r2 []float64, natoms int) {
	d0 := r1[0] - r2[0]
	d1 := r1[natoms] - r2[natoms]
	ny := round(d1 * le.ibox[1])
	d0 -= ny * le.dx
	rij[1] = d1 - ny*le.box[1]
	rij[0] = d0 - round(d0*le.ibox[0])*le.box[0]

	for k := 2; k < len(le.box); k++ {
		i := k * natoms
		d := r1[i] - r2[i]
		rij[k] = d - round(d*le.ibox[k])*le.box[k]
	}
}

func (le *LeesEdwards) PutAtomInBox(x []float64) {
	x[0], x[1] = le.imageSheared(x[0], x[1])
	for k := 2; k < len(le.box); k++ {
		x[k] = foldImage(x[k], le.box[k], le.ibox[k])
	}
}

func (le *LeesEdwards) PutAtomInBoxSoA(x []float64, natoms int) {
	x[0], x[natoms] = le.imageSheared(x[0], x[natoms])
	for k := 2; k < len(le.box); k++ {
		i := k * natoms
		x[i] = foldImage(x[i], le.box[k], le.ibox[k])
	}
}

// imageSheared folds the flow (x) and gradient (y) coordinates of one
// position. Every box-length correction of y moves x by the matching dx.
func (le *LeesEdwards) imageSheared(x, y float64) (float64, float64) {
	ly := le.box[1]
	ny := round(y * le.ibox[1])
	x -= ny * le.dx
	y -= ny * ly

	half := 0.5 * ly
	if y > half {
		x -= le.dx
		y -= ly
	}
	if y < -half {
		x += le.dx
		y += ly
	}

	return foldImage(x, le.box[0], le.ibox[0]), y
}
