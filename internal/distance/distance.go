package distance

import (
	"fmt"
	"math"
	"strings"
)

// Policy computes nearest-image displacements and folds positions into the
// primary cell.
type Policy interface {
	// Dim returns the number of spatial dimensions.
	Dim() int

	// Rij writes the displacement r1 - r2 into rij. r1 and r2 hold Dim()
	// contiguous coordinates.
	Rij(rij, r1, r2 []float64)

	// RijSoA is Rij for dimension-major storage: coordinate d of the first
	// particle is r1[d*natoms]. Callers pass x[i:] and x[j:].
	RijSoA(rij, r1, r2 []float64, natoms int)

	// PutAtomInBox folds one particle's Dim() contiguous coordinates in place.
	PutAtomInBox(x []float64)

	// PutAtomInBoxSoA folds one particle stored with stride natoms in place.
	PutAtomInBoxSoA(x []float64, natoms int)
}

// Kind names a boundary-condition model.
type Kind string

const (
	KindCartesian   Kind = "cartesian"
	KindPeriodic    Kind = "periodic"
	KindLeesEdwards Kind = "lees-edwards"
)

// ParseKind accepts the canonical names plus a few common spellings.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "cartesian", "open", "none":
		return KindCartesian, nil
	case "periodic", "pbc":
		return KindPeriodic, nil
	case "lees-edwards", "leesedwards", "lees_edwards", "shear":
		return KindLeesEdwards, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

// Spec describes a policy to build with New.
type Spec struct {
	Kind  Kind
	Dim   int
	Box   []float64
	Shear float64
}

// New builds the policy described by s. Selection happens here, once, so the
// pair loop only pays for a single interface call per displacement.
func New(s Spec) (Policy, error) {
	switch s.Kind {
	case KindCartesian, "":
		return NewCartesian(s.Dim)
	case KindPeriodic:
		return NewPeriodic(s.Dim, s.Box)
	case KindLeesEdwards:
		return NewLeesEdwards(s.Dim, s.Box, s.Shear)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownKind, s.Kind)
}

// round is the single rounding rule used for every fold.
func round(v float64) float64 {
	return math.RoundToEven(v)
}

func checkBox(ndim int, box []float64) (b, ib []float64, err error) {
	if len(box) == 0 {
		return nil, nil, ErrNoBox
	}
	if len(box) != ndim {
		return nil, nil, fmt.Errorf("%w: got %d, want %d", ErrBoxSize, len(box), ndim)
	}
	b = make([]float64, ndim)
	ib = make([]float64, ndim)
	for k, l := range box {
		if !(l > 0) || math.IsInf(l, 0) {
			return nil, nil, fmt.Errorf("%w: box[%d] = %g", ErrBoxLength, k, l)
		}
		b[k] = l
		ib[k] = 1 / l
	}
	return b, ib, nil
}

// ImageAtom writes the folded image of src into dst, leaving src untouched.
// dst and src may be the same slice.
func ImageAtom(p Policy, dst, src []float64) {
	n := p.Dim()
	copy(dst[:n], src[:n])
	p.PutAtomInBox(dst)
}

// ImageAtomSoA gathers one particle stored with stride natoms from src into
// the contiguous dst and folds it there.
func ImageAtomSoA(p Policy, dst, src []float64, natoms int) {
	for k := 0; k < p.Dim(); k++ {
		dst[k] = src[k*natoms]
	}
	p.PutAtomInBox(dst)
}

// PutInBox folds every particle of coords in place.
func PutInBox(p Policy, coords []float64, layout Layout) error {
	ndim := p.Dim()
	natoms, err := NumAtoms(len(coords), ndim)
	if err != nil {
		return err
	}
	if layout == SoA {
		for i := 0; i < natoms; i++ {
			p.PutAtomInBoxSoA(coords[i:], natoms)
		}
		return nil
	}
	for i := 0; i < natoms; i++ {
		p.PutAtomInBox(coords[i*ndim : (i+1)*ndim])
	}
	return nil
}
