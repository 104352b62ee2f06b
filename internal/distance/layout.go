package distance

import (
	"fmt"
	"strings"
)

// Layout selects how a coordinate vector is laid out in memory.
type Layout int

const (
	// AoS stores particles contiguously: coordinate d of particle i at i*D+d.
	AoS Layout = iota
	// SoA stores dimensions contiguously: coordinate d of particle i at d*N+i.
	SoA
)

func (l Layout) String() string {
	if l == SoA {
		return "soa"
	}
	return "aos"
}

// ParseLayout reads "aos"/"soa" (case-insensitive). Empty means AoS.
func ParseLayout(s string) (Layout, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "aos", "particle-major":
		return AoS, nil
	case "soa", "dimension-major":
		return SoA, nil
	}
	return AoS, fmt.Errorf("distance: unknown layout %q", s)
}

// Index returns the position of coordinate d of particle i.
func (l Layout) Index(i, d, natoms, ndim int) int {
	if l == SoA {
		return d*natoms + i
	}
	return i*ndim + d
}

// NumAtoms returns size/ndim, failing when size is not a multiple of ndim.
func NumAtoms(size, ndim int) (int, error) {
	if ndim < 1 {
		return 0, ErrInvalidDim
	}
	if size%ndim != 0 {
		return 0, fmt.Errorf("%w: len %d, dim %d", ErrLayout, size, ndim)
	}
	return size / ndim, nil
}

// ToSoA returns a particle-major vector rearranged as dimension-major.
func ToSoA(x []float64, ndim int) ([]float64, error) {
	natoms, err := NumAtoms(len(x), ndim)
	if err != nil {
		return nil, err
	}
	out := make([]float64, len(x))
	for i := 0; i < natoms; i++ {
		for d := 0; d < ndim; d++ {
			out[d*natoms+i] = x[i*ndim+d]
		}
	}
	return out, nil
}

// ToAoS is the inverse of ToSoA.
func ToAoS(x []float64, ndim int) ([]float64, error) {
	natoms, err := NumAtoms(len(x), ndim)
	if err != nil {
		return nil, err
	}
	out := make([]float64, len(x))
	for i := 0; i < natoms; i++ {
		for d := 0; d < ndim; d++ {
			out[i*ndim+d] = x[d*natoms+i]
		}
	}
	return out, nil
}
