package interaction

import "math"

// InversePower is a finite-range repulsion
//
//	E(r) = ε/p (1 - r/r0)^p   for r < r0
//
// where r0 is the combined radius. P = 2 reduces to a harmonic contact and
// P = 2.5 gives Hertzian spheres.
type InversePower struct {
	Eps float64
	P   float64
}

func NewInversePower(eps, p float64) *InversePower {
	return &InversePower{Eps: eps, P: p}
}

func (ip *InversePower) Energy(r2, radius float64) float64 {
	if r2 >= radius*radius {
		return 0
	}
	s := 1 - math.Sqrt(r2)/radius
	return ip.Eps / ip.P * math.Pow(s, ip.P)
}

func (ip *InversePower) EnergyGradient(r2, radius float64) (float64, float64) {
	if r2 >= radius*radius {
		return 0, 0
	}
	r := math.Sqrt(r2)
	s := 1 - r/radius
	sp := math.Pow(s, ip.P-1)
	e := ip.Eps / ip.P * sp * s
	g := ip.Eps * sp / (radius * r)
	return e, g
}

func (ip *InversePower) EnergyGradientHessian(r2, radius float64) (float64, float64, float64) {
	if r2 >= radius*radius {
		return 0, 0, 0
	}
	r := math.Sqrt(r2)
	s := 1 - r/radius
	sp := math.Pow(s, ip.P-1)
	e := ip.Eps / ip.P * sp * s
	g := ip.Eps * sp / (radius * r)
	h := ip.Eps * (ip.P - 1) * math.Pow(s, ip.P-2) / (radius * radius)
	return e, g, h
}
