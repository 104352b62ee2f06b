package interaction

// LJ is the Lennard-Jones 12-6 interaction
//
//	E(r) = 4ε[(σ/r)^12 - (σ/r)^6]
//
// It ignores the combined radius.
type LJ struct {
	Eps   float64
	Sigma float64
	sig6  float64
}

func NewLJ(eps, sigma float64) *LJ {
	s2 := sigma * sigma
	return &LJ{Eps: eps, Sigma: sigma, sig6: s2 * s2 * s2}
}

func (lj *LJ) terms(r2 float64) (ir2, ir6, ir12 float64) {
	ir2 = 1 / r2
	ir6 = ir2 * ir2 * ir2 * lj.sig6
	return ir2, ir6, ir6 * ir6
}

func (lj *LJ) Energy(r2, _ float64) float64 {
	_, ir6, ir12 := lj.terms(r2)
	return 4 * lj.Eps * (ir12 - ir6)
}

func (lj *LJ) EnergyGradient(r2, _ float64) (float64, float64) {
	ir2, ir6, ir12 := lj.terms(r2)
	e := 4 * lj.Eps * (ir12 - ir6)
	g := 4 * lj.Eps * (12*ir12 - 6*ir6) * ir2
	return e, g
}

func (lj *LJ) EnergyGradientHessian(r2, _ float64) (float64, float64, float64) {
	ir2, ir6, ir12 := lj.terms(r2)
	e := 4 * lj.Eps * (ir12 - ir6)
	g := 4 * lj.Eps * (12*ir12 - 6*ir6) * ir2
	h := 4 * lj.Eps * (156*ir12 - 42*ir6) * ir2
	return e, g, h
}
