package interaction

import "math"

// Harmonic is a soft contact: particles repel with spring constant K while
// their separation is below the combined radius, and do not interact
// otherwise.
type Harmonic struct {
	K float64
}

func NewHarmonic(k float64) *Harmonic {
	return &Harmonic{K: k}
}

func (hm *Harmonic) Energy(r2, radius float64) float64 {
	if r2 >= radius*radius {
		return 0
	}
	d := math.Sqrt(r2) - radius
	return 0.5 * hm.K * d * d
}

func (hm *Harmonic) EnergyGradient(r2, radius float64) (float64, float64) {
	if r2 >= radius*radius {
		return 0, 0
	}
	r := math.Sqrt(r2)
	d := r - radius
	return 0.5 * hm.K * d * d, -hm.K * d / r
}

func (hm *Harmonic) EnergyGradientHessian(r2, radius float64) (float64, float64, float64) {
	if r2 >= radius*radius {
		return 0, 0, 0
	}
	r := math.Sqrt(r2)
	d := r - radius
	return 0.5 * hm.K * d * d, -hm.K * d / r, hm.K
}
