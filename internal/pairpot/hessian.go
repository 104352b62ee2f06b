package pairpot

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/mat"
)

var ErrEigenFailed = errors.New("pairpot: hessian eigendecomposition did not converge")

// HessianDense wraps a row-major Hessian buffer of length n*n as a
// mat.Dense sharing its storage.
func HessianDense(hess []float64) (*mat.Dense, error) {
	n := int(math.Sqrt(float64(len(hess))))
	if n*n != len(hess) || n == 0 {
		return nil, &EvalError{Op: "hessian_dense", Got: len(hess), Want: n * n, Wrapped: ErrHessianSize}
	}
	return mat.NewDense(n, n, hess), nil
}

// HessianEigenvalues returns the eigenvalues of a symmetric Hessian in
// ascending order. The input is copied and left untouched.
func HessianEigenvalues(hess []float64) ([]float64, error) {
	d, err := HessianDense(hess)
	if err != nil {
		return nil, err
	}
	n, _ := d.Dims()
	sym := mat.NewSymDense(n, append([]float64(nil), hess...))

	var eig mat.EigenSym
	if !eig.Factorize(sym, false) {
		return nil, ErrEigenFailed
	}
	return eig.Values(nil), nil
}

// EvaluateDense allocates the gradient and Hessian for x and returns them
// with the energy. The Hessian is a mat.Dense over freshly allocated storage.
func (p *Potential) EvaluateDense(x []float64) (float64, []float64, *mat.Dense, error) {
	grad := make([]float64, len(x))
	hess := make([]float64, len(x)*len(x))
	e, err := p.EnergyGradientHessian(x, grad, hess)
	if err != nil {
		return 0, nil, nil, err
	}
	if len(x) == 0 {
		return e, grad, nil, nil
	}
	return e, grad, mat.NewDense(len(x), len(x), hess), nil
}
