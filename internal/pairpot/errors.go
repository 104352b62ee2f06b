package pairpot

import (
	"errors"
	"fmt"
)

// Contract violations. They are detected before any work is done and are
// never transient.
var (
	// ErrDimensionMismatch indicates a coordinate vector whose length is not a
	// multiple of the dimensionality.
	ErrDimensionMismatch = errors.New("pairpot: coordinate length not divisible by dimensions")

	// ErrGradientSize indicates a gradient buffer of the wrong length.
	ErrGradientSize = errors.New("pairpot: gradient must have the same size as coordinates")

	// ErrHessianSize indicates a Hessian buffer whose length is not len(x)^2.
	ErrHessianSize = errors.New("pairpot: hessian has the wrong size")

	// ErrMissingRadii indicates a radius-dependent query on a potential without radii.
	ErrMissingRadii = errors.New("pairpot: operation needs particle radii")

	// ErrRadiiSize indicates radii that do not match the number of particles.
	ErrRadiiSize = errors.New("pairpot: radii count does not match particle count")

	// ErrIncludeSize indicates an include mask that does not match the number of particles.
	ErrIncludeSize = errors.New("pairpot: include mask does not match particle count")

	// ErrNilInteraction indicates New was called without an interaction.
	ErrNilInteraction = errors.New("pairpot: nil interaction")

	// ErrNilPolicy indicates New was called without a distance policy.
	ErrNilPolicy = errors.New("pairpot: nil distance policy")

	// ErrInvalidRadius indicates a negative or non-finite particle radius.
	ErrInvalidRadius = errors.New("pairpot: radii must be finite and non-negative")

	// ErrIndexRange indicates a particle index outside [0, N).
	ErrIndexRange = errors.New("pairpot: particle index out of range")
)

// EvalError records which operation rejected its arguments and the sizes
// involved.
type EvalError struct {
	Op      string
	Got     int
	Want    int
	Wrapped error
}

func (e *EvalError) Error() string {
	return fmt.Sprintf("%s: %v (got %d, want %d)", e.Op, e.Wrapped, e.Got, e.Want)
}

func (e *EvalError) Unwrap() error {
	return e.Wrapped
}
