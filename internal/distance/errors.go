package distance

import "errors"

// Construction errors. Policies are built once, so every one of these is a
// configuration mistake by the caller.
var (
	// ErrInvalidDim indicates a dimensionality below what the policy supports.
	ErrInvalidDim = errors.New("distance: invalid number of dimensions")

	// ErrBoxSize indicates a box vector whose length differs from the dimensionality.
	ErrBoxSize = errors.New("distance: box vector length must equal number of dimensions")

	// ErrBoxLength indicates a box component that is not strictly positive and finite.
	ErrBoxLength = errors.New("distance: box lengths must be positive and finite")

	// ErrNoBox indicates a periodic or Lees-Edwards policy requested without a box.
	ErrNoBox = errors.New("distance: periodic boundaries need a box vector")

	// ErrUnknownKind indicates an unrecognised boundary kind.
	ErrUnknownKind = errors.New("distance: unknown boundary kind")

	// ErrLayout indicates a coordinate vector whose length does not fit the layout.
	ErrLayout = errors.New("distance: coordinate length not divisible by dimensions")
)
