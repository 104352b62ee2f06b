// Package pairpot evaluates pairwise potentials over a coordinate vector.
//
// A [Potential] combines an [Interaction] (the functional form, as a function
// of squared separation and combined radius) with a [distance.Policy] (the
// boundary conditions) and sums over every unordered particle pair (i, j),
// j < i. It produces:
//
//   - the total energy
//   - the gradient, accumulated with exact equal-and-opposite updates
//   - the dense Hessian, written symmetrically by construction
//
// and the derived neighbor and overlap queries that need a size scale.
//
// # Layouts
//
// Coordinates, gradients and Hessian rows use the layout selected with
// [WithLayout]. Particle-major and dimension-major evaluation visit pairs in
// the same order and perform the same arithmetic, so their outputs agree bit
// for bit after a layout conversion.
//
// # Example
//
//	pbc, _ := distance.NewPeriodic(3, []float64{L, L, L})
//	pot, _ := pairpot.New(interaction.NewLJ(1, 1), pbc)
//	grad := make([]float64, len(x))
//	e, err := pot.EnergyGradient(x, grad)
//
// # Thread Safety
//
// A Potential holds no per-call state, so concurrent calls are safe as long
// as each call owns its output buffers. [Parallel] splits a single
// evaluation across goroutines.
package pairpot
