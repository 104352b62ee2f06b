// Package distance provides the boundary-condition policies used to compute
// particle separations.
//
// Three policies implement [Policy]:
//
//   - [Cartesian]: open space, plain coordinate differences
//   - [Periodic]: rectangular periodic box, nearest-image folding
//   - [LeesEdwards]: periodic box under steady shear along dimension 0,
//     with the image shift coupled to crossings of dimension 1
//
// Every operation exists in a particle-major form (coordinate d of particle i
// at i*D+d, see [AoS]) and a dimension-major form (d*N+i, see [SoA]). Both
// forms perform the same floating-point operations in the same order, so
// their results are bit-identical.
//
// # Rounding
//
// Nearest-image folding rounds with [math.RoundToEven]. Ties (a separation of
// exactly half a box length) therefore round to the even multiple. This is
// the same result the add-magic-number trick produces and differs from
// round-half-away-from-zero only at exact half-integer ratios.
//
// # Example
//
//	pbc, _ := distance.NewPeriodic(2, []float64{10, 10})
//	rij := make([]float64, 2)
//	pbc.Rij(rij, []float64{0, 0}, []float64{9, 0}) // rij == {1, 0}
//
// # Thread Safety
//
// Policies are immutable after construction and may be shared between
// goroutines.
package distance
