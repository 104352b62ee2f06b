// Package interaction provides stock pair interactions for the evaluation
// engine in package pairpot.
//
// Every interaction maps a squared separation r2 and a combined radius to
//
//   - e: the pair energy
//   - g: the gradient magnitude, -E'(r)/r
//   - h: the second derivative, E''(r)
//
// The engine is not limited to these types; any value with the
// Energy/EnergyGradient/EnergyGradientHessian methods will do. The
// [Registry] maps configuration names to constructors so that system files
// and presets can name an interaction.
package interaction
