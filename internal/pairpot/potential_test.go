package pairpot_test

import (
	"errors"
	"math"
	"math/rand"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gonum.org/v1/gonum/mat"

	"github.com/san-kum/pairpot/internal/distance"
	"github.com/san-kum/pairpot/internal/interaction"
	"github.com/san-kum/pairpot/internal/pairpot"
)

type system struct {
	name   string
	pot    *pairpot.Potential
	coords []float64
}

func buildSystems() []system {
	rng := rand.New(rand.NewSource(7))

	cart, err := distance.NewCartesian(3)
	Expect(err).NotTo(HaveOccurred())
	pbc, err := distance.NewPeriodic(3, []float64{3.6, 3.6, 3.6})
	Expect(err).NotTo(HaveOccurred())
	le, err := distance.NewLeesEdwards(3, []float64{3.6, 3.6, 3.6}, 0.13)
	Expect(err).NotTo(HaveOccurred())
	box2, err := distance.NewPeriodic(2, []float64{3, 3})
	Expect(err).NotTo(HaveOccurred())

	lj := interaction.NewLJ(1, 1)
	mk := func(in pairpot.Interaction, p distance.Policy, opts ...pairpot.Option) *pairpot.Potential {
		pot, err := pairpot.New(in, p, opts...)
		Expect(err).NotTo(HaveOccurred())
		return pot
	}

	radii := make([]float64, 9)
	for i := range radii {
		radii[i] = 0.6 + 0.03*(2*rng.Float64()-1)
	}

	return []system{
		{"lj cartesian", mk(lj, cart), jitteredLattice(rng, 8, 3, 1.12, 0.05)},
		{"lj periodic", mk(lj, pbc), jitteredLattice(rng, 27, 3, 1.2, 0.04)},
		{"lj lees-edwards", mk(lj, le), jitteredLattice(rng, 27, 3, 1.2, 0.04)},
		{"harmonic periodic radii", mk(interaction.NewHarmonic(2), box2, pairpot.WithRadii(radii)), jitteredLattice(rng, 9, 2, 1.0, 0.04)},
		{"inverse power cartesian radii", mk(interaction.NewInversePower(1, 2.5), cart, pairpot.WithRadii(radii[:8])), jitteredLattice(rng, 8, 3, 1.0, 0.04)},
		{"linear cartesian", mk(linearPair{a: 0.7}, cart), jitteredLattice(rng, 8, 3, 1.0, 0.1)},
	}
}

var _ = Describe("Potential", func() {
	var systems []system

	BeforeEach(func() {
		systems = buildSystems()
	})

	Describe("construction", func() {
		It("rejects missing collaborators", func() {
			cart, _ := distance.NewCartesian(2)
			_, err := pairpot.New(nil, cart)
			Expect(err).To(MatchError(pairpot.ErrNilInteraction))
			_, err = pairpot.New(interaction.NewLJ(1, 1), nil)
			Expect(err).To(MatchError(pairpot.ErrNilPolicy))
		})

		It("rejects negative and non-finite radii", func() {
			cart, _ := distance.NewCartesian(2)
			for _, r := range []float64{-1, math.NaN(), math.Inf(1)} {
				_, err := pairpot.New(interaction.NewHarmonic(1), cart, pairpot.WithRadii([]float64{1, r}))
				Expect(err).To(MatchError(pairpot.ErrInvalidRadius))
			}
		})

		It("copies radii", func() {
			cart, _ := distance.NewCartesian(2)
			radii := []float64{1, 2}
			pot, err := pairpot.New(interaction.NewHarmonic(1), cart, pairpot.WithRadii(radii))
			Expect(err).NotTo(HaveOccurred())
			radii[0] = 5
			Expect(pot.Radii()).To(Equal([]float64{1, 2}))
			Expect(pot.Dim()).To(Equal(2))
			Expect(pot.Layout()).To(Equal(distance.AoS))
		})
	})

	Describe("argument checks", func() {
		var pot *pairpot.Potential

		BeforeEach(func() {
			cart, _ := distance.NewCartesian(2)
			var err error
			pot, err = pairpot.New(interaction.NewHarmonic(1), cart, pairpot.WithRadii([]float64{1, 1, 1}))
			Expect(err).NotTo(HaveOccurred())
		})

		It("rejects coordinates that do not split into particles", func() {
			_, err := pot.Energy(make([]float64, 5))
			Expect(errors.Is(err, pairpot.ErrDimensionMismatch)).To(BeTrue())

			var evalErr *pairpot.EvalError
			Expect(errors.As(err, &evalErr)).To(BeTrue())
			Expect(evalErr.Op).To(Equal("energy"))
			Expect(evalErr.Got).To(Equal(5))
		})

		It("rejects radii that do not match the particle count", func() {
			_, err := pot.Energy(make([]float64, 4))
			Expect(err).To(MatchError(pairpot.ErrRadiiSize))
		})

		It("rejects mis-sized output buffers before touching them", func() {
			x := []float64{0, 0, 1, 0, 0, 1}
			grad := []float64{7, 7, 7, 7, 7}
			_, err := pot.EnergyGradient(x, grad)
			Expect(err).To(MatchError(pairpot.ErrGradientSize))
			Expect(grad).To(Equal([]float64{7, 7, 7, 7, 7}))

			_, err = pot.AddEnergyGradient(x, grad)
			Expect(err).To(MatchError(pairpot.ErrGradientSize))

			ragged := []float64{7, 7, 7, 7, 7}
			_, err = pot.EnergyGradient(make([]float64, 5), ragged)
			Expect(err).To(MatchError(pairpot.ErrDimensionMismatch))
			var evalErr *pairpot.EvalError
			Expect(errors.As(err, &evalErr)).To(BeTrue())
			Expect(evalErr.Op).To(Equal("energy_gradient"))
			Expect(ragged).To(Equal([]float64{7, 7, 7, 7, 7}))

			short := []float64{7, 7, 7, 7}
			_, err = pot.EnergyGradient(make([]float64, 4), short)
			Expect(err).To(MatchError(pairpot.ErrRadiiSize))
			Expect(short).To(Equal([]float64{7, 7, 7, 7}))

			hess := make([]float64, 35)
			hess[0] = 3
			_, err = pot.EnergyGradientHessian(x, make([]float64, 6), hess)
			Expect(err).To(MatchError(pairpot.ErrHessianSize))
			Expect(hess[0]).To(Equal(3.0))

			_, err = pot.AddEnergyGradientHessian(x, make([]float64, 6), hess)
			Expect(err).To(MatchError(pairpot.ErrHessianSize))
		})
	})

	Describe("single pairs", func() {
		It("wraps the displacement through the nearest image", func() {
			pbc, _ := distance.NewPeriodic(2, []float64{10, 10})
			pot, _ := pairpot.New(interaction.NewLJ(1, 1), pbc)
			dr := make([]float64, 2)
			Expect(pot.Rij(dr, []float64{0, 0, 9, 0}, 0, 1)).To(Succeed())
			Expect(dr).To(Equal([]float64{1, 0}))

			soa := pot.InLayout(distance.SoA)
			Expect(soa.Rij(dr, []float64{0, 9, 0, 0}, 0, 1)).To(Succeed())
			Expect(dr).To(Equal([]float64{1, 0}))
		})

		It("rejects particle indices outside the system", func() {
			pbc, _ := distance.NewPeriodic(2, []float64{10, 10})
			pot, _ := pairpot.New(interaction.NewLJ(1, 1), pbc)
			x := []float64{0, 0, 9, 0}
			dr := make([]float64, 2)
			for _, ij := range [][2]int{{0, 2}, {2, 0}, {-1, 1}} {
				err := pot.Rij(dr, x, ij[0], ij[1])
				Expect(err).To(MatchError(pairpot.ErrIndexRange))
				var evalErr *pairpot.EvalError
				Expect(errors.As(err, &evalErr)).To(BeTrue())
				Expect(evalErr.Op).To(Equal("rij"))
			}
			Expect(pot.Rij(make([]float64, 1), x, 0, 1)).To(MatchError(pairpot.ErrDimensionMismatch))
		})

		It("applies equal and opposite gradients", func() {
			cart, _ := distance.NewCartesian(3)
			pot, _ := pairpot.New(interaction.NewLJ(1.5, 1), cart)
			x := []float64{0.1, -0.2, 0.3, 1.0, 0.4, -0.5}
			grad := make([]float64, 6)
			e, err := pot.EnergyGradient(x, grad)
			Expect(err).NotTo(HaveOccurred())
			Expect(e).NotTo(BeZero())
			for k := 0; k < 3; k++ {
				Expect(grad[k]).NotTo(BeZero())
				Expect(grad[k]).To(Equal(-grad[3+k]))
			}
		})

		It("writes cross blocks as exact negations", func() {
			pbc, _ := distance.NewPeriodic(3, []float64{4, 4, 4})
			pot, _ := pairpot.New(interaction.NewLJ(1, 1), pbc)
			x := []float64{0.1, -0.2, 0.3, 1.0, 0.4, 3.5}
			n := len(x)
			grad := make([]float64, n)
			hess := make([]float64, n*n)
			_, err := pot.EnergyGradientHessian(x, grad, hess)
			Expect(err).NotTo(HaveOccurred())
			for k := 0; k < 3; k++ {
				for l := 0; l < 3; l++ {
					same := hess[k*n+l]
					Expect(hess[(3+k)*n+(3+l)]).To(Equal(same))
					Expect(hess[k*n+3+l]).To(Equal(-same))
					Expect(hess[(3+k)*n+l]).To(Equal(-same))
				}
			}
		})

		It("leaves everything zero when particles do not touch", func() {
			cart, _ := distance.NewCartesian(2)
			pot, _ := pairpot.New(interaction.NewHarmonic(1), cart, pairpot.WithRadii([]float64{0.5, 0.5}))
			x := []float64{0, 0, 3, 0}
			grad := []float64{1, 1, 1, 1}
			hess := make([]float64, 16)
			e, err := pot.EnergyGradientHessian(x, grad, hess)
			Expect(err).NotTo(HaveOccurred())
			Expect(e).To(BeZero())
			Expect(grad).To(Equal([]float64{0, 0, 0, 0}))
			Expect(hess).To(Equal(make([]float64, 16)))
		})

		It("handles systems with fewer than two particles", func() {
			cart, _ := distance.NewCartesian(3)
			pot, _ := pairpot.New(interaction.NewLJ(1, 1), cart)
			for _, x := range [][]float64{{}, {1, 2, 3}} {
				grad := make([]float64, len(x))
				e, err := pot.EnergyGradientHessian(x, grad, make([]float64, len(x)*len(x)))
				Expect(err).NotTo(HaveOccurred())
				Expect(e).To(BeZero())
			}
		})
	})

	Describe("many-particle systems", func() {
		It("matches finite differences of the energy", func() {
			for _, s := range systems {
				By(s.name)
				grad := make([]float64, len(s.coords))
				e, err := s.pot.EnergyGradient(s.coords, grad)
				Expect(err).NotTo(HaveOccurred())

				e0, err := s.pot.Energy(s.coords)
				Expect(err).NotTo(HaveOccurred())
				Expect(e).To(BeNumerically("~", e0, 1e-12*math.Max(1, math.Abs(e0))))

				energy := func(x []float64) float64 {
					v, err := s.pot.Energy(x)
					Expect(err).NotTo(HaveOccurred())
					return v
				}
				expectClose(numericalGradient(energy, s.coords, 1e-6), grad, 1e-5)
			}
		})

		It("matches finite differences of the gradient", func() {
			for _, s := range systems {
				By(s.name)
				n := len(s.coords)
				grad := make([]float64, n)
				hess := make([]float64, n*n)
				e, err := s.pot.EnergyGradientHessian(s.coords, grad, hess)
				Expect(err).NotTo(HaveOccurred())

				g0 := make([]float64, n)
				e0, err := s.pot.EnergyGradient(s.coords, g0)
				Expect(err).NotTo(HaveOccurred())
				Expect(e).To(Equal(e0))
				expectClose(g0, grad, 1e-14)

				expectClose(numericalHessian(s.pot, s.coords, 1e-5), hess, 1e-5)
			}
		})

		It("assembles an exactly symmetric Hessian", func() {
			for _, s := range systems {
				By(s.name)
				_, grad, h, err := s.pot.EvaluateDense(s.coords)
				Expect(err).NotTo(HaveOccurred())
				Expect(grad).To(HaveLen(len(s.coords)))
				Expect(mat.Equal(h, h.T())).To(BeTrue())
			}
		})

		It("annihilates rigid translations", func() {
			for _, s := range systems {
				By(s.name)
				n := len(s.coords)
				ndim := s.pot.Dim()
				_, _, h, err := s.pot.EvaluateDense(s.coords)
				Expect(err).NotTo(HaveOccurred())
				scale := mat.Norm(h, math.Inf(1))

				for k := 0; k < ndim; k++ {
					t := make([]float64, n)
					for i := 0; i < n/ndim; i++ {
						t[i*ndim+k] = 1
					}
					var ht mat.VecDense
					ht.MulVec(h, mat.NewVecDense(n, t))
					Expect(mat.Norm(&ht, math.Inf(1))).To(BeNumerically("<", 1e-12*scale))
				}
			}
		})

		It("agrees bit for bit across layouts", func() {
			for _, s := range systems {
				By(s.name)
				n := len(s.coords)
				ndim := s.pot.Dim()
				natoms := n / ndim

				gA := make([]float64, n)
				hA := make([]float64, n*n)
				eA, err := s.pot.EnergyGradientHessian(s.coords, gA, hA)
				Expect(err).NotTo(HaveOccurred())

				soa := s.pot.InLayout(distance.SoA)
				xS, err := distance.ToSoA(s.coords, ndim)
				Expect(err).NotTo(HaveOccurred())
				gS := make([]float64, n)
				hS := make([]float64, n*n)
				eS, err := soa.EnergyGradientHessian(xS, gS, hS)
				Expect(err).NotTo(HaveOccurred())

				Expect(eS).To(Equal(eA))
				want, _ := distance.ToSoA(gA, ndim)
				Expect(gS).To(Equal(want))

				eE, err := soa.Energy(xS)
				Expect(err).NotTo(HaveOccurred())
				e0, _ := s.pot.Energy(s.coords)
				Expect(eE).To(Equal(e0))

				gG := make([]float64, n)
				_, err = soa.EnergyGradient(xS, gG)
				Expect(err).NotTo(HaveOccurred())
				g0 := make([]float64, n)
				_, _ = s.pot.EnergyGradient(s.coords, g0)
				want, _ = distance.ToSoA(g0, ndim)
				Expect(gG).To(Equal(want))

				for i := 0; i < natoms; i++ {
					for k := 0; k < ndim; k++ {
						for j := 0; j < natoms; j++ {
							for l := 0; l < ndim; l++ {
								a := hA[(i*ndim+k)*n+j*ndim+l]
								b := hS[(k*natoms+i)*n+l*natoms+j]
								Expect(b).To(Equal(a))
							}
						}
					}
				}

				nA, _ := s.pot.MaxAtomNorm(s.coords)
				nS, _ := soa.MaxAtomNorm(xS)
				Expect(nS).To(Equal(nA))
			}
		})

		It("accumulates into existing buffers with the Add variants", func() {
			for _, s := range systems {
				By(s.name)
				n := len(s.coords)
				grad := make([]float64, n)
				hess := make([]float64, n*n)
				_, err := s.pot.EnergyGradientHessian(s.coords, grad, hess)
				Expect(err).NotTo(HaveOccurred())

				g2 := make([]float64, n)
				h2 := make([]float64, n*n)
				for i := range g2 {
					g2[i] = 1
				}
				for i := range h2 {
					h2[i] = -2
				}
				_, err = s.pot.AddEnergyGradientHessian(s.coords, g2, h2)
				Expect(err).NotTo(HaveOccurred())

				wantG := make([]float64, n)
				for i := range grad {
					wantG[i] = grad[i] + 1
				}
				wantH := make([]float64, n*n)
				for i := range hess {
					wantH[i] = hess[i] - 2
				}
				expectClose(wantG, g2, 1e-12)
				expectClose(wantH, h2, 1e-12)

				g3 := make([]float64, n)
				for i := range g3 {
					g3[i] = 1
				}
				_, err = s.pot.AddEnergyGradient(s.coords, g3)
				Expect(err).NotTo(HaveOccurred())
				expectClose(wantG, g3, 1e-12)
			}
		})
	})

	Describe("MaxAtomNorm", func() {
		It("returns the largest particle norm", func() {
			cart, _ := distance.NewCartesian(2)
			pot, _ := pairpot.New(interaction.NewLJ(1, 1), cart)
			v, err := pot.MaxAtomNorm([]float64{1, 0, 3, 4, 0, -2})
			Expect(err).NotTo(HaveOccurred())
			Expect(v).To(Equal(5.0))

			v, err = pot.InLayout(distance.SoA).MaxAtomNorm([]float64{1, 3, 0, 0, 4, -2})
			Expect(err).NotTo(HaveOccurred())
			Expect(v).To(Equal(5.0))
		})
	})
})
