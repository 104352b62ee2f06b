package pairpot_test

import (
	"context"
	"math"
	"math/rand"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/pairpot/internal/distance"
	"github.com/san-kum/pairpot/internal/interaction"
	"github.com/san-kum/pairpot/internal/pairpot"
)

var _ = Describe("Parallel", func() {
	var (
		pot *pairpot.Potential
		x   []float64
	)

	BeforeEach(func() {
		pbc, err := distance.NewPeriodic(2, []float64{8.96, 8.96})
		Expect(err).NotTo(HaveOccurred())
		pot, err = pairpot.New(interaction.NewLJ(1, 1), pbc)
		Expect(err).NotTo(HaveOccurred())
		x = jitteredLattice(rand.New(rand.NewSource(3)), 64, 2, 1.12, 0.05)
	})

	It("matches serial evaluation", func() {
		want := make([]float64, len(x))
		eWant, err := pot.EnergyGradient(x, want)
		Expect(err).NotTo(HaveOccurred())

		for _, workers := range []int{2, 3, 4, 7} {
			par := pairpot.NewParallel(pot, workers)
			e, err := par.Energy(context.Background(), x)
			Expect(err).NotTo(HaveOccurred())
			Expect(e).To(BeNumerically("~", eWant, 1e-12*math.Abs(eWant)))

			grad := make([]float64, len(x))
			grad[0] = 100
			e, err = par.EnergyGradient(context.Background(), x, grad)
			Expect(err).NotTo(HaveOccurred())
			Expect(e).To(BeNumerically("~", eWant, 1e-12*math.Abs(eWant)))
			expectClose(want, grad, 1e-12)
		}
	})

	It("is reproducible between calls", func() {
		par := pairpot.NewParallel(pot, 4)
		g1 := make([]float64, len(x))
		g2 := make([]float64, len(x))
		e1, err := par.EnergyGradient(context.Background(), x, g1)
		Expect(err).NotTo(HaveOccurred())
		e2, err := par.EnergyGradient(context.Background(), x, g2)
		Expect(err).NotTo(HaveOccurred())
		Expect(e2).To(Equal(e1))
		Expect(g2).To(Equal(g1))
	})

	It("falls back to serial evaluation for one worker", func() {
		par := pairpot.NewParallel(pot, 1)
		Expect(par.Workers()).To(Equal(1))

		want := make([]float64, len(x))
		eWant, _ := pot.EnergyGradient(x, want)
		grad := make([]float64, len(x))
		e, err := par.EnergyGradient(context.Background(), x, grad)
		Expect(err).NotTo(HaveOccurred())
		Expect(e).To(Equal(eWant))
		Expect(grad).To(Equal(want))
	})

	It("defaults to one worker per CPU", func() {
		Expect(pairpot.NewParallel(pot, 0).Workers()).To(BeNumerically(">=", 1))
	})

	It("supports dimension-major coordinates", func() {
		xS, err := distance.ToSoA(x, 2)
		Expect(err).NotTo(HaveOccurred())
		want := make([]float64, len(x))
		_, _ = pot.EnergyGradient(x, want)
		wantS, _ := distance.ToSoA(want, 2)

		grad := make([]float64, len(x))
		_, err = pairpot.NewParallel(pot.InLayout(distance.SoA), 4).EnergyGradient(context.Background(), xS, grad)
		Expect(err).NotTo(HaveOccurred())
		expectClose(wantS, grad, 1e-12)
	})

	It("stops on a cancelled context", func() {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		par := pairpot.NewParallel(pot, 4)
		_, err := par.Energy(ctx, x)
		Expect(err).To(MatchError(context.Canceled))
		_, err = par.EnergyGradient(ctx, x, make([]float64, len(x)))
		Expect(err).To(MatchError(context.Canceled))
	})

	It("leaves the gradient untouched when cancelled", func() {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		for _, workers := range []int{1, 4} {
			par := pairpot.NewParallel(pot, workers)
			grad := make([]float64, len(x))
			for k := range grad {
				grad[k] = 7
			}
			_, err := par.EnergyGradient(ctx, x, grad)
			Expect(err).To(MatchError(context.Canceled))
			for _, v := range grad {
				Expect(v).To(Equal(7.0))
			}
			_, err = par.Energy(ctx, x)
			Expect(err).To(MatchError(context.Canceled))
		}
	})

	It("validates sizes like the serial engine", func() {
		par := pairpot.NewParallel(pot, 4)
		_, err := par.Energy(context.Background(), x[:5])
		Expect(err).To(MatchError(pairpot.ErrDimensionMismatch))
		_, err = par.EnergyGradient(context.Background(), x, make([]float64, 3))
		Expect(err).To(MatchError(pairpot.ErrGradientSize))
	})
})
