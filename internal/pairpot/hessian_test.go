package pairpot_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/pairpot/internal/distance"
	"github.com/san-kum/pairpot/internal/interaction"
	"github.com/san-kum/pairpot/internal/pairpot"
)

var _ = Describe("Hessian helpers", func() {
	It("diagonalizes a compressed spring", func() {
		line, err := distance.NewCartesian(1)
		Expect(err).NotTo(HaveOccurred())
		pot, err := pairpot.New(interaction.NewHarmonic(2), line, pairpot.WithRadii([]float64{0.5, 0.5}))
		Expect(err).NotTo(HaveOccurred())

		x := []float64{0, 0.5}
		grad := make([]float64, 2)
		hess := make([]float64, 4)
		_, err = pot.EnergyGradientHessian(x, grad, hess)
		Expect(err).NotTo(HaveOccurred())
		Expect(hess).To(Equal([]float64{2, -2, -2, 2}))

		d, err := pairpot.HessianDense(hess)
		Expect(err).NotTo(HaveOccurred())
		Expect(d.At(0, 1)).To(Equal(-2.0))

		vals, err := pairpot.HessianEigenvalues(hess)
		Expect(err).NotTo(HaveOccurred())
		Expect(vals).To(HaveLen(2))
		Expect(vals[0]).To(BeNumerically("~", 0, 1e-12))
		Expect(vals[1]).To(BeNumerically("~", 4, 1e-12))
		Expect(hess).To(Equal([]float64{2, -2, -2, 2}))
	})

	It("rejects buffers that are not square", func() {
		_, err := pairpot.HessianDense(make([]float64, 5))
		Expect(err).To(MatchError(pairpot.ErrHessianSize))
		_, err = pairpot.HessianEigenvalues(nil)
		Expect(err).To(MatchError(pairpot.ErrHessianSize))
	})
})
