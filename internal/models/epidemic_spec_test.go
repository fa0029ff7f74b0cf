package models_test

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"outbreaklab/internal/integrators"
	"outbreaklab/internal/models"
	"outbreaklab/internal/ode"
)

var _ = Describe("Epidemic model", func() {
	Describe("parameter validation", func() {
		It("rejects a negative recovery rate", func() {
			p := models.DefaultEpidemicParams()
			p.Gamma = -0.1
			_, err := models.NewSEIR(p)
			Expect(err).To(MatchError(ode.ErrParameterBounds))
		})

		It("rejects a zero health capacity", func() {
			p := models.DefaultEpidemicParams()
			p.HealthCapacity = 0
			_, err := models.NewSEIR(p)
			Expect(err).To(MatchError(ode.ErrParameterBounds))
		})

		It("rejects a zero population", func() {
			p := models.DefaultEpidemicParams()
			p.N = 0
			_, err := models.NewSEIR(p)
			Expect(err).To(MatchError(ode.ErrParameterBounds))
		})

		It("rejects an efficacy above one", func() {
			p := models.DefaultEpidemicParams()
			p.VaccineEff = 1.5
			_, err := models.NewSEIR(p)
			Expect(err).To(MatchError(ode.ErrParameterBounds))
		})

		It("accepts the reference scenario", func() {
			_, err := models.NewSEIR(models.DefaultEpidemicParams())
			Expect(err).NotTo(HaveOccurred())
		})
	})

	Describe("a year of the reference outbreak", func() {
		var result *ode.Result
		var p models.EpidemicParams

		BeforeEach(func() {
			p = models.DefaultEpidemicParams()
			m, err := models.NewSEIR(p)
			Expect(err).NotTo(HaveOccurred())

			sim := ode.New(m, integrators.NewRK4())
			result, err = sim.RunSampled(context.Background(), m.DefaultState(), 365, 365)
			Expect(err).NotTo(HaveOccurred())
			Expect(result.States).To(HaveLen(365))
		})

		It("infects a meaningful but partial share of the population", func() {
			last := result.States[len(result.States)-1]
			attack := 1 - last[models.CompS]/p.N
			Expect(attack).To(BeNumerically(">", 0))
			Expect(attack).To(BeNumerically("<", 1))
		})

		It("accumulates deaths", func() {
			last := result.States[len(result.States)-1]
			Expect(last[models.CompD]).To(BeNumerically(">", 0))
		})

		It("does not hold the population exactly constant", func() {
			last := result.States[len(result.States)-1]
			sum := 0.0
			for _, v := range last {
				sum += v
			}
			// Births, vaccination and the death bookkeeping are additive
			// flows, so the tally drifts away from N over a year.
			Expect(sum).NotTo(BeNumerically("~", p.N, 1))
		})
	})
})
