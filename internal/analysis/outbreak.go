// Package analysis provides post-run trajectory analysis.
package analysis

import "outbreaklab/internal/models"

// Summary condenses an epidemic trajectory into headline numbers.
type Summary struct {
	PeakInfected        float64
	PeakInfectedDay     float64
	PeakHospitalized    float64
	PeakHospitalizedDay float64
	DaysOverCapacity    float64
	TotalDeaths         float64
	FinalSusceptible    float64
	AttackRate          float64
}

// Summarize walks a finished epidemic trajectory. States shorter than the
// epidemic vector are skipped rather than panicking on ragged input.
func Summarize(states [][]float64, times []float64, capacity float64) Summary {
	var sum Summary
	if len(states) == 0 {
		return sum
	}

	first := true
	var s0 float64
	for i, x := range states {
		if len(x) < models.NumCompartments || i >= len(times) {
			continue
		}
		t := times[i]

		infected := 0.0
		for j := models.CompIaUK; j <= models.CompIsH; j++ {
			infected += x[j]
		}
		if infected > sum.PeakInfected {
			sum.PeakInfected = infected
			sum.PeakInfectedDay = t
		}

		hosp := x[models.CompIsH]
		if hosp > sum.PeakHospitalized {
			sum.PeakHospitalized = hosp
			sum.PeakHospitalizedDay = t
		}
		if hosp > capacity && i > 0 {
			sum.DaysOverCapacity += t - times[i-1]
		}

		if first {
			s0 = x[models.CompS]
			first = false
		}
		sum.FinalSusceptible = x[models.CompS]
		sum.TotalDeaths = x[models.CompD]
	}

	if s0 > 0 {
		sum.AttackRate = 1 - sum.FinalSusceptible/s0
	}
	return sum
}
