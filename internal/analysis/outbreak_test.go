package analysis

import (
	"math"
	"testing"
)

// row builds an epidemic state with only the fields the summary reads.
func row(s, iaUK, iaK, isNH, isH, d float64) []float64 {
	return []float64{s, 0, iaUK, iaK, isNH, isH, 0, d}
}

func TestSummarize(t *testing.T) {
	states := [][]float64{
		row(998, 1, 0, 1, 0, 0),
		row(900, 30, 10, 40, 20, 2),
		row(700, 60, 30, 80, 160, 10), // hospitalized peaks over capacity
		row(600, 20, 15, 30, 120, 20),
		row(550, 5, 5, 10, 40, 25),
	}
	times := []float64{0, 50, 100, 150, 200}

	sum := Summarize(states, times, 150)

	if sum.PeakInfected != 330 || sum.PeakInfectedDay != 100 {
		t.Errorf("peak infected = %f on day %f, want 330 on day 100", sum.PeakInfected, sum.PeakInfectedDay)
	}
	if sum.PeakHospitalized != 160 || sum.PeakHospitalizedDay != 100 {
		t.Errorf("peak hospitalized = %f on day %f, want 160 on day 100", sum.PeakHospitalized, sum.PeakHospitalizedDay)
	}
	if sum.DaysOverCapacity != 50 {
		t.Errorf("days over capacity = %f, want 50", sum.DaysOverCapacity)
	}
	if sum.TotalDeaths != 25 {
		t.Errorf("total deaths = %f, want 25", sum.TotalDeaths)
	}
	if sum.FinalSusceptible != 550 {
		t.Errorf("final susceptible = %f, want 550", sum.FinalSusceptible)
	}
	if math.Abs(sum.AttackRate-(1-550.0/998.0)) > 1e-12 {
		t.Errorf("attack rate = %f", sum.AttackRate)
	}
}

func TestSummarizeEmptyAndRagged(t *testing.T) {
	sum := Summarize(nil, nil, 150)
	if sum.PeakInfected != 0 || sum.AttackRate != 0 {
		t.Errorf("empty trajectory should summarize to zeros: %+v", sum)
	}

	// Short rows are skipped, not fatal.
	states := [][]float64{
		{1, 2, 3},
		row(998, 1, 0, 1, 0, 0),
	}
	sum = Summarize(states, []float64{0, 1}, 150)
	if sum.FinalSusceptible != 998 {
		t.Errorf("ragged input: final susceptible = %f, want 998", sum.FinalSusceptible)
	}
}
