package models

import (
	"context"
	"math"
	"testing"

	"outbreaklab/internal/ode"
)

// rk4 is a local stepper so model tests do not depend on the integrators
// package (which would not be a cycle, but keeps the fixture obvious).
type rk4 struct{}

func (rk4) Step(sys ode.System, x ode.State, t, dt float64) ode.State {
	n := len(x)
	k1 := sys.Derive(x, t)
	mid := make(ode.State, n)
	for i := range x {
		mid[i] = x[i] + dt*0.5*k1[i]
	}
	k2 := sys.Derive(mid, t+dt*0.5)
	for i := range x {
		mid[i] = x[i] + dt*0.5*k2[i]
	}
	k3 := sys.Derive(mid, t+dt*0.5)
	for i := range x {
		mid[i] = x[i] + dt*k3[i]
	}
	k4 := sys.Derive(mid, t+dt)
	out := make(ode.State, n)
	for i := range x {
		out[i] = x[i] + dt/6*(k1[i]+2*k2[i]+2*k3[i]+k4[i])
	}
	return out
}

func mustSEIR(t *testing.T, p EpidemicParams) *SEIR {
	t.Helper()
	m, err := NewSEIR(p)
	if err != nil {
		t.Fatalf("NewSEIR: %v", err)
	}
	return m
}

func TestInitialStateSumsToPopulation(t *testing.T) {
	m := mustSEIR(t, DefaultEpidemicParams())

	x0 := m.DefaultState()
	sum := 0.0
	for _, v := range x0 {
		sum += v
	}

	if math.Abs(sum-m.Params().N) > 1e-9 {
		t.Errorf("initial state sums to %f, want %f", sum, m.Params().N)
	}
	if x0[CompIsNH] != 1 || x0[CompIaUK] != 1 {
		t.Errorf("reference scenario seeds one symptomatic and one asymptomatic case, got %v", x0)
	}
}

func TestDerivativeFinite(t *testing.T) {
	m := mustSEIR(t, DefaultEpidemicParams())

	states := []ode.State{
		m.DefaultState(),
		{0, 0, 0, 0, 0, 0, 0, 0},
		{100, 50, 200, 30, 80, 300, 200, 40}, // over capacity
	}
	times := []float64{0, 1, 199, 200, 365, 10000}

	for _, x := range states {
		for _, tt := range times {
			dx := m.Derive(x, tt)
			if len(dx) != NumCompartments {
				t.Fatalf("derivative has %d components, want %d", len(dx), NumCompartments)
			}
			if !dx.IsValid() {
				t.Errorf("derivative not finite at t=%f for state %v: %v", tt, x, dx)
			}
		}
	}
}

func TestVaccinationRateStep(t *testing.T) {
	p := DefaultEpidemicParams()
	m := mustSEIR(t, p)

	cases := []struct {
		t    float64
		want float64
	}{
		{p.VaccineDay - 1, 0},
		{p.VaccineDay, p.VaccineRate},
		{p.VaccineDay + 1, p.VaccineRate},
	}
	for _, c := range cases {
		if got := m.vaccinationRate(c.t); got != c.want {
			t.Errorf("vaccinationRate(%f) = %f, want %f", c.t, got, c.want)
		}
	}
}

func TestTestingRateLinear(t *testing.T) {
	m := mustSEIR(t, DefaultEpidemicParams())

	if got := m.testingRate(0); got != 0 {
		t.Errorf("testingRate(0) = %f, want 0", got)
	}
	if got := m.testingRate(100); math.Abs(got-0.1) > 1e-12 {
		t.Errorf("testingRate(100) = %f, want 0.1", got)
	}
	// Doubling the growth factor doubles the rate.
	p := DefaultEpidemicParams()
	p.TestGrowth = 2
	m2 := mustSEIR(t, p)
	if got := m2.testingRate(100); math.Abs(got-0.2) > 1e-12 {
		t.Errorf("testingRate(100) with growth 2 = %f, want 0.2", got)
	}
}

// The capacity threshold is hard and the boundary is inclusive below:
// exactly at capacity the system still copes.
func TestCapacityEffectConvention(t *testing.T) {
	p := DefaultEpidemicParams()
	m := mustSEIR(t, p)

	d, r := m.capacityEffect(p.HealthCapacity - 1)
	if d != 1 || r != 1 {
		t.Errorf("below capacity: got (%f, %f), want (1, 1)", d, r)
	}

	d, r = m.capacityEffect(p.HealthCapacity)
	if d != 1 || r != 1 {
		t.Errorf("at capacity: got (%f, %f), want (1, 1)", d, r)
	}

	d, r = m.capacityEffect(p.HealthCapacity + 1)
	if d != p.OverloadDeath || r != p.OverloadRecov {
		t.Errorf("above capacity: got (%f, %f), want (%f, %f)", d, r, p.OverloadDeath, p.OverloadRecov)
	}
}

// With transmission shut off and nobody exposed, no compartment upstream of
// hospitalization can grow: Exposed stays empty, the unknown-asymptomatic and
// symptomatic compartments only drain, and the total infected population is
// non-increasing. Is_h alone may transiently rise via hospitalization inflow.
func TestNoTransmissionMonotonic(t *testing.T) {
	p := DefaultEpidemicParams()
	p.BetaSH, p.BetaSNH, p.BetaAUK, p.BetaAK = 0, 0, 0, 0
	m := mustSEIR(t, p)

	x0 := m.NewState(0, 5, 2, 5, 1, 0, 0)
	sim := ode.New(m, rk4{})
	result, err := sim.RunSampled(context.Background(), x0, 100, 101)
	if err != nil {
		t.Fatalf("integration failed: %v", err)
	}

	const tol = 1e-9
	prevInfected := math.Inf(1)
	for i, x := range result.States {
		if x[CompE] > tol {
			t.Fatalf("exposed grew to %g at sample %d with no transmission", x[CompE], i)
		}
		if i > 0 {
			if x[CompIaUK] > result.States[i-1][CompIaUK]+tol {
				t.Fatalf("unknown asymptomatic grew at sample %d", i)
			}
			if x[CompIsNH] > result.States[i-1][CompIsNH]+tol {
				t.Fatalf("symptomatic non-hospitalized grew at sample %d", i)
			}
		}
		infected := x[CompIaUK] + x[CompIaK] + x[CompIsNH] + x[CompIsH]
		if infected > prevInfected+tol {
			t.Fatalf("total infected grew at sample %d: %g -> %g", i, prevInfected, infected)
		}
		prevInfected = infected
	}
}

// Reference scenario over a year of daily samples: the epidemic spreads, so
// susceptibles end below where they started and deaths never decrease.
func TestReferenceOutbreak(t *testing.T) {
	m := mustSEIR(t, DefaultEpidemicParams())

	sim := ode.New(m, rk4{})
	result, err := sim.RunSampled(context.Background(), m.DefaultState(), 365, 365)
	if err != nil {
		t.Fatalf("integration failed: %v", err)
	}

	first := result.States[0]
	last := result.States[len(result.States)-1]

	if last[CompS] >= first[CompS] {
		t.Errorf("susceptibles did not decline: day0=%f day365=%f", first[CompS], last[CompS])
	}

	for i := 1; i < len(result.States); i++ {
		if result.States[i][CompD] < result.States[i-1][CompD]-1e-9 {
			t.Fatalf("dead count decreased at sample %d", i)
		}
	}
}

func TestConfigurableRoundTrip(t *testing.T) {
	m := mustSEIR(t, DefaultEpidemicParams())

	m.SetParam("sd", 0.5)
	if got := m.GetParams()["sd"]; got != 0.5 {
		t.Errorf("SetParam(sd) did not stick: %f", got)
	}
	if m.Params().SocialDistancing != 0.5 {
		t.Errorf("params bundle not updated: %f", m.Params().SocialDistancing)
	}
}
