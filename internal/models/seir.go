package models

import (
	"fmt"

	"outbreaklab/internal/ode"
)

// Compartment indices within the epidemic state vector.
const (
	CompS    = iota // susceptible
	CompE           // exposed, not yet transmitting
	CompIaUK        // asymptomatic infected, unaware
	CompIaK         // asymptomatic infected, aware (tested)
	CompIsNH        // symptomatic infected, not hospitalized
	CompIsH         // symptomatic infected, hospitalized
	CompR           // recovered
	CompD           // dead

	NumCompartments
)

// CompartmentNames are the short column/display names, in state order.
var CompartmentNames = []string{"S", "E", "Ia_uk", "Ia_k", "Is_nh", "Is_h", "R", "D"}

// CompartmentLabels are human-readable names, in state order.
var CompartmentLabels = []string{
	"Susceptible",
	"Exposed",
	"Unknown Asymptomatic Infected",
	"Known Asymptomatic Infected",
	"Non-Hospitalized Symptomatic Infected",
	"Hospitalized Symptomatic Infected",
	"Recovered",
	"Dead",
}

// FlowEdges lists the compartment pairs with a direct flow between them,
// used by the bubble view to draw the transition graph.
var FlowEdges = [][2]int{
	{CompS, CompE}, {CompS, CompD}, {CompS, CompR},
	{CompE, CompIaUK}, {CompE, CompIsNH},
	{CompIaUK, CompIaK}, {CompIaUK, CompR}, {CompIaUK, CompD},
	{CompIaK, CompR}, {CompIaK, CompD},
	{CompIsNH, CompIsH}, {CompIsNH, CompR}, {CompIsNH, CompD},
	{CompIsH, CompR}, {CompIsH, CompD},
	{CompR, CompD}, {CompR, CompS},
}

// EpidemicParams is the immutable rate bundle for the epidemic model.
// Rates are per day. Contact rates follow the convention beta_<class>:
// S/A for symptomatic/asymptomatic, H/NH/UK/K for the sub-population.
type EpidemicParams struct {
	N float64 // total population at t=0

	BetaSH  float64 // contact/infection rate, hospitalized symptomatic
	BetaSNH float64 // contact/infection rate, non-hospitalized symptomatic
	BetaAUK float64 // contact/infection rate, unknown asymptomatic
	BetaAK  float64 // contact/infection rate, known asymptomatic

	Gamma     float64 // recovery rate, non-hospitalized infecteds
	GammaHosp float64 // recovery rate, hospitalized infecteds

	DeathRateS    float64 // disease death rate, symptomatic non-hospitalized
	DeathRateHosp float64 // disease death rate, hospitalized
	NatDeath      float64 // natural death rate, all living compartments
	NatBirth      float64 // birth rate, scaled by living population

	EToIS float64 // exposed -> symptomatic infected conversion
	EToIA float64 // exposed -> asymptomatic infected conversion

	ReturnRate float64 // waning immunity, recovered -> susceptible

	SocialDistancing float64 // multiplier on community contact rates (1 = none)

	VaccineDay  float64 // day the vaccine is introduced
	VaccineRate float64 // fraction vaccinated per day from VaccineDay on
	VaccineEff  float64 // vaccine efficacy in [0, 1]

	TestGrowth float64 // growth factor of the linearly increasing testing rate
	HospRate   float64 // symptomatic non-hospitalized -> hospitalized

	HealthCapacity float64 // hospitalized caseload the health system can absorb
	OverloadDeath  float64 // death-rate multiplier once capacity is exceeded
	OverloadRecov  float64 // recovery-side multiplier once capacity is exceeded
}

// DefaultEpidemicParams returns the reference outbreak scenario:
// 1000 people, one unknown asymptomatic and one symptomatic case,
// vaccination starting on day 200.
func DefaultEpidemicParams() EpidemicParams {
	return EpidemicParams{
		N:                1000,
		BetaSH:           0.001,
		BetaSNH:          0.1,
		BetaAUK:          0.35,
		BetaAK:           0.1,
		Gamma:            0.04,
		GammaHosp:        1.0 / 25.0,
		DeathRateS:       0.004,
		DeathRateHosp:    0.008,
		NatDeath:         0.0002,
		NatBirth:         0.001,
		EToIS:            0.5,
		EToIA:            0.1,
		ReturnRate:       0.00002,
		SocialDistancing: 1.0,
		VaccineDay:       200,
		VaccineRate:      0.01,
		VaccineEff:       0.98,
		TestGrowth:       1.0,
		HospRate:         0.1,
		HealthCapacity:   150,
		OverloadDeath:    1.5,
		OverloadRecov:    0.7,
	}
}

// Validate rejects parameter bundles that cannot drive an integration.
func (p EpidemicParams) Validate() error {
	if p.N <= 0 {
		return fmt.Errorf("%w: population N must be positive, got %g", ode.ErrParameterBounds, p.N)
	}
	if p.HealthCapacity <= 0 {
		return fmt.Errorf("%w: health capacity must be positive, got %g", ode.ErrParameterBounds, p.HealthCapacity)
	}
	rates := map[string]float64{
		"beta_s_h":       p.BetaSH,
		"beta_s_nh":      p.BetaSNH,
		"beta_a_uk":      p.BetaAUK,
		"beta_a_k":       p.BetaAK,
		"gamma":          p.Gamma,
		"gamma_hosp":     p.GammaHosp,
		"death_rate_s":   p.DeathRateS,
		"death_rate_h":   p.DeathRateHosp,
		"nat_death":      p.NatDeath,
		"nat_birth":      p.NatBirth,
		"e_to_is":        p.EToIS,
		"e_to_ia":        p.EToIA,
		"return_rate":    p.ReturnRate,
		"sd":             p.SocialDistancing,
		"vaccine_day":    p.VaccineDay,
		"vaccine_rate":   p.VaccineRate,
		"vaccine_eff":    p.VaccineEff,
		"test_growth":    p.TestGrowth,
		"hosp_rate":      p.HospRate,
		"overload_death": p.OverloadDeath,
		"overload_recov": p.OverloadRecov,
	}
	for name, v := range rates {
		if v < 0 {
			return fmt.Errorf("%w: %s must be non-negative, got %g", ode.ErrParameterBounds, name, v)
		}
	}
	if p.VaccineEff > 1 {
		return fmt.Errorf("%w: vaccine_eff must be in [0,1], got %g", ode.ErrParameterBounds, p.VaccineEff)
	}
	return nil
}

// SEIR is an eight-compartment epidemic model with testing, hospitalization,
// vaccination onset, waning immunity and a hard health-capacity threshold.
//
// Population is not conserved after t=0: births, natural deaths and
// vaccination are additive flows without exact balancing. That is modeling
// intent, not an accounting bug.
type SEIR struct {
	p EpidemicParams
}

func NewSEIR(p EpidemicParams) (*SEIR, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &SEIR{p: p}, nil
}

func (m *SEIR) StateDim() int          { return NumCompartments }
func (m *SEIR) Params() EpidemicParams { return m.p }

// NewState builds a compartment vector with S computed as N minus all the
// seeded compartments, so the vector sums to exactly N at t=0.
func (m *SEIR) NewState(e, iaUK, iaK, isNH, isH, r, d float64) ode.State {
	s := m.p.N - e - iaUK - iaK - isNH - isH - r - d
	return ode.State{s, e, iaUK, iaK, isNH, isH, r, d}
}

// DefaultState seeds the reference scenario: one unknown asymptomatic case
// and one symptomatic non-hospitalized case.
func (m *SEIR) DefaultState() ode.State {
	return m.NewState(0, 1, 0, 1, 0, 0, 0)
}

// vaccinationRate is a step function: zero before the introduction day,
// the configured rate from that day on. The boundary day vaccinates.
func (m *SEIR) vaccinationRate(t float64) float64 {
	if t < m.p.VaccineDay {
		return 0
	}
	return m.p.VaccineRate
}

// testingRate grows linearly with time, unbounded.
func (m *SEIR) testingRate(t float64) float64 {
	return 0.001 * t * m.p.TestGrowth
}

// capacityEffect returns the (death, recovery) rate multipliers for the
// hospitalized compartment. The threshold is hard: exactly at capacity the
// system still counts as coping, so the comparison is inclusive below.
func (m *SEIR) capacityEffect(isH float64) (death, recovery float64) {
	if isH <= m.p.HealthCapacity {
		return 1, 1
	}
	return m.p.OverloadDeath, m.p.OverloadRecov
}

// Derive computes the instantaneous flow of every compartment. Pure; finite
// outputs for finite non-negative inputs.
func (m *SEIR) Derive(x ode.State, t float64) ode.State {
	p := m.p
	s, e, iaUK, iaK, isNH, isH, r, d :=
		x[CompS], x[CompE], x[CompIaUK], x[CompIaK], x[CompIsNH], x[CompIsH], x[CompR], x[CompD]

	vacc := m.vaccinationRate(t)
	test := m.testingRate(t)
	hcDeath, hcRecov := m.capacityEffect(isH)

	sd := p.SocialDistancing

	// Four contact channels; the hospitalized channel is not reduced by
	// social distancing (care contact happens regardless).
	exposure := (p.BetaSNH*sd*s*isNH + p.BetaSH*s*isH + p.BetaAUK*sd*s*iaUK + p.BetaAK*sd*s*iaK) / p.N

	dS := -exposure - p.NatDeath*s + p.NatBirth*(p.N-d) + p.ReturnRate*r - vacc*p.VaccineEff*s
	dE := exposure - p.EToIA*e - p.EToIS*e - p.NatDeath*e
	dIaUK := p.EToIA*e - p.NatDeath*iaUK - p.Gamma*iaUK - test*iaUK
	dIaK := test*iaUK - p.NatDeath*iaK - p.Gamma*iaK
	dIsNH := p.EToIS*e - p.NatDeath*isNH - p.DeathRateS*isNH - p.Gamma*isNH - p.HospRate*isNH
	dIsH := p.HospRate*isNH - hcDeath*p.NatDeath*isH - hcRecov*p.DeathRateHosp*isH - p.GammaHosp*isH
	dR := p.Gamma*(iaUK+iaK+isNH) + p.GammaHosp*isH - p.NatDeath*r - p.ReturnRate*r + vacc*p.VaccineEff*s
	dD := p.NatDeath*(s+e+iaUK+iaK+isNH+isH+r) + p.DeathRateS*isNH + p.DeathRateHosp*isH

	return ode.State{dS, dE, dIaUK, dIaK, dIsNH, dIsH, dR, dD}
}

// GetParams implements ode.Configurable with the rates worth tuning live.
func (m *SEIR) GetParams() map[string]float64 {
	return map[string]float64{
		"beta_a_uk":   m.p.BetaAUK,
		"beta_s_nh":   m.p.BetaSNH,
		"gamma":       m.p.Gamma,
		"sd":          m.p.SocialDistancing,
		"hosp_rate":   m.p.HospRate,
		"capacity":    m.p.HealthCapacity,
		"vaccine_day": m.p.VaccineDay,
		"test_growth": m.p.TestGrowth,
	}
}

// SetParam implements ode.Configurable.
func (m *SEIR) SetParam(name string, value float64) {
	switch name {
	case "beta_a_uk":
		m.p.BetaAUK = value
	case "beta_s_nh":
		m.p.BetaSNH = value
	case "gamma":
		m.p.Gamma = value
	case "sd":
		m.p.SocialDistancing = value
	case "hosp_rate":
		m.p.HospRate = value
	case "capacity":
		m.p.HealthCapacity = value
	case "vaccine_day":
		m.p.VaccineDay = value
	case "test_growth":
		m.p.TestGrowth = value
	}
}
