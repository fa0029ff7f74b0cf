package metrics

import "outbreaklab/internal/ode"

// AttackRate measures the fraction of the initially susceptible population
// that left the susceptible compartment by the end of the run.
type AttackRate struct {
	index   int
	initial float64
	last    float64
	seen    bool
}

func NewAttackRate(susceptibleIndex int) *AttackRate {
	return &AttackRate{index: susceptibleIndex}
}

func (a *AttackRate) Name() string { return "attack_rate" }

func (a *AttackRate) Observe(x ode.State, t float64) {
	if a.index >= len(x) {
		return
	}
	if !a.seen {
		a.initial = x[a.index]
		a.seen = true
	}
	a.last = x[a.index]
}

func (a *AttackRate) Value() float64 {
	if !a.seen || a.initial == 0 {
		return 0
	}
	return 1 - a.last/a.initial
}

func (a *AttackRate) Reset() {
	a.initial = 0
	a.last = 0
	a.seen = false
}
