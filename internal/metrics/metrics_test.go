package metrics

import (
	"testing"

	"outbreaklab/internal/ode"
)

func TestPeakTracker(t *testing.T) {
	p := NewPeakTracker("peak_hospitalized", 1)

	p.Observe(ode.State{0, 10}, 0)
	p.Observe(ode.State{0, 80}, 5)
	p.Observe(ode.State{0, 30}, 10)

	if p.Value() != 80 {
		t.Errorf("peak = %f, want 80", p.Value())
	}
	if p.PeakTime() != 5 {
		t.Errorf("peak time = %f, want 5", p.PeakTime())
	}

	p.Reset()
	if p.Value() != 0 || p.PeakTime() != 0 {
		t.Errorf("reset did not clear: %f at %f", p.Value(), p.PeakTime())
	}

	// A trajectory of negatives still reports its (negative) maximum.
	p.Observe(ode.State{0, -5}, 1)
	p.Observe(ode.State{0, -2}, 2)
	if p.Value() != -2 {
		t.Errorf("negative peak = %f, want -2", p.Value())
	}
}

func TestFinalValue(t *testing.T) {
	f := NewFinalValue("total_deaths", 2)

	f.Observe(ode.State{0, 0, 1}, 0)
	f.Observe(ode.State{0, 0, 7}, 1)
	if f.Value() != 7 {
		t.Errorf("final = %f, want 7", f.Value())
	}

	// Short states are ignored rather than indexed out of range.
	f.Observe(ode.State{0}, 2)
	if f.Value() != 7 {
		t.Errorf("short state clobbered value: %f", f.Value())
	}
}

func TestAttackRate(t *testing.T) {
	a := NewAttackRate(0)

	a.Observe(ode.State{1000, 0}, 0)
	a.Observe(ode.State{400, 0}, 100)
	if got := a.Value(); got != 0.6 {
		t.Errorf("attack rate = %f, want 0.6", got)
	}

	a.Reset()
	if a.Value() != 0 {
		t.Errorf("reset attack rate = %f, want 0", a.Value())
	}
}
