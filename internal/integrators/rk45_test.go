package integrators

import (
	"math"
	"testing"

	"outbreaklab/internal/ode"
)

func TestRK45_Step(t *testing.T) {
	integrator := NewRK45()
	dyn := &harmonicOscillator{}

	x := ode.State{1.0, 0.0}
	dt := 0.01

	for i := 0; i < 1000; i++ {
		x = integrator.Step(dyn, x, float64(i)*dt, dt)
	}

	if !x.IsValid() {
		t.Error("RK45 produced invalid state")
	}
}

func TestRK45_EnergyConservation(t *testing.T) {
	integrator := NewRK45()
	dyn := &harmonicOscillator{}
	x0 := ode.State{1.0, 0.0}

	initialEnergy := dyn.energy(x0)
	x := x0.Clone()
	dt := 0.01

	for i := 0; i < 10000; i++ {
		x = integrator.Step(dyn, x, float64(i)*dt, dt)
	}

	finalEnergy := dyn.energy(x)
	drift := math.Abs(finalEnergy-initialEnergy) / initialEnergy

	if drift > 1e-6 {
		t.Errorf("RK45 energy drift too high: %e", drift)
	}
}

func TestRK45_SuggestsSmallerStepOnError(t *testing.T) {
	integrator := NewRK45()
	dyn := &harmonicOscillator{}

	// A huge step with a tight tolerance must be rejected via a shrink.
	_, dtNew, err := integrator.StepAdaptive(dyn, ode.State{1.0, 0.0}, 0, 1.0, 1e-12)
	if err != nil {
		t.Fatalf("StepAdaptive returned error: %v", err)
	}
	if dtNew >= 1.0 {
		t.Errorf("expected suggested step below 1.0, got %f", dtNew)
	}
}
