package integrators

import (
	"math"
	"testing"

	"outbreaklab/internal/ode"
)

type harmonicOscillator struct{}

func (h *harmonicOscillator) Derive(x ode.State, t float64) ode.State {
	return ode.State{x[1], -x[0]}
}

func (h *harmonicOscillator) StateDim() int { return 2 }

func (h *harmonicOscillator) energy(x ode.State) float64 {
	return 0.5 * (x[0]*x[0] + x[1]*x[1])
}

func TestRK4Accuracy(t *testing.T) {
	dyn := &harmonicOscillator{}
	integ := NewRK4()

	x := ode.State{1.0, 0.0}
	dt := 0.01
	steps := 100

	for i := 0; i < steps; i++ {
		x = integ.Step(dyn, x, float64(i)*dt, dt)
	}

	expectedX := math.Cos(float64(steps) * dt)
	expectedV := -math.Sin(float64(steps) * dt)

	if math.Abs(x[0]-expectedX) > 1e-4 {
		t.Errorf("position error too large: got %.6f, expected %.6f", x[0], expectedX)
	}

	if math.Abs(x[1]-expectedV) > 1e-4 {
		t.Errorf("velocity error too large: got %.6f, expected %.6f", x[1], expectedV)
	}
}

func TestEulerConvergesToRK4(t *testing.T) {
	dyn := &harmonicOscillator{}
	euler := NewEuler()
	rk4 := NewRK4()

	// With a fine enough step Euler should land near the RK4 answer.
	dt := 0.0001
	steps := 10000

	xe := ode.State{1.0, 0.0}
	xr := ode.State{1.0, 0.0}
	for i := 0; i < steps; i++ {
		t := float64(i) * dt
		xe = euler.Step(dyn, xe, t, dt)
		xr = rk4.Step(dyn, xr, t, dt)
	}

	if math.Abs(xe[0]-xr[0]) > 1e-3 {
		t.Errorf("euler diverged from rk4: %.6f vs %.6f", xe[0], xr[0])
	}
}
