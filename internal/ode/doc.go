// Package ode provides core primitives for simulating systems of ordinary
// differential equations.
//
// The package defines the fundamental interfaces and types:
//
//   - [State]: vector representing system state
//   - [System]: interface for ODE systems (dX/dt = f(X, t))
//   - [Integrator]: numerical stepper interface
//   - [Simulator]: orchestrates simulation runs
//
// # Example
//
//	sys, _ := models.NewSEIR(models.DefaultEpidemicParams())
//	integ := integrators.NewRK4()
//	sim := ode.New(sys, integ)
//	result, _ := sim.RunSampled(ctx, sys.DefaultState(), 365, 365)
//
// # Thread Safety
//
// Simulator instances are NOT thread-safe; create one per goroutine.
package ode
