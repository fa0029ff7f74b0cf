// Package models provides the ODE systems simulated by this repo.
//
// Each model implements the [ode.System] interface, defining the
// differential equations governing its evolution:
//
//   - [SEIR]: eight-compartment epidemic model with testing,
//     hospitalization, vaccination onset and a health-capacity threshold
//   - [Kinetics]: sequential A -> B -> C reaction kinetics
//
// Both models implement [ode.Configurable] for runtime parameter tuning
// from the live dashboard.
package models
