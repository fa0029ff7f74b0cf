// Package experiment wires a scenario config into a runnable simulation.
package experiment

import (
	"context"
	"fmt"

	"outbreaklab/internal/models"
	"outbreaklab/internal/ode"
	"outbreaklab/internal/scenario"
)

// Experiment is one fully assembled simulation: system, initial state,
// integrator and output grid.
type Experiment struct {
	Model          string
	IntegratorName string
	Sys            ode.System
	X0             ode.State
	Horizon        float64
	Samples        int

	sim *ode.Simulator
}

// New assembles an experiment from a scenario config. integratorName
// overrides the config's integrator when non-empty.
func New(cfg *scenario.Config, integratorName string) (*Experiment, error) {
	reg := NewRegistry()

	if integratorName == "" {
		integratorName = cfg.Integrator
	}

	sys, x0, err := reg.GetModel(cfg.Model, cfg)
	if err != nil {
		return nil, err
	}

	integ, err := reg.GetIntegrator(integratorName)
	if err != nil {
		return nil, err
	}

	horizon, samples := cfg.Horizon, cfg.Samples
	if cfg.Model == "kinetics" {
		horizon, samples = cfg.Kinetics.Horizon, cfg.Kinetics.Samples
	}

	e := &Experiment{
		Model:          cfg.Model,
		IntegratorName: integratorName,
		Sys:            sys,
		X0:             x0,
		Horizon:        horizon,
		Samples:        samples,
		sim:            ode.New(sys, integ),
	}

	for _, m := range reg.DefaultMetrics(cfg.Model) {
		e.sim.AddMetric(m)
	}

	return e, nil
}

// Run integrates over the experiment's sampling grid.
func (e *Experiment) Run(ctx context.Context) (*ode.Result, error) {
	return e.sim.RunSampled(ctx, e.X0, e.Horizon, e.Samples)
}

// RunAdaptive integrates with adaptive step-size control, recording every
// accepted step instead of a fixed sampling grid.
func (e *Experiment) RunAdaptive(ctx context.Context, tolerance float64) (*ode.Result, error) {
	cfg := ode.DefaultConfig()
	cfg.Duration = e.Horizon
	cfg.Adaptive = true
	cfg.Tolerance = tolerance
	return e.sim.Run(ctx, e.X0, cfg)
}

// Columns names the state components for persistence and display.
func (e *Experiment) Columns() []string {
	switch e.Model {
	case "epidemic":
		return models.CompartmentNames
	case "kinetics":
		return models.SpeciesNames
	default:
		cols := make([]string, len(e.X0))
		for i := range cols {
			cols[i] = fmt.Sprintf("x%d", i)
		}
		return cols
	}
}
