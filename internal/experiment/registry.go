package experiment

import (
	"fmt"

	"outbreaklab/internal/integrators"
	"outbreaklab/internal/metrics"
	"outbreaklab/internal/models"
	"outbreaklab/internal/ode"
	"outbreaklab/internal/scenario"
)

type Registry struct {
	models      map[string]func(*scenario.Config) (ode.System, ode.State, error)
	integrators map[string]func() ode.Integrator
}

func NewRegistry() *Registry {
	r := &Registry{
		models:      make(map[string]func(*scenario.Config) (ode.System, ode.State, error)),
		integrators: make(map[string]func() ode.Integrator),
	}

	r.models["epidemic"] = func(cfg *scenario.Config) (ode.System, ode.State, error) {
		m, err := models.NewSEIR(cfg.EpidemicParams())
		if err != nil {
			return nil, nil, err
		}
		e := cfg.Epidemic
		x0 := m.NewState(e.InitExposed, e.InitAsympUnknown, e.InitAsympKnown,
			e.InitSymptomatic, e.InitHospitalized, e.InitRecovered, e.InitDead)
		return m, x0, nil
	}
	r.models["kinetics"] = func(cfg *scenario.Config) (ode.System, ode.State, error) {
		k := models.NewKinetics()
		k.SetParam("k_ab", cfg.Kinetics.KAB)
		k.SetParam("k_bc", cfg.Kinetics.KBC)
		k.SetParam("order_ab", cfg.Kinetics.OrderAB)
		k.SetParam("order_bc", cfg.Kinetics.OrderBC)
		return k, ode.State{cfg.Kinetics.InitA, 0, 0}, nil
	}

	r.integrators["euler"] = func() ode.Integrator { return integrators.NewEuler() }
	r.integrators["rk4"] = func() ode.Integrator { return integrators.NewRK4() }
	r.integrators["rk45"] = func() ode.Integrator { return integrators.NewRK45() }

	return r
}

func (r *Registry) GetModel(name string, cfg *scenario.Config) (ode.System, ode.State, error) {
	fn, ok := r.models[name]
	if !ok {
		return nil, nil, fmt.Errorf("unknown model: %s", name)
	}
	return fn(cfg)
}

func (r *Registry) GetIntegrator(name string) (ode.Integrator, error) {
	fn, ok := r.integrators[name]
	if !ok {
		return nil, fmt.Errorf("unknown integrator: %s", name)
	}
	return fn(), nil
}

func (r *Registry) ListModels() []string {
	names := make([]string, 0, len(r.models))
	for name := range r.models {
		names = append(names, name)
	}
	return names
}

// DefaultMetrics returns the run metrics worth tracking for a model.
func (r *Registry) DefaultMetrics(model string) []ode.Metric {
	switch model {
	case "epidemic":
		return []ode.Metric{
			metrics.NewPeakTracker("peak_hospitalized", models.CompIsH),
			metrics.NewPeakTracker("peak_exposed", models.CompE),
			metrics.NewFinalValue("total_deaths", models.CompD),
			metrics.NewAttackRate(models.CompS),
		}
	case "kinetics":
		return []ode.Metric{
			metrics.NewPeakTracker("peak_b", 1),
			metrics.NewFinalValue("final_c", 2),
		}
	default:
		return nil
	}
}
