package experiment

import (
	"context"
	"testing"

	"outbreaklab/internal/models"
	"outbreaklab/internal/scenario"
)

func TestRegistryLookups(t *testing.T) {
	reg := NewRegistry()

	if _, err := reg.GetIntegrator("rk4"); err != nil {
		t.Errorf("rk4 should be registered: %v", err)
	}
	if _, err := reg.GetIntegrator("leapfrog"); err == nil {
		t.Error("unknown integrator should fail")
	}

	cfg := scenario.Default()
	if _, _, err := reg.GetModel("epidemic", cfg); err != nil {
		t.Errorf("epidemic should be registered: %v", err)
	}
	if _, _, err := reg.GetModel("weather", cfg); err == nil {
		t.Error("unknown model should fail")
	}
}

func TestRegistryRejectsBadParams(t *testing.T) {
	reg := NewRegistry()
	cfg := scenario.Default()
	cfg.Epidemic.Gamma = -1

	if _, _, err := reg.GetModel("epidemic", cfg); err == nil {
		t.Error("negative gamma should fail model construction")
	}
}

func TestExperimentRun(t *testing.T) {
	cfg := scenario.Default()
	cfg.Samples = 50

	exp, err := New(cfg, "")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if exp.IntegratorName != "rk4" {
		t.Errorf("integrator from config = %q, want rk4", exp.IntegratorName)
	}

	result, err := exp.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(result.States) != 50 {
		t.Fatalf("got %d samples, want 50", len(result.States))
	}

	for _, name := range []string{"peak_hospitalized", "peak_exposed", "total_deaths", "attack_rate"} {
		if _, ok := result.Metrics[name]; !ok {
			t.Errorf("metric %s missing from result", name)
		}
	}

	cols := exp.Columns()
	if len(cols) != models.NumCompartments || cols[0] != "S" {
		t.Errorf("columns = %v", cols)
	}
}

func TestExperimentIntegratorOverride(t *testing.T) {
	cfg := scenario.Default()
	exp, err := New(cfg, "euler")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if exp.IntegratorName != "euler" {
		t.Errorf("override ignored: %q", exp.IntegratorName)
	}
}

func TestKineticsExperimentUsesOwnGrid(t *testing.T) {
	cfg := scenario.Default()
	cfg.Model = "kinetics"

	exp, err := New(cfg, "")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if exp.Horizon != cfg.Kinetics.Horizon || exp.Samples != cfg.Kinetics.Samples {
		t.Errorf("kinetics grid = (%f, %d), want (%f, %d)",
			exp.Horizon, exp.Samples, cfg.Kinetics.Horizon, cfg.Kinetics.Samples)
	}
	if got := exp.Columns(); len(got) != 3 || got[0] != "A" {
		t.Errorf("columns = %v", got)
	}
}
