package ode

import (
	"context"
	"fmt"
	"math"
)

// Norm beyond which a trajectory is considered diverged. Compartment
// populations and concentrations in this repo live many orders of
// magnitude below this.
const blowupNorm = 1e12

// substepsPerSample subdivides each sampling interval when integrating with
// a fixed-step method, so the recorded samples stay on the requested grid
// without tying the integration step to the output resolution.
const substepsPerSample = 8

type Simulator struct {
	sys        System
	integrator Integrator
	metrics    []Metric
}

func New(sys System, integrator Integrator) *Simulator {
	return &Simulator{
		sys:        sys,
		integrator: integrator,
		metrics:    make([]Metric, 0),
	}
}

func (s *Simulator) AddMetric(m Metric) { s.metrics = append(s.metrics, m) }

// Run integrates over [0, cfg.Duration] and records every step. With
// cfg.Adaptive the step size floats between MinDt and MaxDt; either way the
// final step is clamped so the trajectory ends exactly on the duration.
func (s *Simulator) Run(ctx context.Context, x0 State, cfg Config) (*Result, error) {
	if err := s.validate(x0, cfg); err != nil {
		return nil, err
	}

	estSteps := int(cfg.Duration/cfg.Dt) + 1
	result := &Result{
		States:  make([]State, 0, estSteps),
		Times:   make([]float64, 0, estSteps),
		Metrics: make(map[string]float64),
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	x := x0.Clone()
	t := 0.0
	dt := cfg.Dt

	result.States = append(result.States, x.Clone())
	result.Times = append(result.Times, t)

	for t < cfg.Duration {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		for _, m := range s.metrics {
			m.Observe(x, t)
		}

		// Clamp the final step. The relative margin keeps float
		// accumulation from spawning a vanishing extra step.
		h := dt
		last := t+h >= cfg.Duration*(1-1e-12)
		if last {
			h = cfg.Duration - t
		}

		var newX State
		var err error

		if cfg.Adaptive {
			var taken float64
			newX, taken, dt, err = s.adaptiveStep(x, t, h, cfg)
			if err != nil {
				return nil, &SimError{Step: result.StepsTaken, Time: t, Wrapped: err}
			}
			if taken < h {
				last = false
			}
			h = taken
		} else {
			newX = s.integrator.Step(s.sys, x, t, h)
		}

		if cfg.ValidateState {
			if err := checkState(newX); err != nil {
				return nil, &SimError{Step: result.StepsTaken, Time: t, Wrapped: err}
			}
		}

		x = newX
		if last {
			t = cfg.Duration
		} else {
			t += h
		}
		result.StepsTaken++

		result.States = append(result.States, x.Clone())
		result.Times = append(result.Times, t)
	}

	for _, m := range s.metrics {
		m.Observe(x, t)
		result.Metrics[m.Name()] = m.Value()
	}

	return result, nil
}

// RunSampled integrates over [0, horizon] and records the state at exactly
// samples evenly spaced time points, inclusive of both endpoints. Each
// sampling interval is subdivided into fixed substeps so the output grid is
// independent of the integration step. On numerical failure no partial
// trajectory is returned.
func (s *Simulator) RunSampled(ctx context.Context, x0 State, horizon float64, samples int) (*Result, error) {
	if horizon <= 0 {
		return nil, fmt.Errorf("%w: horizon must be positive, got %f", ErrParameterBounds, horizon)
	}
	if samples <= 0 {
		return nil, fmt.Errorf("%w: sample count must be positive, got %d", ErrParameterBounds, samples)
	}
	if len(x0) != s.sys.StateDim() {
		return nil, fmt.Errorf("%w: state has %d values, system wants %d", ErrDimensionMismatch, len(x0), s.sys.StateDim())
	}

	result := &Result{
		States:  make([]State, 0, samples),
		Times:   make([]float64, 0, samples),
		Metrics: make(map[string]float64),
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	x := x0.Clone()
	result.States = append(result.States, x.Clone())
	result.Times = append(result.Times, 0)
	for _, m := range s.metrics {
		m.Observe(x, 0)
	}

	if samples == 1 {
		for _, m := range s.metrics {
			result.Metrics[m.Name()] = m.Value()
		}
		return result, nil
	}

	interval := horizon / float64(samples-1)
	dt := interval / substepsPerSample

	t := 0.0
	for i := 1; i < samples; i++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		for k := 0; k < substepsPerSample; k++ {
			x = s.integrator.Step(s.sys, x, t, dt)
			t += dt
		}
		// Land exactly on the sample point; accumulated t drifts by
		// floating-point rounding otherwise.
		t = float64(i) * interval

		if err := checkState(x); err != nil {
			return nil, &SimError{Step: result.StepsTaken, Time: t, Wrapped: err}
		}

		result.StepsTaken += substepsPerSample
		result.States = append(result.States, x.Clone())
		result.Times = append(result.Times, t)
		for _, m := range s.metrics {
			m.Observe(x, t)
		}
	}

	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}

	return result, nil
}

func (s *Simulator) validate(x0 State, cfg Config) error {
	if cfg.Dt <= 0 {
		return fmt.Errorf("%w: dt must be positive, got %f", ErrParameterBounds, cfg.Dt)
	}
	if cfg.Duration <= 0 {
		return fmt.Errorf("%w: duration must be positive, got %f", ErrParameterBounds, cfg.Duration)
	}
	if cfg.Adaptive && cfg.Tolerance <= 0 {
		return fmt.Errorf("%w: tolerance must be positive for adaptive stepping", ErrParameterBounds)
	}
	if len(x0) != s.sys.StateDim() {
		return fmt.Errorf("%w: state has %d values, system wants %d", ErrDimensionMismatch, len(x0), s.sys.StateDim())
	}
	return nil
}

// adaptiveStep advances at most dt and returns the new state, the step
// actually taken and the suggested next step.
func (s *Simulator) adaptiveStep(x State, t, dt float64, cfg Config) (State, float64, float64, error) {
	if adaptive, ok := s.integrator.(AdaptiveIntegrator); ok {
		newX, newDt, err := adaptive.StepAdaptive(s.sys, x, t, dt, cfg.Tolerance)
		if err != nil {
			return nil, 0, dt, err
		}
		if newDt < cfg.MinDt {
			return nil, 0, dt, ErrStepTooSmall
		}
		if newDt > cfg.MaxDt {
			newDt = cfg.MaxDt
		}
		return newX, dt, newDt, nil
	}

	// Step doubling for non-adaptive integrators.
	x1 := s.integrator.Step(s.sys, x, t, dt)
	xHalf := s.integrator.Step(s.sys, x, t, dt/2)
	x2 := s.integrator.Step(s.sys, xHalf, t+dt/2, dt/2)

	err := x1.Sub(x2).Norm()

	if err > cfg.Tolerance {
		if dt/2 < cfg.MinDt {
			return nil, 0, dt, ErrStepTooSmall
		}
		return s.adaptiveStep(x, t, dt/2, cfg)
	}

	next := dt
	if err < cfg.Tolerance/10 && dt < cfg.MaxDt {
		next = math.Min(dt*2, cfg.MaxDt)
	}

	return x2, dt, next, nil
}

func checkState(x State) error {
	if !x.IsValid() {
		return ErrInvalidState
	}
	if x.Norm() > blowupNorm {
		return ErrUnstable
	}
	return nil
}
