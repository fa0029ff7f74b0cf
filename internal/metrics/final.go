package metrics

import "outbreaklab/internal/ode"

// FinalValue tracks the last observed value of a state component.
type FinalValue struct {
	name  string
	index int
	last  float64
}

func NewFinalValue(name string, index int) *FinalValue {
	return &FinalValue{name: name, index: index}
}

func (f *FinalValue) Name() string { return f.name }

func (f *FinalValue) Observe(x ode.State, t float64) {
	if f.index < len(x) {
		f.last = x[f.index]
	}
}

func (f *FinalValue) Value() float64 { return f.last }

func (f *FinalValue) Reset() { f.last = 0 }
