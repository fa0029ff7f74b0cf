package models

import (
	"math"

	"outbreaklab/internal/ode"
)

// SpeciesNames are the display names for the kinetics state, in order.
var SpeciesNames = []string{"A", "B", "C"}

// Kinetics models the sequential reaction A -> B -> C with tunable rate
// constants and reaction orders. Total concentration is conserved.
//
// State: [A, B, C] concentrations.
// Equations:
//
//	dA/dt = -kAB * A^orderAB
//	dB/dt =  kAB * A^orderAB - kBC * B^orderBC
//	dC/dt =  kBC * B^orderBC
type Kinetics struct {
	kAB, kBC         float64
	orderAB, orderBC float64
}

func NewKinetics() *Kinetics {
	return &Kinetics{
		kAB:     3.0,
		kBC:     1.0,
		orderAB: 1,
		orderBC: 1,
	}
}

func (k *Kinetics) StateDim() int { return 3 }

func (k *Kinetics) Derive(x ode.State, _ float64) ode.State {
	a, b := x[0], x[1]

	r1 := k.kAB * math.Pow(a, k.orderAB)
	r2 := k.kBC * math.Pow(b, k.orderBC)

	return ode.State{-r1, r1 - r2, r2}
}

// DefaultState starts with pure A at unit concentration.
func (k *Kinetics) DefaultState() ode.State {
	return ode.State{1.0, 0.0, 0.0}
}

// GetParams implements ode.Configurable.
func (k *Kinetics) GetParams() map[string]float64 {
	return map[string]float64{
		"k_ab":     k.kAB,
		"k_bc":     k.kBC,
		"order_ab": k.orderAB,
		"order_bc": k.orderBC,
	}
}

// SetParam implements ode.Configurable. Orders snap to whole numbers.
func (k *Kinetics) SetParam(name string, value float64) {
	switch name {
	case "k_ab":
		k.kAB = value
	case "k_bc":
		k.kBC = value
	case "order_ab":
		k.orderAB = math.Max(1, math.Round(value))
	case "order_bc":
		k.orderBC = math.Max(1, math.Round(value))
	}
}
