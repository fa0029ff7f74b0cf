package metrics

import "outbreaklab/internal/ode"

// PeakTracker records the maximum value a state component reaches and the
// time it got there.
type PeakTracker struct {
	name     string
	index    int
	peak     float64
	peakTime float64
	seen     bool
}

func NewPeakTracker(name string, index int) *PeakTracker {
	return &PeakTracker{name: name, index: index}
}

func (p *PeakTracker) Name() string { return p.name }

func (p *PeakTracker) Observe(x ode.State, t float64) {
	if p.index >= len(x) {
		return
	}
	if !p.seen || x[p.index] > p.peak {
		p.peak = x[p.index]
		p.peakTime = t
		p.seen = true
	}
}

func (p *PeakTracker) Value() float64 { return p.peak }

// PeakTime reports when the peak occurred.
func (p *PeakTracker) PeakTime() float64 { return p.peakTime }

func (p *PeakTracker) Reset() {
	p.peak = 0
	p.peakTime = 0
	p.seen = false
}
