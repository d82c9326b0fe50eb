package qmeasure

import (
	"fmt"

	"github.com/rs/zerolog"
	"gonum.org/v1/gonum/spatial/r3"
)

// SternGerlachDevice is one oriented measurement stage. Its orientation is
// fixed at construction; only Active and the branch counters vary at
// runtime.
type SternGerlachDevice struct {
	Axis   MeasurementAxis
	Active bool

	countPlus  int
	countMinus int
}

// NewSternGerlachDevice validates the orientation up front: a stage with no
// orientation assigned is a construction-time error, never a runtime
// default. The zero MeasurementAxis is numerically indistinguishable from
// +Z, so unassigned is detected by the missing label.
func NewSternGerlachDevice(axis MeasurementAxis) (*SternGerlachDevice, error) {
	if axis.Plus.Label == "" || axis.Minus.Label == "" {
		return nil, fmt.Errorf("%w: device has no orientation", ErrInvalidConfiguration)
	}
	return &SternGerlachDevice{Axis: axis, Active: true}, nil
}

// BranchProbability returns P(+) for an incoming spin direction:
// cos²(θ/2) = (1 + d_in·d_meas)/2 where θ is the angle between the input
// and the device axis. Computed from the dot product so colinear inputs
// give exactly 1 or 0 with no trig noise.
func (d *SternGerlachDevice) BranchProbability(in r3.Vec) Real {
	return clamp01(0.5 * (1 + r3.Dot(in, d.Axis.Plus.Vector())))
}

// Measure collapses the incoming direction onto one of the device's own
// two eigen-directions, never a continuation of the input. An inactive
// device passes the input through unmeasured.
func (d *SternGerlachDevice) Measure(in StateDirection, rng *RandomSource) StateDirection {
	if !d.Active {
		return in
	}
	if rng.Bool(d.BranchProbability(in.Vector())) {
		d.countPlus++
		return d.Axis.Plus
	}
	d.countMinus++
	return d.Axis.Minus
}

// BranchCounts returns how many particles left through each branch.
func (d *SternGerlachDevice) BranchCounts() (plus, minus int) {
	return d.countPlus, d.countMinus
}

// ResetCounts clears the branch counters without touching the orientation.
func (d *SternGerlachDevice) ResetCounts() {
	d.countPlus, d.countMinus = 0, 0
}

// SternGerlachExperiment chains one or two devices. Stage 2 consumes stage
// 1's sampled output direction, recomputing branch probabilities against
// its own axis rather than the nominal preparation.
type SternGerlachExperiment struct {
	devices  []*SternGerlachDevice
	prepared StateDirection
	initial  StateDirection

	rate  Real // particles per second fed by Step
	carry Real // fractional particle accumulator
	fired int

	rng *RandomSource
	log zerolog.Logger
}

func NewSternGerlachExperiment(prepared StateDirection, rate Real, rng *RandomSource, devices ...*SternGerlachDevice) (*SternGerlachExperiment, error) {
	if len(devices) < 1 || len(devices) > 2 {
		return nil, fmt.Errorf("%w: stage count must be 1 or 2, got %d", ErrInvalidConfiguration, len(devices))
	}
	for i, d := range devices {
		if d == nil {
			return nil, fmt.Errorf("%w: stage %d is nil", ErrInvalidConfiguration, i)
		}
	}
	if rate <= 0 || !isFinite(rate) {
		return nil, fmt.Errorf("%w: particle rate must be positive, got %g", ErrInvalidConfiguration, rate)
	}
	if rng == nil {
		return nil, fmt.Errorf("%w: nil random source", ErrInvalidConfiguration)
	}
	return &SternGerlachExperiment{
		devices:  devices,
		prepared: prepared,
		initial:  prepared,
		rate:     rate,
		rng:      rng,
		log:      componentLogger("stern-gerlach"),
	}, nil
}

func (e *SternGerlachExperiment) Stages() int { return len(e.devices) }

func (e *SternGerlachExperiment) Device(i int) *SternGerlachDevice { return e.devices[i] }

// SetPreparation changes the ensemble's incoming direction for subsequent
// particles.
func (e *SternGerlachExperiment) SetPreparation(d StateDirection) { e.prepared = d }

func (e *SternGerlachExperiment) Preparation() StateDirection { return e.prepared }

// RunOne traces a single particle through the stages and returns its final
// direction.
func (e *SternGerlachExperiment) RunOne() StateDirection {
	dir := e.prepared
	for _, d := range e.devices {
		dir = d.Measure(dir, e.rng)
	}
	e.fired++
	return dir
}

// RunMany traces n particles.
func (e *SternGerlachExperiment) RunMany(n int) {
	for i := 0; i < n; i++ {
		e.RunOne()
	}
}

// Step feeds particles at the configured rate, carrying the fractional
// remainder across frames.
func (e *SternGerlachExperiment) Step(dt Real) {
	e.carry += e.rate * dt
	for e.carry >= 1 {
		e.RunOne()
		e.carry--
	}
}

// ParticlesFired returns how many particles have entered stage 1.
func (e *SternGerlachExperiment) ParticlesFired() int { return e.fired }

// Reset restores the initial preparation and clears all counters. Devices
// keep their identity so external references stay valid.
func (e *SternGerlachExperiment) Reset() {
	e.prepared = e.initial
	e.carry = 0
	e.fired = 0
	for _, d := range e.devices {
		d.ResetCounts()
	}
}
