package qmeasure

import (
	"fmt"
	"math"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/spatial/r2"
)

// InteractionKind tags the result of testing one candidate trajectory
// against one optical element.
type InteractionKind int

const (
	InteractionNone InteractionKind = iota
	InteractionReflected
	InteractionSplit
	InteractionDetected
)

// InteractionResult describes what an element would do to one candidate
// trajectory this frame. Results are computed first and committed by the
// field at the end of the step, so no element mutates shared state
// mid-frame.
type InteractionResult struct {
	Kind    InteractionKind
	T       Real // parameter along the photon's step, [0,1]
	Point   r2.Vec
	Element OpticalElement

	// InteractionReflected
	NewDirection r2.Vec

	// InteractionSplit: fractions of the parent's weight
	TransmitWeight   Real
	ReflectWeight    Real
	ReflectDirection r2.Vec
}

// OpticalElement is stationary geometry shared read-only by all photons
// during a frame. Intersection testing is a pure function of the photon's
// step; only the Detector accumulates state, and only at commit time.
type OpticalElement interface {
	Kind() string
	Geometry() Segment
	// TestForInteraction tests each of the photon's candidate trajectories
	// against the element's geometry for the segment travelled during dt,
	// returning results keyed by trajectory label. Labels with no crossing
	// are omitted.
	TestForInteraction(ph *Photon, dt, speed Real) map[string]InteractionResult
}

func validateSegment(a, b r2.Vec, kind string) (Segment, error) {
	seg := Segment{A: a, B: b}
	if seg.Length() < epsLen {
		return Segment{}, fmt.Errorf("%w: %s has zero-length geometry", ErrInvalidConfiguration, kind)
	}
	return seg, nil
}

// stepEnd is the position a trajectory would reach this frame.
func stepEnd(st *TrajectoryState, dt, speed Real) r2.Vec {
	return r2.Add(st.Position, r2.Scale(speed*dt, st.Direction))
}

// Mirror reflects crossing trajectories into the fixed downward direction.
// The source model supports only this fixed reflection, not general
// specular reflection off the mirror normal.
type Mirror struct {
	seg Segment
}

var mirrorOut = r2.Vec{X: 0, Y: -1}

func NewMirror(a, b r2.Vec) (*Mirror, error) {
	seg, err := validateSegment(a, b, "mirror")
	if err != nil {
		return nil, err
	}
	return &Mirror{seg: seg}, nil
}

func (m *Mirror) Kind() string      { return "mirror" }
func (m *Mirror) Geometry() Segment { return m.seg }

func (m *Mirror) TestForInteraction(ph *Photon, dt, speed Real) map[string]InteractionResult {
	var out map[string]InteractionResult
	for label, st := range ph.States {
		t, _, point, ok := m.seg.Intersect(st.Position, stepEnd(st, dt, speed))
		if !ok {
			continue
		}
		if out == nil {
			out = make(map[string]InteractionResult)
		}
		out[label] = InteractionResult{
			Kind:         InteractionReflected,
			T:            t,
			Point:        point,
			Element:      m,
			NewDirection: mirrorOut,
		}
	}
	return out
}

// PolarizingBeamSplitter splits a crossing trajectory into a transmitted
// and a reflected branch weighted by Malus's law: cos²Δ transmitted and
// sin²Δ reflected, Δ = photon polarization − splitter axis. The reflected
// branch deflects 90° clockwise.
type PolarizingBeamSplitter struct {
	seg   Segment
	Angle Real // transmission axis, radians
}

func NewPolarizingBeamSplitter(a, b r2.Vec, angle Real) (*PolarizingBeamSplitter, error) {
	seg, err := validateSegment(a, b, "beam splitter")
	if err != nil {
		return nil, err
	}
	return &PolarizingBeamSplitter{seg: seg, Angle: wrapAngle(angle)}, nil
}

func (b *PolarizingBeamSplitter) Kind() string      { return "beamsplitter" }
func (b *PolarizingBeamSplitter) Geometry() Segment { return b.seg }

func (b *PolarizingBeamSplitter) TestForInteraction(ph *Photon, dt, speed Real) map[string]InteractionResult {
	var out map[string]InteractionResult
	for label, st := range ph.States {
		t, _, point, ok := b.seg.Intersect(st.Position, stepEnd(st, dt, speed))
		if !ok {
			continue
		}
		c := math.Cos(ph.Polarization - b.Angle)
		transmit := c * c
		if out == nil {
			out = make(map[string]InteractionResult)
		}
		out[label] = InteractionResult{
			Kind:             InteractionSplit,
			T:                t,
			Point:            point,
			Element:          b,
			TransmitWeight:   transmit,
			ReflectWeight:    1 - transmit,
			ReflectDirection: perpClockwise(st.Direction),
		}
	}
	return out
}

// Detector absorbs crossing trajectories, consuming their Born weight. It
// keeps a running event count, the total absorbed weight, and an
// exponential-moving-average absorption rate updated once per frame.
type Detector struct {
	Name string

	seg      Segment
	alpha    Real // EMA smoothing factor in (0,1]
	count    int
	absorbed Real
	rate     Real      // EMA of absorbed weight per second
	events   []float64 // per-event absorbed weights, for summaries
}

func NewDetector(name string, a, b r2.Vec, alpha Real) (*Detector, error) {
	seg, err := validateSegment(a, b, "detector")
	if err != nil {
		return nil, err
	}
	if alpha <= 0 || alpha > 1 {
		return nil, fmt.Errorf("%w: detector EMA alpha must be in (0,1], got %g", ErrInvalidConfiguration, alpha)
	}
	if name == "" {
		name = "detector"
	}
	return &Detector{Name: name, seg: seg, alpha: alpha}, nil
}

func (d *Detector) Kind() string      { return "detector" }
func (d *Detector) Geometry() Segment { return d.seg }

func (d *Detector) TestForInteraction(ph *Photon, dt, speed Real) map[string]InteractionResult {
	var out map[string]InteractionResult
	for label, st := range ph.States {
		t, _, point, ok := d.seg.Intersect(st.Position, stepEnd(st, dt, speed))
		if !ok {
			continue
		}
		if out == nil {
			out = make(map[string]InteractionResult)
		}
		out[label] = InteractionResult{
			Kind:    InteractionDetected,
			T:       t,
			Point:   point,
			Element: d,
		}
	}
	return out
}

// commitFrame folds one frame's absorptions into the detector. Called once
// per frame by the field, with zero weight on quiet frames so the EMA
// decays.
func (d *Detector) commitFrame(events int, weight, dt Real, perEvent []float64) {
	d.count += events
	d.absorbed += weight
	if dt > 0 {
		d.rate += d.alpha * (weight/dt - d.rate)
	}
	d.events = append(d.events, perEvent...)
}

func (d *Detector) Count() int           { return d.count }
func (d *Detector) AbsorbedWeight() Real { return d.absorbed }

// Rate is the smoothed absorbed weight per second, the aggregate
// observable used to visualize polarization probability.
func (d *Detector) Rate() Real { return d.rate }

// RateStats summarizes the per-event absorbed weights.
func (d *Detector) RateStats() (mean, median Real, err error) {
	if len(d.events) == 0 {
		return 0, 0, nil
	}
	if mean, err = stats.Mean(d.events); err != nil {
		return 0, 0, err
	}
	median, err = stats.Median(d.events)
	return mean, median, err
}

// Reset clears all counters, keeping the geometry.
func (d *Detector) Reset() {
	d.count = 0
	d.absorbed = 0
	d.rate = 0
	d.events = nil
}
