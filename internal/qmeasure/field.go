package qmeasure

import (
	"fmt"
	"math"

	"github.com/rs/zerolog"
	"gonum.org/v1/gonum/spatial/r2"
)

// PhotonField owns the photon ensemble and the optical bench and advances
// them one frame at a time. Elements are immutable during a frame; all
// mutations for a frame are gathered into a local result set and committed
// at the end of Step, so observers never see partial-frame state.
type PhotonField struct {
	Emitter *PhotonEmitter
	Speed   Real // meters per second

	elements  []OpticalElement
	detectors []*Detector
	photons   []*Photon
	retired   []*Photon
	launched  int
	frame     int

	rng *RandomSource
	log zerolog.Logger
}

func NewPhotonField(emitter *PhotonEmitter, speed Real, rng *RandomSource, elements ...OpticalElement) (*PhotonField, error) {
	if emitter == nil {
		return nil, fmt.Errorf("%w: nil emitter", ErrInvalidConfiguration)
	}
	if speed <= 0 || !isFinite(speed) {
		return nil, fmt.Errorf("%w: photon speed must be positive, got %g", ErrInvalidConfiguration, speed)
	}
	if rng == nil {
		return nil, fmt.Errorf("%w: nil random source", ErrInvalidConfiguration)
	}
	f := &PhotonField{
		Emitter:  emitter,
		Speed:    speed,
		elements: elements,
		rng:      rng,
		log:      componentLogger("photon-field"),
	}
	for _, el := range elements {
		if el == nil {
			return nil, fmt.Errorf("%w: nil optical element", ErrInvalidConfiguration)
		}
		if d, ok := el.(*Detector); ok {
			f.detectors = append(f.detectors, d)
		}
	}
	return f, nil
}

type detectorFrame struct {
	events   int
	weight   Real
	perEvent []float64
}

// Step advances the field by dt: emit, test every candidate trajectory
// against every element, resolve the nearest interaction per trajectory,
// and commit all mutations at once. A trajectory resolves at most one
// interaction per frame; further elements are re-tested next frame from
// the new position.
func (f *PhotonField) Step(dt Real) {
	if dt <= 0 || !isFinite(dt) {
		return
	}
	f.frame++

	spawned := f.Emitter.Emit(dt)
	f.photons = append(f.photons, spawned...)
	f.launched += len(spawned)

	hits := make(map[*Detector]*detectorFrame)
	var still []*Photon

	for _, ph := range f.photons {
		next := make(map[string]*TrajectoryState, len(ph.States))
		for label, st := range ph.States {
			res, found := f.nearestInteraction(ph, label, st, dt)
			switch {
			case !found:
				st.Position = stepEnd(st, dt, f.Speed)
				next[label] = st
				if Debug {
					logInteraction("advance", CategoryAdvance, ph.ID, label, st.Position, f.frame, st.Weight)
				}
			case res.Kind == InteractionReflected:
				st.Position = r2.Add(res.Point, r2.Scale(bumpShift, res.NewDirection))
				st.Direction = res.NewDirection
				next[label] = st
				if Debug {
					logInteraction("reflected", CategoryReflect, ph.ID, label, res.Point, f.frame, st.Weight)
				}
			case res.Kind == InteractionSplit:
				f.applySplit(ph, label, st, res, next)
			case res.Kind == InteractionDetected:
				d := res.Element.(*Detector)
				acc := hits[d]
				if acc == nil {
					acc = &detectorFrame{}
					hits[d] = acc
				}
				acc.events++
				acc.weight += st.Weight
				acc.perEvent = append(acc.perEvent, float64(st.Weight))
				ph.delivered += st.Weight
				if Debug {
					logInteraction("detected", CategoryDetect, ph.ID, label, res.Point, f.frame, st.Weight)
				}
			}
		}
		ph.States = next
		if len(next) == 0 {
			if ph.delivered > 0 {
				ph.Phase = PhaseDetected
			} else {
				ph.Phase = PhaseAbsorbed
			}
			f.retired = append(f.retired, ph)
			continue
		}
		still = append(still, ph)
	}
	f.photons = still

	// Every detector commits once per frame, quiet ones with zero weight so
	// the EMA decays.
	for _, d := range f.detectors {
		if acc := hits[d]; acc != nil {
			d.commitFrame(acc.events, acc.weight, dt, acc.perEvent)
		} else {
			d.commitFrame(0, 0, dt, nil)
		}
	}
}

// nearestInteraction picks the smallest-t crossing among all elements for
// one candidate trajectory.
func (f *PhotonField) nearestInteraction(ph *Photon, label string, st *TrajectoryState, dt Real) (InteractionResult, bool) {
	probe := &Photon{
		ID:           ph.ID,
		Polarization: ph.Polarization,
		States:       map[string]*TrajectoryState{label: st},
	}
	best := InteractionResult{T: math.Inf(1)}
	found := false
	for _, el := range f.elements {
		results := el.TestForInteraction(probe, dt, f.Speed)
		res, ok := results[label]
		if !ok {
			continue
		}
		if !found || res.T < best.T {
			best = res
			found = true
		}
	}
	return best, found
}

// applySplit replaces one trajectory with its transmitted and reflected
// children. A child below the weight floor hands its weight to the sibling
// so the photon's total stays exactly 1.
func (f *PhotonField) applySplit(ph *Photon, label string, st *TrajectoryState, res InteractionResult, next map[string]*TrajectoryState) {
	tw := st.Weight * res.TransmitWeight
	rw := st.Weight * res.ReflectWeight
	if tw < weightEps {
		rw = st.Weight
		tw = 0
		if Debug {
			logInteraction("dropped", CategoryDrop, ph.ID, label+":t", res.Point, f.frame, 0)
		}
	} else if rw < weightEps {
		tw = st.Weight
		rw = 0
		if Debug {
			logInteraction("dropped", CategoryDrop, ph.ID, label+":r", res.Point, f.frame, 0)
		}
	}
	if tw > 0 {
		next[label+":t"] = &TrajectoryState{
			Position:  r2.Add(res.Point, r2.Scale(bumpShift, st.Direction)),
			Direction: st.Direction,
			Weight:    tw,
		}
	}
	if rw > 0 {
		next[label+":r"] = &TrajectoryState{
			Position:  r2.Add(res.Point, r2.Scale(bumpShift, res.ReflectDirection)),
			Direction: res.ReflectDirection,
			Weight:    rw,
		}
	}
	if Debug {
		logInteraction("split", CategorySplit, ph.ID, label, res.Point, f.frame, st.Weight)
	}
}

// Photons returns the active (in-flight) photons.
func (f *PhotonField) Photons() []*Photon { return f.photons }

// Retired returns photons that reached a terminal phase.
func (f *PhotonField) Retired() []*Photon { return f.retired }

func (f *PhotonField) Launched() int { return f.launched }

func (f *PhotonField) Elements() []OpticalElement { return f.elements }

func (f *PhotonField) Detectors() []*Detector { return f.detectors }

// WeightConservationError returns the largest deviation of any launched
// photon's total weight (live + delivered) from 1.
func (f *PhotonField) WeightConservationError() Real {
	worst := Real(0)
	for _, ph := range f.photons {
		if d := math.Abs(ph.TotalWeight() - 1); d > worst {
			worst = d
		}
	}
	for _, ph := range f.retired {
		if d := math.Abs(ph.TotalWeight() - 1); d > worst {
			worst = d
		}
	}
	return worst
}

// Reset clears photons and detector counters, keeping the bench geometry
// and element identity so external references stay valid.
func (f *PhotonField) Reset() {
	f.photons = nil
	f.retired = nil
	f.launched = 0
	f.frame = 0
	f.Emitter.Reset()
	for _, d := range f.detectors {
		d.Reset()
	}
}
