package qmeasure

import (
	"fmt"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/spatial/r2"
)

// PhotonPhase is the lifecycle state of a photon.
type PhotonPhase int

const (
	PhaseInFlight PhotonPhase = iota
	PhaseDetected             // all weight delivered to detectors (terminal)
	PhaseAbsorbed             // removed without detection (terminal)
)

// TrajectoryState is one branch of a photon's superposed path, carrying a
// Born probability weight and its own position and propagation direction.
type TrajectoryState struct {
	Position  r2.Vec
	Direction r2.Vec // unit
	Weight    Real
}

// Photon is a moving point with one or more co-existing candidate
// trajectories (superposed paths after splitting interactions), keyed by
// outcome label. While the photon has not been fully detected/absorbed,
// the live weights plus the weight already delivered sum to 1.
type Photon struct {
	ID           uuid.UUID
	Phase        PhotonPhase
	Polarization Real // radians against the bench horizontal
	States       map[string]*TrajectoryState

	delivered Real // weight consumed by detectors so far
}

// NewPhoton launches a photon with a single unit-weight trajectory labeled
// "primary".
func NewPhoton(origin, dir r2.Vec, polarization Real) *Photon {
	return &Photon{
		ID:           uuid.New(),
		Phase:        PhaseInFlight,
		Polarization: wrapAngle(polarization),
		States: map[string]*TrajectoryState{
			"primary": {Position: origin, Direction: r2.Unit(dir), Weight: 1},
		},
	}
}

// Advance moves every candidate trajectory by direction·speed·dt.
func (p *Photon) Advance(dt, speed Real) {
	for _, st := range p.States {
		st.Position = r2.Add(st.Position, r2.Scale(speed*dt, st.Direction))
	}
}

// LiveWeight is the Born weight still in flight across all branches.
func (p *Photon) LiveWeight() Real {
	w := Real(0)
	for _, st := range p.States {
		w += st.Weight
	}
	return w
}

// DeliveredWeight is the weight already consumed by detectors.
func (p *Photon) DeliveredWeight() Real { return p.delivered }

// TotalWeight must equal 1 at every frame boundary until the photon is
// retired (probability conservation under splitting).
func (p *Photon) TotalWeight() Real { return p.LiveWeight() + p.delivered }

// PhotonEmitter launches photons from a fixed origin at a configured rate,
// carrying the fractional remainder across frames.
type PhotonEmitter struct {
	Origin       r2.Vec
	Direction    r2.Vec // unit
	Polarization Real
	Rate         Real // photons per second

	carry Real
}

func NewPhotonEmitter(origin, dir r2.Vec, polarization, rate Real) (*PhotonEmitter, error) {
	if r2.Norm(dir) < epsLen {
		return nil, fmt.Errorf("%w: emitter direction must be non-zero", ErrInvalidConfiguration)
	}
	if rate <= 0 || !isFinite(rate) {
		return nil, fmt.Errorf("%w: emitter rate must be positive, got %g", ErrInvalidConfiguration, rate)
	}
	return &PhotonEmitter{
		Origin:       origin,
		Direction:    r2.Unit(dir),
		Polarization: wrapAngle(polarization),
		Rate:         rate,
	}, nil
}

// Emit returns the photons due after dt.
func (e *PhotonEmitter) Emit(dt Real) []*Photon {
	e.carry += e.Rate * dt
	var out []*Photon
	for e.carry >= 1 {
		out = append(out, NewPhoton(e.Origin, e.Direction, e.Polarization))
		e.carry--
	}
	return out
}

// Reset clears the fractional accumulator.
func (e *PhotonEmitter) Reset() { e.carry = 0 }
