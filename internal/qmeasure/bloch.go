package qmeasure

import (
	"fmt"
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/spatial/r3"
)

// BlochState is the amplitude/angle representation of a two-level quantum
// state. Angles and amplitudes are two views of the same physical state:
// α = cos(θ/2), β = e^{iφ} sin(θ/2), with |α|² + |β|² = 1.
type BlochState struct {
	Polar     Real // θ ∈ [0, π]
	Azimuthal Real // φ ∈ [0, 2π)
	Alpha     complex128
	Beta      complex128

	home           StateDirection // reset target
	precessionRate Real           // rad/s around Z; 0 means no precession
}

// NewBlochState constructs a state at the given axis. A zero precession
// rate makes Step a no-op (a static post-measurement snapshot).
func NewBlochState(home StateDirection, precessionRate Real) *BlochState {
	b := &BlochState{home: home, precessionRate: precessionRate}
	b.SetFromDirection(home)
	return b
}

// SetFromDirection sets the angles from the axis's fixed record and
// recomputes the amplitudes.
func (b *BlochState) SetFromDirection(d StateDirection) {
	b.Polar = d.Polar
	b.Azimuthal = d.Azimuthal
	b.recomputeAmplitudes()
}

// SetFromAmplitudes accepts an amplitude pair whose squared norm deviates
// from 1 by at most the normalization tolerance, renormalizing silently.
// A larger deviation is rejected and the prior state is retained.
func (b *BlochState) SetFromAmplitudes(alpha, beta complex128) error {
	n2 := real(alpha*cmplx.Conj(alpha) + beta*cmplx.Conj(beta))
	if !isFinite(n2) || math.Abs(n2-1) > ampTol {
		return fmt.Errorf("%w: |α|²+|β|² = %.12g", ErrInvalidAmplitude, n2)
	}
	n := math.Sqrt(n2)
	alpha /= complex(n, 0)
	beta /= complex(n, 0)

	// Remove the global phase so that α is real and non-negative.
	if ph := cmplx.Phase(alpha); ph != 0 {
		rot := cmplx.Exp(complex(0, -ph))
		alpha *= rot
		beta *= rot
	}

	b.Polar = 2 * math.Acos(clamp01(cmplx.Abs(alpha)))
	if b.Polar < epsLen || math.Pi-b.Polar < epsLen {
		// pole convention: azimuthal is 0
		b.Azimuthal = 0
	} else {
		b.Azimuthal = wrapAngle(cmplx.Phase(beta))
	}
	b.recomputeAmplitudes()
	return nil
}

// Step advances the azimuthal angle at the configured precession rate.
// The polar angle and the amplitude magnitudes are unaffected by free
// precession around Z.
func (b *BlochState) Step(dt Real) {
	if b.precessionRate == 0 {
		return
	}
	b.Azimuthal = wrapAngle(b.Azimuthal + b.precessionRate*dt)
	b.recomputeAmplitudes()
}

// Reset restores the construction axis without changing object identity.
func (b *BlochState) Reset() { b.SetFromDirection(b.home) }

// Vector returns the Cartesian read-back of the current angles. Exact for
// the six cardinal axes.
func (b *BlochState) Vector() r3.Vec {
	return StateDirection{Label: "", Polar: b.Polar, Azimuthal: b.Azimuthal}.Vector()
}

// Direction returns the current angles as an unlabeled direction record.
func (b *BlochState) Direction() StateDirection {
	return StateDirection{Polar: b.Polar, Azimuthal: b.Azimuthal}
}

func (b *BlochState) recomputeAmplitudes() {
	half := b.Polar / 2
	b.Alpha = complex(math.Cos(half), 0)
	b.Beta = cmplx.Exp(complex(0, b.Azimuthal)) * complex(math.Sin(half), 0)
}
