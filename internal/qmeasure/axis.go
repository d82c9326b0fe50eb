package qmeasure

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// StateDirection is one direction from the closed set used to parameterize
// preparation and measurement. The records are immutable; custom directions
// carry explicit angles. At the poles (polar 0 or π) the azimuthal angle is
// 0 by convention.
type StateDirection struct {
	Label     string
	Polar     Real // θ ∈ [0, π]
	Azimuthal Real // φ ∈ [0, 2π)
}

var (
	ZPlus  = StateDirection{"+Z", 0, 0}
	ZMinus = StateDirection{"-Z", math.Pi, 0}
	XPlus  = StateDirection{"+X", math.Pi / 2, 0}
	XMinus = StateDirection{"-X", math.Pi / 2, math.Pi}
	YPlus  = StateDirection{"+Y", math.Pi / 2, math.Pi / 2}
	YMinus = StateDirection{"-Y", math.Pi / 2, 3 * math.Pi / 2}
)

// cardinalVectors keeps the six axis directions exact: Vector must not pick
// up trig round-off on the cardinals.
var cardinalVectors = map[string]r3.Vec{
	"+Z": {Z: 1}, "-Z": {Z: -1},
	"+X": {X: 1}, "-X": {X: -1},
	"+Y": {Y: 1}, "-Y": {Y: -1},
}

// Vector maps (θ, φ) to Cartesian x=sinθ·cosφ, y=sinθ·sinφ, z=cosθ.
func (d StateDirection) Vector() r3.Vec {
	if v, ok := cardinalVectors[d.Label]; ok {
		return v
	}
	s := math.Sin(d.Polar)
	return r3.Vec{
		X: s * math.Cos(d.Azimuthal),
		Y: s * math.Sin(d.Azimuthal),
		Z: math.Cos(d.Polar),
	}
}

// Opposite returns the antipodal direction.
func (d StateDirection) Opposite() StateDirection {
	switch d.Label {
	case "+Z":
		return ZMinus
	case "-Z":
		return ZPlus
	case "+X":
		return XMinus
	case "-X":
		return XPlus
	case "+Y":
		return YMinus
	case "-Y":
		return YPlus
	}
	polar := math.Pi - d.Polar
	az := wrapAngle(d.Azimuthal + math.Pi)
	if polar < epsLen || math.Pi-polar < epsLen {
		az = 0
	}
	return StateDirection{Label: "-(" + d.Label + ")", Polar: polar, Azimuthal: az}
}

// MeasurementAxis is an oriented measurement direction together with its
// negative eigen-direction. A Stern-Gerlach device always outputs one of
// these two, never an intermediate value.
type MeasurementAxis struct {
	Plus  StateDirection
	Minus StateDirection
}

var (
	AxisZ = MeasurementAxis{ZPlus, ZMinus}
	AxisX = MeasurementAxis{XPlus, XMinus}
	AxisY = MeasurementAxis{YPlus, YMinus}
)

// CustomAxis builds a measurement axis tilted by angle radians from +Z in
// the X–Z plane (the orientation knob of a rotatable Stern-Gerlach stage).
func CustomAxis(angle Real) MeasurementAxis {
	a := wrapAngle(angle)
	var plus StateDirection
	switch a {
	case 0:
		plus = ZPlus
	case math.Pi / 2:
		plus = XPlus
	case math.Pi:
		plus = ZMinus
	case 3 * math.Pi / 2:
		plus = XMinus
	default:
		polar := a
		az := Real(0)
		if polar > math.Pi {
			polar = 2*math.Pi - polar
			az = math.Pi
		}
		plus = StateDirection{Label: fmt.Sprintf("%+.1fdeg", angle*180/math.Pi), Polar: polar, Azimuthal: az}
	}
	return MeasurementAxis{Plus: plus, Minus: plus.Opposite()}
}

// Opposite returns the axis flipped end for end.
func (a MeasurementAxis) Opposite() MeasurementAxis {
	return MeasurementAxis{Plus: a.Minus, Minus: a.Plus}
}

// ParseDirection resolves a direction label from a config file.
func ParseDirection(label string) (StateDirection, error) {
	switch label {
	case "+Z", "Z":
		return ZPlus, nil
	case "-Z":
		return ZMinus, nil
	case "+X", "X":
		return XPlus, nil
	case "-X":
		return XMinus, nil
	case "+Y", "Y":
		return YPlus, nil
	case "-Y":
		return YMinus, nil
	}
	return StateDirection{}, fmt.Errorf("%w: unknown direction %q", ErrInvalidConfiguration, label)
}
