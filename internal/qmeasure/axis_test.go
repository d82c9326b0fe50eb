package qmeasure

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"
)

func TestCardinalVectorsExact(t *testing.T) {
	cases := []struct {
		dir  StateDirection
		want r3.Vec
	}{
		{ZPlus, r3.Vec{Z: 1}},
		{ZMinus, r3.Vec{Z: -1}},
		{XPlus, r3.Vec{X: 1}},
		{XMinus, r3.Vec{X: -1}},
		{YPlus, r3.Vec{Y: 1}},
		{YMinus, r3.Vec{Y: -1}},
	}
	for _, c := range cases {
		if got := c.dir.Vector(); got != c.want {
			t.Fatalf("%s: got %+v, want exactly %+v", c.dir.Label, got, c.want)
		}
	}
}

func TestOppositeCardinals(t *testing.T) {
	pairs := [][2]StateDirection{
		{ZPlus, ZMinus}, {XPlus, XMinus}, {YPlus, YMinus},
	}
	for _, p := range pairs {
		if p[0].Opposite() != p[1] || p[1].Opposite() != p[0] {
			t.Fatalf("%s/%s are not mutual opposites", p[0].Label, p[1].Label)
		}
	}
}

func TestCustomAxis(t *testing.T) {
	// 90° from +Z in the X-Z plane is exactly +X.
	a := CustomAxis(math.Pi / 2)
	if a.Plus != XPlus || a.Minus != XMinus {
		t.Fatalf("90deg axis: got %+v", a)
	}

	// 60° tilt: the plus direction must be a unit vector in the X-Z plane.
	b := CustomAxis(math.Pi / 3)
	v := b.Plus.Vector()
	if math.Abs(r3.Norm(v)-1) > 1e-12 {
		t.Fatalf("custom axis not unit: |v|=%.15g", r3.Norm(v))
	}
	if math.Abs(v.Z-0.5) > 1e-12 || math.Abs(v.X-math.Sqrt(3)/2) > 1e-12 {
		t.Fatalf("60deg axis wrong: %+v", v)
	}
	// antipodal
	w := b.Minus.Vector()
	if math.Abs(v.X+w.X) > 1e-12 || math.Abs(v.Z+w.Z) > 1e-12 {
		t.Fatalf("minus direction not antipodal: %+v vs %+v", v, w)
	}
}

func TestOppositePoleAzimuthalConvention(t *testing.T) {
	d := StateDirection{Label: "near-pole", Polar: math.Pi, Azimuthal: 1.3}
	op := d.Opposite()
	if op.Azimuthal != 0 {
		t.Fatalf("azimuthal at pole must be 0 by convention, got %g", op.Azimuthal)
	}
}

func TestParseDirection(t *testing.T) {
	for label, want := range map[string]StateDirection{
		"+Z": ZPlus, "Z": ZPlus, "-Z": ZMinus,
		"+X": XPlus, "X": XPlus, "-X": XMinus,
		"+Y": YPlus, "Y": YPlus, "-Y": YMinus,
	} {
		got, err := ParseDirection(label)
		if err != nil || got != want {
			t.Fatalf("ParseDirection(%q) = %+v, %v", label, got, err)
		}
	}
	if _, err := ParseDirection("+W"); err == nil {
		t.Fatalf("expected error for unknown label")
	}
}
