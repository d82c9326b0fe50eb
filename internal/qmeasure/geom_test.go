package qmeasure

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r2"
)

func TestSegmentIntersect(t *testing.T) {
	// vertical segment crossed by a horizontal step
	seg := Segment{A: r2.Vec{X: 1, Y: -1}, B: r2.Vec{X: 1, Y: 1}}
	tt, u, p, ok := seg.Intersect(r2.Vec{X: 0, Y: 0}, r2.Vec{X: 2, Y: 0})
	if !ok {
		t.Fatalf("expected a hit")
	}
	if math.Abs(tt-0.5) > 1e-12 || math.Abs(u-0.5) > 1e-12 {
		t.Fatalf("parameters wrong: t=%.12g u=%.12g", tt, u)
	}
	if math.Abs(p.X-1) > 1e-12 || math.Abs(p.Y) > 1e-12 {
		t.Fatalf("hit point wrong: %+v", p)
	}
}

func TestSegmentIntersectMisses(t *testing.T) {
	seg := Segment{A: r2.Vec{X: 1, Y: -1}, B: r2.Vec{X: 1, Y: 1}}

	// step stops short of the segment (t would be > 1)
	if _, _, _, ok := seg.Intersect(r2.Vec{X: 0, Y: 0}, r2.Vec{X: 0.5, Y: 0}); ok {
		t.Fatalf("short step must miss")
	}
	// step beyond the segment's extent (u outside [0,1])
	if _, _, _, ok := seg.Intersect(r2.Vec{X: 0, Y: 2}, r2.Vec{X: 2, Y: 2}); ok {
		t.Fatalf("step outside segment extent must miss")
	}
	// step moving away from the segment (t would be < 0)
	if _, _, _, ok := seg.Intersect(r2.Vec{X: 0, Y: 0}, r2.Vec{X: -2, Y: 0}); ok {
		t.Fatalf("step moving away must miss")
	}
	// parallel: policy is no intersection, not an error
	if _, _, _, ok := seg.Intersect(r2.Vec{X: 0, Y: -1}, r2.Vec{X: 0, Y: 1}); ok {
		t.Fatalf("parallel step must miss")
	}
}

func TestSegmentIntersectDegenerate(t *testing.T) {
	// zero-length element geometry never intersects
	zero := Segment{A: r2.Vec{X: 1, Y: 0}, B: r2.Vec{X: 1, Y: 0}}
	if _, _, _, ok := zero.Intersect(r2.Vec{X: 0, Y: 0}, r2.Vec{X: 2, Y: 0}); ok {
		t.Fatalf("zero-length segment must never intersect")
	}
	// zero-length photon step never intersects
	seg := Segment{A: r2.Vec{X: 1, Y: -1}, B: r2.Vec{X: 1, Y: 1}}
	if _, _, _, ok := seg.Intersect(r2.Vec{X: 1, Y: 0}, r2.Vec{X: 1, Y: 0}); ok {
		t.Fatalf("zero-length step must never intersect")
	}
}

func TestSegmentEndpointHit(t *testing.T) {
	// grazing the segment endpoint (u = 1) still counts: both parameters
	// lie in the closed interval [0,1].
	seg := Segment{A: r2.Vec{X: 1, Y: -1}, B: r2.Vec{X: 1, Y: 0}}
	_, u, _, ok := seg.Intersect(r2.Vec{X: 0, Y: 0}, r2.Vec{X: 2, Y: 0})
	if !ok {
		t.Fatalf("endpoint graze must hit")
	}
	if math.Abs(u-1) > 1e-12 {
		t.Fatalf("expected u=1, got %.12g", u)
	}
}

func TestPerpClockwise(t *testing.T) {
	// a rightward beam deflects downward
	got := perpClockwise(r2.Vec{X: 1, Y: 0})
	if got != (r2.Vec{X: 0, Y: -1}) {
		t.Fatalf("perpClockwise(+X) = %+v", got)
	}
}
