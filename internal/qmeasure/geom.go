package qmeasure

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Segment is a finite line segment in model space (meters).
type Segment struct {
	A, B r2.Vec
}

func (s Segment) Length() Real { return r2.Norm(r2.Sub(s.B, s.A)) }

// cross returns the z component of the 2D cross product.
func cross(a, b r2.Vec) Real { return a.X*b.Y - a.Y*b.X }

// Intersect tests the photon step p0→p1 against the segment. The step
// parameter t and the segment parameter u must both land in [0,1] for a
// hit. Parallel and zero-length inputs never intersect (policy, not an
// error).
func (s Segment) Intersect(p0, p1 r2.Vec) (t, u Real, point r2.Vec, ok bool) {
	d := r2.Sub(p1, p0)
	e := r2.Sub(s.B, s.A)
	denom := cross(d, e)
	if math.Abs(denom) < epsLen {
		return 0, 0, r2.Vec{}, false
	}
	ap := r2.Sub(s.A, p0)
	t = cross(ap, e) / denom
	u = cross(ap, d) / denom
	if t < 0 || t > 1 || u < 0 || u > 1 {
		return 0, 0, r2.Vec{}, false
	}
	return t, u, r2.Add(p0, r2.Scale(t, d)), true
}

// perpClockwise rotates a direction -90°: a rightward beam deflects
// downward, matching the bench's fixed mirror convention.
func perpClockwise(v r2.Vec) r2.Vec { return r2.Vec{X: v.Y, Y: -v.X} }
