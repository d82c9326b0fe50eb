package qmeasure

import (
	"math"
)

func isFinite(x Real) bool { return !math.IsInf(x, 0) && !math.IsNaN(x) }

func clamp01(x Real) Real {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}

// wrapAngle maps an angle to [0, 2π).
func wrapAngle(a Real) Real {
	a = math.Mod(a, 2*math.Pi)
	if a < 0 {
		a += 2 * math.Pi
	}
	return a
}
