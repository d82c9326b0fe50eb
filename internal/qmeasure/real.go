package qmeasure

// Real is the scalar type used across the engine.
type Real = float64
