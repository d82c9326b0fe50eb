package qmeasure

var (
	Debug        = false // set to true to record per-interaction events
	SeedOverride = int64(0)
	// Compile time checks to ensure that the optical element interface is implemented by all required types
	_ OpticalElement = (*Mirror)(nil)
	_ OpticalElement = (*PolarizingBeamSplitter)(nil)
	_ OpticalElement = (*Detector)(nil)
)
