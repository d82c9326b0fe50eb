package qmeasure

const (
	DefaultFrames       = 600
	DefaultDT           = 1.0 / 60
	DefaultEnsembleSize = 100
	DefaultBias         = 0.5
	DefaultParticleRate = 20.0 // Stern-Gerlach particles per second
	DefaultPhotonRate   = 30.0 // emitted photons per second
	DefaultPhotonSpeed  = 1.0  // meters per second in model space
	DefaultRateAlpha    = 0.1  // detector EMA smoothing factor
	// hot-loop constants reused across frames
	ampTol    = 1e-9  // amplitude normalization tolerance
	epsLen    = 1e-12 // degenerate geometry threshold
	bumpShift = 1e-9  // offset off an element surface after an interaction
	weightEps = 1e-12 // candidate trajectories below this weight are dropped
)
