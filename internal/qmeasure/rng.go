package qmeasure

import "math/rand"

// RandomSource is a seedable uniform sampler. Every probabilistic decision
// in an experiment draws from the experiment's own source, so a fixed seed
// reproduces a full run exactly. A source must not be shared between
// concurrently stepping experiments.
type RandomSource struct {
	seed int64
	rng  *rand.Rand
}

func NewRandomSource(seed int64) *RandomSource {
	return &RandomSource{seed: seed, rng: rand.New(rand.NewSource(seed))}
}

// Float64 returns a uniform sample in [0, 1).
func (r *RandomSource) Float64() Real { return r.rng.Float64() }

// Bool samples true with probability p. Values outside [0,1] are clamped,
// so p >= 1 is exactly true and p <= 0 is exactly false with no draw.
func (r *RandomSource) Bool(p Real) bool {
	if p <= 0 {
		return false
	}
	if p >= 1 {
		return true
	}
	return r.rng.Float64() < p
}

// Reseed restarts the stream for deterministic replay.
func (r *RandomSource) Reseed(seed int64) {
	r.seed = seed
	r.rng = rand.New(rand.NewSource(seed))
}

func (r *RandomSource) Seed() int64 { return r.seed }
