package qmeasure

import (
	"time"
)

// Run loads an experiment config, builds the configured experiments, and
// drives them for the configured number of frames. This is the repo's
// demonstration driver; an interactive presentation layer calls the same
// Step/Reset/read-back surface once per animation frame.
func Run(cfgPath string) error {
	cfg, err := loadConfig(cfgPath)
	if err != nil {
		return err
	}

	seed := cfg.Seed
	if SeedOverride != 0 {
		seed = SeedOverride
	}
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	log := componentLogger("run")
	log.Info().Int64("seed", seed).Int("frames", cfg.Frames).Float64("dt", cfg.DT).Msg("starting")

	// Each experiment owns its random source.
	var (
		ensemble   *TwoOutcomeEnsemble
		experiment *SternGerlachExperiment
		bloch      *BlochState
		field      *PhotonField
	)
	if cfg.Coin != nil {
		if ensemble, err = cfg.Coin.Build(NewRandomSource(seed)); err != nil {
			return err
		}
	}
	if cfg.Spin != nil {
		if experiment, err = cfg.Spin.Build(NewRandomSource(seed + 1)); err != nil {
			return err
		}
		// Companion state visualizing the prepared spin between measurements.
		bloch = NewBlochState(experiment.Preparation(), cfg.Spin.PrecessionRate)
	}
	if cfg.Photon != nil {
		if field, err = cfg.Photon.Build(NewRandomSource(seed + 2)); err != nil {
			return err
		}
	}

	start := time.Now()
	for frame := 0; frame < cfg.Frames; frame++ {
		if ensemble != nil {
			ensemble.Step(cfg.DT)
		}
		if experiment != nil {
			experiment.Step(cfg.DT)
			bloch.Step(cfg.DT)
		}
		if field != nil {
			field.Step(cfg.DT)
		}
	}
	elapsed := time.Since(start)

	if ensemble != nil {
		ensemble.Prepare()
		a, b := ensemble.MeasureAll()
		mean, stdev, serr := ensemble.Stats()
		ev := log.Info().Int("countA", a).Int("countB", b).Float64("bias", ensemble.Bias())
		if serr == nil {
			ev = ev.Float64("mean", mean).Float64("stdev", stdev)
		}
		ev.Msg("coin ensemble")
	}
	if experiment != nil {
		for i := 0; i < experiment.Stages(); i++ {
			plus, minus := experiment.Device(i).BranchCounts()
			log.Info().Int("stage", i).Int("plus", plus).Int("minus", minus).
				Str("axis", experiment.Device(i).Axis.Plus.Label).Msg("stern-gerlach branches")
		}
		log.Info().Int("fired", experiment.ParticlesFired()).Msg("stern-gerlach total")
		v := bloch.Vector()
		log.Info().Float64("x", v.X).Float64("y", v.Y).Float64("z", v.Z).
			Float64("polar", bloch.Polar).Float64("azimuthal", bloch.Azimuthal).Msg("prepared spin state")
	}
	if field != nil {
		for _, d := range field.Detectors() {
			mean, median, serr := d.RateStats()
			ev := log.Info().Str("detector", d.Name).Int("count", d.Count()).
				Float64("absorbed", d.AbsorbedWeight()).Float64("rate", d.Rate())
			if serr == nil {
				ev = ev.Float64("eventMean", mean).Float64("eventMedian", median)
			}
			ev.Msg("detector")
		}
		log.Info().Int("launched", field.Launched()).Int("inFlight", len(field.Photons())).
			Float64("conservationError", field.WeightConservationError()).Msg("photon field")
	}

	if Debug {
		for name, n := range InteractionStats() {
			log.Debug().Str("event", name).Int("count", n).Msg("interaction log")
		}
	}
	log.Info().Dur("elapsed", elapsed).Msg("done")
	return nil
}
