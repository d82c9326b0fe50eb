package qmeasure

import (
	"fmt"

	"github.com/montanaflynn/stats"
	"github.com/rs/zerolog"
)

// EnsembleEvent identifies a committed ensemble mutation.
type EnsembleEvent int

const (
	EventPrepared EnsembleEvent = iota
	EventMeasured
	EventBiasChanged
	EventReset
)

// EnsembleObserver is called after a mutation has fully committed, in
// registration order. A single-system view derived from member 0 is the
// typical consumer.
type EnsembleObserver func(ev EnsembleEvent)

// TwoOutcomeEnsemble is a fixed, ordered collection of N independent
// TwoOutcomeSystems sharing one bias and one RandomSource. Order is stable
// so that member i maps 1:1 to its visual counterpart.
type TwoOutcomeEnsemble struct {
	systems []*TwoOutcomeSystem
	bias    Real
	initial Outcome
	countA  int
	countB  int

	rng       *RandomSource
	observers []EnsembleObserver
	log       zerolog.Logger
}

// NewTwoOutcomeEnsemble validates and builds an ensemble of n systems, all
// holding the initial concrete value.
func NewTwoOutcomeEnsemble(labels [2]string, n int, bias Real, initial Outcome, rng *RandomSource) (*TwoOutcomeEnsemble, error) {
	if n < 1 {
		return nil, fmt.Errorf("%w: ensemble size must be >= 1, got %d", ErrInvalidConfiguration, n)
	}
	if bias < 0 || bias > 1 || !isFinite(bias) {
		return nil, fmt.Errorf("%w: bias must be in [0,1], got %g", ErrInvalidConfiguration, bias)
	}
	if rng == nil {
		return nil, fmt.Errorf("%w: nil random source", ErrInvalidConfiguration)
	}
	e := &TwoOutcomeEnsemble{
		bias:    bias,
		initial: initial,
		rng:     rng,
		log:     componentLogger("ensemble"),
	}
	e.systems = make([]*TwoOutcomeSystem, n)
	for i := range e.systems {
		s, err := NewTwoOutcomeSystem(labels, &e.bias, initial, rng)
		if err != nil {
			return nil, err
		}
		e.systems[i] = s
	}
	e.recount()
	e.log.Debug().Int("size", n).Float64("bias", bias).Msg("created ensemble")
	return e, nil
}

func (e *TwoOutcomeEnsemble) Size() int { return len(e.systems) }

// System returns member i (0-based). Member order never changes.
func (e *TwoOutcomeEnsemble) System(i int) *TwoOutcomeSystem { return e.systems[i] }

// Bias returns the shared probability of outcome A.
func (e *TwoOutcomeEnsemble) Bias() Real { return e.bias }

// SetBias retunes all members at once.
func (e *TwoOutcomeEnsemble) SetBias(b Real) error {
	if b < 0 || b > 1 || !isFinite(b) {
		return fmt.Errorf("%w: bias must be in [0,1], got %g", ErrInvalidConfiguration, b)
	}
	e.bias = b
	e.notify(EventBiasChanged)
	return nil
}

// Prepare puts every member into superposition.
func (e *TwoOutcomeEnsemble) Prepare() {
	for _, s := range e.systems {
		s.Prepare()
	}
	e.notify(EventPrepared)
}

// MeasureAll measures every member independently (i.i.d. Bernoulli(bias)),
// preserving order, then recomputes the aggregate counts. Observers run
// strictly after the counts are committed.
func (e *TwoOutcomeEnsemble) MeasureAll() (countA, countB int) {
	for _, s := range e.systems {
		s.Measure()
	}
	e.recount()
	e.notify(EventMeasured)
	return e.countA, e.countB
}

// Counts returns the aggregate of the last full measurement pass;
// countA + countB == Size after any full pass.
func (e *TwoOutcomeEnsemble) Counts() (countA, countB int) { return e.countA, e.countB }

// Step exists so a frame driver can treat all controllers uniformly; the
// ensemble itself has no continuous dynamics.
func (e *TwoOutcomeEnsemble) Step(dt Real) {}

// Reset restores every member to the initial concrete value and clears the
// aggregate counts, without tearing down member identity.
func (e *TwoOutcomeEnsemble) Reset() {
	for _, s := range e.systems {
		_ = s.PrepareAs(e.initial)
	}
	e.recount()
	e.notify(EventReset)
}

// Observe registers a post-commit observer.
func (e *TwoOutcomeEnsemble) Observe(obs EnsembleObserver) {
	e.observers = append(e.observers, obs)
}

// Stats summarizes the current measured values as a 0/1 series (1 = A).
func (e *TwoOutcomeEnsemble) Stats() (mean, stdev Real, err error) {
	series := make([]float64, len(e.systems))
	for i, s := range e.systems {
		if s.MeasuredValue() == OutcomeA {
			series[i] = 1
		}
	}
	if mean, err = stats.Mean(series); err != nil {
		return 0, 0, err
	}
	stdev, err = stats.StandardDeviation(series)
	return mean, stdev, err
}

func (e *TwoOutcomeEnsemble) recount() {
	a := 0
	for _, s := range e.systems {
		if s.MeasuredValue() == OutcomeA {
			a++
		}
	}
	e.countA = a
	e.countB = len(e.systems) - a
}

func (e *TwoOutcomeEnsemble) notify(ev EnsembleEvent) {
	for _, obs := range e.observers {
		obs(ev)
	}
}
