package qmeasure

import "fmt"

// Outcome indexes one of the two labels of a biased binary system.
type Outcome int

const (
	OutcomeA Outcome = iota // sampled with probability bias
	OutcomeB
)

func (o Outcome) valid() bool { return o == OutcomeA || o == OutcomeB }

// TwoOutcomeSystem is a single biased binary system with prepare/measure
// semantics (a coin, or one spin prepared along an axis). Between Prepare
// and Measure the system is undetermined (superposed); MeasuredValue is
// always one of the two concrete labels, never undetermined.
type TwoOutcomeSystem struct {
	Labels [2]string

	bias       *Real // shared with the owning ensemble; P(A) ∈ [0,1]
	determined bool
	measured   Outcome
	rng        *RandomSource
}

// NewTwoOutcomeSystem builds a system holding the initial concrete value.
// The bias is a reference so an ensemble can retune all members at once.
func NewTwoOutcomeSystem(labels [2]string, bias *Real, initial Outcome, rng *RandomSource) (*TwoOutcomeSystem, error) {
	if labels[0] == "" || labels[1] == "" || labels[0] == labels[1] {
		return nil, fmt.Errorf("%w: outcome labels must be two distinct non-empty strings", ErrInvalidConfiguration)
	}
	if bias == nil || *bias < 0 || *bias > 1 {
		return nil, fmt.Errorf("%w: bias must be in [0,1]", ErrInvalidConfiguration)
	}
	if !initial.valid() {
		return nil, fmt.Errorf("%w: initial outcome %d", ErrInvalidConfiguration, initial)
	}
	if rng == nil {
		return nil, fmt.Errorf("%w: nil random source", ErrInvalidConfiguration)
	}
	return &TwoOutcomeSystem{Labels: labels, bias: bias, determined: true, measured: initial, rng: rng}, nil
}

// Prepare resets the system into superposition.
func (s *TwoOutcomeSystem) Prepare() { s.determined = false }

// PrepareAs forces a concrete value deterministically (a coin set by hand).
func (s *TwoOutcomeSystem) PrepareAs(v Outcome) error {
	if !v.valid() {
		return fmt.Errorf("%w: cannot prepare outcome %d", ErrInvalidState, v)
	}
	s.determined = true
	s.measured = v
	return nil
}

// Measure collapses an undetermined system: outcome A iff u < bias for one
// uniform draw u. Repeated calls without an intervening Prepare are
// idempotent and return the previously measured value.
func (s *TwoOutcomeSystem) Measure() Outcome {
	if s.determined {
		return s.measured
	}
	if s.rng.Bool(*s.bias) {
		s.measured = OutcomeA
	} else {
		s.measured = OutcomeB
	}
	s.determined = true
	return s.measured
}

// MeasuredValue returns the last concrete outcome. Valid even while the
// system is re-prepared: it keeps the previous measurement until the next
// collapse.
func (s *TwoOutcomeSystem) MeasuredValue() Outcome { return s.measured }

// IsDetermined reports whether the system currently holds a concrete value.
func (s *TwoOutcomeSystem) IsDetermined() bool { return s.determined }

// Label resolves an outcome to its configured label.
func (s *TwoOutcomeSystem) Label(o Outcome) string { return s.Labels[o] }
