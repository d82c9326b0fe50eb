package qmeasure

import "errors"

// Error taxonomy. Configuration errors are fatal at construction and never
// recovered. State and amplitude errors leave the prior state intact.
var (
	ErrInvalidConfiguration = errors.New("invalid configuration")
	ErrInvalidState         = errors.New("invalid state")
	ErrInvalidAmplitude     = errors.New("invalid amplitude")
)
