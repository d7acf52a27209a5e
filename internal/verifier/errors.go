package verifier

import "errors"

var (
	// ErrArithmeticOverflow is returned in checked mode when count*100 does not fit in 256 bits.
	ErrArithmeticOverflow = errors.New("arithmetic overflow")

	// ErrRatioExceedsTotal is returned in reject mode when the numerator is larger than the denominator.
	ErrRatioExceedsTotal = errors.New("numerator exceeds total")

	// ErrInvalidThresholds is returned when a threshold set can never be satisfied.
	ErrInvalidThresholds = errors.New("invalid thresholds")

	// ErrInvalidPolicy is returned when a policy name cannot be parsed.
	ErrInvalidPolicy = errors.New("invalid policy")
)
