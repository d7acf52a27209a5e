package verifier

import (
	"fmt"
	"strings"
)

// OverflowMode selects what happens when count*100 exceeds 256 bits.
type OverflowMode int

const (
	// OverflowChecked faults the call with ErrArithmeticOverflow.
	OverflowChecked OverflowMode = iota
	// OverflowWrapping reduces the product modulo 2^256.
	OverflowWrapping
	// OverflowSaturating clamps the product to 2^256-1.
	OverflowSaturating
)

func (m OverflowMode) String() string {
	switch m {
	case OverflowChecked:
		return "checked"
	case OverflowWrapping:
		return "wrapping"
	case OverflowSaturating:
		return "saturating"
	default:
		return fmt.Sprintf("OverflowMode(%d)", int(m))
	}
}

// ParseOverflowMode parses "checked", "wrapping" or "saturating".
func ParseOverflowMode(s string) (OverflowMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "checked":
		return OverflowChecked, nil
	case "wrapping", "wrap":
		return OverflowWrapping, nil
	case "saturating", "saturate":
		return OverflowSaturating, nil
	default:
		return OverflowChecked, fmt.Errorf("%w: overflow mode %q", ErrInvalidPolicy, s)
	}
}

// RatioMode selects how a numerator larger than its denominator is treated.
type RatioMode int

const (
	// RatioPreserve accepts the input and lets the ratio exceed 100.
	RatioPreserve RatioMode = iota
	// RatioClamp caps the computed ratio at 100.
	RatioClamp
	// RatioReject faults the call with ErrRatioExceedsTotal.
	RatioReject
)

func (m RatioMode) String() string {
	switch m {
	case RatioPreserve:
		return "preserve"
	case RatioClamp:
		return "clamp"
	case RatioReject:
		return "reject"
	default:
		return fmt.Sprintf("RatioMode(%d)", int(m))
	}
}

// ParseRatioMode parses "preserve", "clamp" or "reject".
func ParseRatioMode(s string) (RatioMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "preserve":
		return RatioPreserve, nil
	case "clamp":
		return RatioClamp, nil
	case "reject":
		return RatioReject, nil
	default:
		return RatioPreserve, fmt.Errorf("%w: ratio mode %q", ErrInvalidPolicy, s)
	}
}
