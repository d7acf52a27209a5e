package verifier

import (
	"fmt"

	"github.com/holiman/uint256"
)

// Default humanity thresholds. Every comparison against them is strict.
const (
	DefaultMinAccuracyPercent = 60
	DefaultMinHumanLatencyMs  = 500
	DefaultMaxHumanLatencyMs  = 240_000 // 4 minutes

	// DocumentedMaxHumanLatencyMs is the abandonment ceiling named in the
	// scoring notes. It differs from the enforced default; see DESIGN.md.
	DocumentedMaxHumanLatencyMs = 300_000

	// PercentScale is the fixed-point multiplier applied before division.
	PercentScale = 100
)

var percentScale = uint256.NewInt(PercentScale)

// Thresholds holds the fixed cut-offs used by the humanity check.
type Thresholds struct {
	MinAccuracyPercent uint64 `json:"min_accuracy_percent"`
	MinLatencyMs       uint64 `json:"min_latency_ms"`
	MaxLatencyMs       uint64 `json:"max_latency_ms"`
}

// DefaultThresholds returns the thresholds the verifier ships with.
func DefaultThresholds() Thresholds {
	return Thresholds{
		MinAccuracyPercent: DefaultMinAccuracyPercent,
		MinLatencyMs:       DefaultMinHumanLatencyMs,
		MaxLatencyMs:       DefaultMaxHumanLatencyMs,
	}
}

// Validate reports whether the thresholds describe a satisfiable window.
func (t Thresholds) Validate() error {
	if t.MinAccuracyPercent > PercentScale {
		return fmt.Errorf("%w: accuracy threshold %d exceeds %d", ErrInvalidThresholds, t.MinAccuracyPercent, PercentScale)
	}
	if t.MinLatencyMs >= t.MaxLatencyMs {
		return fmt.Errorf("%w: latency floor %d must be below ceiling %d", ErrInvalidThresholds, t.MinLatencyMs, t.MaxLatencyMs)
	}
	return nil
}
