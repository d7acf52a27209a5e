// Package verifier implements the humanity and deception scoring engine.
//
// All arithmetic runs on 256-bit unsigned integers with floor division. A zero
// denominator never reaches a division; it resolves to false or 0 instead.
// A Verifier holds no mutable state and is safe for concurrent use.
package verifier

import (
	"fmt"

	"github.com/holiman/uint256"
)

// Config controls the thresholds and arithmetic policies of a Verifier.
type Config struct {
	Thresholds Thresholds   `json:"thresholds"`
	Overflow   OverflowMode `json:"-"`
	Ratio      RatioMode    `json:"-"`
}

// DefaultConfig returns the shipped thresholds with checked overflow and
// permissive ratios.
func DefaultConfig() Config {
	return Config{
		Thresholds: DefaultThresholds(),
		Overflow:   OverflowChecked,
		Ratio:      RatioPreserve,
	}
}

// Verifier scores gameplay telemetry.
type Verifier struct {
	config       Config
	minAccuracy  *uint256.Int
	minLatencyMs *uint256.Int
	maxLatencyMs *uint256.Int
}

// New builds a Verifier after validating its thresholds.
func New(config Config) (*Verifier, error) {
	if err := config.Thresholds.Validate(); err != nil {
		return nil, err
	}
	return &Verifier{
		config:       config,
		minAccuracy:  uint256.NewInt(config.Thresholds.MinAccuracyPercent),
		minLatencyMs: uint256.NewInt(config.Thresholds.MinLatencyMs),
		maxLatencyMs: uint256.NewInt(config.Thresholds.MaxLatencyMs),
	}, nil
}

// MustNew is like New but panics on an invalid config.
func MustNew(config Config) *Verifier {
	v, err := New(config)
	if err != nil {
		panic(err)
	}
	return v
}

// Config returns the configuration the Verifier was built with.
func (v *Verifier) Config() Config {
	return v.config
}

// HumanityAssessment is the full breakdown behind a humanity verdict.
type HumanityAssessment struct {
	// NoEvidence is set when total matches was zero and nothing was computed.
	NoEvidence          bool         `json:"no_evidence"`
	Accuracy            *uint256.Int `json:"-"`
	AccuracyOK          bool         `json:"accuracy_ok"`
	AboveLatencyFloor   bool         `json:"above_latency_floor"`
	BelowLatencyCeiling bool         `json:"below_latency_ceiling"`
	Human               bool         `json:"human"`
}

// AssessHumanity evaluates the three humanity conditions and reports each one.
func (v *Verifier) AssessHumanity(correctGuesses, totalMatches, avgResponseTimeMs *uint256.Int) (HumanityAssessment, error) {
	totalMatches = orZero(totalMatches)
	if totalMatches.IsZero() {
		return HumanityAssessment{NoEvidence: true, Accuracy: new(uint256.Int)}, nil
	}

	accuracy, err := v.percent(orZero(correctGuesses), totalMatches)
	if err != nil {
		return HumanityAssessment{}, err
	}

	latency := orZero(avgResponseTimeMs)
	a := HumanityAssessment{
		Accuracy:            accuracy,
		AccuracyOK:          accuracy.Gt(v.minAccuracy),
		AboveLatencyFloor:   latency.Gt(v.minLatencyMs),
		BelowLatencyCeiling: latency.Lt(v.maxLatencyMs),
	}
	a.Human = a.AccuracyOK && a.AboveLatencyFloor && a.BelowLatencyCeiling
	return a, nil
}

// VerifyHumanityScore reports whether accuracy is above the accuracy threshold
// and the average response time lies strictly inside the latency window.
// Zero total matches always yields false.
func (v *Verifier) VerifyHumanityScore(correctGuesses, totalMatches, avgResponseTimeMs *uint256.Int) (bool, error) {
	a, err := v.AssessHumanity(correctGuesses, totalMatches, avgResponseTimeMs)
	if err != nil {
		return false, err
	}
	return a.Human, nil
}

// CalculateDeceptionRating returns floor(fooled*100/total), or 0 when total is zero.
func (v *Verifier) CalculateDeceptionRating(timesFooledHuman, totalInteractions *uint256.Int) (*uint256.Int, error) {
	totalInteractions = orZero(totalInteractions)
	if totalInteractions.IsZero() {
		return new(uint256.Int), nil
	}
	return v.percent(orZero(timesFooledHuman), totalInteractions)
}

// percent computes floor(num*100/den) under the configured policies. den must be non-zero.
func (v *Verifier) percent(num, den *uint256.Int) (*uint256.Int, error) {
	if v.config.Ratio == RatioReject && num.Gt(den) {
		return nil, fmt.Errorf("%w: %s > %s", ErrRatioExceedsTotal, num.Dec(), den.Dec())
	}

	product, overflow := new(uint256.Int).MulOverflow(num, percentScale)
	if overflow {
		switch v.config.Overflow {
		case OverflowWrapping:
			// product already holds the low 256 bits
		case OverflowSaturating:
			product.SetAllOne()
		default:
			return nil, fmt.Errorf("%w: %s * %d", ErrArithmeticOverflow, num.Dec(), PercentScale)
		}
	}

	ratio := product.Div(product, den)
	if v.config.Ratio == RatioClamp && ratio.Gt(percentScale) {
		ratio.Set(percentScale)
	}
	return ratio, nil
}

func orZero(x *uint256.Int) *uint256.Int {
	if x == nil {
		return new(uint256.Int)
	}
	return x
}

var defaultVerifier = MustNew(DefaultConfig())

// VerifyHumanityScore runs the default verifier on machine-word inputs.
// A uint64 times 100 always fits in 256 bits, so no error is possible.
func VerifyHumanityScore(correctGuesses, totalMatches, avgResponseTimeMs uint64) bool {
	ok, _ := defaultVerifier.VerifyHumanityScore(
		uint256.NewInt(correctGuesses),
		uint256.NewInt(totalMatches),
		uint256.NewInt(avgResponseTimeMs),
	)
	return ok
}

// CalculateDeceptionRating runs the default verifier on machine-word inputs.
func CalculateDeceptionRating(timesFooledHuman, totalInteractions uint64) *uint256.Int {
	rating, _ := defaultVerifier.CalculateDeceptionRating(
		uint256.NewInt(timesFooledHuman),
		uint256.NewInt(totalInteractions),
	)
	return rating
}
