package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/ZanzyTHEbar/detective-verifier/internal/monitoring"
	"github.com/ZanzyTHEbar/detective-verifier/internal/verifier"
	"github.com/holiman/uint256"
	"github.com/urfave/cli/v2"
)

var (
	name    = "detective-verifier"
	version = "v1.0.0"

	overflowFlag = &cli.StringFlag{
		Name:    "overflow",
		Usage:   "Overflow policy: checked, wrapping or saturating",
		Value:   verifier.OverflowChecked.String(),
		EnvVars: []string{"OVERFLOW_MODE"},
	}

	ratioFlag = &cli.StringFlag{
		Name:    "ratio",
		Usage:   "Ratio policy when the count exceeds the total: preserve, clamp or reject",
		Value:   verifier.RatioPreserve.String(),
		EnvVars: []string{"RATIO_MODE"},
	}

	minAccuracyFlag = &cli.Uint64Flag{
		Name:    "min-accuracy",
		Usage:   "Accuracy percentage that must be exceeded",
		Value:   verifier.DefaultMinAccuracyPercent,
		EnvVars: []string{"HUMANITY_MIN_ACCURACY"},
	}

	minLatencyFlag = &cli.Uint64Flag{
		Name:    "min-latency",
		Usage:   "Latency floor in milliseconds, exclusive",
		Value:   verifier.DefaultMinHumanLatencyMs,
		EnvVars: []string{"HUMANITY_MIN_LATENCY_MS"},
	}

	maxLatencyFlag = &cli.Uint64Flag{
		Name:    "max-latency",
		Usage:   "Latency ceiling in milliseconds, exclusive",
		Value:   verifier.DefaultMaxHumanLatencyMs,
		EnvVars: []string{"HUMANITY_MAX_LATENCY_MS"},
	}

	correctFlag = &cli.StringFlag{Name: "correct", Usage: "Correct guesses (decimal or 0x hex)", Required: true}
	matchesFlag = &cli.StringFlag{Name: "matches", Usage: "Total matches (decimal or 0x hex)", Required: true}
	latencyFlag = &cli.StringFlag{Name: "latency", Usage: "Average response time in milliseconds", Required: true}
	fooledFlag  = &cli.StringFlag{Name: "fooled", Usage: "Times an agent fooled a human", Required: true}
	totalFlag   = &cli.StringFlag{Name: "total", Usage: "Total interactions", Required: true}
)

func main() {
	if err := newApp(os.Stdout).Run(os.Args); err != nil {
		monitoring.NewLoggerWithWriter(os.Stderr, slog.LevelError).Error("fatal error", "error", err)
		os.Exit(1)
	}
}

func newApp(out io.Writer) *cli.App {
	return &cli.App{
		Name:    name,
		Version: version,
		Usage:   "Score gameplay telemetry offline",
		Writer:  out,
		Flags: []cli.Flag{
			overflowFlag,
			ratioFlag,
			minAccuracyFlag,
			minLatencyFlag,
			maxLatencyFlag,
		},
		Commands: []*cli.Command{
			{
				Name:    "humanity",
				Aliases: []string{"h"},
				Usage:   "Verify a humanity score",
				Flags:   []cli.Flag{correctFlag, matchesFlag, latencyFlag},
				Action:  humanityAction,
			},
			{
				Name:    "deception",
				Aliases: []string{"d"},
				Usage:   "Calculate a deception rating",
				Flags:   []cli.Flag{fooledFlag, totalFlag},
				Action:  deceptionAction,
			},
		},
	}
}

func buildVerifier(c *cli.Context) (*verifier.Verifier, error) {
	overflow, err := verifier.ParseOverflowMode(c.String(overflowFlag.Name))
	if err != nil {
		return nil, err
	}
	ratio, err := verifier.ParseRatioMode(c.String(ratioFlag.Name))
	if err != nil {
		return nil, err
	}
	return verifier.New(verifier.Config{
		Thresholds: verifier.Thresholds{
			MinAccuracyPercent: c.Uint64(minAccuracyFlag.Name),
			MinLatencyMs:       c.Uint64(minLatencyFlag.Name),
			MaxLatencyMs:       c.Uint64(maxLatencyFlag.Name),
		},
		Overflow: overflow,
		Ratio:    ratio,
	})
}

func parseFlags(c *cli.Context, flags ...*cli.StringFlag) ([]*uint256.Int, error) {
	args := make([]*uint256.Int, 0, len(flags))
	for _, f := range flags {
		v, err := verifier.ParseUint(c.String(f.Name))
		if err != nil {
			return nil, fmt.Errorf("--%s: %w", f.Name, err)
		}
		args = append(args, v)
	}
	return args, nil
}

func humanityAction(c *cli.Context) error {
	v, err := buildVerifier(c)
	if err != nil {
		return err
	}
	args, err := parseFlags(c, correctFlag, matchesFlag, latencyFlag)
	if err != nil {
		return err
	}

	a, err := v.AssessHumanity(args[0], args[1], args[2])
	if err != nil {
		return err
	}

	return json.NewEncoder(c.App.Writer).Encode(map[string]interface{}{
		"human":                 a.Human,
		"accuracy":              a.Accuracy.Dec(),
		"no_evidence":           a.NoEvidence,
		"accuracy_ok":           a.AccuracyOK,
		"above_latency_floor":   a.AboveLatencyFloor,
		"below_latency_ceiling": a.BelowLatencyCeiling,
	})
}

func deceptionAction(c *cli.Context) error {
	v, err := buildVerifier(c)
	if err != nil {
		return err
	}
	args, err := parseFlags(c, fooledFlag, totalFlag)
	if err != nil {
		return err
	}

	rating, err := v.CalculateDeceptionRating(args[0], args[1])
	if err != nil {
		return err
	}

	return json.NewEncoder(c.App.Writer).Encode(map[string]string{"rating": rating.Dec()})
}
