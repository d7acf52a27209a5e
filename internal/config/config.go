// Package config loads the verifier host configuration from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/ZanzyTHEbar/detective-verifier/internal/verifier"
)

// Config is the resolved process configuration.
type Config struct {
	Port     string
	LogLevel string
	GinMode  string

	Verifier verifier.Config

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	RateLimitPerMin          int
	RateLimitBurstMultiplier int
	CacheTTL                 time.Duration
	RequestTimeout           time.Duration
	AllowedOrigins           []string
}

// Load reads the configuration from the process environment.
func Load() (*Config, error) {
	return LoadFrom(os.Getenv)
}

// LoadFrom reads the configuration through getenv, which makes it testable
// without touching the process environment.
func LoadFrom(getenv func(string) string) (*Config, error) {
	env := func(key, def string) string {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			return v
		}
		return def
	}

	var errs []string
	uintVar := func(key string, def uint64) uint64 {
		raw := env(key, "")
		if raw == "" {
			return def
		}
		v, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			errs = append(errs, fmt.Sprintf("%s: %v", key, err))
			return def
		}
		return v
	}
	intVar := func(key string, def int) int {
		raw := env(key, "")
		if raw == "" {
			return def
		}
		v, err := strconv.Atoi(raw)
		if err != nil || v < 0 {
			errs = append(errs, fmt.Sprintf("%s: must be a non-negative integer, got %q", key, raw))
			return def
		}
		return v
	}
	durationVar := func(key string, def time.Duration) time.Duration {
		raw := env(key, "")
		if raw == "" {
			return def
		}
		v, err := time.ParseDuration(raw)
		if err != nil || v <= 0 {
			errs = append(errs, fmt.Sprintf("%s: must be a positive duration, got %q", key, raw))
			return def
		}
		return v
	}

	cfg := &Config{
		Port:          env("PORT", "8080"),
		LogLevel:      env("LOG_LEVEL", "info"),
		GinMode:       env("GIN_MODE", "release"),
		RedisAddr:     env("REDIS_ADDR", ""),
		RedisPassword: env("REDIS_PASSWORD", ""),
		RedisDB:       intVar("REDIS_DB", 0),

		RateLimitPerMin:          intVar("RATE_LIMIT_PER_MIN", 120),
		RateLimitBurstMultiplier: intVar("RATE_LIMIT_BURST_MULTIPLIER", 2),
		CacheTTL:                 durationVar("CACHE_TTL", 15*time.Minute),
		RequestTimeout:           durationVar("REQUEST_TIMEOUT", 5*time.Second),
		AllowedOrigins:           splitList(env("ALLOWED_ORIGINS", "*")),
	}

	cfg.Verifier = verifier.DefaultConfig()
	cfg.Verifier.Thresholds = verifier.Thresholds{
		MinAccuracyPercent: uintVar("HUMANITY_MIN_ACCURACY", verifier.DefaultMinAccuracyPercent),
		MinLatencyMs:       uintVar("HUMANITY_MIN_LATENCY_MS", verifier.DefaultMinHumanLatencyMs),
		MaxLatencyMs:       uintVar("HUMANITY_MAX_LATENCY_MS", verifier.DefaultMaxHumanLatencyMs),
	}

	overflow, err := verifier.ParseOverflowMode(env("OVERFLOW_MODE", "checked"))
	if err != nil {
		errs = append(errs, fmt.Sprintf("OVERFLOW_MODE: %v", err))
	}
	cfg.Verifier.Overflow = overflow

	ratio, err := verifier.ParseRatioMode(env("RATIO_MODE", "preserve"))
	if err != nil {
		errs = append(errs, fmt.Sprintf("RATIO_MODE: %v", err))
	}
	cfg.Verifier.Ratio = ratio

	if err := cfg.Verifier.Thresholds.Validate(); err != nil {
		errs = append(errs, err.Error())
	}
	if cfg.RateLimitPerMin == 0 {
		errs = append(errs, "RATE_LIMIT_PER_MIN: must be positive")
	}

	if len(errs) > 0 {
		return nil, fmt.Errorf("invalid configuration: %s", strings.Join(errs, "; "))
	}
	return cfg, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
