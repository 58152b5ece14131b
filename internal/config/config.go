// Package config gathers all process configuration in one place. The config
// object is built once at startup and handed to component constructors, so no
// business logic reads the environment ambiently.
package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	defaultAddr       = ":8080"
	defaultIssuer     = "agentdesk"
	defaultSessionTTL = 12 * time.Hour
	defaultRateBurst  = 20
	defaultRatePerSec = 10
)

// Config carries everything the API process needs from its environment.
type Config struct {
	// Addr is the listen address for the HTTP server.
	Addr string
	// DatabaseDSN is the PostgreSQL connection string. Empty disables the
	// database (health endpoints still work, everything else degrades).
	DatabaseDSN string
	// AuthSecret signs and verifies platform access tokens (HS256).
	AuthSecret string
	// AuthIssuer is the expected token issuer claim.
	AuthIssuer string
	// StaffSessionTTL bounds the lifetime of staff sessions created at login.
	StaffSessionTTL time.Duration
	// RateBurst and RatePerSecond tune the per-IP request limiter.
	RateBurst     int
	RatePerSecond int
}

// Load builds a Config from the provided environment lookup. Passing the
// lookup explicitly keeps Load testable without touching process state.
func Load(getenv func(string) string) (Config, error) {
	cfg := Config{
		Addr:            defaultAddr,
		AuthIssuer:      defaultIssuer,
		StaffSessionTTL: defaultSessionTTL,
		RateBurst:       defaultRateBurst,
		RatePerSecond:   defaultRatePerSec,
	}

	if v := strings.TrimSpace(getenv("AGENTDESK_ADDR")); v != "" {
		cfg.Addr = v
	}
	cfg.DatabaseDSN = strings.TrimSpace(getenv("AGENTDESK_PG_DSN"))
	cfg.AuthSecret = strings.TrimSpace(getenv("AGENTDESK_AUTH_SECRET"))
	if cfg.AuthSecret == "" {
		return Config{}, errors.New("AGENTDESK_AUTH_SECRET is required")
	}
	if v := strings.TrimSpace(getenv("AGENTDESK_AUTH_ISSUER")); v != "" {
		cfg.AuthIssuer = v
	}
	if v := strings.TrimSpace(getenv("AGENTDESK_STAFF_SESSION_TTL")); v != "" {
		ttl, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("parse AGENTDESK_STAFF_SESSION_TTL: %w", err)
		}
		if ttl <= 0 {
			return Config{}, errors.New("AGENTDESK_STAFF_SESSION_TTL must be positive")
		}
		cfg.StaffSessionTTL = ttl
	}
	var err error
	if cfg.RateBurst, err = intVar(getenv, "AGENTDESK_RATE_BURST", cfg.RateBurst); err != nil {
		return Config{}, err
	}
	if cfg.RatePerSecond, err = intVar(getenv, "AGENTDESK_RATE_PER_SEC", cfg.RatePerSecond); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func intVar(getenv func(string) string, name string, def int) (int, error) {
	raw := strings.TrimSpace(getenv(name))
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", name, err)
	}
	if v <= 0 {
		return 0, fmt.Errorf("%s must be positive", name)
	}
	return v, nil
}
