package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):.
//  1. defaults (New(ctx))
//  2. file (YAML) if ENGAGE_CONFIG is set
//  3. env (prefix ENGAGE_)
func Load(ctx context.Context) (*Config, error) {
	// Start with defaults
	base := New(ctx)

	k := koanf.New(".")

	// Load from file if provided
	if path := os.Getenv("ENGAGE_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%v: %w", err, ErrLoadConfig)
		}
	}

	// Environment variables: ENGAGE_ADDR, ENGAGE_QUEUE_SIZE, ...
	// Map env keys like ENGAGE_QUEUE_SIZE -> queue_size (flat keys)
	// Preserve underscores to match koanf tags on the struct.
	envProvider := env.Provider("ENGAGE_", ".", func(s string) string {
		s = strings.ToLower(s)
		s = strings.TrimPrefix(s, "engage_")
		return s
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%v: %w", err, ErrLoadConfig)
	}

	// Unmarshal into a copy
	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%v: %w", err, ErrLoadConfig)
	}

	// Basic validation
	if cfg.Addr == "" {
		return nil, fmt.Errorf("addr must not be empty: %w", ErrInvalidConfig)
	}
	if cfg.Tolerance < 0 {
		return nil, fmt.Errorf("tolerance must not be negative: %w", ErrInvalidConfig)
	}
	if cfg.InactiveWeeks < 1 {
		return nil, fmt.Errorf("inactive_weeks must be at least 1: %w", ErrInvalidConfig)
	}
	return &cfg, nil
}
