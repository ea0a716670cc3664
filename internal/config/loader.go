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
//  1. defaults (New())
//  2. file (YAML) if BUGATHON_CONFIG is set
//  3. env (prefix BUGATHON_)
func Load(ctx context.Context) (*Config, error) {
	// Start with defaults
	base := New()

	k := koanf.New(".")

	// Load from file if provided
	if path := os.Getenv("BUGATHON_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
		}
	}

	// Environment variables: BUGATHON_ADDR, BUGATHON_TRACKER_BASE_URL, ...
	// Map env keys like BUGATHON_STORE_PATH -> store_path (flat keys)
	// Preserve underscores to match koanf tags on the struct.
	envProvider := env.Provider("BUGATHON_", ".", func(s string) string {
		s = strings.ToLower(s)
		s = strings.TrimPrefix(s, "bugathon_")
		return s
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
	}

	// Unmarshal into a copy
	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
	}

	// Basic validation
	if cfg.Addr == "" {
		return nil, fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	}
	if cfg.TrackerBaseURL == "" {
		return nil, fmt.Errorf("%w: tracker_base_url must not be empty", ErrInvalidConfig)
	}
	if cfg.StoreDriver != "sqlite" && cfg.StoreDriver != "memory" {
		return nil, fmt.Errorf("%w: store_driver must be sqlite or memory", ErrInvalidConfig)
	}
	return &cfg, nil
}
