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

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "TRIP_"

// FileEnv names the variable holding an optional YAML config path.
const FileEnv = EnvPrefix + "CONFIG"

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) if TRIP_CONFIG is set
//  3. env (prefix TRIP_)
func Load(_ context.Context) (*Config, error) {
	base := New()

	k := koanf.New(".")

	if path := os.Getenv(FileEnv); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: file %s: %w", ErrLoadConfig, path, err)
		}
	}

	// TRIP_OPENWEATHER_API_KEY -> openweather_api_key (flat keys, underscores kept).
	// List keys take comma-separated values.
	envProvider := env.ProviderWithValue(EnvPrefix, ".", envValue)
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: env: %w", ErrLoadConfig, err)
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// listKeys are the keys whose env values are comma-separated lists.
var listKeys = map[string]bool{
	"allowed_origins": true,
}

func envValue(name, value string) (string, interface{}) {
	key := strings.TrimPrefix(strings.ToLower(name), strings.ToLower(EnvPrefix))
	if !listKeys[key] {
		return key, value
	}
	items := []string{}
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return key, items
}

// Validate checks cross-field constraints.
func (c *Config) Validate() error {
	switch {
	case c.Addr == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.ProviderTimeoutMS < 0:
		return fmt.Errorf("%w: provider_timeout_ms must not be negative", ErrInvalidConfig)
	case c.MaxInFlight < 0:
		return fmt.Errorf("%w: max_in_flight must not be negative", ErrInvalidConfig)
	case c.CatalogLatencyMinMS < 0 || c.CatalogLatencyMaxMS < 0:
		return fmt.Errorf("%w: catalog latency must not be negative", ErrInvalidConfig)
	case c.CatalogLatencyMaxMS < c.CatalogLatencyMinMS:
		return fmt.Errorf("%w: catalog_latency_max_ms must be >= catalog_latency_min_ms", ErrInvalidConfig)
	case c.SearchRatePerMinute < 0 || c.SearchRateBurst < 0:
		return fmt.Errorf("%w: search rate must not be negative", ErrInvalidConfig)
	}
	return nil
}
