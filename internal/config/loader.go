package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	envPrefix     = "ESTATE_"
	envConfigFile = "ESTATE_CONFIG"
	envDotEnvFile = "ESTATE_ENV_FILE"
	defaultDotEnv = ".env"
)

// Load builds a Config by layering defaults, an optional .env file, an
// optional YAML file and env vars.
// Order of precedence (low -> high):
//  1. defaults (New(ctx))
//  2. .env file (ESTATE_ENV_FILE, default ".env"; a missing file is ignored)
//  3. file (YAML) if ESTATE_CONFIG is set
//  4. env (prefix ESTATE_)
func Load(ctx context.Context) (*Config, error) {
	base := New(ctx)

	k := koanf.New(".")

	dotenv := os.Getenv(envDotEnvFile)
	if dotenv == "" {
		dotenv = defaultDotEnv
	}
	vars, err := godotenv.Read(dotenv)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("%w: %s: %w", ErrLoadConfig, dotenv, err)
	default:
		for name, val := range vars {
			if key, ok := envKey(name); ok {
				if err := k.Set(key, val); err != nil {
					return nil, fmt.Errorf("%w: %s: %w", ErrLoadConfig, dotenv, err)
				}
			}
		}
	}

	if path := os.Getenv(envConfigFile); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrLoadConfig, path, err)
		}
	}

	// Map env keys like ESTATE_GRID_CELL_SIZE -> grid_cell_size (flat keys).
	envProvider := env.Provider(envPrefix, ".", func(s string) string {
		key, _ := envKey(s)
		return key
	})
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

// envKey maps ESTATE_FOO_BAR to foo_bar. Names without the prefix are not config keys.
func envKey(name string) (string, bool) {
	if !strings.HasPrefix(strings.ToUpper(name), envPrefix) {
		return "", false
	}
	return strings.ToLower(name[len(envPrefix):]), true
}
