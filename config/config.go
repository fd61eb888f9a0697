// Package config loads service configuration from defaults, an optional
// yaml file, and PLAYLOG_-prefixed environment variables, in that order.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultPaths lists where a config file is searched, in order. The first
// one that exists wins.
var DefaultPaths = []string{
	"config.yaml",
	"/etc/playlog/config.yaml",
}

// PathEnvVar overrides the config file search with an explicit path.
const PathEnvVar = "PLAYLOG_CONFIG"

// envPrefix namespaces the environment overlay: PLAYLOG_LOG_LEVEL=debug
// sets log.level.
const envPrefix = "PLAYLOG_"

type Config struct {
	// Listen is the HTTP listen address.
	Listen string `koanf:"listen"`

	// DB is the sqlite3 database file path.
	DB string `koanf:"db"`

	Log LogConfig `koanf:"log"`
}

type LogConfig struct {
	// Level is the minimum level: debug, info, warn, error.
	Level string `koanf:"level"`

	// Format is json or console.
	Format string `koanf:"format"`
}

// Default returns the configuration used when nothing else is supplied.
func Default() *Config {
	return &Config{
		Listen: ":8000",
		DB:     "playlog.db",
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load assembles the effective configuration.
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(Default(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("error loading default config: %w", err)
	}

	paths := DefaultPaths
	if path := os.Getenv(PathEnvVar); path != "" {
		paths = []string{path}
	}
	for _, path := range paths {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error loading config file '%s': %w", path, err)
		}
		break
	}

	if err := k.Load(env.Provider(envPrefix, ".", func(key string) string {
		return strings.ReplaceAll(
			strings.ToLower(strings.TrimPrefix(key, envPrefix)), "_", ".")
	}), nil); err != nil {
		return nil, fmt.Errorf("error loading config from environment: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	return &cfg, nil
}
