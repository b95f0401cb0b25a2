// Package config loads process configuration from an optional
// leapbridge.yaml plus LEAPBRIDGE_ environment overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	// DefaultDataDir holds the persisted connection collection and the
	// query-performance log.
	DefaultDataDir = ".leapbridge"

	// DefaultLogLevel is used when neither file nor env specify one.
	DefaultLogLevel = "info"

	envPrefix = "LEAPBRIDGE_"
)

// configFileNames are probed in order when no explicit path is given.
var configFileNames = []string{"leapbridge.yaml", "leapbridge.yml"}

// Config is the resolved process configuration.
type Config struct {
	DataDir  string `koanf:"data_dir"`
	LogLevel string `koanf:"log_level"`
}

// Load resolves configuration with precedence env > file > defaults. A
// missing config file is not an error.
func Load(cfgFile string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(map[string]interface{}{
		"data_dir":  DefaultDataDir,
		"log_level": DefaultLogLevel,
	}, "."), nil); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}

	if cfgFile == "" {
		for _, name := range configFileNames {
			if _, err := os.Stat(name); err == nil {
				cfgFile = name
				break
			}
		}
	}
	if cfgFile != "" {
		if err := k.Load(file.Provider(cfgFile), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("read config file %s: %w", cfgFile, err)
		}
	}

	// LEAPBRIDGE_DATA_DIR -> data_dir. Demo credentials live under their own
	// longer prefix and are deliberately excluded here.
	if err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		if strings.HasPrefix(s, envPrefix+"DEMO_") {
			return ""
		}
		return strings.ToLower(strings.TrimPrefix(s, envPrefix))
	}), nil); err != nil {
		return nil, fmt.Errorf("load env vars: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return &cfg, nil
}

// ConnectionsPath is the persisted connection collection file.
func (c *Config) ConnectionsPath() string {
	return filepath.Join(c.DataDir, "connections.yaml")
}

// HistoryPath is the query-performance log file.
func (c *Config) HistoryPath() string {
	return filepath.Join(c.DataDir, "query_history.yaml")
}
