// Package demo bootstraps the managed read-only demonstration connection:
// credentials come from the environment, the target is validated with
// retries, and on success the connection is registered and flagged read-only.
package demo

import (
	"fmt"
	"strings"

	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"

	"github.com/leapstack-labs/leapbridge/pkg/core"
)

// EnvPrefix is the variable prefix for demo credentials, e.g.
// LEAPBRIDGE_DEMO_HOST.
const EnvPrefix = "LEAPBRIDGE_DEMO_"

// ConnectionName is the display name of the managed demo record.
const ConnectionName = "Demo Database"

const defaultPort = 5432

// Config holds the demo target credentials read from the environment.
type Config struct {
	Host     string `koanf:"host"`
	Port     int    `koanf:"port"`
	Database string `koanf:"database"`
	Username string `koanf:"username"`
	Password string `koanf:"password"`
	SSL      bool   `koanf:"ssl"`
}

// LoadConfig reads LEAPBRIDGE_DEMO_* variables. Absent variables are not an
// error; callers gate on Configured().
func LoadConfig() (Config, error) {
	k := koanf.New(".")
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	}), nil); err != nil {
		return Config{}, fmt.Errorf("load demo env: %w", err)
	}

	cfg := Config{Port: defaultPort}
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, fmt.Errorf("decode demo env: %w", err)
	}
	return cfg, nil
}

// Configured reports whether every mandatory credential is present.
func (c Config) Configured() bool {
	return c.Host != "" && c.Port != 0 && c.Database != "" &&
		c.Username != "" && c.Password != ""
}

// connectionConfig maps the env credentials onto a connection record.
func (c Config) connectionConfig(engine core.EngineType) core.ConnectionConfig {
	return core.ConnectionConfig{
		Name:     ConnectionName,
		Type:     engine,
		Host:     c.Host,
		Port:     c.Port,
		Database: c.Database,
		Username: c.Username,
		Password: c.Password,
		SSL:      c.SSL,
	}
}
