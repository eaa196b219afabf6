// Package config loads the service configuration from the environment.
//
// A `.env` file in the working directory is loaded first when present. Variables
// use the CUSTOMERS_ prefix and the first underscore after it separates the
// section from the key, e.g. CUSTOMERS_SERVER_PORT -> server.port and
// CUSTOMERS_DATABASE_MAX_OPEN_CONNS -> database.max_open_conns.
package config

import (
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	_ "github.com/joho/godotenv/autoload"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
	"github.com/pkg/errors"
)

const EnvPrefix = "CUSTOMERS_"

type Config struct {
	Primary  Primary        `koanf:"primary" validate:"required"`
	Server   ServerConfig   `koanf:"server" validate:"required"`
	Database DatabaseConfig `koanf:"database" validate:"required"`
	Log      LogConfig      `koanf:"log"`
	Events   EventsConfig   `koanf:"events"`
}

type Primary struct {
	Env string `koanf:"env" validate:"required"`
}

type ServerConfig struct {
	Port         string        `koanf:"port" validate:"required"`
	ReadTimeout  time.Duration `koanf:"read_timeout" validate:"required"`
	WriteTimeout time.Duration `koanf:"write_timeout" validate:"required"`
	IdleTimeout  time.Duration `koanf:"idle_timeout" validate:"required"`
	// Comma separated; "*" allows any origin.
	CORSAllowedOrigins string `koanf:"cors_allowed_origins"`
}

// AllowedOrigins splits CORSAllowedOrigins into its trimmed, non-empty parts.
func (s ServerConfig) AllowedOrigins() []string {
	var out []string
	for _, o := range strings.Split(s.CORSAllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

// DatabaseConfig selects the backing store. Path is used by sqlite, DSN by postgres.
type DatabaseConfig struct {
	Driver       string `koanf:"driver" validate:"required,oneof=sqlite postgres"`
	Path         string `koanf:"path" validate:"required_if=Driver sqlite"`
	DSN          string `koanf:"dsn" validate:"required_if=Driver postgres"`
	MaxOpenConns int    `koanf:"max_open_conns" validate:"gte=1"`
	MaxIdleConns int    `koanf:"max_idle_conns" validate:"gte=0"`
}

type LogConfig struct {
	Level  string `koanf:"level" validate:"omitempty,oneof=debug info warn error"`
	Pretty bool   `koanf:"pretty"`
}

// EventsConfig enables the AMQP publisher when AMQPURL is set; otherwise change
// events stay in process.
type EventsConfig struct {
	AMQPURL string `koanf:"amqp_url" validate:"omitempty,url"`
	Queue   string `koanf:"queue" validate:"required"`
}

var defaults = map[string]any{
	"primary.env":                 "local",
	"server.port":                 "5001",
	"server.read_timeout":         "15s",
	"server.write_timeout":        "15s",
	"server.idle_timeout":         "60s",
	"server.cors_allowed_origins": "*",
	"database.driver":             "sqlite",
	"database.path":               "database/customer.db",
	"database.max_open_conns":     16,
	"database.max_idle_conns":     8,
	"log.level":                   "info",
	"log.pretty":                  false,
	"events.queue":                "customer_events",
}

// envKey maps CUSTOMERS_DATABASE_MAX_OPEN_CONNS to database.max_open_conns.
func envKey(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.Replace(key, "_", ".", 1)
}

// Load reads defaults, then the environment, and validates the result.
func Load() (*Config, error) {
	k := koanf.New(".")

	for key, val := range defaults {
		if err := k.Set(key, val); err != nil {
			return nil, errors.Wrapf(err, "set default %s", key)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, errors.Wrap(err, "load env")
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, errors.Wrap(err, "unmarshal config")
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, errors.Wrap(err, "config validation failed")
	}

	return cfg, nil
}
