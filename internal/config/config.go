// Package config loads service configuration from environment variables.
package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

// Config holds all service configuration.
type Config struct {
	Server    ServerConfig
	Logging   LogConfig
	RateLimit RateLimitConfig
	Engine    EngineConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port string `envconfig:"PORT" default:"8000"`
	Host string `envconfig:"HOST" default:"0.0.0.0"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `envconfig:"LOG_LEVEL" default:"info"`
	Development bool   `envconfig:"LOG_DEV" default:"false"`
}

// RateLimitConfig holds rate limiting configuration.
type RateLimitConfig struct {
	RequestsPerSecond int  `envconfig:"RATE_LIMIT_RPS" default:"100"`
	Burst             int  `envconfig:"RATE_LIMIT_BURST" default:"200"`
	Enabled           bool `envconfig:"RATE_LIMIT_ENABLED" default:"true"`
}

// EngineConfig tunes the numerical analysis engine.
type EngineConfig struct {
	DerivativeStep    float64 `envconfig:"ENGINE_DERIVATIVE_STEP" default:"0.0001"`
	IntegralSteps     int     `envconfig:"ENGINE_INTEGRAL_STEPS" default:"100"`
	RootSamples       int     `envconfig:"ENGINE_ROOT_SAMPLES" default:"1000"`
	InflectionSamples int     `envconfig:"ENGINE_INFLECTION_SAMPLES" default:"500"`

	// PropagateUndefined switches the integral's interior-sample policy
	// from skip-and-continue to propagate-undefined.
	PropagateUndefined bool `envconfig:"ENGINE_INTEGRAL_PROPAGATE_UNDEFINED" default:"false"`
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return &cfg, nil
}

// LoadOrDefault loads configuration from environment or returns defaults.
func LoadOrDefault() *Config {
	cfg, err := Load()
	if err != nil {
		return Default()
	}
	return cfg
}

// Default returns default configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port: "8000",
			Host: "0.0.0.0",
		},
		Logging: LogConfig{
			Level:       "info",
			Development: false,
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 100,
			Burst:             200,
			Enabled:           true,
		},
		Engine: EngineConfig{
			DerivativeStep:    1e-4,
			IntegralSteps:     100,
			RootSamples:       1000,
			InflectionSamples: 500,
		},
	}
}
