// Copyright (c) 2026 Bahari. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package config handles application-wide settings and environment parsing.

It leverages 'caarlos0/env' to map OS environment variables into strongly-typed
Go structs, providing early validation and default values.

Usage:

	cfg, err := config.Load()
	if err != nil {
	    log.Fatal(err)
	}

Architecture:

  - Immutability: Once loaded, configuration is read-only.
  - DI-Friendly: Passed to core components (storage, remote client) via constructors.
  - Zero Hidden State: No global variables are used to store config.

The storefront client and the sandbox API each have their own schema.
*/
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// # Storage Drivers

const (
	StorageSQLite = "sqlite"
	StorageRedis  = "redis"
	StorageMemory = "memory"
)

// # Configuration Schema

// Config holds all runtime configuration for the storefront client.
type Config struct {

	// Runtime settings
	Environment string `env:"ENVIRONMENT"  envDefault:"development"`
	Debug       bool   `env:"DEBUG"        envDefault:"false"`

	// Remote marketplace API
	APIBaseURL string `env:"API_BASE_URL" envDefault:"http://localhost:8080/api/v1"`

	// APIRateLimitRPS throttles outgoing requests. Zero disables throttling.
	APIRateLimitRPS float64 `env:"API_RATE_LIMIT_RPS" envDefault:"0"`

	// Persistent key-value cache
	StorageDriver string `env:"STORAGE_DRIVER" envDefault:"sqlite"`
	StoragePath   string `env:"STORAGE_PATH"`
	RedisURL      string `env:"REDIS_URL"`

	// Positioning capability. GeoLookupURL takes precedence over fixed coordinates.
	GeoLookupURL string   `env:"GEO_LOOKUP_URL"`
	GeoFixedLat  *float64 `env:"GEO_FIXED_LAT"`
	GeoFixedLon  *float64 `env:"GEO_FIXED_LON"`
}

// SandboxConfig holds runtime configuration for the development marketplace API.
type SandboxConfig struct {

	// Server settings
	ServerPort  string `env:"SERVER_PORT"  envDefault:"8080"`
	Environment string `env:"ENVIRONMENT"  envDefault:"development"`
	Debug       bool   `env:"DEBUG"        envDefault:"false"`

	// JWTSecret signs sandbox access tokens (HS256).
	JWTSecret string `env:"SANDBOX_JWT_SECRET" envDefault:"sandbox-development-secret"`

	// FixedOTP makes every issued one-time code predictable. Empty means random codes.
	FixedOTP string `env:"SANDBOX_FIXED_OTP"`

	// RedisURL moves one-time codes into Redis. Empty keeps them in memory.
	RedisURL string `env:"REDIS_URL"`

	// Cross-Origin Resource Sharing
	AllowedOriginSuffix string `env:"ALLOWED_ORIGIN_SUFFIX" envDefault:"bahari.co.tz"`
}

// # Configuration Loading

// Load parses environment variables into a [Config] struct.
func Load() (*Config, error) {

	// Initialize an empty config struct
	cfg := &Config{}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment variables: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadSandbox parses environment variables into a [SandboxConfig] struct.
func LoadSandbox() (*SandboxConfig, error) {
	cfg := &SandboxConfig{}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment variables: %w", err)
	}

	return cfg, nil
}

// validate rejects driver settings that cannot produce a working store.
func (c *Config) validate() error {
	switch c.StorageDriver {
	case StorageSQLite, StorageMemory:
	case StorageRedis:
		if c.RedisURL == "" {
			return fmt.Errorf("config: REDIS_URL is required when STORAGE_DRIVER=redis")
		}
	default:
		return fmt.Errorf("config: unknown STORAGE_DRIVER %q", c.StorageDriver)
	}

	if (c.GeoFixedLat == nil) != (c.GeoFixedLon == nil) {
		return fmt.Errorf("config: GEO_FIXED_LAT and GEO_FIXED_LON must be set together")
	}

	return nil
}

// IsDevelopment reports whether the client is running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsDevelopment reports whether the sandbox is running in development mode.
func (c *SandboxConfig) IsDevelopment() bool {
	return c.Environment == "development"
}

// OriginSuffix is the domain suffix CORS accepts outside development.
func (c *SandboxConfig) OriginSuffix() string {
	return c.AllowedOriginSuffix
}

// IsProduction reports whether the sandbox is running in production mode.
func (c *SandboxConfig) IsProduction() bool {
	return c.Environment == "production"
}
