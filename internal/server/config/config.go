// Package config handles configuration for the development backend,
// including defaults, JSON overlay, and command-line flags.
package config

import "time"

// Config holds runtime settings for the development backend.
//
// Fields:
//   - ListenAddr: bind address of the HTTP API.
//   - SecretKey: HMAC secret for signing tokens (HS256). Do not use test defaults in prod.
//   - TokenValidityDuration: lifetime of an issued bearer token.
//   - SeedOnStart: load the default plan catalog at startup.
//   - LogFormat / LogLevel: slog handler ("text"/"json") and level.
type Config struct {
	ListenAddr            string
	SecretKey             string
	TokenValidityDuration time.Duration
	SeedOnStart           bool
	LogFormat             string
	LogLevel              string
}

// LoadDefaults populates Config with sensible development defaults.
// NOTE: These values are insecure for production and should be overridden.
func (c *Config) LoadDefaults() {
	c.ListenAddr = ":3000"
	c.SecretKey = "secretKey"
	c.TokenValidityDuration = 24 * time.Hour
	c.SeedOnStart = false
	c.LogFormat = "json"
	c.LogLevel = "info"
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from an optional JSON file and finally from command-line flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
