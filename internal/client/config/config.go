package config

import "time"

// Config holds runtime settings for the recharge CLI.
//
// Fields:
//   - APIBaseURL: origin of the REST backend.
//   - RequestTimeout: upper bound for a single backend call.
//   - GoogleClientID: OAuth client id ID tokens must be issued for; empty
//     disables federated login.
//   - GoogleIssuer: OIDC issuer used to discover signing keys.
//   - DatabasePath: SQLite file holding the session and the history cache.
//   - Ephemeral: keep the session in memory only.
//   - ExemptMatch: "exact" or "substring" matching of the exempt endpoints.
//   - LogFormat / LogLevel: slog handler ("text"/"json") and level.
//   - MetricsAddr: when set, serve Prometheus metrics on this address.
type Config struct {
	APIBaseURL     string
	RequestTimeout time.Duration
	GoogleClientID string
	GoogleIssuer   string
	DatabasePath   string
	Ephemeral      bool
	ExemptMatch    string
	LogFormat      string
	LogLevel       string
	MetricsAddr    string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.APIBaseURL = "http://localhost:3000"
	c.RequestTimeout = 10 * time.Second
	c.GoogleClientID = ""
	c.GoogleIssuer = "https://accounts.google.com"
	c.DatabasePath = "recharge.db"
	c.Ephemeral = false
	c.ExemptMatch = "exact"
	c.LogFormat = "text"
	c.LogLevel = "warn"
	c.MetricsAddr = ""
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// the environment (including a .env file), JSON (if present) and
// command-line flags (if present). Later sources take precedence over
// earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
