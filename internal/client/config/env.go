package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/dmitrijs2005/recharge/internal/flagx"
)

// Environment variables recognized by parseEnv.
const (
	EnvAPIURL         = "RECHARGE_API_URL"
	EnvRequestTimeout = "RECHARGE_REQUEST_TIMEOUT"
	EnvGoogleClientID = "RECHARGE_GOOGLE_CLIENT_ID"
	EnvGoogleIssuer   = "RECHARGE_GOOGLE_ISSUER"
	EnvDatabasePath   = "RECHARGE_DB"
	EnvEphemeral      = "RECHARGE_EPHEMERAL"
	EnvExemptMatch    = "RECHARGE_EXEMPT_MATCH"
	EnvLogFormat      = "RECHARGE_LOG_FORMAT"
	EnvLogLevel       = "RECHARGE_LOG_LEVEL"
	EnvMetricsAddr    = "RECHARGE_METRICS_ADDR"
)

// parseEnv loads the dotenv file (-env, default ".env") into the process
// environment without overriding variables that are already set, then
// overlays Config from the environment.
//
// A missing default .env is fine; a missing file named with -env, or a
// malformed one, panics like the other loaders.
func parseEnv(cfg *Config) {
	file := flagx.EnvFileFlag()
	explicit := file != ""
	if !explicit {
		file = ".env"
	}

	if err := godotenv.Load(file); err != nil {
		if explicit || !errors.Is(err, fs.ErrNotExist) {
			panic(err)
		}
	}

	applyEnv(cfg, os.LookupEnv)
}

// applyEnv overlays cfg with the variables lookup knows about. Unparseable
// durations and booleans panic.
func applyEnv(cfg *Config, lookup func(string) (string, bool)) {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}

	str(EnvAPIURL, &cfg.APIBaseURL)
	str(EnvGoogleClientID, &cfg.GoogleClientID)
	str(EnvGoogleIssuer, &cfg.GoogleIssuer)
	str(EnvDatabasePath, &cfg.DatabasePath)
	str(EnvExemptMatch, &cfg.ExemptMatch)
	str(EnvLogFormat, &cfg.LogFormat)
	str(EnvLogLevel, &cfg.LogLevel)
	str(EnvMetricsAddr, &cfg.MetricsAddr)

	if v, ok := lookup(EnvRequestTimeout); ok && v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			panic(err)
		}
		cfg.RequestTimeout = d
	}

	if v, ok := lookup(EnvEphemeral); ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			panic(err)
		}
		cfg.Ephemeral = b
	}
}
