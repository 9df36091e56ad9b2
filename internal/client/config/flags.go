package config

import (
	"flag"
	"os"

	"github.com/dmitrijs2005/recharge/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string     backend base URL
//	-t duration   per-request timeout (e.g. 10s)
//	-g string     Google OAuth client id
//	-d string     path of the local SQLite database
//	-m string     exempt endpoint matching: exact or substring
//	-l string     log level
//	-metrics addr serve Prometheus metrics on addr
//	-ephemeral    keep the session in memory only
//
// Note: The function filters os.Args to only include the flags it knows about,
// using flagx.FilterArgs, to avoid interference with other components.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-t", "-g", "-d", "-m", "-l", "-metrics"}, "-ephemeral")

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.APIBaseURL, "a", cfg.APIBaseURL, "backend base URL")
	fs.DurationVar(&cfg.RequestTimeout, "t", cfg.RequestTimeout, "per-request timeout")
	fs.StringVar(&cfg.GoogleClientID, "g", cfg.GoogleClientID, "Google OAuth client id")
	fs.StringVar(&cfg.DatabasePath, "d", cfg.DatabasePath, "local database path")
	fs.StringVar(&cfg.ExemptMatch, "m", cfg.ExemptMatch, "exempt endpoint matching (exact|substring)")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level (debug|info|warn|error)")
	fs.StringVar(&cfg.MetricsAddr, "metrics", cfg.MetricsAddr, "address to serve Prometheus metrics on")
	fs.BoolVar(&cfg.Ephemeral, "ephemeral", cfg.Ephemeral, "do not persist the session")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
}
