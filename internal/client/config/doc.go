// Package config loads runtime configuration for the recharge CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Environment variables (RECHARGE_*), after loading a dotenv file:
//     ".env" in the working directory, or the file given with -env.
//  3. Optional JSON file selected via flags: -c or -config.
//  4. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string     backend base URL (default http://localhost:3000)
//	-t duration   per-request timeout (default 10s)
//	-g string     Google OAuth client id
//	-d string     local SQLite database path
//	-m string     exempt endpoint matching: exact or substring
//	-l string     log level
//	-metrics addr serve Prometheus metrics
//	-ephemeral    keep the session in memory only
//
// # JSON schema
//
// The JSON loader uses timex.Duration for the timeout, so values can be
// either strings like "10s" or integer nanoseconds. Absent keys keep the
// earlier value:
//
//	{
//	  "api_base_url": "http://localhost:3000",
//	  "request_timeout": "10s",
//	  "google_client_id": "1234.apps.googleusercontent.com",
//	  "database_path": "recharge.db",
//	  "exempt_match": "exact"
//	}
package config
