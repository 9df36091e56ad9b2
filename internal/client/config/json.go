package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/recharge/internal/flagx"
	"github.com/dmitrijs2005/recharge/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling.
// It relies on timex.Duration so JSON can specify the timeout either as a
// string like "10s" or as integer nanoseconds. Pointer fields tell "absent"
// from "zero"; only present fields are copied into Config.
type JsonConfig struct {
	APIBaseURL     *string         `json:"api_base_url"`
	RequestTimeout *timex.Duration `json:"request_timeout"`
	GoogleClientID *string         `json:"google_client_id"`
	GoogleIssuer   *string         `json:"google_issuer"`
	DatabasePath   *string         `json:"database_path"`
	Ephemeral      *bool           `json:"ephemeral"`
	ExemptMatch    *string         `json:"exempt_match"`
	LogFormat      *string         `json:"log_format"`
	LogLevel       *string         `json:"log_level"`
	MetricsAddr    *string         `json:"metrics_addr"`
}

// parseJson overlays Config with values loaded from the JSON file named by
// -c or -config. Without those flags it does nothing. Read or unmarshal
// errors panic (caller should recover if desired).
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.ConfigFileFlag()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	jc.apply(cfg)
}

func (jc *JsonConfig) apply(cfg *Config) {
	set := func(src *string, dst *string) {
		if src != nil {
			*dst = *src
		}
	}

	set(jc.APIBaseURL, &cfg.APIBaseURL)
	set(jc.GoogleClientID, &cfg.GoogleClientID)
	set(jc.GoogleIssuer, &cfg.GoogleIssuer)
	set(jc.DatabasePath, &cfg.DatabasePath)
	set(jc.ExemptMatch, &cfg.ExemptMatch)
	set(jc.LogFormat, &cfg.LogFormat)
	set(jc.LogLevel, &cfg.LogLevel)
	set(jc.MetricsAddr, &cfg.MetricsAddr)

	if jc.RequestTimeout != nil {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
	if jc.Ephemeral != nil {
		cfg.Ephemeral = *jc.Ephemeral
	}
}
