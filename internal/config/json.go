package config

import (
	"encoding/json"
	"os"

	"github.com/migueltorresd/gallery/internal/flagx"
	"github.com/migueltorresd/gallery/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Durations
// rely on timex.Duration so the file can say "1.5s" or give integer
// nanoseconds.
type JsonConfig struct {
	DatabaseDSN      string         `json:"database_dsn"`
	DataDir          string         `json:"data_dir"`
	CameraSourceDir  string         `json:"camera_source_dir"`
	SimulatedLatency timex.Duration `json:"simulated_latency"`
	TokenSecret      string         `json:"token_secret"`
	TokenTTL         timex.Duration `json:"token_ttl"`
}

// parseJson overlays cfg with values from the JSON file named by the -c
// or -config flag. No flag, no overlay. Read or unmarshal errors panic;
// a broken config file should stop the app immediately.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
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

	if jc.DatabaseDSN != "" {
		cfg.DatabaseDSN = jc.DatabaseDSN
	}
	if jc.DataDir != "" {
		cfg.DataDir = jc.DataDir
	}
	if jc.CameraSourceDir != "" {
		cfg.CameraSourceDir = jc.CameraSourceDir
	}
	if jc.SimulatedLatency.Duration > 0 {
		cfg.SimulatedLatency = jc.SimulatedLatency.Duration
	}
	if jc.TokenSecret != "" {
		cfg.TokenSecret = jc.TokenSecret
	}
	if jc.TokenTTL.Duration > 0 {
		cfg.TokenTTL = jc.TokenTTL.Duration
	}
}
