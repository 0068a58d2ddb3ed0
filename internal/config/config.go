// Package config assembles the runtime settings of the gallery app from
// defaults, an optional JSON file, and command-line flags, in that order
// of precedence.
package config

import "time"

// Config holds runtime settings for the gallery client.
//
// Fields:
//   - DatabaseDSN: SQLite DSN of the local key-value store.
//   - DataDir: base directory for device storage (photo files live in a
//     subdirectory per logical area).
//   - CameraSourceDir: directory the development camera captures from.
//   - SimulatedLatency: artificial delay applied to login/register.
//   - TokenSecret: HS256 signing secret; generated at startup when empty.
//   - TokenTTL: validity window of minted tokens.
type Config struct {
	DatabaseDSN      string
	DataDir          string
	CameraSourceDir  string
	SimulatedLatency time.Duration
	TokenSecret      string
	TokenTTL         time.Duration
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.DatabaseDSN = "gallery.db"
	c.DataDir = "gallery-data"
	c.CameraSourceDir = "captures"
	c.SimulatedLatency = 1500 * time.Millisecond
	c.TokenTTL = time.Hour
}

// LoadConfig constructs a Config, applies defaults, then overlays values
// from JSON (if a config file was given) and command-line flags. Later
// sources take precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
