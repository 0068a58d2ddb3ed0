package config

import (
	"flag"
	"os"
	"time"

	"github.com/migueltorresd/gallery/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-d string   SQLite DSN of the local store
//	-p string   base data directory
//	-s string   camera capture source directory
//	-l int      simulated network latency in milliseconds
//
// Only the flags listed here are parsed; flagx.FilterArgs keeps the rest
// of the command line out of the way.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-d", "-p", "-s", "-l"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.DatabaseDSN, "d", cfg.DatabaseDSN, "sqlite dsn of the local store")
	fs.StringVar(&cfg.DataDir, "p", cfg.DataDir, "base data directory")
	fs.StringVar(&cfg.CameraSourceDir, "s", cfg.CameraSourceDir, "camera capture source directory")
	latencyMs := fs.Int("l", int(cfg.SimulatedLatency.Milliseconds()), "simulated network latency (in milliseconds)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.SimulatedLatency = time.Duration(*latencyMs) * time.Millisecond
}
