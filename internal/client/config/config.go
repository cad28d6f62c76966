package config

import (
	"os"
	"time"
)

// Config holds runtime settings for the taskkeeper client.
//
// Fields:
//   - APIBaseURL: scheme://host:port of the task API.
//   - SessionDBPath: SQLite file keeping the session token between runs.
//   - RequestTimeout: upper bound on a single API call.
//   - LogLevel: debug, info, warn or error.
type Config struct {
	APIBaseURL     string
	SessionDBPath  string
	RequestTimeout time.Duration
	LogLevel       string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.APIBaseURL = "http://127.0.0.1:5000"
	c.SessionDBPath = "session.db"
	c.RequestTimeout = 15 * time.Second
	c.LogLevel = "info"
}

// Load builds a Config from defaults, then the JSON file named by -c or
// -config in args, then flags in args. Later sources take precedence.
// Malformed input panics.
func Load(args []string) *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJSON(cfg, args)
	parseFlags(cfg, args)
	return cfg
}

// LoadConfig is Load over the process arguments.
func LoadConfig() *Config {
	return Load(os.Args[1:])
}
