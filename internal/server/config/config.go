// Package config handles configuration for the development API server,
// including defaults, JSON overlay, and command-line flags.
package config

import (
	"os"
	"time"
)

// Config holds runtime settings for the API server.
//
// Fields:
//   - EndpointAddr: bind address of the HTTP listener.
//   - DatabaseDSN: SQLite file path; ":memory:" keeps data for the process lifetime.
//   - SecretKey: HMAC secret for signing JWTs (HS256). Do not use the default in prod.
//   - AccessTokenValidityDuration: access token lifetime.
//   - AdminEmail / AdminPassword: account seeded with the admin role at start.
//   - AllowedOrigins: CORS origins permitted to call the API from a browser.
//   - AuthRateLimit / AuthRateBurst: token bucket for /auth/*; zero disables it.
//   - LogLevel: debug, info, warn or error.
type Config struct {
	EndpointAddr                string
	DatabaseDSN                 string
	SecretKey                   string
	AccessTokenValidityDuration time.Duration
	AdminEmail                  string
	AdminPassword               string
	AllowedOrigins              []string
	AuthRateLimit               float64
	AuthRateBurst               int
	LogLevel                    string
}

// LoadDefaults populates Config with development defaults.
// NOTE: These values are insecure for production and should be overridden.
func (c *Config) LoadDefaults() {
	c.EndpointAddr = ":5000"
	c.DatabaseDSN = ":memory:"
	c.SecretKey = "secretKey"
	c.AccessTokenValidityDuration = 24 * time.Hour
	c.AdminEmail = "admin@example.com"
	c.AdminPassword = "adminpassword"
	c.AllowedOrigins = []string{"http://localhost:5173"}
	c.AuthRateLimit = 5
	c.AuthRateBurst = 10
	c.LogLevel = "info"
}

// Load builds a Config from defaults, the JSON file named by -c/-config in
// args, then flags in args.
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
