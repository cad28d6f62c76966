package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/taskkeeper/internal/flagx"
	"github.com/dmitrijs2005/taskkeeper/internal/timex"
)

// jsonConfig is the on-disk shape; durations accept "24h" or nanoseconds.
type jsonConfig struct {
	EndpointAddr                string         `json:"endpoint_addr"`
	DatabaseDSN                 string         `json:"database_dsn"`
	SecretKey                   string         `json:"secret_key"`
	AccessTokenValidityDuration timex.Duration `json:"access_token_validity_duration"`
	AdminEmail                  string         `json:"admin_email"`
	AdminPassword               string         `json:"admin_password"`
	AllowedOrigins              []string       `json:"allowed_origins"`
	AuthRateLimit               *float64       `json:"auth_rate_limit"`
	AuthRateBurst               *int           `json:"auth_rate_burst"`
	LogLevel                    string         `json:"log_level"`
}

// parseJSON overlays cfg with the file named by -c/-config, if any. Absent
// keys keep their current value. Read or decode errors panic.
func parseJSON(cfg *Config, args []string) {
	path := flagx.ConfigPath(args)
	if path == "" {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	var c jsonConfig
	if err := json.Unmarshal(data, &c); err != nil {
		panic(err)
	}

	if c.EndpointAddr != "" {
		cfg.EndpointAddr = c.EndpointAddr
	}
	if c.DatabaseDSN != "" {
		cfg.DatabaseDSN = c.DatabaseDSN
	}
	if c.SecretKey != "" {
		cfg.SecretKey = c.SecretKey
	}
	if c.AccessTokenValidityDuration.Duration > 0 {
		cfg.AccessTokenValidityDuration = c.AccessTokenValidityDuration.Duration
	}
	if c.AdminEmail != "" {
		cfg.AdminEmail = c.AdminEmail
	}
	if c.AdminPassword != "" {
		cfg.AdminPassword = c.AdminPassword
	}
	if c.AllowedOrigins != nil {
		cfg.AllowedOrigins = c.AllowedOrigins
	}
	if c.AuthRateLimit != nil {
		cfg.AuthRateLimit = *c.AuthRateLimit
	}
	if c.AuthRateBurst != nil {
		cfg.AuthRateBurst = *c.AuthRateBurst
	}
	if c.LogLevel != "" {
		cfg.LogLevel = c.LogLevel
	}
}
