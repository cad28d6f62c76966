package config

import (
	"flag"
	"strings"
	"time"

	"github.com/dmitrijs2005/taskkeeper/internal/flagx"
)

// parseFlags overlays server Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   HTTP bind address (e.g., ":5000")
//	-d string   SQLite database DSN
//	-s string   JWT HMAC secret key
//	-t int      access token validity, minutes
//	-e string   seeded admin email
//	-p string   seeded admin password
//	-o string   comma-separated CORS origins
//	-r float    auth requests per second (0 disables limiting)
//	-b int      auth burst size
//	-l string   log level
func parseFlags(cfg *Config, args []string) {
	args = flagx.FilterArgs(args, []string{"-a", "-d", "-s", "-t", "-e", "-p", "-o", "-r", "-b", "-l"})

	fs := flag.NewFlagSet("server", flag.ContinueOnError)

	fs.StringVar(&cfg.EndpointAddr, "a", cfg.EndpointAddr, "address and port to run server")
	fs.StringVar(&cfg.DatabaseDSN, "d", cfg.DatabaseDSN, "database DSN")
	fs.StringVar(&cfg.SecretKey, "s", cfg.SecretKey, "secret key")
	validity := fs.Int("t", int(cfg.AccessTokenValidityDuration.Minutes()), "access token validity (in minutes)")
	fs.StringVar(&cfg.AdminEmail, "e", cfg.AdminEmail, "seeded admin email")
	fs.StringVar(&cfg.AdminPassword, "p", cfg.AdminPassword, "seeded admin password")
	origins := fs.String("o", strings.Join(cfg.AllowedOrigins, ","), "allowed CORS origins, comma separated")
	fs.Float64Var(&cfg.AuthRateLimit, "r", cfg.AuthRateLimit, "auth requests per second, 0 disables")
	fs.IntVar(&cfg.AuthRateBurst, "b", cfg.AuthRateBurst, "auth burst size")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.AccessTokenValidityDuration = time.Duration(*validity) * time.Minute
	cfg.AllowedOrigins = splitOrigins(*origins)
}

func splitOrigins(s string) []string {
	var out []string
	for _, o := range strings.Split(s, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}
