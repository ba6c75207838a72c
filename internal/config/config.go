package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/samber/oops"
)

type Config struct {
	HTTPAddr             string
	WriteTimeout         time.Duration
	DatabaseURL          string
	DBDriver             string
	CORSAllowedOrigins   []string
	CORSAllowCredentials bool

	// SessionSecrets signs the session cookie. The first entry signs,
	// every entry verifies, so secrets can be rotated.
	SessionSecrets [][]byte
	SessionTTL     time.Duration
	CookieSecure   bool

	BcryptCost int
	LogFormat  string
}

func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		HTTPAddr:             getenv("HTTP_ADDR", ":4000"),
		DatabaseURL:          getenv("DATABASE_URL", ""),
		DBDriver:             strings.ToLower(getenv("DB_DRIVER", "pgx")),
		CORSAllowCredentials: getenv("CORS_ALLOW_CREDENTIALS", "false") == "true",
		CookieSecure:         getenv("COOKIE_SECURE", "false") == "true",
		LogFormat:            getenv("LOG_FORMAT", "json"),
	}

	if cfg.DatabaseURL == "" {
		return cfg, missing("DATABASE_URL")
	}
	if cfg.DBDriver != "pgx" && cfg.DBDriver != "postgres" {
		return cfg, oops.Code("CONFIG_INVALID").
			With("key", "DB_DRIVER").
			Errorf("unsupported database driver %q (want pgx or postgres)", cfg.DBDriver)
	}

	cfg.CORSAllowedOrigins = splitList(getenv("CORS_ALLOWED_ORIGINS", ""))

	for _, s := range splitList(getenv("SESSION_SECRETS", "")) {
		cfg.SessionSecrets = append(cfg.SessionSecrets, []byte(s))
	}
	if len(cfg.SessionSecrets) == 0 {
		return cfg, missing("SESSION_SECRETS")
	}

	ttl, err := time.ParseDuration(getenv("SESSION_TTL", "30m"))
	if err != nil || ttl <= 0 {
		return cfg, oops.Code("CONFIG_INVALID").
			With("key", "SESSION_TTL").
			Errorf("SESSION_TTL must be a positive duration")
	}
	cfg.SessionTTL = ttl

	wt, err := time.ParseDuration(getenv("HTTP_WRITE_TIMEOUT", "15s"))
	if err != nil || wt <= 0 {
		return cfg, oops.Code("CONFIG_INVALID").
			With("key", "HTTP_WRITE_TIMEOUT").
			Errorf("HTTP_WRITE_TIMEOUT must be a positive duration")
	}
	cfg.WriteTimeout = wt

	cost, err := strconv.Atoi(getenv("BCRYPT_COST", "12"))
	if err != nil {
		return cfg, oops.Code("CONFIG_INVALID").
			With("key", "BCRYPT_COST").
			Wrap(err)
	}
	cfg.BcryptCost = cost

	return cfg, nil
}

func getenv(key, def string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	return v
}

func missing(key string) error {
	return oops.Code("CONFIG_INVALID").With("key", key).Errorf("missing env: %s", key)
}

func splitList(s string) []string {
	var out []string
	for _, v := range strings.Split(s, ",") {
		v = strings.TrimSpace(v)
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}
