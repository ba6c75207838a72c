package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("DATABASE_URL", "postgres://localhost/signin")
	t.Setenv("SESSION_SECRETS", "key1, key2")
}

func TestLoad_Defaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":4000", cfg.HTTPAddr)
	assert.Equal(t, "pgx", cfg.DBDriver)
	assert.Equal(t, 30*time.Minute, cfg.SessionTTL)
	assert.Equal(t, 15*time.Second, cfg.WriteTimeout)
	assert.Equal(t, 12, cfg.BcryptCost)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.False(t, cfg.CookieSecure)
	assert.Empty(t, cfg.CORSAllowedOrigins)
	require.Len(t, cfg.SessionSecrets, 2)
	assert.Equal(t, []byte("key1"), cfg.SessionSecrets[0])
	assert.Equal(t, []byte("key2"), cfg.SessionSecrets[1])
}

func TestLoad_Overrides(t *testing.T) {
	setRequired(t)
	t.Setenv("HTTP_ADDR", ":9000")
	t.Setenv("DB_DRIVER", "postgres")
	t.Setenv("SESSION_TTL", "10m")
	t.Setenv("BCRYPT_COST", "10")
	t.Setenv("COOKIE_SECURE", "true")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://a.test, ,http://b.test")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9000", cfg.HTTPAddr)
	assert.Equal(t, "postgres", cfg.DBDriver)
	assert.Equal(t, 10*time.Minute, cfg.SessionTTL)
	assert.Equal(t, 10, cfg.BcryptCost)
	assert.True(t, cfg.CookieSecure)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORSAllowedOrigins)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"missing database url", map[string]string{"DATABASE_URL": ""}},
		{"missing secrets", map[string]string{"SESSION_SECRETS": " , "}},
		{"unknown driver", map[string]string{"DB_DRIVER": "mysql"}},
		{"bad ttl", map[string]string{"SESSION_TTL": "soon"}},
		{"negative ttl", map[string]string{"SESSION_TTL": "-5m"}},
		{"bad write timeout", map[string]string{"HTTP_WRITE_TIMEOUT": "0s"}},
		{"bad cost", map[string]string{"BCRYPT_COST": "twelve"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			setRequired(t)
			for k, v := range tc.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			assert.Error(t, err)
		})
	}
}
