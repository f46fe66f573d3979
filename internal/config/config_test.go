package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var allKeys = []string{
	"ENV", "PORT", "TOKEN_SECRET", "TOKEN_ISSUER", "TOKEN_TTL", "BCRYPT_COST",
	"STORE_TIMEOUT", "HASH_TIMEOUT", "CONNECTION_URL", "DB_DEBUG",
	"REDIS_ADDR", "REDIS_PASSWORD", "REDIS_DB", "ACCOUNT_CACHE_TTL",
	"RABBIT_URL", "RABBIT_EXCHANGE", "CORS_ALLOWED_ORIGINS",
	"HTTP_READ_TIMEOUT", "HTTP_WRITE_TIMEOUT", "HTTP_IDLE_TIMEOUT",
}

// baseRequiredEnv clears everything Load reads, then sets the minimum.
func baseRequiredEnv(t *testing.T) {
	t.Helper()
	for _, k := range allKeys {
		t.Setenv(k, "")
	}
	t.Setenv("TOKEN_SECRET", "secret")
}

func TestLoad_DefaultsApplied(t *testing.T) {
	baseRequiredEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "dev", cfg.Env)
	assert.Equal(t, ":4001", cfg.HTTPAddr)
	assert.Equal(t, "account-service", cfg.TokenIssuer)
	assert.Equal(t, time.Duration(0), cfg.TokenTTL)
	assert.Equal(t, 10, cfg.BcryptCost)
	assert.Equal(t, 5*time.Second, cfg.StoreTimeout)
	assert.Equal(t, 5*time.Second, cfg.HashTimeout)
	assert.Equal(t, 10*time.Minute, cfg.AccountCacheTTL)
	assert.Equal(t, "accounts.events", cfg.RabbitExchange)
	assert.Equal(t, 10*time.Second, cfg.HTTPReadTimeout)
	assert.Equal(t, 30*time.Second, cfg.HTTPWriteTimeout)
	assert.Equal(t, time.Minute, cfg.HTTPIdleTimeout)
	assert.Empty(t, cfg.ConnectionURL)
	assert.Empty(t, cfg.CORSAllowedOrigins)
	assert.True(t, cfg.IsDev())
}

func TestLoad_MissingTokenSecret(t *testing.T) {
	baseRequiredEnv(t)
	t.Setenv("TOKEN_SECRET", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "TOKEN_SECRET")
}

func TestLoad_ConnectionURLRequiredOutsideDev(t *testing.T) {
	baseRequiredEnv(t)
	t.Setenv("ENV", "prod")

	_, err := Load()
	require.Error(t, err)

	t.Setenv("CONNECTION_URL", "postgres://u:p@db:5432/accounts")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "postgres://u:p@db:5432/accounts", cfg.ConnectionURL)
	assert.False(t, cfg.IsDev())
}

func TestLoad_Overrides(t *testing.T) {
	baseRequiredEnv(t)
	t.Setenv("PORT", "9090")
	t.Setenv("TOKEN_TTL", "1h")
	t.Setenv("BCRYPT_COST", "12")
	t.Setenv("STORE_TIMEOUT", "250ms")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://a.test, http://b.test ,")
	t.Setenv("DB_DEBUG", "true")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, time.Hour, cfg.TokenTTL)
	assert.Equal(t, 12, cfg.BcryptCost)
	assert.Equal(t, 250*time.Millisecond, cfg.StoreTimeout)
	assert.Equal(t, "localhost:6379", cfg.RedisAddr)
	assert.Equal(t, 3, cfg.RedisDB)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORSAllowedOrigins)
	assert.True(t, cfg.DBDebug)
}

func TestLoad_InvalidValues(t *testing.T) {
	cases := map[string]string{
		"TOKEN_TTL":         "soon",
		"BCRYPT_COST":       "ten",
		"STORE_TIMEOUT":     "5",
		"HASH_TIMEOUT":      "x",
		"REDIS_DB":          "one",
		"ACCOUNT_CACHE_TTL": "forever",
		"HTTP_READ_TIMEOUT": "fast",
	}
	for key, val := range cases {
		t.Run(key, func(t *testing.T) {
			baseRequiredEnv(t)
			t.Setenv(key, val)

			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), key)
		})
	}
}

func TestLoad_RangeChecks(t *testing.T) {
	baseRequiredEnv(t)
	t.Setenv("TOKEN_TTL", "-1m")
	_, err := Load()
	require.Error(t, err)

	baseRequiredEnv(t)
	t.Setenv("BCRYPT_COST", "3")
	_, err = Load()
	require.Error(t, err)

	t.Setenv("BCRYPT_COST", "32")
	_, err = Load()
	require.Error(t, err)
}
