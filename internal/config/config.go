package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
)

type Config struct {
	//App
	Env string // dev / staging / prod
	//HTTP
	HTTPAddr           string
	CORSAllowedOrigins []string
	//Auth / Security
	TokenSecret string
	TokenIssuer string
	TokenTTL    time.Duration // 0 = tokens never expire
	BcryptCost  int

	// Per-call bounds for store and hasher work
	StoreTimeout time.Duration
	HashTimeout  time.Duration

	// Infrastructure
	ConnectionURL   string // empty in dev = in-memory store
	DBDebug         bool
	RedisAddr       string // empty = no account cache
	RedisPassword   string
	RedisDB         int
	AccountCacheTTL time.Duration
	RabbitURL       string // empty = events are dropped
	RabbitExchange  string

	HTTPReadTimeout  time.Duration
	HTTPWriteTimeout time.Duration
	HTTPIdleTimeout  time.Duration
}

func (c *Config) IsDev() bool { return c.Env == "dev" }

func Load() (*Config, error) {
	cfg := &Config{
		Env:            getEnv("ENV", "dev"),
		HTTPAddr:       ":" + getEnv("PORT", "4001"),
		TokenIssuer:    getEnv("TOKEN_ISSUER", "account-service"),
		ConnectionURL:  strings.TrimSpace(os.Getenv("CONNECTION_URL")),
		DBDebug:        getEnv("DB_DEBUG", "false") == "true",
		RedisAddr:      os.Getenv("REDIS_ADDR"),
		RedisPassword:  os.Getenv("REDIS_PASSWORD"),
		RabbitURL:      os.Getenv("RABBIT_URL"),
		RabbitExchange: getEnv("RABBIT_EXCHANGE", "accounts.events"),
	}

	// required values
	cfg.TokenSecret = os.Getenv("TOKEN_SECRET")
	if cfg.TokenSecret == "" {
		return nil, fmt.Errorf("missing required env var: TOKEN_SECRET")
	}

	// The store is required outside dev; dev falls back to memory.
	if cfg.ConnectionURL == "" && !cfg.IsDev() {
		return nil, fmt.Errorf("missing required env var: CONNECTION_URL (only optional when ENV=dev)")
	}

	if o := os.Getenv("CORS_ALLOWED_ORIGINS"); o != "" {
		for _, s := range strings.Split(o, ",") {
			if s = strings.TrimSpace(s); s != "" {
				cfg.CORSAllowedOrigins = append(cfg.CORSAllowedOrigins, s)
			}
		}
	}

	var err error

	if cfg.TokenTTL, err = getDuration("TOKEN_TTL", 0); err != nil {
		return nil, err
	}
	if cfg.TokenTTL < 0 {
		return nil, fmt.Errorf("TOKEN_TTL must not be negative")
	}

	if cfg.BcryptCost, err = getInt("BCRYPT_COST", 10); err != nil {
		return nil, err
	}
	if cfg.BcryptCost < bcrypt.MinCost || cfg.BcryptCost > bcrypt.MaxCost {
		return nil, fmt.Errorf("BCRYPT_COST must be between %d and %d", bcrypt.MinCost, bcrypt.MaxCost)
	}

	if cfg.StoreTimeout, err = getDuration("STORE_TIMEOUT", 5*time.Second); err != nil {
		return nil, err
	}
	if cfg.HashTimeout, err = getDuration("HASH_TIMEOUT", 5*time.Second); err != nil {
		return nil, err
	}

	if cfg.RedisDB, err = getInt("REDIS_DB", 0); err != nil {
		return nil, err
	}
	if cfg.AccountCacheTTL, err = getDuration("ACCOUNT_CACHE_TTL", 10*time.Minute); err != nil {
		return nil, err
	}

	//Timeout values are optional and have a default value if not
	if cfg.HTTPReadTimeout, err = getDuration("HTTP_READ_TIMEOUT", 10*time.Second); err != nil {
		return nil, err
	}
	if cfg.HTTPWriteTimeout, err = getDuration("HTTP_WRITE_TIMEOUT", 30*time.Second); err != nil {
		return nil, err
	}
	if cfg.HTTPIdleTimeout, err = getDuration("HTTP_IDLE_TIMEOUT", time.Minute); err != nil {
		return nil, err
	}

	return cfg, nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getDuration(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}

	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid duration for %s: %q: %w", key, v, err)
	}
	return d, nil
}

func getInt(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}

	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid int for %s: %q: %w", key, v, err)
	}
	return n, nil
}
