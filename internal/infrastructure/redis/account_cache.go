package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/baechuer/real-time-ressys/services/account-service/internal/application/auth"
	"github.com/baechuer/real-time-ressys/services/account-service/internal/domain"
	"github.com/baechuer/real-time-ressys/services/account-service/internal/logger"
)

// CachedAccountStore decorates an auth.AccountStore with a read-through
// Redis cache.
//   - Read path: Redis -> store fallback -> Redis set (hits only)
//   - Write path: store only; the new account is cached best effort
//
// Misses are never cached: a cached "not found" would let a second
// registration for the same email skip the pre-check.
type CachedAccountStore struct {
	inner   auth.AccountStore
	rdb     *goredis.Client
	ttl     time.Duration
	keyPref string
}

func NewCachedAccountStore(inner auth.AccountStore, client *Client, ttl time.Duration) *CachedAccountStore {
	var rdb *goredis.Client
	if client != nil {
		rdb = client.rdb
	}
	return &CachedAccountStore{
		inner:   inner,
		rdb:     rdb,
		ttl:     ttl,
		keyPref: "account:",
	}
}

type cachedAccount struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"password_hash"`
	Role         string    `json:"role"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
}

func (c *CachedAccountStore) emailKey(email string) string { return c.keyPref + "email:" + email }
func (c *CachedAccountStore) idKey(id string) string       { return c.keyPref + "id:" + id }

func (c *CachedAccountStore) FindByEmail(ctx context.Context, email string) (domain.Account, error) {
	email = domain.NormalizeEmail(email)
	if a, ok := c.get(ctx, c.emailKey(email)); ok {
		return a, nil
	}

	a, err := c.inner.FindByEmail(ctx, email)
	if err != nil {
		return domain.Account{}, err
	}
	c.set(ctx, a)
	return a, nil
}

func (c *CachedAccountStore) FindByID(ctx context.Context, id string) (domain.Account, error) {
	if a, ok := c.get(ctx, c.idKey(id)); ok {
		return a, nil
	}

	a, err := c.inner.FindByID(ctx, id)
	if err != nil {
		return domain.Account{}, err
	}
	c.set(ctx, a)
	return a, nil
}

func (c *CachedAccountStore) Create(ctx context.Context, a domain.Account) (domain.Account, error) {
	created, err := c.inner.Create(ctx, a)
	if err != nil {
		return domain.Account{}, err
	}
	c.set(ctx, created)
	return created, nil
}

func (c *CachedAccountStore) get(ctx context.Context, key string) (domain.Account, bool) {
	if c.rdb == nil {
		return domain.Account{}, false
	}
	b, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, goredis.Nil) {
			// redis error -> fall back to the store (do NOT fail auth)
			logger.WithCtx(ctx).Warn().Err(err).Str("key", key).Msg("account cache read failed")
		}
		return domain.Account{}, false
	}

	var ca cachedAccount
	if err := json.Unmarshal(b, &ca); err != nil {
		return domain.Account{}, false
	}
	return domain.Account{
		ID:           ca.ID,
		Name:         ca.Name,
		Email:        ca.Email,
		PasswordHash: ca.PasswordHash,
		Role:         ca.Role,
		IsActive:     ca.IsActive,
		CreatedAt:    ca.CreatedAt,
	}, true
}

// set is best effort.
func (c *CachedAccountStore) set(ctx context.Context, a domain.Account) {
	if c.rdb == nil || a.ID == "" {
		return
	}
	b, err := json.Marshal(cachedAccount{
		ID:           a.ID,
		Name:         a.Name,
		Email:        a.Email,
		PasswordHash: a.PasswordHash,
		Role:         a.Role,
		IsActive:     a.IsActive,
		CreatedAt:    a.CreatedAt,
	})
	if err != nil {
		return
	}

	pipe := c.rdb.Pipeline()
	pipe.Set(ctx, c.idKey(a.ID), b, c.ttl)
	pipe.Set(ctx, c.emailKey(domain.NormalizeEmail(a.Email)), b, c.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		logger.WithCtx(ctx).Warn().Err(err).Str("account_id", a.ID).Msg("account cache write failed")
	}
}
