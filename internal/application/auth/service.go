package auth

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/baechuer/real-time-ressys/services/account-service/internal/domain"
)

const (
	defaultStoreTimeout = 5 * time.Second
	defaultHashTimeout  = 5 * time.Second

	// hashed once and compared against when the email is unknown, so a miss
	// costs the same as a wrong password
	dummyPassword = "account-service-timing-equaliser"
)

type Service struct {
	accounts  AccountStore
	hasher    PasswordHasher
	issuer    TokenIssuer
	pub       EventPublisher
	validator *Validator

	tokenTTL     time.Duration
	storeTimeout time.Duration
	hashTimeout  time.Duration

	audit func(ctx context.Context, action string, fields map[string]string)
	now   func() time.Time

	dummyOnce sync.Once
	dummyHash string
}

type Config struct {
	TokenTTL     time.Duration // 0 disables the exp claim
	StoreTimeout time.Duration
	HashTimeout  time.Duration
}

// NewService wires the core. pub may be nil.
func NewService(
	accounts AccountStore,
	hasher PasswordHasher,
	issuer TokenIssuer,
	pub EventPublisher,
	cfg Config,
) *Service {
	storeTimeout := cfg.StoreTimeout
	if storeTimeout <= 0 {
		storeTimeout = defaultStoreTimeout
	}
	hashTimeout := cfg.HashTimeout
	if hashTimeout <= 0 {
		hashTimeout = defaultHashTimeout
	}
	return &Service{
		accounts:  accounts,
		hasher:    hasher,
		issuer:    issuer,
		pub:       pub,
		validator: NewValidator(),

		tokenTTL:     cfg.TokenTTL,
		storeTimeout: storeTimeout,
		hashTimeout:  hashTimeout,

		audit: func(context.Context, string, map[string]string) {},
		now:   time.Now,
	}
}

type RegisterResult struct {
	ID string
}

type LoginResult struct {
	Token  string
	Claims Claims
}

func (s *Service) WithAudit(fn func(ctx context.Context, action string, fields map[string]string)) *Service {
	if fn != nil {
		s.audit = fn
	}
	return s
}

// bounded runs fn and gives up once d elapses or ctx ends. fn keeps running
// in the background on timeout; its result is dropped.
func bounded[T any](ctx context.Context, d time.Duration, fn func(ctx context.Context) (T, error)) (T, error) {
	ctx, cancel := context.WithTimeout(ctx, d)
	defer cancel()

	type result struct {
		val T
		err error
	}
	ch := make(chan result, 1)
	go func() {
		v, err := fn(ctx)
		ch <- result{val: v, err: err}
	}()

	select {
	case r := <-ch:
		return r.val, r.err
	case <-ctx.Done():
		var zero T
		return zero, domain.ErrUnavailable(ctx.Err())
	}
}

// storeErr makes sure nothing unclassified escapes from the store.
func storeErr(err error) error {
	if domain.IsDomain(err) {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return domain.ErrUnavailable(err)
	}
	return domain.ErrDBUnavailable(err)
}

func (s *Service) findByEmail(ctx context.Context, email string) (domain.Account, error) {
	a, err := bounded(ctx, s.storeTimeout, func(ctx context.Context) (domain.Account, error) {
		return s.accounts.FindByEmail(ctx, email)
	})
	if err != nil {
		return domain.Account{}, storeErr(err)
	}
	return a, nil
}

func (s *Service) create(ctx context.Context, a domain.Account) (domain.Account, error) {
	created, err := bounded(ctx, s.storeTimeout, func(ctx context.Context) (domain.Account, error) {
		return s.accounts.Create(ctx, a)
	})
	if err != nil {
		return domain.Account{}, storeErr(err)
	}
	return created, nil
}

func (s *Service) hashPassword(ctx context.Context, password string) (string, error) {
	h, err := bounded(ctx, s.hashTimeout, func(context.Context) (string, error) {
		return s.hasher.Hash(password)
	})
	if err != nil {
		if domain.IsDomain(err) {
			return "", err
		}
		return "", domain.ErrHashFailed(err)
	}
	return h, nil
}

// passwordMatches reports a mismatch as (false, nil); only a timeout is an error.
func (s *Service) passwordMatches(ctx context.Context, hash, password string) (bool, error) {
	return bounded(ctx, s.hashTimeout, func(context.Context) (bool, error) {
		return s.hasher.Compare(hash, password) == nil, nil
	})
}

func (s *Service) dummyCompare(ctx context.Context, password string) {
	s.dummyOnce.Do(func() {
		s.dummyHash, _ = s.hasher.Hash(dummyPassword)
	})
	_, _ = s.passwordMatches(ctx, s.dummyHash, password)
}
