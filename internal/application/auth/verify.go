package auth

import (
	"context"
	"strings"

	"github.com/baechuer/real-time-ressys/services/account-service/internal/domain"
)

// VerifyToken is the counterpart of the token issued by Login.
func (s *Service) VerifyToken(token string) (Claims, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return Claims{}, domain.ErrTokenMissing()
	}
	c, err := s.issuer.Verify(token)
	if err != nil {
		if domain.IsDomain(err) {
			return Claims{}, err
		}
		return Claims{}, domain.ErrTokenInvalid()
	}
	return c, nil
}

// GetAccount loads an account for an authenticated caller.
func (s *Service) GetAccount(ctx context.Context, id string) (domain.Account, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return domain.Account{}, domain.ErrTokenInvalid()
	}
	a, err := bounded(ctx, s.storeTimeout, func(ctx context.Context) (domain.Account, error) {
		return s.accounts.FindByID(ctx, id)
	})
	if err != nil {
		return domain.Account{}, storeErr(err)
	}
	return a, nil
}
