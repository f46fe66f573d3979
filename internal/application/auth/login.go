package auth

import (
	"context"

	"github.com/baechuer/real-time-ressys/services/account-service/internal/domain"
)

// Login authenticates an account and issues a signed token.
// Unknown email, wrong password and inactive account all fail with
// invalid_credentials so callers cannot probe which emails exist.
func (s *Service) Login(ctx context.Context, in LoginInput) (LoginResult, error) {
	in.normalize()
	if err := s.validator.ValidateLogin(in); err != nil {
		return LoginResult{}, err
	}

	acc, err := s.findByEmail(ctx, in.Email)
	if err != nil {
		if !domain.Is(err, domain.CodeAccountNotFound) {
			return LoginResult{}, err
		}
		s.dummyCompare(ctx, in.Password)
		s.audit(ctx, "login_failed", map[string]string{"email": in.Email, "reason": domain.CodeAccountNotFound})
		return LoginResult{}, domain.ErrInvalidCredentials()
	}

	ok, err := s.passwordMatches(ctx, acc.PasswordHash, in.Password)
	if err != nil {
		return LoginResult{}, err
	}
	if !ok {
		s.audit(ctx, "login_failed", map[string]string{"email": in.Email, "reason": "invalid_password"})
		return LoginResult{}, domain.ErrInvalidCredentials()
	}
	if !acc.IsActive {
		s.audit(ctx, "login_failed", map[string]string{"email": in.Email, "reason": "account_inactive"})
		return LoginResult{}, domain.ErrInvalidCredentials()
	}

	claims := Claims{
		AccountID: acc.ID,
		Email:     acc.Email,
		Role:      acc.Role,
	}
	if s.tokenTTL > 0 {
		claims.ExpiresAt = s.now().Add(s.tokenTTL)
	}

	token, err := s.issuer.Issue(claims)
	if err != nil {
		if domain.IsDomain(err) {
			return LoginResult{}, err
		}
		return LoginResult{}, domain.ErrTokenSignFailed(err)
	}

	s.audit(ctx, "login_success", map[string]string{"account_id": acc.ID, "email": acc.Email})
	return LoginResult{Token: token, Claims: claims}, nil
}
