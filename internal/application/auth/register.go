package auth

import (
	"context"

	"github.com/baechuer/real-time-ressys/services/account-service/internal/domain"
	"github.com/baechuer/real-time-ressys/services/account-service/internal/logger"
)

// Register creates an account and returns its id.
// The lookup before insert is only a fast path; the store's unique email
// constraint decides races.
func (s *Service) Register(ctx context.Context, in RegisterInput) (RegisterResult, error) {
	in.normalize()
	if err := s.validator.ValidateRegistration(in); err != nil {
		return RegisterResult{}, err
	}

	_, err := s.findByEmail(ctx, in.Email)
	switch {
	case err == nil:
		s.audit(ctx, "register_conflict", map[string]string{"email": in.Email, "stage": "precheck"})
		return RegisterResult{}, domain.ErrEmailAlreadyExists()
	case !domain.Is(err, domain.CodeAccountNotFound):
		return RegisterResult{}, err
	}

	hash, err := s.hashPassword(ctx, in.Password)
	if err != nil {
		return RegisterResult{}, err
	}

	role := in.Role
	if role == "" {
		role = string(domain.RoleUser)
	}
	isActive := true
	if in.IsActive != nil {
		isActive = *in.IsActive
	}

	created, err := s.create(ctx, domain.Account{
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: hash,
		Role:         role,
		IsActive:     isActive,
	})
	if err != nil {
		if domain.Is(err, domain.CodeEmailAlreadyExists) {
			s.audit(ctx, "register_conflict", map[string]string{"email": in.Email, "stage": "insert"})
			return RegisterResult{}, domain.ErrEmailAlreadyExists()
		}
		return RegisterResult{}, err
	}

	s.audit(ctx, "register_success", map[string]string{"account_id": created.ID, "email": created.Email})
	s.publishRegistered(ctx, created)

	return RegisterResult{ID: created.ID}, nil
}

// publishRegistered is best effort: the account already exists.
func (s *Service) publishRegistered(ctx context.Context, a domain.Account) {
	if s.pub == nil {
		return
	}
	evt := AccountRegisteredEvent{
		AccountID: a.ID,
		Email:     a.Email,
		Role:      a.Role,
		At:        s.now().UTC(),
	}
	if err := s.pub.PublishAccountRegistered(ctx, evt); err != nil {
		logger.WithCtx(ctx).Warn().Err(err).
			Str("account_id", a.ID).
			Msg("publish account_registered failed")
	}
}
