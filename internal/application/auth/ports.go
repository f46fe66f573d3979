package auth

import (
	"context"
	"time"

	"github.com/baechuer/real-time-ressys/services/account-service/internal/domain"
)

/*
AccountStore
------------
Persistence port for accounts.
Create must enforce email uniqueness atomically and report a lost race
as domain.ErrEmailAlreadyExists. The store assigns ID and CreatedAt.
*/
type AccountStore interface {
	FindByEmail(ctx context.Context, email string) (domain.Account, error)
	FindByID(ctx context.Context, id string) (domain.Account, error)
	Create(ctx context.Context, a domain.Account) (domain.Account, error)
}

/*
PasswordHasher
--------------
Abstracts bcrypt. Compare returns nil only on match.
*/
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash string, password string) error
}

/*
TokenIssuer
-----------
Issues and verifies signed identity tokens (JWT).
Used by the service and the auth middleware.
*/
type Claims struct {
	AccountID string
	Email     string
	Role      string
	ExpiresAt time.Time // zero means no expiry
}

type TokenIssuer interface {
	Issue(c Claims) (string, error)
	Verify(token string) (Claims, error)
}

/*
EventPublisher
--------------
Publishes account lifecycle events to RabbitMQ.
*/
type EventPublisher interface {
	PublishAccountRegistered(ctx context.Context, evt AccountRegisteredEvent) error
}

type AccountRegisteredEvent struct {
	AccountID string    `json:"account_id"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	At        time.Time `json:"at"`
}
