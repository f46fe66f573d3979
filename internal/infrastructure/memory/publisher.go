package memory

import (
	"context"

	"github.com/baechuer/real-time-ressys/services/account-service/internal/application/auth"
	"github.com/baechuer/real-time-ressys/services/account-service/internal/logger"
)

// NoopPublisher stands in for RabbitMQ when RABBIT_URL is unset.
type NoopPublisher struct{}

func NewNoopPublisher() *NoopPublisher { return &NoopPublisher{} }

func (p *NoopPublisher) PublishAccountRegistered(ctx context.Context, evt auth.AccountRegisteredEvent) error {
	logger.WithCtx(ctx).Debug().
		Str("account_id", evt.AccountID).
		Str("role", evt.Role).
		Msg("noop publish account_registered")
	return nil
}
