//go:build integration

package cases

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/baechuer/real-time-ressys/services/account-service/internal/application/auth"
	"github.com/baechuer/real-time-ressys/services/account-service/internal/config"
	"github.com/baechuer/real-time-ressys/services/account-service/internal/infrastructure/db/postgres"
	"github.com/baechuer/real-time-ressys/services/account-service/internal/infrastructure/security"
	itinfra "github.com/baechuer/real-time-ressys/services/account-service/test/integration/infra"
)

const (
	itSecret = "integration-secret"
	itIssuer = "account-service-it"
)

type Deps struct {
	DB     *sql.DB
	Repo   *postgres.AccountRepo
	Issuer *security.JWTIssuer
	Svc    *auth.Service

	stop func()
}

// MustNewDeps starts Postgres, creates the schema and wires the service the
// same way bootstrap does, minus HTTP. pub may be nil.
func MustNewDeps(t *testing.T, pub auth.EventPublisher) *Deps {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	dsn, stop, err := itinfra.StartPostgres(ctx)
	require.NoError(t, err)

	db, err := config.NewDB(dsn, false)
	if err != nil {
		stop()
		require.NoError(t, err)
	}
	require.NoError(t, itinfra.EnsureAccountSchema(ctx, db))

	repo := postgres.NewAccountRepo(db)
	issuer := security.NewJWTIssuer(itSecret, itIssuer)
	svc := auth.NewService(repo, security.NewBcryptHasher(4), issuer, pub, auth.Config{})

	return &Deps{DB: db, Repo: repo, Issuer: issuer, Svc: svc, stop: stop}
}

func (d *Deps) Close(t *testing.T) {
	t.Helper()
	_ = d.DB.Close()
	d.stop()
}
