//go:build integration

package infra

import (
	"context"
	"fmt"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

const (
	postgresImage = "postgres:16-alpine"
	rabbitImage   = "rabbitmq:3.13-alpine"
)

// StartPostgres runs a throwaway Postgres and returns its DSN.
func StartPostgres(ctx context.Context) (string, func(), error) {
	c, err := postgres.Run(ctx,
		postgresImage,
		postgres.WithDatabase("accounts_test"),
		postgres.WithUsername("accounts"),
		postgres.WithPassword("accounts"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	if err != nil {
		return "", nil, fmt.Errorf("start postgres: %w", err)
	}

	dsn, err := c.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		_ = c.Terminate(context.Background())
		return "", nil, fmt.Errorf("postgres dsn: %w", err)
	}

	return dsn, func() { _ = c.Terminate(context.Background()) }, nil
}

// StartRabbitMQ runs a throwaway broker and returns its amqp URL.
func StartRabbitMQ(ctx context.Context) (string, func(), error) {
	c, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        rabbitImage,
			ExposedPorts: []string{"5672/tcp"},
			WaitingFor: wait.ForLog("Server startup complete").
				WithStartupTimeout(90 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		return "", nil, fmt.Errorf("start rabbitmq: %w", err)
	}
	terminate := func() { _ = c.Terminate(context.Background()) }

	host, err := c.Host(ctx)
	if err != nil {
		terminate()
		return "", nil, fmt.Errorf("rabbitmq host: %w", err)
	}
	port, err := c.MappedPort(ctx, "5672/tcp")
	if err != nil {
		terminate()
		return "", nil, fmt.Errorf("rabbitmq port: %w", err)
	}

	return fmt.Sprintf("amqp://guest:guest@%s:%s/", host, port.Port()), terminate, nil
}
