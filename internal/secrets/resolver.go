package secrets

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	pkgsecrets "github.com/Checker-Finance/simulators/pkg/secrets"
)

// Secret map keys understood by Resolve.
const (
	KeyDatabaseURL = "database_url"
	KeyRedisPass   = "redis_pass"
	KeyNATSURL     = "nats_url"
	KeyAMQPURL     = "amqp_url"
)

// Connections holds backing-service credentials kept out of the environment.
// Empty fields were absent from the secret.
type Connections struct {
	DatabaseURL string
	RedisPass   string
	NATSURL     string
	AMQPURL     string
}

// SecretName builds the secret key for a service.
// Pattern: {env}/{service}
func SecretName(env, service string) string {
	return strings.ToLower(fmt.Sprintf("%s/%s", env, service))
}

// Resolve fetches the connection secret for service in env.
func Resolve(ctx context.Context, logger *zap.Logger, provider pkgsecrets.Provider, env, service string) (Connections, error) {
	name := SecretName(env, service)
	m, err := provider.GetSecret(ctx, name)
	if err != nil {
		logger.Warn("aws.secret_fetch_failed",
			zap.String("key", name),
			zap.Error(err))
		return Connections{}, fmt.Errorf("resolve connections for %q: %w", service, err)
	}

	conn := Connections{
		DatabaseURL: strings.TrimSpace(m[KeyDatabaseURL]),
		RedisPass:   m[KeyRedisPass],
		NATSURL:     strings.TrimSpace(m[KeyNATSURL]),
		AMQPURL:     strings.TrimSpace(m[KeyAMQPURL]),
	}
	logger.Info("aws.connections_resolved",
		zap.String("key", name),
		zap.Bool("database", conn.DatabaseURL != ""),
		zap.Bool("redis_pass", conn.RedisPass != ""),
		zap.Bool("nats", conn.NATSURL != ""),
		zap.Bool("amqp", conn.AMQPURL != ""),
	)
	return conn, nil
}
