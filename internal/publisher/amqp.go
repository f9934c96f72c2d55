package publisher

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"github.com/Checker-Finance/simulators/internal/metrics"
	"github.com/Checker-Finance/simulators/pkg/model"
)

const (
	// QueueBankLookups receives bank lookup events.
	QueueBankLookups = "lookups.bank"
	// QueueCryptoLookups receives crypto lookup events.
	QueueCryptoLookups = "lookups.crypto"
)

// Channel is the subset of *amqp.Channel the publisher needs.
type Channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// AMQP publishes lookup events to durable queues via the default exchange.
type AMQP struct {
	conn    *amqp.Connection
	channel Channel
	logger  *zap.Logger
}

// NewAMQP dials url, opens a channel and declares the lookup queues.
func NewAMQP(url string, logger *zap.Logger) (*AMQP, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	for _, q := range []string{QueueBankLookups, QueueCryptoLookups} {
		if _, err := channel.QueueDeclare(q, true, false, false, false, nil); err != nil {
			_ = channel.Close()
			_ = conn.Close()
			return nil, fmt.Errorf("failed to declare queue %s: %w", q, err)
		}
	}

	return &AMQP{conn: conn, channel: channel, logger: logger}, nil
}

func (p *AMQP) Name() string { return "amqp" }

// RoutingKey returns the queue lookup events of kind are routed to.
func RoutingKey(kind model.LookupKind) string {
	if kind == model.KindCrypto {
		return QueueCryptoLookups
	}
	return QueueBankLookups
}

// PublishLookup sends ev as a persistent JSON message. Failed lookups carry a
// higher priority so downstream alerting sees them first.
func (p *AMQP) PublishLookup(ctx context.Context, ev model.LookupEvent) error {
	body, err := json.Marshal(ev)
	if err != nil {
		p.logger.Error("publisher.amqp.marshal_failed", zap.Error(err))
		metrics.IncError("publisher", "marshal_failed")
		return err
	}

	msg := amqp.Publishing{
		ContentType:   "application/json",
		DeliveryMode:  amqp.Persistent,
		MessageId:     ev.ID.String(),
		CorrelationId: ev.ID.String(),
		Timestamp:     ev.OccurredAt,
		Type:          "lookup." + string(ev.Kind),
		Body:          body,
	}
	if !ev.Success {
		msg.Priority = 5
	}

	start := time.Now()
	err = p.channel.PublishWithContext(
		ctx,
		"",                  // exchange
		RoutingKey(ev.Kind), // routing key
		false,               // mandatory
		false,               // immediate
		msg,
	)
	metrics.ObserveDuration(metrics.PublishLatency, start, p.Name())
	if err != nil {
		p.logger.Error("publisher.amqp.publish_failed",
			zap.String("routing_key", RoutingKey(ev.Kind)),
			zap.Error(err))
		metrics.IncPublished(p.Name(), "error")
		return err
	}
	metrics.IncPublished(p.Name(), "ok")
	return nil
}

// Close closes the channel and the connection.
func (p *AMQP) Close() error {
	if p.channel != nil {
		_ = p.channel.Close()
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}
