package publisher

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"

	"github.com/Checker-Finance/simulators/internal/metrics"
	"github.com/Checker-Finance/simulators/pkg/model"
)

// JetStream is the subset of nats.JetStreamContext the publisher needs.
type JetStream interface {
	PublishMsg(msg *nats.Msg, opts ...nats.PubOpt) (*nats.PubAck, error)
}

// NATS publishes canonical envelopes to JetStream under <subject>.<kind>.
type NATS struct {
	nc      *nats.Conn
	js      JetStream
	subject string
	service string
	logger  *zap.Logger
}

// NewNATS enables JetStream on nc and, when stream is set, makes sure a stream
// captures <subject>.>.
func NewNATS(nc *nats.Conn, subject, stream, service string, logger *zap.Logger) (*NATS, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	js, err := nc.JetStream()
	if err != nil {
		return nil, err
	}
	if stream != "" {
		if err := ensureStream(js, stream, subject); err != nil {
			return nil, fmt.Errorf("ensure stream %s: %w", stream, err)
		}
	}
	return &NATS{nc: nc, js: js, subject: subject, service: service, logger: logger}, nil
}

func ensureStream(jsm nats.JetStreamManager, stream, subject string) error {
	_, err := jsm.StreamInfo(stream)
	if err == nil {
		return nil
	}
	if !errors.Is(err, nats.ErrStreamNotFound) {
		return err
	}
	_, err = jsm.AddStream(&nats.StreamConfig{
		Name:     stream,
		Subjects: []string{subject + ".>"},
		Storage:  nats.FileStorage,
		MaxAge:   7 * 24 * time.Hour,
	})
	return err
}

func (p *NATS) Name() string { return "nats" }

// SubjectFor returns the subject lookup events of kind are published on.
func (p *NATS) SubjectFor(kind model.LookupKind) string {
	return p.subject + "." + string(kind)
}

// PublishEnvelope serializes and publishes env. An empty subject uses the
// configured base subject.
func (p *NATS) PublishEnvelope(ctx context.Context, subject string, env *model.Envelope) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := json.Marshal(env)
	if err != nil {
		p.logger.Error("publisher.marshal_failed",
			zap.String("subject", subject),
			zap.String("event_type", env.EventType),
			zap.Error(err))
		metrics.IncError("publisher", "marshal_failed")
		return err
	}
	if subject == "" {
		subject = p.subject
	}

	msg := &nats.Msg{
		Subject: subject,
		Data:    data,
		Header: nats.Header{
			"event_type":     []string{env.EventType},
			"correlation_id": []string{env.CorrelationID.String()},
			"service":        []string{p.service},
			"content_type":   []string{"application/json"},
		},
	}
	// JetStream de-duplicates on this header within the stream window.
	msg.Header.Set(nats.MsgIdHdr, env.ID.String())

	start := time.Now()
	_, err = p.js.PublishMsg(msg, nats.Context(ctx))
	metrics.ObserveDuration(metrics.PublishLatency, start, p.Name())

	if err != nil {
		p.logger.Error("publisher.publish_failed",
			zap.String("subject", subject),
			zap.String("event_type", env.EventType),
			zap.Error(err))
		metrics.IncPublished(p.Name(), "error")
		return err
	}

	p.logger.Debug("publisher.publish_success",
		zap.String("subject", subject),
		zap.String("event_type", env.EventType))
	metrics.IncPublished(p.Name(), "ok")
	return nil
}

// PublishLookup wraps ev in an envelope and publishes it on its kind's subject.
func (p *NATS) PublishLookup(ctx context.Context, ev model.LookupEvent) error {
	subject := p.SubjectFor(ev.Kind)
	env, err := model.NewLookupEnvelope(subject, ev)
	if err != nil {
		metrics.IncError("publisher", "marshal_failed")
		return err
	}
	return p.PublishEnvelope(ctx, subject, env)
}

func (p *NATS) Close() error {
	if p.nc != nil && p.nc.IsConnected() {
		return p.nc.Drain()
	}
	return nil
}
