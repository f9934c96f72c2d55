// Package publisher forwards lookup events from the in-process bus to brokers.
package publisher

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/Checker-Finance/simulators/pkg/eventbus"
	"github.com/Checker-Finance/simulators/pkg/model"
)

// PublishTimeout bounds a single broker publish started from the bus.
const PublishTimeout = 5 * time.Second

// Sink publishes lookup events to one broker.
type Sink interface {
	Name() string
	PublishLookup(ctx context.Context, ev model.LookupEvent) error
	Close() error
}

// Attach subscribes sink to LookupEvents on bus. Publish errors are logged and
// counted by the sink; they never reach the lookup caller.
func Attach(bus *eventbus.EventBus, sink Sink, logger *zap.Logger) {
	if logger == nil {
		logger = zap.NewNop()
	}
	bus.Subscribe(model.LookupEvent{}, func(event any) {
		var ev model.LookupEvent
		switch e := event.(type) {
		case model.LookupEvent:
			ev = e
		case *model.LookupEvent:
			ev = *e
		default:
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), PublishTimeout)
		defer cancel()
		if err := sink.PublishLookup(ctx, ev); err != nil {
			logger.Warn("publisher.lookup_dropped",
				zap.String("sink", sink.Name()),
				zap.String("event_id", ev.ID.String()),
				zap.Error(err))
		}
	})
}
