package eventbus

import (
	"reflect"
	"sync"
)

// Handler is a function that handles an event
type Handler func(event any)

// EventBus provides in-process pub/sub keyed by the dynamic type of the event.
// A handler subscribed to T also receives *T events (dereferenced) and the
// reverse.
type EventBus struct {
	handlers map[reflect.Type][]Handler
	mu       sync.RWMutex
	inflight sync.WaitGroup
}

// New creates a new EventBus
func New() *EventBus {
	return &EventBus{
		handlers: make(map[reflect.Type][]Handler),
	}
}

// Subscribe registers a handler for the type of eventType.
func (e *EventBus) Subscribe(eventType any, handler Handler) {
	e.mu.Lock()
	defer e.mu.Unlock()

	t := reflect.TypeOf(eventType)
	e.handlers[t] = append(e.handlers[t], handler)
}

type delivery struct {
	handler Handler
	event   any
}

func (e *EventBus) deliveries(event any) []delivery {
	if event == nil {
		return nil
	}
	e.mu.RLock()
	defer e.mu.RUnlock()

	var out []delivery
	t := reflect.TypeOf(event)
	for _, h := range e.handlers[t] {
		out = append(out, delivery{h, event})
	}

	v := reflect.ValueOf(event)
	if t.Kind() == reflect.Ptr {
		if v.IsNil() {
			return out
		}
		elem := v.Elem().Interface()
		for _, h := range e.handlers[t.Elem()] {
			out = append(out, delivery{h, elem})
		}
		return out
	}

	if hs := e.handlers[reflect.PointerTo(t)]; len(hs) > 0 {
		ptr := reflect.New(t)
		ptr.Elem().Set(v)
		for _, h := range hs {
			out = append(out, delivery{h, ptr.Interface()})
		}
	}
	return out
}

// Publish delivers event to every subscriber on its own goroutine.
func (e *EventBus) Publish(event any) {
	for _, d := range e.deliveries(event) {
		e.inflight.Add(1)
		go func(d delivery) {
			defer e.inflight.Done()
			d.handler(d.event)
		}(d)
	}
}

// PublishSync delivers event to every subscriber before returning.
func (e *EventBus) PublishSync(event any) {
	for _, d := range e.deliveries(event) {
		d.handler(d.event)
	}
}

// Wait blocks until handlers started by Publish have returned.
func (e *EventBus) Wait() {
	e.inflight.Wait()
}

// HasSubscribers returns true if there are subscribers for the event type
func (e *EventBus) HasSubscribers(eventType any) bool {
	return e.SubscriberCount(eventType) > 0
}

// SubscriberCount returns the number of subscribers for an event type
func (e *EventBus) SubscriberCount(eventType any) int {
	e.mu.RLock()
	defer e.mu.RUnlock()

	return len(e.handlers[reflect.TypeOf(eventType)])
}
