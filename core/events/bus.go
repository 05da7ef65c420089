package events

import (
	"log/slog"
	"sync"
)

// Subscriber receives engine events. An empty EventTypes slice subscribes to
// every event.
type Subscriber interface {
	// ID returns the unique subscriber identifier.
	ID() string

	// EventTypes returns the event types this subscriber is interested in.
	EventTypes() []EventType

	// OnEvent is called synchronously when a subscribed event occurs.
	OnEvent(event *Event) error
}

// Bus delivers events to registered subscribers. Delivery is synchronous and
// in registration order; a subscriber error is logged and never stops
// delivery to the rest.
type Bus struct {
	mu          sync.RWMutex
	subscribers []Subscriber
	logger      *slog.Logger
}

// NewBus creates an event bus. A nil logger selects slog.Default().
func NewBus(logger *slog.Logger) *Bus {
	if logger == nil {
		logger = slog.Default()
	}
	return &Bus{logger: logger}
}

// Subscribe registers a subscriber. Re-subscribing the same id replaces the
// previous registration.
func (b *Bus) Subscribe(sub Subscriber) {
	if sub == nil {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	for i, existing := range b.subscribers {
		if existing.ID() == sub.ID() {
			b.subscribers[i] = sub
			return
		}
	}
	b.subscribers = append(b.subscribers, sub)
}

// Unsubscribe removes the subscriber with the given id.
func (b *Bus) Unsubscribe(id string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for i, existing := range b.subscribers {
		if existing.ID() == id {
			b.subscribers = append(b.subscribers[:i], b.subscribers[i+1:]...)
			return
		}
	}
}

// Publish delivers the event to every interested subscriber.
func (b *Bus) Publish(event *Event) {
	if event == nil {
		return
	}

	b.mu.RLock()
	subscribers := make([]Subscriber, len(b.subscribers))
	copy(subscribers, b.subscribers)
	b.mu.RUnlock()

	for _, sub := range subscribers {
		if !wants(sub, event.Type) {
			continue
		}
		if err := sub.OnEvent(event); err != nil {
			b.logger.Warn("event subscriber failed", "subscriber", sub.ID(), "event", event.Type.String(), "error", err)
		}
	}
}

func wants(sub Subscriber, et EventType) bool {
	types := sub.EventTypes()
	if len(types) == 0 {
		return true
	}
	for _, t := range types {
		if t == et {
			return true
		}
	}
	return false
}
