package events

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/KirkDiggler/remnant-save-analyzer/internal/logging"
	"github.com/rs/zerolog"
)

// EventListener processes events
type EventListener interface {
	HandleEvent(event Event) error
	Priority() int
	ID() string
}

// ListenerFunc adapts a function to EventListener
type ListenerFunc struct {
	Name   string
	Order  int
	Handle func(Event) error
}

func (f *ListenerFunc) HandleEvent(event Event) error { return f.Handle(event) }
func (f *ListenerFunc) Priority() int                 { return f.Order }
func (f *ListenerFunc) ID() string                    { return f.Name }

// Bus manages event distribution
type Bus struct {
	listeners map[EventType][]EventListener
	mu        sync.RWMutex
	log       *zerolog.Logger
}

// NewBus creates a new event bus logging through the default logger
func NewBus() *Bus {
	return NewBusWithLogger(logging.Default())
}

// NewBusWithLogger creates a new event bus
func NewBusWithLogger(log *zerolog.Logger) *Bus {
	if log == nil {
		log = logging.Default()
	}
	return &Bus{
		listeners: make(map[EventType][]EventListener),
		log:       log,
	}
}

// Subscribe adds a listener for specific event types
func (b *Bus) Subscribe(eventType EventType, listener EventListener) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.listeners[eventType] = append(b.listeners[eventType], listener)

	sort.SliceStable(b.listeners[eventType], func(i, j int) bool {
		return b.listeners[eventType][i].Priority() < b.listeners[eventType][j].Priority()
	})

	b.log.Debug().
		Str("listener", listener.ID()).
		Str("event", string(eventType)).
		Int("priority", listener.Priority()).
		Msg("event listener subscribed")
}

// Unsubscribe removes a listener
func (b *Bus) Unsubscribe(eventType EventType, listenerID string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	listeners := b.listeners[eventType]
	for i, l := range listeners {
		if l.ID() != listenerID {
			continue
		}
		b.listeners[eventType] = append(listeners[:i:i], listeners[i+1:]...)

		b.log.Debug().
			Str("listener", listenerID).
			Str("event", string(eventType)).
			Msg("event listener unsubscribed")
		return
	}
}

// ListenerCount returns how many listeners are subscribed to eventType
func (b *Bus) ListenerCount(eventType EventType) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.listeners[eventType])
}

// Emit sends an event to all registered listeners in priority order.
// A failing listener does not stop propagation; every failure is returned joined.
func (b *Bus) Emit(event Event) error {
	b.mu.RLock()
	listeners := make([]EventListener, len(b.listeners[event.GetType()]))
	copy(listeners, b.listeners[event.GetType()])
	b.mu.RUnlock()

	b.log.Trace().
		Str("event", string(event.GetType())).
		Int("listeners", len(listeners)).
		Msg("emitting event")

	var errs []error
	for _, listener := range listeners {
		if event.IsCancelled() {
			b.log.Debug().Str("event", string(event.GetType())).Msg("event cancelled, stopping propagation")
			break
		}

		if err := listener.HandleEvent(event); err != nil {
			b.log.Warn().Err(err).
				Str("listener", listener.ID()).
				Str("event", string(event.GetType())).
				Msg("event listener failed")
			errs = append(errs, fmt.Errorf("listener %s failed: %w", listener.ID(), err))
		}
	}

	return errors.Join(errs...)
}
