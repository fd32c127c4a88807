package events

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Event is a domain notification fanned out to registered notifiers.
type Event struct {
	Topic   string         `json:"topic"`
	At      time.Time      `json:"at"`
	Payload map[string]any `json:"payload,omitempty"`
}

// Notifier receives events. Implementations must not block for long; the bus
// calls them inline on the emitting goroutine.
type Notifier interface {
	Notify(ctx context.Context, evt Event)
}

// Bus fans events out to all registered notifiers.
type Bus struct {
	mu        sync.RWMutex
	notifiers []Notifier
}

// NewBus returns a bus with the given notifiers attached.
func NewBus(notifiers ...Notifier) *Bus {
	return &Bus{notifiers: notifiers}
}

// Register attaches an additional notifier.
func (b *Bus) Register(n Notifier) {
	if n == nil {
		return
	}
	b.mu.Lock()
	b.notifiers = append(b.notifiers, n)
	b.mu.Unlock()
}

// Emit delivers the event to every notifier. A nil bus is a no-op so callers
// need not guard emission sites.
func (b *Bus) Emit(ctx context.Context, topic string, payload map[string]any) {
	if b == nil {
		return
	}
	evt := Event{Topic: topic, At: time.Now().UTC(), Payload: payload}
	b.mu.RLock()
	notifiers := make([]Notifier, len(b.notifiers))
	copy(notifiers, b.notifiers)
	b.mu.RUnlock()
	for _, n := range notifiers {
		n.Notify(ctx, evt)
	}
}

// LogNotifier writes events to the structured log.
type LogNotifier struct {
	Logger zerolog.Logger
}

// Notify logs the event at info level.
func (l LogNotifier) Notify(_ context.Context, evt Event) {
	l.Logger.Info().
		Str("topic", evt.Topic).
		Time("at", evt.At).
		Fields(map[string]any{"payload": evt.Payload}).
		Msg("domain event")
}
