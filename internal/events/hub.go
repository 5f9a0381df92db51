package events

import (
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/mveld/empadmin/internal/dependencies/clock"
	"github.com/mveld/empadmin/internal/model"
)

const subscriberBuffer = 64

// Hub fans out admin events to subscribers (SSE handlers, tests, anything
// that wants a live feed). Publishing never blocks; a slow subscriber loses
// events rather than stalling the polling loop.
type Hub struct {
	logger *slog.Logger
	clock  clock.Clock

	mu   sync.RWMutex
	subs map[chan model.Event]struct{}

	recentMu sync.RWMutex
	recent   []model.Event
}

const recentEventLimit = 100

// NewHub creates a new event hub
func NewHub(logger *slog.Logger, clk clock.Clock) *Hub {
	return &Hub{
		logger: logger.With(slog.String("component", "events")),
		clock:  clk,
		subs:   make(map[chan model.Event]struct{}),
	}
}

// Subscribe registers a new subscriber. The returned cancel func must be
// called when the subscriber is done; the channel is closed by cancel.
func (h *Hub) Subscribe() (<-chan model.Event, func()) {
	ch := make(chan model.Event, subscriberBuffer)

	h.mu.Lock()
	h.subs[ch] = struct{}{}
	count := len(h.subs)
	h.mu.Unlock()

	h.logger.Debug("subscriber registered", slog.Int("total_subscribers", count))

	cancel := func() {
		h.mu.Lock()
		if _, ok := h.subs[ch]; ok {
			delete(h.subs, ch)
			close(ch)
		}
		h.mu.Unlock()
	}
	return ch, cancel
}

// Publish builds an event with a fresh ID and timestamp and sends it to all
// subscribers
func (h *Hub) Publish(eventType model.EventType, payload any) model.Event {
	event := model.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Timestamp: h.clock.Now(),
		Payload:   payload,
	}

	h.recentMu.Lock()
	h.recent = append(h.recent, event)
	if len(h.recent) > recentEventLimit {
		h.recent = h.recent[len(h.recent)-recentEventLimit:]
	}
	h.recentMu.Unlock()

	h.mu.RLock()
	dropped := 0
	for ch := range h.subs {
		select {
		case ch <- event:
		default:
			dropped++
		}
	}
	h.mu.RUnlock()

	if dropped > 0 {
		h.logger.Warn("event dropped - subscriber buffer full",
			slog.String("type", string(eventType)),
			slog.Int("dropped", dropped))
	}
	return event
}

// Recent returns a copy of the most recently published events, oldest first
func (h *Hub) Recent() []model.Event {
	h.recentMu.RLock()
	defer h.recentMu.RUnlock()
	out := make([]model.Event, len(h.recent))
	copy(out, h.recent)
	return out
}
