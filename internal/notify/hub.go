// Package notify broadcasts helpdesk lifecycle events to live subscribers.
//
// Delivery is strictly best-effort and at-most-once: there is no persistence,
// no replay, no acknowledgment and no backpressure. A publish with no
// subscribers is not an error, and a subscriber that cannot keep up has the
// event dropped rather than blocking the publisher.
package notify

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog/log"
)

const subscriberBuffer = 16

var (
	eventsBroadcast = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "helpdesk_events_broadcast_total",
			Help: "Number of lifecycle events handed to subscribers.",
		},
		[]string{"type"},
	)

	eventsDropped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "helpdesk_events_dropped_total",
			Help: "Number of lifecycle events dropped because a subscriber was not keeping up.",
		},
		[]string{"type"},
	)
)

// Hub fans lifecycle events out to the currently connected subscribers.
// The zero value is not usable; create one with NewHub.
type Hub struct {
	mu   sync.RWMutex
	subs map[chan Event]struct{}
}

// NewHub creates an empty broadcast hub.
func NewHub() *Hub {
	return &Hub{
		subs: make(map[chan Event]struct{}),
	}
}

// Subscribe registers a new live subscriber and returns its event channel.
// The caller must call Unsubscribe with the same channel when done.
func (h *Hub) Subscribe() chan Event {
	ch := make(chan Event, subscriberBuffer)

	h.mu.Lock()
	h.subs[ch] = struct{}{}
	h.mu.Unlock()

	return ch
}

// Unsubscribe removes a subscriber and closes its channel.
func (h *Hub) Unsubscribe(ch chan Event) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.subs[ch]; !ok {
		return
	}

	delete(h.subs, ch)
	close(ch)
}

// Publish hands the event to every connected subscriber without blocking.
// Subscribers whose buffer is full have the event dropped. Callers publish
// only after the corresponding database commit succeeded.
func (h *Hub) Publish(event Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for ch := range h.subs {
		select {
		case ch <- event:
			eventsBroadcast.WithLabelValues(event.Type).Inc()
		default:
			eventsDropped.WithLabelValues(event.Type).Inc()
			log.Debug().Str("type", event.Type).Msg("dropped event for slow subscriber")
		}
	}
}

// Close disconnects every remaining subscriber. Publishing after Close is a
// no-op.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for ch := range h.subs {
		delete(h.subs, ch)
		close(ch)
	}
}

// SubscriberCount returns the number of currently connected subscribers.
func (h *Hub) SubscriberCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.subs)
}
