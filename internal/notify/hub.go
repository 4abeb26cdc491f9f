// Package notify fans leave-request state changes out to connected dashboards.
//
// Delivery is best effort: at most once per subscriber, no replay, no durability.
// A subscriber that cannot keep up is dropped rather than allowed to stall others.
package notify

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"
)

// Event types published by the leave workflow.
const (
	EventRequestUpdated = "demande_updated"
	EventRequestDeleted = "deleted"
)

// Event is the wire payload pushed to subscribers.
type Event struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

// Subscription is one observer's registration.
type Subscription struct {
	id uint64
	ch chan Event
}

// Events yields published events until the subscription is closed.
func (s *Subscription) Events() <-chan Event {
	return s.ch
}

// Hub is an explicitly scoped observer registry. Run ties its lifetime to a
// context; when that context ends every subscription is closed.
type Hub struct {
	mu      sync.Mutex
	subs    map[uint64]*Subscription
	nextID  uint64
	stopped bool

	bufferSize int
	log        *logrus.Logger
}

// NewHub creates a hub whose subscribers buffer up to bufferSize events each.
func NewHub(bufferSize int, log *logrus.Logger) *Hub {
	if bufferSize <= 0 {
		bufferSize = 1
	}
	if log == nil {
		log = logrus.New()
	}
	return &Hub{
		subs:       make(map[uint64]*Subscription),
		bufferSize: bufferSize,
		log:        log,
	}
}

// Run blocks until ctx is done, then closes every subscription.
func (h *Hub) Run(ctx context.Context) error {
	<-ctx.Done()
	h.stop()
	return nil
}

// Subscribe registers a new observer. Only events published afterwards are delivered.
func (h *Hub) Subscribe() *Subscription {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.nextID++
	sub := &Subscription{id: h.nextID, ch: make(chan Event, h.bufferSize)}
	if h.stopped {
		close(sub.ch)
		return sub
	}
	h.subs[sub.id] = sub
	return sub
}

// Unsubscribe removes an observer and closes its channel. Safe to call more than once.
func (h *Hub) Unsubscribe(sub *Subscription) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.remove(sub.id)
}

// Publish delivers an event to the observers registered at the time of the
// call. It never blocks: an observer whose buffer is full is removed.
func (h *Hub) Publish(eventType string, data any) {
	ev := Event{Type: eventType, Data: data}

	h.mu.Lock()
	defer h.mu.Unlock()

	for id, sub := range h.subs {
		select {
		case sub.ch <- ev:
		default:
			h.remove(id)
			h.log.WithFields(logrus.Fields{
				"subscriber": id,
				"event_type": ev.Type,
			}).Warn("slow subscriber removed")
		}
	}
}

// Subscribers returns the number of registered observers.
func (h *Hub) Subscribers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}

func (h *Hub) stop() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.stopped = true
	for id := range h.subs {
		h.remove(id)
	}
}

// remove must be called with h.mu held.
func (h *Hub) remove(id uint64) {
	if sub, ok := h.subs[id]; ok {
		delete(h.subs, id)
		close(sub.ch)
	}
}
