// Package events carries supervisor lifecycle notifications to whatever
// front end is attached (shell status page, terminal view, tests). The
// supervisor works identically with zero subscribers.
package events

import (
	"sync"
	"sync/atomic"
	"time"
)

// Event types published by the supervisor.
const (
	TypeState        = "supervisor.state"
	TypeProbeAttempt = "probe.attempt"
	TypeReady        = "supervisor.ready"
	TypeFailed       = "supervisor.failed"
)

// Event is one lifecycle notification.
type Event struct {
	ID   int64
	Type string
	At   time.Time

	// Fields carries the event payload: state names, URLs, probe status,
	// failure text. Small and flat on purpose.
	Fields map[string]string
}

// Hub is an in-memory pub/sub. Publishing never blocks: slow subscribers
// drop events rather than stalling the supervisor.
type Hub struct {
	nextID atomic.Int64

	mu        sync.Mutex
	subs      map[int]chan Event
	nextSubID int
}

// NewHub creates a Hub.
func NewHub() *Hub {
	return &Hub{subs: make(map[int]chan Event)}
}

// Publish delivers an event to every current subscriber.
func (h *Hub) Publish(eventType string, fields map[string]string) {
	ev := Event{
		ID:     h.nextID.Add(1),
		Type:   eventType,
		At:     time.Now().UTC(),
		Fields: fields,
	}

	h.mu.Lock()
	for _, ch := range h.subs {
		// Don't let slow clients block producers.
		select {
		case ch <- ev:
		default:
		}
	}
	h.mu.Unlock()
}

// Subscribe returns a channel of future events and a cancel function that
// unsubscribes and closes the channel. The channel is buffered; subscribers
// that fall far behind lose events.
func (h *Hub) Subscribe() (<-chan Event, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	id := h.nextSubID
	h.nextSubID++
	ch := make(chan Event, 128)
	h.subs[id] = ch

	cancel := func() {
		h.mu.Lock()
		if c, ok := h.subs[id]; ok {
			delete(h.subs, id)
			close(c)
		}
		h.mu.Unlock()
	}

	return ch, cancel
}
