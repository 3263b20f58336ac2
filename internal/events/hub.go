package events

import (
	"io"
	"sync"

	"github.com/jacktracker/jacktracker/internal/infra/logger"
)

// Observer receives every broadcast event. Notify must not block; slow
// transports drop instead.
type Observer interface {
	ID() string
	Notify(Event) error
}

// Hub keeps the set of connected observers and fans events out to them.
// Delivery is best effort and there is no replay for observers that join
// after an event was sent.
type Hub struct {
	mu        sync.RWMutex
	observers map[string]Observer
	logger    *logger.Logger
}

func NewHub(log *logger.Logger) *Hub {
	return &Hub{
		observers: make(map[string]Observer),
		logger:    log.WithPrefix("events"),
	}
}

func (h *Hub) Register(o Observer) {
	h.mu.Lock()
	h.observers[o.ID()] = o
	n := len(h.observers)
	h.mu.Unlock()

	h.logger.Debug("Observer %s registered (%d connected)", o.ID(), n)
}

func (h *Hub) Unregister(id string) {
	h.mu.Lock()
	_, ok := h.observers[id]
	delete(h.observers, id)
	n := len(h.observers)
	h.mu.Unlock()

	if ok {
		h.logger.Debug("Observer %s unregistered (%d connected)", id, n)
	}
}

// Broadcast delivers ev to a snapshot of the registry so observers can
// register or leave while it runs. Notify errors are logged and swallowed.
func (h *Hub) Broadcast(ev Event) {
	for _, o := range h.snapshot() {
		if err := o.Notify(ev); err != nil {
			h.logger.Warn("Dropped %s event for observer %s: %v", ev.EventType(), o.ID(), err)
		}
	}
}

func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.observers)
}

// CloseAll empties the registry and closes every observer that owns a
// connection.
func (h *Hub) CloseAll() {
	h.mu.Lock()
	observers := h.observers
	h.observers = make(map[string]Observer)
	h.mu.Unlock()

	for id, o := range observers {
		if c, ok := o.(io.Closer); ok {
			if err := c.Close(); err != nil {
				h.logger.Debug("Closing observer %s: %v", id, err)
			}
		}
	}
}

func (h *Hub) snapshot() []Observer {
	h.mu.RLock()
	defer h.mu.RUnlock()

	out := make([]Observer, 0, len(h.observers))
	for _, o := range h.observers {
		out = append(out, o)
	}
	return out
}
