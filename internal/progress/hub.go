package progress

import (
	"sync"

	"adlens/internal/model"
)

// Event types pushed to subscribers.
const (
	EventProgress = "progress"
	EventDeleted  = "deleted"
)

// Event is one change of an analysis record.
type Event struct {
	Type     string          `json:"type"`
	Analysis *model.Analysis `json:"analysis"`
}

// Hub fans analysis changes out to the subscribers of each record.
type Hub struct {
	mu     sync.RWMutex
	subs   map[uint]map[chan Event]struct{}
	buffer int
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{subs: make(map[uint]map[chan Event]struct{}), buffer: 16}
}

// Subscribe returns the event stream of one record and a func that ends the subscription.
func (h *Hub) Subscribe(id uint) (<-chan Event, func()) {
	ch := make(chan Event, h.buffer)

	h.mu.Lock()
	if h.subs[id] == nil {
		h.subs[id] = make(map[chan Event]struct{})
	}
	h.subs[id][ch] = struct{}{}
	h.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.subs[id], ch)
			if len(h.subs[id]) == 0 {
				delete(h.subs, id)
			}
			h.mu.Unlock()
			close(ch)
		})
	}
}

// Publish sends a progress event for a. Slow subscribers miss events rather than block the sender.
func (h *Hub) Publish(a *model.Analysis) {
	h.send(a.ID, Event{Type: EventProgress, Analysis: a})
}

// PublishDeleted tells subscribers that the record is gone.
func (h *Hub) PublishDeleted(id uint) {
	h.send(id, Event{Type: EventDeleted, Analysis: &model.Analysis{ID: id}})
}

func (h *Hub) send(id uint, ev Event) {
	if h == nil {
		return
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	for ch := range h.subs[id] {
		select {
		case ch <- ev:
		default:
		}
	}
}

// Subscribers returns the number of open subscriptions for id.
func (h *Hub) Subscribers(id uint) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs[id])
}
