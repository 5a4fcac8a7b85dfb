// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package events

import (
	"log/slog"
	"sync"
	"time"

	"github.com/danielhkuo/dotvote/models"
	"github.com/danielhkuo/dotvote/voting"
)

// EventTypeReady is sent once when a subscription starts.
const EventTypeReady = "subscription.ready"

// subscriberBuffer is how many events a subscriber may lag behind before
// it is dropped.
const subscriberBuffer = 16

// Event tells subscribers that something in a session changed. Clients
// re-read through the regular queries; events never carry owner identity.
type Event struct {
	Type      string       `json:"type"`
	SessionID string       `json:"session_id"`
	VoteID    string       `json:"vote_id,omitempty"`
	Phase     models.Phase `json:"phase,omitempty"`
	Timestamp time.Time    `json:"timestamp"`
}

// Hub fans events out to the subscribers of each session.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]map[chan Event]struct{} // sessionID -> subscribers
	closed  bool
}

// NewHub creates an empty hub
func NewHub() *Hub {
	return &Hub{
		clients: make(map[string]map[chan Event]struct{}),
	}
}

// Subscribe registers a new subscriber for a session. The channel is
// closed when the subscriber is dropped or the hub shuts down.
func (h *Hub) Subscribe(sessionID string) chan Event {
	h.mu.Lock()
	defer h.mu.Unlock()

	ch := make(chan Event, subscriberBuffer)
	if h.closed {
		close(ch)
		return ch
	}
	if h.clients[sessionID] == nil {
		h.clients[sessionID] = make(map[chan Event]struct{})
	}
	h.clients[sessionID][ch] = struct{}{}
	return ch
}

// Unsubscribe removes a subscriber and closes its channel. Safe to call
// more than once.
func (h *Hub) Unsubscribe(sessionID string, ch chan Event) {
	h.mu.Lock()
	defer h.mu.Unlock()

	clients, ok := h.clients[sessionID]
	if !ok {
		return
	}
	if _, ok := clients[ch]; !ok {
		return
	}
	delete(clients, ch)
	close(ch)
	if len(clients) == 0 {
		delete(h.clients, sessionID)
	}
}

// Publish delivers an event to every subscriber of its session without
// blocking. Subscribers whose buffer is full are dropped; they reconnect
// and re-read.
func (h *Hub) Publish(event Event) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}

	var slow []chan Event
	h.mu.RLock()
	for ch := range h.clients[event.SessionID] {
		select {
		case ch <- event:
		default:
			slow = append(slow, ch)
		}
	}
	h.mu.RUnlock()

	for _, ch := range slow {
		slog.Warn("dropping slow subscriber", "session_id", event.SessionID)
		h.Unsubscribe(event.SessionID, ch)
	}
}

// Notify publishes a committed change from the voting core.
func (h *Hub) Notify(c voting.Change) {
	h.Publish(Event{
		Type:      string(c.Kind),
		SessionID: c.SessionID,
		VoteID:    c.VoteID,
		Phase:     c.Phase,
	})
}

// SubscriberCount returns the number of live subscribers of a session
func (h *Hub) SubscriberCount(sessionID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[sessionID])
}

// Close drops every subscriber. Later subscriptions get a closed channel.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for sessionID, clients := range h.clients {
		for ch := range clients {
			close(ch)
		}
		delete(h.clients, sessionID)
	}
	h.closed = true
}
