// Package notification provides the notification manager for broadcasting
// events to connected clients.
package notification

import (
	"sync"

	"github.com/google/uuid"
	zlog "github.com/rs/zerolog/log"
)

// subscriberBuffer is the per-subscriber channel capacity. A subscriber
// that falls this far behind starts losing messages.
const subscriberBuffer = 16

// Message is a single notification delivered to subscribers.
type Message struct {
	Type       string `json:"type"`
	Data       any    `json:"data,omitempty"`
	SequenceNo uint64 `json:"sequenceNo"`
}

// subscription represents a subscriber's subscription.
type subscription struct {
	id string
	ch chan Message
}

// Manager manages notification subscriptions and broadcasting.
type Manager struct {
	mu            sync.RWMutex
	subscriptions map[string]*subscription
	closed        bool
	sequenceNo    uint64
	sequenceNoMu  sync.Mutex
}

// NewManager creates a new notification manager.
func NewManager() *Manager {
	return &Manager{
		subscriptions: make(map[string]*subscription),
	}
}

// Subscribe adds a new subscription and returns its ID and receive channel.
// The channel is closed on Unsubscribe or when the manager shuts down.
func (m *Manager) Subscribe() (string, <-chan Message) {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := uuid.New().String()
	sub := &subscription{
		id: id,
		ch: make(chan Message, subscriberBuffer),
	}
	if m.closed {
		close(sub.ch)
		return id, sub.ch
	}
	m.subscriptions[id] = sub
	return id, sub.ch
}

// Unsubscribe removes a subscription and closes its channel.
func (m *Manager) Unsubscribe(subscriptionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	sub, ok := m.subscriptions[subscriptionID]
	if !ok {
		return
	}
	delete(m.subscriptions, subscriptionID)
	close(sub.ch)
}

// Broadcast sends a message to all subscribers. Sends never block; a
// subscriber with a full buffer misses the message.
func (m *Manager) Broadcast(msg Message) {
	m.sequenceNoMu.Lock()
	m.sequenceNo++
	msg.SequenceNo = m.sequenceNo
	m.sequenceNoMu.Unlock()

	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, sub := range m.subscriptions {
		select {
		case sub.ch <- msg:
		default:
			zlog.Warn().Str("subscriptionId", sub.id).Str("type", msg.Type).Msg("subscriber buffer full, dropping message")
		}
	}
}

// Send sends a message to a specific subscriber.
func (m *Manager) Send(subscriptionID string, msg Message) {
	m.sequenceNoMu.Lock()
	m.sequenceNo++
	msg.SequenceNo = m.sequenceNo
	m.sequenceNoMu.Unlock()

	m.mu.RLock()
	defer m.mu.RUnlock()

	sub, ok := m.subscriptions[subscriptionID]
	if !ok {
		return
	}
	select {
	case sub.ch <- msg:
	default:
		zlog.Warn().Str("subscriptionId", sub.id).Str("type", msg.Type).Msg("subscriber buffer full, dropping message")
	}
}

// SubscriberCount returns the number of active subscribers.
func (m *Manager) SubscriberCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.subscriptions)
}

// Close removes all subscriptions and closes their channels.
// Subscribing after Close yields an already-closed channel.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, sub := range m.subscriptions {
		close(sub.ch)
	}
	m.subscriptions = make(map[string]*subscription)
	m.closed = true
}
