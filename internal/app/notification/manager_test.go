package notification

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBroadcast_ReachesAllSubscribers(t *testing.T) {
	m := NewManager()
	defer m.Close()

	_, ch1 := m.Subscribe()
	_, ch2 := m.Subscribe()
	require.Equal(t, 2, m.SubscriberCount())

	m.Broadcast(Message{Type: "state", Data: "payload"})

	for _, ch := range []<-chan Message{ch1, ch2} {
		msg := <-ch
		assert.Equal(t, "state", msg.Type)
		assert.Equal(t, "payload", msg.Data)
	}
}

func TestBroadcast_SequenceNumbersIncrease(t *testing.T) {
	m := NewManager()
	defer m.Close()

	_, ch := m.Subscribe()

	m.Broadcast(Message{Type: "a"})
	m.Broadcast(Message{Type: "b"})

	first := <-ch
	second := <-ch
	assert.Greater(t, second.SequenceNo, first.SequenceNo)
}

func TestBroadcast_DropsWhenBufferFull(t *testing.T) {
	m := NewManager()
	defer m.Close()

	_, ch := m.Subscribe()

	for i := 0; i < subscriberBuffer+5; i++ {
		m.Broadcast(Message{Type: "tick"})
	}

	received := 0
	for len(ch) > 0 {
		<-ch
		received++
	}
	assert.Equal(t, subscriberBuffer, received)
}

func TestSend_TargetsSingleSubscriber(t *testing.T) {
	m := NewManager()
	defer m.Close()

	id1, ch1 := m.Subscribe()
	_, ch2 := m.Subscribe()

	m.Send(id1, Message{Type: "direct"})

	msg := <-ch1
	assert.Equal(t, "direct", msg.Type)
	assert.Empty(t, ch2)
}

func TestUnsubscribe_ClosesChannel(t *testing.T) {
	m := NewManager()
	defer m.Close()

	id, ch := m.Subscribe()
	m.Unsubscribe(id)

	_, open := <-ch
	assert.False(t, open)
	assert.Equal(t, 0, m.SubscriberCount())

	// Unsubscribing again is a no-op.
	m.Unsubscribe(id)
}

func TestClose_ClosesAllChannels(t *testing.T) {
	m := NewManager()

	_, ch := m.Subscribe()
	m.Close()

	_, open := <-ch
	assert.False(t, open)

	// Subscribing after close yields a closed channel.
	_, late := m.Subscribe()
	_, open = <-late
	assert.False(t, open)
}
