package notify

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublishFanOut(t *testing.T) {
	hub := NewHub()

	a := hub.Subscribe()
	b := hub.Subscribe()
	assert.Equal(t, 2, hub.SubscriberCount())

	hub.Publish(TicketEvent(ActionCreated, 42))

	for _, ch := range []chan Event{a, b} {
		ev := <-ch
		assert.Equal(t, EventTypeTicket, ev.Type)
		assert.Equal(t, ActionCreated, ev.Action)
		assert.Equal(t, uint64(42), ev.TicketID)
	}

	hub.Unsubscribe(a)
	hub.Unsubscribe(b)
	assert.Zero(t, hub.SubscriberCount())
}

func TestPublishWithoutSubscribers(t *testing.T) {
	hub := NewHub()

	// Best-effort: publishing into the void must not block or fail.
	hub.Publish(TicketEvent(ActionReplied, 1))
	hub.Publish(PrivateMessageEvent("alice", 2, "hello"))
}

func TestPublishDropsForSlowSubscriber(t *testing.T) {
	hub := NewHub()

	slow := hub.Subscribe()
	defer hub.Unsubscribe(slow)

	// Fill the buffer and keep publishing; the excess is dropped, not blocked.
	for i := 0; i < subscriberBuffer*2; i++ {
		hub.Publish(TicketEvent(ActionCreated, uint64(i)))
	}

	assert.Len(t, slow, subscriberBuffer)
}

func TestUnsubscribeTwice(t *testing.T) {
	hub := NewHub()

	ch := hub.Subscribe()
	hub.Unsubscribe(ch)
	hub.Unsubscribe(ch) // second call is a no-op, not a double close
}

func TestClose(t *testing.T) {
	hub := NewHub()

	ch := hub.Subscribe()
	hub.Close()

	_, open := <-ch
	assert.False(t, open, "subscriber channel must be closed")
	assert.Zero(t, hub.SubscriberCount())

	hub.Publish(TicketEvent(ActionCreated, 1))
}

func TestPrivateMessagePreview(t *testing.T) {
	testCases := []struct {
		name     string
		body     string
		expected string
	}{
		{
			name:     "short body unchanged",
			body:     "see you at lunch",
			expected: "see you at lunch",
		},
		{
			name:     "exactly the limit",
			body:     strings.Repeat("a", PreviewLength),
			expected: strings.Repeat("a", PreviewLength),
		},
		{
			name:     "long body clipped",
			body:     strings.Repeat("a", PreviewLength) + "overflow",
			expected: strings.Repeat("a", PreviewLength),
		},
		{
			name:     "multibyte text not cut mid-rune",
			body:     strings.Repeat("ü", PreviewLength+10),
			expected: strings.Repeat("ü", PreviewLength),
		},
		{
			name:     "empty body",
			body:     "",
			expected: "",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ev := PrivateMessageEvent("sender", 7, tc.body)

			require.Equal(t, EventTypePrivateMessage, ev.Type)
			assert.Equal(t, "sender", ev.Sender)
			assert.Equal(t, uint64(7), ev.RecipientID)
			assert.Equal(t, tc.expected, ev.Preview)
		})
	}
}
