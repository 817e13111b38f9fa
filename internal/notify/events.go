package notify

// Event type discriminators as they appear on the wire.
const (
	// EventTypeTicket is sent when a ticket is created or replied to.
	EventTypeTicket = "ticket_event"
	// EventTypePrivateMessage is sent when a private message is delivered.
	EventTypePrivateMessage = "private_message"
)

// Ticket event actions.
const (
	// ActionCreated marks a freshly created ticket.
	ActionCreated = "created"
	// ActionReplied marks a new reply on an existing ticket.
	ActionReplied = "replied"
)

// PreviewLength is the number of characters of a private message body
// included in its notification event.
const PreviewLength = 50

// Event is a lifecycle notification broadcast to live subscribers.
// Exactly one of the ticket fields or the message fields is populated,
// depending on Type.
type Event struct {
	// Type discriminates the event kind (EventTypeTicket or EventTypePrivateMessage).
	Type string `json:"type"`

	// Action is "created" or "replied" for ticket events.
	Action string `json:"action,omitempty"`
	// TicketID is the id of the affected ticket for ticket events.
	TicketID uint64 `json:"ticket_id,omitempty"`

	// Sender is the sending user's name for private message events.
	Sender string `json:"sender,omitempty"`
	// RecipientID is the receiving user's id for private message events.
	RecipientID uint64 `json:"recipient_id,omitempty"`
	// Preview is the clipped message body for private message events.
	Preview string `json:"preview,omitempty"`
}

// TicketEvent builds a ticket lifecycle event.
func TicketEvent(action string, ticketID uint64) Event {
	return Event{
		Type:     EventTypeTicket,
		Action:   action,
		TicketID: ticketID,
	}
}

// PrivateMessageEvent builds a private message event. The body is clipped to
// the first PreviewLength characters, order preserved.
func PrivateMessageEvent(sender string, recipientID uint64, body string) Event {
	return Event{
		Type:        EventTypePrivateMessage,
		Sender:      sender,
		RecipientID: recipientID,
		Preview:     clip(body, PreviewLength),
	}
}

// clip returns the first n characters of s. Truncation counts characters,
// not bytes, so multi-byte text is never cut mid-rune.
func clip(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}

	return string(runes[:n])
}
