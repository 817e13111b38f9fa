package models

import (
	"fmt"
	"time"
)

// Well-known ticket status values. The status column itself is free-form to
// stay compatible with existing data; these constants cover the values the
// application writes and the analytics endpoint counts.
const (
	// TicketStatusOpen is the initial status of every new ticket.
	TicketStatusOpen = "open"
	// TicketStatusInProgress marks a ticket currently being worked on.
	TicketStatusInProgress = "in progress"
	// TicketStatusClosed marks a resolved ticket. Closed tickets may be reopened.
	TicketStatusClosed = "closed"
)

// TicketPriorityNormal is the default priority assigned to new tickets.
const TicketPriorityNormal = "normal"

// Ticket represents a unit of support work submitted by a user.
// The author is immutable once the ticket is created; status, priority and
// assignment are mutated only through the lifecycle manager. Tickets are never
// physically deleted.
type Ticket struct {
	// ID is the unique identifier for the ticket.
	ID uint64 `gorm:"primaryKey"`
	// Subject is the short summary line of the ticket.
	Subject string `gorm:"size:200;not null"`
	// Description is the full problem description.
	Description string `gorm:"type:text;not null"`
	// Status is the current lifecycle status (see TicketStatus constants).
	Status string `gorm:"size:20;not null;default:'open'"`
	// Priority is the triage priority (free-form, default "normal").
	Priority string `gorm:"size:20;not null;default:'normal'"`
	// UserID is the ID of the authoring user. Immutable after creation.
	UserID uint64 `gorm:"column:user_id;not null;index"`
	// Author is the authoring user (loaded via foreign key).
	Author User `gorm:"foreignKey:UserID"`
	// AssignedTo is the optional ID of the support agent assigned to the ticket.
	AssignedTo *uint64 `gorm:"column:assigned_to"`
	// Replies is the ordered, append-only reply thread of this ticket.
	Replies []TicketReply `gorm:"foreignKey:TicketID"`
	// CreatedAt is the timestamp when the ticket was created (managed by GORM).
	CreatedAt time.Time
	// UpdatedAt is the timestamp when the ticket was last updated (managed by GORM).
	UpdatedAt time.Time
}

// TableName specifies the database table name for the Ticket model.
// This overrides GORM's default pluralized table naming.
func (Ticket) TableName() string {
	return "tickets"
}

// TicketNumber returns the derived display identifier of the ticket,
// composed of the creation month/year and the zero-padded numeric id.
// It is computed on demand and never stored.
func (t Ticket) TicketNumber() string {
	return fmt.Sprintf("Ticket# %s-%03d", t.CreatedAt.Format("01-06"), t.ID)
}
