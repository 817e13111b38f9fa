package models

import "time"

// TicketReply is an append-only message attached to exactly one ticket.
// Replies are ordered by creation time and are never edited or reordered.
// An attachment, when present, holds the stored file reference produced by
// the upload collaborator.
type TicketReply struct {
	// ID is the unique identifier for the reply.
	ID uint64 `gorm:"primaryKey"`
	// Message is the reply body.
	Message string `gorm:"type:text;not null"`
	// TicketID is the ID of the ticket this reply belongs to.
	TicketID uint64 `gorm:"column:ticket_id;not null;index"`
	// UserID is the ID of the authoring user.
	UserID uint64 `gorm:"column:user_id;not null"`
	// Author is the authoring user (loaded via foreign key).
	Author User `gorm:"foreignKey:UserID"`
	// Attachment is the stored file reference, empty when no file was attached.
	Attachment string `gorm:"size:200"`
	// CreatedAt is the timestamp when the reply was created (managed by GORM).
	CreatedAt time.Time
}

// TableName specifies the database table name for the TicketReply model.
// This overrides GORM's default pluralized table naming.
func (TicketReply) TableName() string {
	return "ticket_replies"
}
