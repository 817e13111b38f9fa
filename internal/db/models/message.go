package models

import "time"

// Message is a point-to-point private note between two users.
// Messages are append-only and ordered by timestamp.
type Message struct {
	// ID is the unique identifier for the message.
	ID uint64 `gorm:"primaryKey"`
	// Body is the message text.
	Body string `gorm:"type:text;not null"`
	// SenderID is the ID of the sending user.
	SenderID uint64 `gorm:"column:sender_id;not null;index"`
	// Sender is the sending user (loaded via foreign key).
	Sender User `gorm:"foreignKey:SenderID"`
	// RecipientID is the ID of the receiving user.
	RecipientID uint64 `gorm:"column:recipient_id;not null;index"`
	// Recipient is the receiving user (loaded via foreign key).
	Recipient User `gorm:"foreignKey:RecipientID"`
	// Attachment is the stored file reference, empty when no file was attached.
	Attachment string `gorm:"size:200"`
	// CreatedAt is the timestamp when the message was sent (managed by GORM).
	CreatedAt time.Time `gorm:"index"`
}

// TableName specifies the database table name for the Message model.
// This overrides GORM's default pluralized table naming.
func (Message) TableName() string {
	return "messages"
}
