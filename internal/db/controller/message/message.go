// Package message provides persistence operations for private messages.
package message

import (
	"errors"

	"gorm.io/gorm"

	"github.com/GoHelpdesk/GoHelpdesk/internal/db/models"
)

var (
	// ErrBodyEmpty is returned when attempting to send a message with an empty body.
	ErrBodyEmpty = errors.New("message body cannot be empty")
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
)

// Create persists a new private message.
func Create(db *gorm.DB, senderID, recipientID uint64, body, attachment string) (*models.Message, error) {
	if db == nil {
		return nil, ErrDBNil
	}
	if body == "" {
		return nil, ErrBodyEmpty
	}

	m := &models.Message{
		Body:        body,
		SenderID:    senderID,
		RecipientID: recipientID,
		Attachment:  attachment,
	}

	result := db.Create(m)
	if result.Error != nil {
		return nil, result.Error
	}

	return m, nil
}

// GetForUser retrieves every message sent or received by the user,
// ordered by timestamp.
func GetForUser(db *gorm.DB, userID uint64) ([]models.Message, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var messages []models.Message
	result := db.
		Preload("Sender").
		Preload("Recipient").
		Where("sender_id = ? OR recipient_id = ?", userID, userID).
		Order("created_at").
		Find(&messages)
	if result.Error != nil {
		return nil, result.Error
	}

	return messages, nil
}
