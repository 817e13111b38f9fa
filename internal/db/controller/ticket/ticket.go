// Package ticket provides persistence operations for tickets and their
// append-only reply threads.
package ticket

import (
	"errors"

	"gorm.io/gorm"

	"github.com/GoHelpdesk/GoHelpdesk/internal/db/models"
)

var (
	// ErrTicketNotFound is returned when a ticket is not found.
	ErrTicketNotFound = errors.New("ticket not found")
	// ErrSubjectEmpty is returned when attempting to create a ticket with an empty subject.
	ErrSubjectEmpty = errors.New("ticket subject cannot be empty")
	// ErrDescriptionEmpty is returned when attempting to create a ticket with an empty description.
	ErrDescriptionEmpty = errors.New("ticket description cannot be empty")
	// ErrMessageEmpty is returned when attempting to append a reply with an empty message.
	ErrMessageEmpty = errors.New("reply message cannot be empty")
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
)

// Get retrieves a ticket by its ID.
func Get(db *gorm.DB, id uint64) (*models.Ticket, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var t models.Ticket
	result := db.First(&t, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrTicketNotFound
		}
		return nil, result.Error
	}

	return &t, nil
}

// GetWithThread retrieves a ticket together with its author and the full
// reply thread in insertion order.
func GetWithThread(db *gorm.DB, id uint64) (*models.Ticket, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var t models.Ticket
	result := db.
		Preload("Author").
		Preload("Replies", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("ticket_replies.created_at, ticket_replies.id").Preload("Author")
		}).
		First(&t, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrTicketNotFound
		}
		return nil, result.Error
	}

	return &t, nil
}

// GetAll retrieves all tickets, newest first.
func GetAll(db *gorm.DB) ([]models.Ticket, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var tickets []models.Ticket
	result := db.Preload("Author").Order("created_at DESC").Find(&tickets)
	if result.Error != nil {
		return nil, result.Error
	}

	return tickets, nil
}

// GetByAuthor retrieves the tickets authored by the given user, newest first.
func GetByAuthor(db *gorm.DB, userID uint64) ([]models.Ticket, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var tickets []models.Ticket
	result := db.Where("user_id = ?", userID).Order("created_at DESC").Find(&tickets)
	if result.Error != nil {
		return nil, result.Error
	}

	return tickets, nil
}

// Create persists a new ticket with status "open" and default priority.
func Create(db *gorm.DB, authorID uint64, subject, description string) (*models.Ticket, error) {
	if db == nil {
		return nil, ErrDBNil
	}
	if subject == "" {
		return nil, ErrSubjectEmpty
	}
	if description == "" {
		return nil, ErrDescriptionEmpty
	}

	t := &models.Ticket{
		Subject:     subject,
		Description: description,
		Status:      models.TicketStatusOpen,
		Priority:    models.TicketPriorityNormal,
		UserID:      authorID,
	}

	result := db.Create(t)
	if result.Error != nil {
		return nil, result.Error
	}

	return t, nil
}

// Update applies a partial update to a ticket. Only non-nil fields change;
// the author is never touched. The updated ticket is returned.
func Update(db *gorm.DB, id uint64, status, priority *string, assignedTo *uint64) (*models.Ticket, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	t, err := Get(db, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if status != nil {
		updates["status"] = *status
	}

	if priority != nil {
		updates["priority"] = *priority
	}

	if assignedTo != nil {
		updates["assigned_to"] = *assignedTo
	}

	if len(updates) == 0 {
		return t, nil
	}

	result := db.Model(t).Updates(updates)
	if result.Error != nil {
		return nil, result.Error
	}

	return t, nil
}

// AddReply appends a reply to a ticket's thread. The attachment is the stored
// file reference from the upload collaborator, empty when nothing was attached.
func AddReply(db *gorm.DB, ticketID, authorID uint64, message, attachment string) (*models.TicketReply, error) {
	if db == nil {
		return nil, ErrDBNil
	}
	if message == "" {
		return nil, ErrMessageEmpty
	}

	// make sure the ticket exists before appending
	if _, err := Get(db, ticketID); err != nil {
		return nil, err
	}

	reply := &models.TicketReply{
		Message:    message,
		TicketID:   ticketID,
		UserID:     authorID,
		Attachment: attachment,
	}

	result := db.Create(reply)
	if result.Error != nil {
		return nil, result.Error
	}

	return reply, nil
}

// CountByStatus returns the number of tickets currently in the given status.
func CountByStatus(db *gorm.DB, status string) (int64, error) {
	if db == nil {
		return 0, ErrDBNil
	}

	var count int64
	result := db.Model(&models.Ticket{}).Where("status = ?", status).Count(&count)
	if result.Error != nil {
		return 0, result.Error
	}

	return count, nil
}
