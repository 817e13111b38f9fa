// Package auditlog provides the append-only audit trail of administrative actions.
package auditlog

import (
	"errors"

	"gorm.io/gorm"

	"github.com/GoHelpdesk/GoHelpdesk/internal/db/models"
)

var (
	// ErrActionEmpty is returned when attempting to append an entry with an empty action.
	ErrActionEmpty = errors.New("audit action cannot be empty")
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
)

// Append records an administrative action. Entries are never updated or deleted.
func Append(db *gorm.DB, actorID uint64, action string) (*models.AuditLog, error) {
	if db == nil {
		return nil, ErrDBNil
	}
	if action == "" {
		return nil, ErrActionEmpty
	}

	entry := &models.AuditLog{
		UserID: actorID,
		Action: action,
	}

	result := db.Create(entry)
	if result.Error != nil {
		return nil, result.Error
	}

	return entry, nil
}

// GetAll retrieves the full audit trail, newest first.
func GetAll(db *gorm.DB) ([]models.AuditLog, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var entries []models.AuditLog
	result := db.Preload("Actor").Order("created_at DESC").Find(&entries)
	if result.Error != nil {
		return nil, result.Error
	}

	return entries, nil
}
