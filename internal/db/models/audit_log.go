// Package models contains database model definitions.
package models

import "time"

// AuditLog is an immutable record of an administrative action.
// Rows are appended by permission-update operations and never updated or deleted.
type AuditLog struct {
	// ID is the unique identifier for the audit entry.
	ID uint64 `gorm:"primaryKey"`
	// UserID is the ID of the acting administrator.
	UserID uint64 `gorm:"column:user_id;not null;index"`
	// Actor is the acting administrator (loaded via foreign key).
	Actor User `gorm:"foreignKey:UserID"`
	// Action is a human-readable description of the administrative action.
	Action string `gorm:"size:200;not null"`
	// CreatedAt is the timestamp when the action happened (managed by GORM).
	CreatedAt time.Time `gorm:"index"`
}

// TableName specifies the database table name for the AuditLog model.
// This overrides GORM's default pluralized table naming.
func (AuditLog) TableName() string {
	return "audit_logs"
}
