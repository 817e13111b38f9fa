package models

import "time"

// Permission represents a named capability unit (e.g., "create_ticket").
// Permissions are referenced by roles and by direct per-user grants.
// Identity is stable by name, which is unique across the table.
type Permission struct {
	// ID is the unique identifier for the permission.
	ID uint `gorm:"primaryKey"`
	// Name is the unique permission identifier (e.g., "create_ticket").
	Name string `gorm:"unique;size:50;not null"`
	// Description provides a human-readable explanation of what this permission grants.
	Description string `gorm:"size:200"`
	// CreatedAt is the timestamp when the permission was created (managed by GORM).
	CreatedAt time.Time
	// UpdatedAt is the timestamp when the permission was last updated (managed by GORM).
	UpdatedAt time.Time
}

// TableName specifies the database table name for the Permission model.
// This overrides GORM's default pluralized table naming.
func (Permission) TableName() string {
	return "permissions"
}
