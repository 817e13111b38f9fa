package models

import (
	"time"

	"github.com/alexedwards/argon2id"
	"github.com/rs/zerolog/log"
)

// RoleLabel is the coarse role classification of a user account.
// It gates the administrative surface independently of granular permissions.
type RoleLabel string

const (
	// RoleLabelUser indicates a regular end user who can only work with their own tickets.
	RoleLabelUser RoleLabel = "user"
	// RoleLabelSupport indicates a support agent with administrative access.
	RoleLabelSupport RoleLabel = "support"
	// RoleLabelAdmin indicates a full administrator.
	RoleLabelAdmin RoleLabel = "admin"
)

// User represents a user account in the helpdesk.
// Authorization state combines several sources: the coarse role label, an optional
// structured role with its permission set, direct permission grants, and a set of
// legacy boolean ticket flags kept for backward compatibility.
type User struct {
	// ID is the unique identifier for the user.
	ID uint64 `gorm:"primaryKey"`
	// Active indicates whether the user account is active and can log in.
	Active bool `gorm:"default:true"`
	// Username is the unique username for login.
	Username string `gorm:"unique;size:64;not null"`
	// Email is the user's email address, unique across accounts.
	Email string `gorm:"unique;size:255;not null"`
	// Password is the Argon2id hashed password.
	Password string `gorm:"size:255;not null"`
	// FullName is the user's display name.
	FullName string `gorm:"size:120"`
	// Role is the coarse role label (user, support, or admin).
	Role RoleLabel `gorm:"type:varchar(20);not null;default:'user'"`

	// Legacy granular permission flags, consulted by the permission resolver
	// when neither a direct grant nor a role grant matches.
	CanCreateTicket bool `gorm:"default:true"`
	CanViewTicket   bool `gorm:"default:true"`
	CanReplyTicket  bool `gorm:"default:true"`
	CanEditTicket   bool `gorm:"default:false"`
	CanDeleteTicket bool `gorm:"default:false"`

	// RoleID is the optional reference to a structured role.
	RoleID *uint `gorm:"column:role_id"`
	// RoleObj is the associated structured role, shared between users.
	RoleObj *Role `gorm:"foreignKey:RoleID;references:ID;constraint:OnDelete:SET NULL,OnUpdate:CASCADE"`
	// Permissions are the permissions granted directly to this user,
	// in addition to whatever the structured role provides.
	Permissions []Permission `gorm:"many2many:user_permissions;constraint:OnDelete:CASCADE"`

	// CreatedAt is the timestamp when the user was created (managed by GORM).
	CreatedAt time.Time
	// UpdatedAt is the timestamp when the user was last updated (managed by GORM).
	UpdatedAt time.Time
}

// TableName specifies the database table name for the User model.
// This overrides GORM's default pluralized table naming.
func (User) TableName() string {
	return "users"
}

// IsAdministrator reports whether the user's coarse role label grants blanket
// administrative access. Support agents count as administrators for every
// administrative gate in the application.
func (u *User) IsAdministrator() bool {
	return u.Role == RoleLabelAdmin || u.Role == RoleLabelSupport
}

// HashPassword hashes a plaintext password using the Argon2id algorithm.
// This function should be used when creating or updating user passwords.
func HashPassword(password string) string {
	hashedPassword, err := argon2id.CreateHash(password, argon2id.DefaultParams)
	if err != nil {
		log.Fatal().Msgf("failed to hash password: %v", err)
	}

	return hashedPassword
}

// VerifyPassword verifies a plaintext password against the user's stored hashed password.
// It uses constant-time comparison to prevent timing attacks.
// Returns true if the password matches, false otherwise.
func (u *User) VerifyPassword(password string) bool {
	match, err := argon2id.ComparePasswordAndHash(password, u.Password)
	if err != nil {
		log.Error().Msgf("failed to verify password: %v", err)
		return false
	}

	return match
}
