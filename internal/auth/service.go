package auth

import (
	"errors"
	"fmt"
	"sort"

	"gorm.io/gorm"

	"github.com/GoHelpdesk/GoHelpdesk/internal/db/models"
)

// Service resolves the effective authorization state of a user.
//
// A capability can be held through three overlapping sources: a direct
// per-user grant, the permission set of the user's structured role, or one
// of the legacy boolean flags on the user row. The sources form a plain
// union; no source outranks another. Nothing is cached: every check reads
// the current association data so admin edits take effect immediately.
type Service struct {
	db *gorm.DB
}

// NewService creates a new auth service.
func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// HasPermission checks if a user holds a specific granular permission.
// It returns true if the permission is granted directly, through the user's
// structured role, or through the matching legacy flag.
func (s *Service) HasPermission(userID uint64, permission string) (bool, error) {
	var count int64

	// Check direct grants
	err := s.db.Table("permissions").
		Joins("JOIN user_permissions ON user_permissions.permission_id = permissions.id").
		Where("user_permissions.user_id = ? AND permissions.name = ?", userID, permission).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check direct permission: %w", err)
	}

	if count > 0 {
		return true, nil
	}

	// Check permissions from the user's structured role. A user without a
	// role (or with a dangling role reference) simply matches no rows here.
	err = s.db.Table("permissions").
		Joins("JOIN role_permissions ON role_permissions.permission_id = permissions.id").
		Joins("JOIN users ON users.role_id = role_permissions.role_id").
		Where("users.id = ? AND permissions.name = ?", userID, permission).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check role permission: %w", err)
	}

	if count > 0 {
		return true, nil
	}

	// Fall back to the legacy flags on the user row.
	u, err := s.loadUser(userID)
	if err != nil {
		return false, err
	}

	return legacyFlagSet(u, permission), nil
}

// IsAdministrator checks whether the user's coarse role label grants blanket
// administrative access. This is a separate, stronger gate than HasPermission:
// the entire admin surface hangs off it, independent of granular permissions.
func (s *Service) IsAdministrator(userID uint64) (bool, error) {
	u, err := s.loadUser(userID)
	if err != nil {
		return false, err
	}

	return u.IsAdministrator(), nil
}

// EffectivePermissions computes the full set of permission names the user
// currently holds, aggregated from all three sources. The result is sorted
// for stable display; it is a reporting aggregate, access decisions go
// through HasPermission and IsAdministrator.
func (s *Service) EffectivePermissions(userID uint64) ([]string, error) {
	var direct []string

	err := s.db.Table("permissions").
		Select("DISTINCT permissions.name").
		Joins("JOIN user_permissions ON user_permissions.permission_id = permissions.id").
		Where("user_permissions.user_id = ?", userID).
		Pluck("permissions.name", &direct).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get direct permissions: %w", err)
	}

	var rolePerms []string

	err = s.db.Table("permissions").
		Select("DISTINCT permissions.name").
		Joins("JOIN role_permissions ON role_permissions.permission_id = permissions.id").
		Joins("JOIN users ON users.role_id = role_permissions.role_id").
		Where("users.id = ?", userID).
		Pluck("permissions.name", &rolePerms).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get role permissions: %w", err)
	}

	u, err := s.loadUser(userID)
	if err != nil {
		return nil, err
	}

	permMap := make(map[string]bool)
	for _, perm := range direct {
		permMap[perm] = true
	}

	for _, perm := range rolePerms {
		permMap[perm] = true
	}

	for _, perm := range legacyFlagPermissions {
		if legacyFlagSet(u, perm) {
			permMap[perm] = true
		}
	}

	result := make([]string, 0, len(permMap))
	for perm := range permMap {
		result = append(result, perm)
	}

	sort.Strings(result)

	return result, nil
}

func (s *Service) loadUser(userID uint64) (*models.User, error) {
	var u models.User

	err := s.db.First(&u, userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}

		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	return &u, nil
}

// legacyFlagSet reports whether the legacy boolean flag mapped to the given
// permission name is set on the user. Names outside the fixed mapping table
// always resolve false.
func legacyFlagSet(u *models.User, permission string) bool {
	switch permission {
	case PermCreateTicket:
		return u.CanCreateTicket
	case PermViewTicket:
		return u.CanViewTicket
	case PermReplyTicket:
		return u.CanReplyTicket
	case PermEditTicket:
		return u.CanEditTicket
	case PermDeleteTicket:
		return u.CanDeleteTicket
	default:
		return false
	}
}
