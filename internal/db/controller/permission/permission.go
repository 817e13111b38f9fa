// Package permission provides read accessors over the role/permission
// association data and per-user direct grants.
package permission

import (
	"errors"

	"gorm.io/gorm"

	"github.com/GoHelpdesk/GoHelpdesk/internal/db/models"
)

var (
	// ErrPermissionNotFound is returned when a permission is not found.
	ErrPermissionNotFound = errors.New("permission not found")
	// ErrRoleNotFound is returned when a referenced role does not exist.
	ErrRoleNotFound = errors.New("role not found")
	// ErrPermissionNameEmpty is returned when a permission name is empty.
	ErrPermissionNameEmpty = errors.New("permission name cannot be empty")
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
)

// GetByName retrieves a permission by its unique name.
func GetByName(db *gorm.DB, name string) (*models.Permission, error) {
	if db == nil {
		return nil, ErrDBNil
	}
	if name == "" {
		return nil, ErrPermissionNameEmpty
	}

	var perm models.Permission
	result := db.Where("name = ?", name).First(&perm)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrPermissionNotFound
		}
		return nil, result.Error
	}

	return &perm, nil
}

// GetAll retrieves every permission definition.
func GetAll(db *gorm.DB) ([]models.Permission, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var perms []models.Permission
	result := db.Order("name").Find(&perms)
	if result.Error != nil {
		return nil, result.Error
	}

	return perms, nil
}

// ListForRole retrieves the permission names associated with a role.
// A role id that matches no role returns ErrRoleNotFound; callers that
// want "missing role means no extra permissions" handle that themselves.
func ListForRole(db *gorm.DB, roleID uint) ([]string, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var count int64
	if err := db.Model(&models.Role{}).Where("id = ?", roleID).Count(&count).Error; err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, ErrRoleNotFound
	}

	var names []string
	err := db.Table("permissions").
		Select("permissions.name").
		Joins("JOIN role_permissions ON role_permissions.permission_id = permissions.id").
		Where("role_permissions.role_id = ?", roleID).
		Pluck("permissions.name", &names).Error
	if err != nil {
		return nil, err
	}

	return names, nil
}

// ListDirect retrieves the permission names granted directly to a user.
func ListDirect(db *gorm.DB, userID uint64) ([]string, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var names []string
	err := db.Table("permissions").
		Select("permissions.name").
		Joins("JOIN user_permissions ON user_permissions.permission_id = permissions.id").
		Where("user_permissions.user_id = ?", userID).
		Pluck("permissions.name", &names).Error
	if err != nil {
		return nil, err
	}

	return names, nil
}

// Grant adds a direct permission grant to a user. Granting an already
// granted permission is a no-op.
func Grant(db *gorm.DB, userID uint64, permissionName string) error {
	if db == nil {
		return ErrDBNil
	}

	perm, err := GetByName(db, permissionName)
	if err != nil {
		return err
	}

	grant := models.UserPermission{UserID: userID, PermissionID: perm.ID}

	result := db.Where(&grant).FirstOrCreate(&grant)

	return result.Error
}

// Revoke removes a direct permission grant from a user.
func Revoke(db *gorm.DB, userID uint64, permissionName string) error {
	if db == nil {
		return ErrDBNil
	}

	perm, err := GetByName(db, permissionName)
	if err != nil {
		return err
	}

	result := db.Where("user_id = ? AND permission_id = ?", userID, perm.ID).
		Delete(&models.UserPermission{})

	return result.Error
}
