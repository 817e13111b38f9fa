// Package user provides persistence operations for user accounts.
package user

import (
	"errors"

	"gorm.io/gorm"

	"github.com/GoHelpdesk/GoHelpdesk/internal/db/models"
)

var (
	// ErrUserNotFound is returned when a user cannot be found.
	ErrUserNotFound = errors.New("user not found")
	// ErrUserNameOrEmailExists is returned when attempting to create a user
	// with a username or email that already exists.
	ErrUserNameOrEmailExists = errors.New("user with username or email already exists")
	// ErrUsernameEmpty is returned when the username is empty.
	ErrUsernameEmpty = errors.New("username cannot be empty")
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
)

// Get retrieves a user by ID, with the structured role and direct grants loaded.
func Get(db *gorm.DB, id uint64) (*models.User, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var u models.User
	result := db.Preload("RoleObj.Permissions").Preload("Permissions").First(&u, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, result.Error
	}

	return &u, nil
}

// GetByUsername retrieves a user by their unique username.
func GetByUsername(db *gorm.DB, username string) (*models.User, error) {
	if db == nil {
		return nil, ErrDBNil
	}
	if username == "" {
		return nil, ErrUsernameEmpty
	}

	var u models.User
	result := db.Preload("RoleObj.Permissions").Preload("Permissions").
		Where("username = ?", username).First(&u)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, result.Error
	}

	return &u, nil
}

// GetAll retrieves every user account.
func GetAll(db *gorm.DB) ([]models.User, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var users []models.User
	result := db.Order("username").Find(&users)
	if result.Error != nil {
		return nil, result.Error
	}

	return users, nil
}

// Create persists a new user after checking username and email uniqueness.
// The password must already be hashed by the caller.
func Create(db *gorm.DB, u *models.User) error {
	if db == nil {
		return ErrDBNil
	}
	if u.Username == "" {
		return ErrUsernameEmpty
	}

	var count int64
	if err := db.Model(&models.User{}).
		Where("username = ? OR email = ?", u.Username, u.Email).
		Count(&count).Error; err != nil {
		return err
	}

	if count > 0 {
		return ErrUserNameOrEmailExists
	}

	return db.Create(u).Error
}

// UpdateProfile updates the mutable profile fields of a user. An empty
// password leaves the stored hash untouched.
func UpdateProfile(db *gorm.DB, id uint64, email, fullName, hashedPassword string) error {
	if db == nil {
		return ErrDBNil
	}

	u, err := Get(db, id)
	if err != nil {
		return err
	}

	updates := map[string]interface{}{
		"email":     email,
		"full_name": fullName,
	}
	if hashedPassword != "" {
		updates["password"] = hashedPassword
	}

	return db.Model(u).Updates(updates).Error
}

// UpdateLegacyFlags replaces the five legacy ticket capability flags of a user.
func UpdateLegacyFlags(db *gorm.DB, id uint64, create, view, reply, edit, del bool) error {
	if db == nil {
		return ErrDBNil
	}

	u, err := Get(db, id)
	if err != nil {
		return err
	}

	// Updates with a map so false values are written too.
	return db.Model(u).Updates(map[string]interface{}{
		"can_create_ticket": create,
		"can_view_ticket":   view,
		"can_reply_ticket":  reply,
		"can_edit_ticket":   edit,
		"can_delete_ticket": del,
	}).Error
}

// Delete removes a user account. Direct permission grants are removed by the
// database cascade; authored tickets remain with their user_id reference.
func Delete(db *gorm.DB, id uint64) error {
	if db == nil {
		return ErrDBNil
	}

	u, err := Get(db, id)
	if err != nil {
		return err
	}

	if err := db.Model(u).Association("Permissions").Clear(); err != nil {
		return err
	}

	result := db.Delete(&models.User{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}

	return nil
}

// Recipients lists every user except the given one, for the private message
// recipient picker.
func Recipients(db *gorm.DB, excludeID uint64) ([]models.User, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var users []models.User
	result := db.Where("id <> ?", excludeID).Order("username").Find(&users)
	if result.Error != nil {
		return nil, result.Error
	}

	return users, nil
}
