package daemon

import (
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/GoHelpdesk/GoHelpdesk/internal/auth"
	"github.com/GoHelpdesk/GoHelpdesk/internal/db/models"
)

// seedPermissions are created on first start, together with the three
// built-in roles and a default administrator account.
var seedPermissions = map[string]string{
	auth.PermCreateTicket: "Create new tickets",
	auth.PermViewTicket:   "View tickets",
	auth.PermReplyTicket:  "Reply to tickets",
	auth.PermEditTicket:   "Edit ticket fields",
	auth.PermDeleteTicket: "Delete tickets",
}

// rolePermissionNames maps the built-in roles onto their permission sets.
var rolePermissionNames = map[string][]string{
	string(models.RoleLabelAdmin): {
		auth.PermCreateTicket,
		auth.PermViewTicket,
		auth.PermReplyTicket,
		auth.PermEditTicket,
		auth.PermDeleteTicket,
	},
	string(models.RoleLabelSupport): {
		auth.PermCreateTicket,
		auth.PermViewTicket,
		auth.PermReplyTicket,
		auth.PermEditTicket,
	},
	string(models.RoleLabelUser): {
		auth.PermCreateTicket,
		auth.PermViewTicket,
		auth.PermReplyTicket,
	},
}

func seed(db *gorm.DB) {
	seedAuthorization(db)
	seedAdminUser(db)
}

// seedAuthorization creates the permission catalog and the built-in roles if
// the tables are still empty.
func seedAuthorization(db *gorm.DB) {
	var count int64

	db.Model(&models.Permission{}).Count(&count)
	if count == 0 {
		for name, description := range seedPermissions {
			db.Create(&models.Permission{Name: name, Description: description})
		}
	}

	db.Model(&models.Role{}).Count(&count)
	if count != 0 {
		return
	}

	for roleName, permNames := range rolePermissionNames {
		var perms []models.Permission
		db.Where("name IN ?", permNames).Find(&perms)

		role := models.Role{
			Name:        roleName,
			Description: "Built-in " + roleName + " role",
			Permissions: perms,
		}
		if err := db.Create(&role).Error; err != nil {
			log.Error().Err(err).Str("role", roleName).Msg("failed to seed role")
		}
	}
}

// seedAdminUser creates the default administrator when no users exist yet.
// The password must be changed after the first login.
func seedAdminUser(db *gorm.DB) {
	var count int64

	db.Model(&models.User{}).Count(&count)
	if count != 0 {
		return
	}

	var adminRole models.Role
	var roleID *uint

	if err := db.Where("name = ?", string(models.RoleLabelAdmin)).First(&adminRole).Error; err == nil {
		roleID = &adminRole.ID
	}

	admin := models.User{
		Active:          true,
		Username:        "admin",
		Email:           "admin@localhost",
		Password:        models.HashPassword("changeme"),
		FullName:        "Administrator",
		Role:            models.RoleLabelAdmin,
		RoleID:          roleID,
		CanCreateTicket: true,
		CanViewTicket:   true,
		CanReplyTicket:  true,
		CanEditTicket:   true,
		CanDeleteTicket: true,
	}

	if err := db.Create(&admin).Error; err != nil {
		log.Error().Err(err).Msg("failed to seed admin user")
		return
	}

	log.Warn().Msg("seeded default admin user 'admin' with password 'changeme', change it now")
}
