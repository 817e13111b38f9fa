// Package user implements administrative user management: listing, editing,
// deletion and the legacy permission flag editor.
package user

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/GoHelpdesk/GoHelpdesk/internal/config"
	auditstore "github.com/GoHelpdesk/GoHelpdesk/internal/db/controller/auditlog"
	permstore "github.com/GoHelpdesk/GoHelpdesk/internal/db/controller/permission"
	userstore "github.com/GoHelpdesk/GoHelpdesk/internal/db/controller/user"
	"github.com/GoHelpdesk/GoHelpdesk/internal/db/models"
	"github.com/GoHelpdesk/GoHelpdesk/internal/web/handler"
	webauth "github.com/GoHelpdesk/GoHelpdesk/internal/web/middleware/auth"
)

const (
	// ListPath is the user list path, relative to the admin group.
	ListPath = "/users"
	// EditPath is the user edit path, relative to the admin group.
	EditPath = "/user/:id/edit"
	// DeletePath is the user delete path, relative to the admin group.
	DeletePath = "/user/:id/delete"
	// PermissionsPath is the legacy flag editor path, relative to the admin group.
	PermissionsPath = "/user/:id/permissions"

	// ListTemplateName is the user list template.
	ListTemplateName = "user_management"
	// EditTemplateName is the user edit template.
	EditTemplateName = "user_edit"
	// PermissionsTemplateName is the legacy flag editor template.
	PermissionsTemplateName = "update_permissions"
)

// Service is the admin user management handler service.
type Service struct {
	cfg *config.Config
	db  *gorm.DB
}

// Handler is the admin user management handler.
var Handler = Service{}

// Init initializes the user management handler on the admin route group.
func (s *Service) Init(admin fiber.Router, cfg *config.Config, db *gorm.DB) error {
	if admin == nil || cfg == nil || db == nil {
		return errors.New(handler.ErrNilRCDMsg)
	}

	s.cfg = cfg
	s.db = db

	admin.Get(ListPath, s.List)
	admin.Get(EditPath, s.EditGet)
	admin.Post(EditPath, s.EditPost)
	admin.Post(DeletePath, s.Delete)
	admin.Get(PermissionsPath, s.PermissionsGet)
	admin.Post(PermissionsPath, s.PermissionsPost)

	return nil
}

// List renders every user account.
func (s *Service) List(c *fiber.Ctx) error {
	u, _ := webauth.CurrentUser(c)

	users, err := userstore.GetAll(s.db)
	if err != nil {
		log.Error().Err(err).Msg("failed to list users")

		return c.Status(fiber.StatusInternalServerError).SendString("Internal Server Error")
	}

	return c.Render(ListTemplateName, fiber.Map{
		"Title": s.cfg.Title,
		"User":  u,
		"Users": users,
	}, handler.BaseLayout)
}

// EditGet renders the profile edit form for another user.
func (s *Service) EditGet(c *fiber.Ctx) error {
	u, _ := webauth.CurrentUser(c)

	target, err := s.paramUser(c)
	if err != nil {
		return s.userError(c, err)
	}

	return c.Render(EditTemplateName, fiber.Map{
		"Title":  s.cfg.Title,
		"User":   u,
		"Target": target,
	}, handler.BaseLayout)
}

// EditPost applies profile edits to another user. An empty password keeps
// the current one.
func (s *Service) EditPost(c *fiber.Ctx) error {
	target, err := s.paramUser(c)
	if err != nil {
		return s.userError(c, err)
	}

	hashed := ""
	if pw := c.FormValue("password"); pw != "" {
		hashed = models.HashPassword(pw)
	}

	if err := userstore.UpdateProfile(s.db, target.ID, c.FormValue("email"), c.FormValue("full_name"), hashed); err != nil {
		log.Error().Err(err).Uint64("user_id", target.ID).Msg("failed to update user")

		return c.Status(fiber.StatusInternalServerError).SendString("Internal Server Error")
	}

	return c.Redirect("/admin" + ListPath)
}

// Delete removes a user account. Administrators cannot delete themselves.
func (s *Service) Delete(c *fiber.Ctx) error {
	u, _ := webauth.CurrentUser(c)

	target, err := s.paramUser(c)
	if err != nil {
		return s.userError(c, err)
	}

	if target.ID == u.ID {
		return c.Status(fiber.StatusBadRequest).SendString("Cannot delete yourself")
	}

	if err := userstore.Delete(s.db, target.ID); err != nil {
		log.Error().Err(err).Uint64("user_id", target.ID).Msg("failed to delete user")

		return c.Status(fiber.StatusInternalServerError).SendString("Internal Server Error")
	}

	return c.Redirect("/admin" + ListPath)
}

// PermissionsGet renders the permission editor for a user: the five legacy
// flags plus a direct-grant checkbox per permission in the catalog.
func (s *Service) PermissionsGet(c *fiber.Ctx) error {
	u, _ := webauth.CurrentUser(c)

	target, err := s.paramUser(c)
	if err != nil {
		return s.userError(c, err)
	}

	perms, err := permstore.GetAll(s.db)
	if err != nil {
		log.Error().Err(err).Msg("failed to list permissions")

		return c.Status(fiber.StatusInternalServerError).SendString("Internal Server Error")
	}

	direct := make(map[string]bool, len(target.Permissions))
	for _, p := range target.Permissions {
		direct[p.Name] = true
	}

	return c.Render(PermissionsTemplateName, fiber.Map{
		"Title":       s.cfg.Title,
		"User":        u,
		"Target":      target,
		"Permissions": perms,
		"Direct":      direct,
	}, handler.BaseLayout)
}

// PermissionsPost replaces the target user's legacy flags and direct grants,
// then appends one audit log row recording the actor and the change.
func (s *Service) PermissionsPost(c *fiber.Ctx) error {
	u, _ := webauth.CurrentUser(c)

	target, err := s.paramUser(c)
	if err != nil {
		return s.userError(c, err)
	}

	err = userstore.UpdateLegacyFlags(s.db, target.ID,
		checked(c, "can_create_ticket"),
		checked(c, "can_view_ticket"),
		checked(c, "can_reply_ticket"),
		checked(c, "can_edit_ticket"),
		checked(c, "can_delete_ticket"),
	)
	if err != nil {
		log.Error().Err(err).Uint64("user_id", target.ID).Msg("failed to update permissions")

		return c.Status(fiber.StatusInternalServerError).SendString("Internal Server Error")
	}

	if err := s.applyDirectGrants(c, target.ID); err != nil {
		log.Error().Err(err).Uint64("user_id", target.ID).Msg("failed to update direct grants")

		return c.Status(fiber.StatusInternalServerError).SendString("Internal Server Error")
	}

	action := fmt.Sprintf("Updated permissions for user %s", target.Username)
	if _, err := auditstore.Append(s.db, u.ID, action); err != nil {
		log.Error().Err(err).Uint64("actor_id", u.ID).Msg("failed to append audit log")

		return c.Status(fiber.StatusInternalServerError).SendString("Internal Server Error")
	}

	return c.Redirect("/admin" + ListPath)
}

// applyDirectGrants syncs the target's direct grants to the submitted
// grant_<name> checkboxes, one Grant or Revoke per catalog entry.
func (s *Service) applyDirectGrants(c *fiber.Ctx, targetID uint64) error {
	perms, err := permstore.GetAll(s.db)
	if err != nil {
		return err
	}

	for _, p := range perms {
		if checked(c, "grant_"+p.Name) {
			err = permstore.Grant(s.db, targetID, p.Name)
		} else {
			err = permstore.Revoke(s.db, targetID, p.Name)
		}

		if err != nil {
			return err
		}
	}

	return nil
}

func (s *Service) paramUser(c *fiber.Ctx) (*models.User, error) {
	userID, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil {
		return nil, err
	}

	return userstore.Get(s.db, userID)
}

func (s *Service) userError(c *fiber.Ctx, err error) error {
	if errors.Is(err, userstore.ErrUserNotFound) {
		return c.Status(fiber.StatusNotFound).SendString("User not found")
	}

	return c.Status(fiber.StatusBadRequest).SendString("Bad Request")
}

// checked reports whether an HTML checkbox was submitted as checked.
func checked(c *fiber.Ctx, name string) bool {
	v := c.FormValue(name)
	return v == "on" || v == "true" || v == "1"
}
