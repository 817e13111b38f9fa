// Package profile implements the profile page with the effective permission
// display and profile edits.
package profile

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/GoHelpdesk/GoHelpdesk/internal/auth"
	"github.com/GoHelpdesk/GoHelpdesk/internal/config"
	userstore "github.com/GoHelpdesk/GoHelpdesk/internal/db/controller/user"
	"github.com/GoHelpdesk/GoHelpdesk/internal/db/models"
	"github.com/GoHelpdesk/GoHelpdesk/internal/web/handler"
	webauth "github.com/GoHelpdesk/GoHelpdesk/internal/web/middleware/auth"
)

const (
	// Path is the path to the profile page.
	Path = "/profile"

	// TemplateName is the name of the profile template.
	TemplateName = "profile"
)

var validate = validator.New()

type profileForm struct {
	Email     string `form:"email" validate:"required,email"`
	FullName  string `form:"full_name" validate:"max=120"`
	Password  string `form:"password" validate:"omitempty,min=8"`
	Password2 string `form:"password2" validate:"eqfield=Password"`
}

// Service is the profile handler service.
type Service struct {
	cfg         *config.Config
	db          *gorm.DB
	authService *auth.Service
}

// Handler is the profile handler.
var Handler = Service{}

// Init initializes the profile handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB, authService *auth.Service) error {
	if app == nil || cfg == nil || db == nil {
		return errors.New(handler.ErrNilACDMsg)
	}

	s.db = db
	s.cfg = cfg
	s.authService = authService

	app.Route(Path, func(router fiber.Router) {
		router.Get(handler.RouterRootPath, s.Get)
		router.Post(handler.RouterRootPath, s.Post)
	})

	return nil
}

// Get renders the profile page together with the user's effective
// permission set.
func (s *Service) Get(c *fiber.Ctx) error {
	u, ok := webauth.CurrentUser(c)
	if !ok {
		return c.Redirect("/login")
	}

	perms, err := s.authService.EffectivePermissions(u.ID)
	if err != nil {
		log.Error().Err(err).Uint64("user_id", u.ID).Msg("failed to get effective permissions")

		return c.Status(fiber.StatusInternalServerError).SendString("Internal Server Error")
	}

	return c.Render(TemplateName, fiber.Map{
		"Title":       s.cfg.Title,
		"User":        u,
		"Permissions": perms,
	}, handler.BaseLayout)
}

// Post handles profile edits. An empty password keeps the current one.
func (s *Service) Post(c *fiber.Ctx) error {
	u, ok := webauth.CurrentUser(c)
	if !ok {
		return c.Redirect("/login")
	}

	form := new(profileForm)
	if err := c.BodyParser(form); err != nil {
		return err
	}

	if err := validate.Struct(form); err != nil {
		return c.Render(TemplateName, fiber.Map{
			"Title": s.cfg.Title,
			"User":  u,
			"error": "Please check the form and try again",
		}, handler.BaseLayout)
	}

	hashed := ""
	if form.Password != "" {
		hashed = models.HashPassword(form.Password)
	}

	if err := userstore.UpdateProfile(s.db, u.ID, form.Email, form.FullName, hashed); err != nil {
		log.Error().Err(err).Uint64("user_id", u.ID).Msg("failed to update profile")

		return c.Status(fiber.StatusInternalServerError).SendString("Internal Server Error")
	}

	return c.Redirect(Path)
}
