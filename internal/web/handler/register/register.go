// Package register implements self-service account registration.
package register

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/GoHelpdesk/GoHelpdesk/internal/config"
	userstore "github.com/GoHelpdesk/GoHelpdesk/internal/db/controller/user"
	"github.com/GoHelpdesk/GoHelpdesk/internal/db/models"
	"github.com/GoHelpdesk/GoHelpdesk/internal/web/handler"
)

const (
	// Path is the path to the registration page.
	Path = "/register"

	// TemplateName is the name of the registration template.
	TemplateName = "register"
)

var validate = validator.New()

type registerForm struct {
	Username  string `form:"username" validate:"required,min=1,max=64"`
	Email     string `form:"email" validate:"required,email"`
	FullName  string `form:"full_name" validate:"max=120"`
	Password  string `form:"password" validate:"required,min=8"`
	Password2 string `form:"password2" validate:"required,eqfield=Password"`
}

// Service is the registration handler service.
type Service struct {
	cfg *config.Config
	db  *gorm.DB
}

// Handler is the registration handler.
var Handler = Service{}

// Init initializes the registration handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB) error {
	if app == nil || cfg == nil || db == nil {
		return errors.New(handler.ErrNilACDMsg)
	}

	s.db = db
	s.cfg = cfg

	app.Route(Path, func(router fiber.Router) {
		router.Get(handler.RouterRootPath, s.Get)
		router.Post(handler.RouterRootPath, s.Post)
	})

	return nil
}

// Get handles the registration page rendering.
func (s *Service) Get(c *fiber.Ctx) error {
	return c.Render(TemplateName, fiber.Map{
		"Title": s.cfg.Title,
	})
}

// Post handles the registration form submission. New accounts start with the
// user role label and the default legacy flags.
func (s *Service) Post(c *fiber.Ctx) error {
	form := new(registerForm)

	if err := c.BodyParser(form); err != nil {
		return err
	}

	if err := validate.Struct(form); err != nil {
		return c.Render(TemplateName, fiber.Map{
			"Title": s.cfg.Title,
			"error": "Please check the form and try again",
		})
	}

	u := &models.User{
		Active:          true,
		Username:        form.Username,
		Email:           form.Email,
		FullName:        form.FullName,
		Password:        models.HashPassword(form.Password),
		Role:            models.RoleLabelUser,
		CanCreateTicket: true,
		CanViewTicket:   true,
		CanReplyTicket:  true,
	}

	if err := userstore.Create(s.db, u); err != nil {
		if errors.Is(err, userstore.ErrUserNameOrEmailExists) {
			return c.Render(TemplateName, fiber.Map{
				"Title": s.cfg.Title,
				"error": "Username or email is already taken",
			})
		}

		log.Error().Err(err).Msg("failed to create user")

		return c.Render(TemplateName, fiber.Map{
			"Title": s.cfg.Title,
			"error": "Internal server error",
		})
	}

	return c.Redirect("/login")
}
