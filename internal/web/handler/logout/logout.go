// Package logout implements the logout route.
package logout

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/GoHelpdesk/GoHelpdesk/internal/config"
	"github.com/GoHelpdesk/GoHelpdesk/internal/web/handler"
	"github.com/GoHelpdesk/GoHelpdesk/internal/web/session"
)

// Path is the path to the logout route.
const Path = "/logout"

// Service is the logout handler service.
type Service struct {
	cfg *config.Config
}

// Handler is the logout handler.
var Handler = Service{}

// Init initializes the logout handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB) error {
	if app == nil || cfg == nil || db == nil {
		return errors.New(handler.ErrNilACDMsg)
	}

	s.cfg = cfg

	app.Get(Path, s.Get)

	return nil
}

// Get destroys the current session and redirects to the login page.
func (s *Service) Get(c *fiber.Ctx) error {
	if sessionID := c.Cookies("session"); sessionID != "" {
		sessData := new(session.Data)
		_ = sessData.Destroy(sessionID)
	}

	c.ClearCookie("session")

	return c.Redirect("/login")
}
