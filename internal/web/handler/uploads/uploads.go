// Package uploads serves stored attachments back to authenticated users.
package uploads

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/GoHelpdesk/GoHelpdesk/internal/config"
	"github.com/GoHelpdesk/GoHelpdesk/internal/upload"
	"github.com/GoHelpdesk/GoHelpdesk/internal/web/handler"
	webauth "github.com/GoHelpdesk/GoHelpdesk/internal/web/middleware/auth"
)

// Path is the path to the stored attachment download route.
const Path = "/uploads/:name"

// Service is the uploads handler service.
type Service struct {
	uploads *upload.Store
}

// Handler is the uploads handler.
var Handler = Service{}

// Init initializes the uploads handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB, uploads *upload.Store) error {
	if app == nil || cfg == nil || db == nil {
		return errors.New(handler.ErrNilACDMsg)
	}

	s.uploads = uploads

	app.Get(Path, s.Get)

	return nil
}

// Get serves a stored attachment by its opaque reference.
func (s *Service) Get(c *fiber.Ctx) error {
	if _, ok := webauth.CurrentUser(c); !ok {
		return c.Status(fiber.StatusUnauthorized).SendString("Unauthorized")
	}

	p, ok := s.uploads.Path(c.Params("name"))
	if !ok {
		return c.Status(fiber.StatusNotFound).SendString("Not Found")
	}

	return c.SendFile(p)
}
