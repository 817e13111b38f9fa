// Package dashboard provides the administrative dashboard listing all tickets.
package dashboard

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/GoHelpdesk/GoHelpdesk/internal/config"
	ticketstore "github.com/GoHelpdesk/GoHelpdesk/internal/db/controller/ticket"
	"github.com/GoHelpdesk/GoHelpdesk/internal/web/handler"
	webauth "github.com/GoHelpdesk/GoHelpdesk/internal/web/middleware/auth"
)

const (
	// Path is the path to the admin dashboard, relative to the admin group.
	Path = "/dashboard"

	// TemplateName is the name of the admin dashboard template.
	TemplateName = "admin_dashboard"
)

// Service is the admin dashboard handler service.
type Service struct {
	cfg *config.Config
	db  *gorm.DB
}

// Handler is the admin dashboard handler.
var Handler = Service{}

// Init initializes the admin dashboard handler on the admin route group.
// The group carries the administrator gate; no further checks happen here.
func (s *Service) Init(admin fiber.Router, cfg *config.Config, db *gorm.DB) error {
	if admin == nil || cfg == nil || db == nil {
		return errors.New(handler.ErrNilRCDMsg)
	}

	s.cfg = cfg
	s.db = db

	admin.Get(Path, s.Get)

	return nil
}

// Get renders every ticket in the system, newest first.
func (s *Service) Get(c *fiber.Ctx) error {
	u, _ := webauth.CurrentUser(c)

	tickets, err := ticketstore.GetAll(s.db)
	if err != nil {
		log.Error().Err(err).Msg("failed to list tickets")

		return c.Status(fiber.StatusInternalServerError).SendString("Internal Server Error")
	}

	return c.Render(TemplateName, fiber.Map{
		"Title":   s.cfg.Title,
		"User":    u,
		"Tickets": tickets,
	}, handler.BaseLayout)
}
