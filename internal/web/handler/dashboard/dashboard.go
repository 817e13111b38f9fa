// Package dashboard provides the user dashboard listing visible tickets.
package dashboard

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/GoHelpdesk/GoHelpdesk/internal/config"
	"github.com/GoHelpdesk/GoHelpdesk/internal/ticket"
	"github.com/GoHelpdesk/GoHelpdesk/internal/web/handler"
	webauth "github.com/GoHelpdesk/GoHelpdesk/internal/web/middleware/auth"
)

const (
	// Path is the path to the dashboard page.
	Path = handler.RootPath + "dashboard"

	// PartialPath serves the ticket table fragment for live refreshes.
	PartialPath = handler.RootPath + "tickets/partial"

	// TemplateName is the name of the dashboard template.
	TemplateName = "dashboard"

	// PartialTemplateName is the name of the ticket table fragment template.
	PartialTemplateName = "tickets_partial"
)

// Service is the dashboard handler service.
type Service struct {
	cfg     *config.Config
	db      *gorm.DB
	manager *ticket.Manager
}

// Handler is the dashboard handler.
var Handler = Service{}

// Init initializes the dashboard handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB, manager *ticket.Manager) error {
	if app == nil || cfg == nil || db == nil {
		return errors.New(handler.ErrNilACDMsg)
	}

	s.db = db
	s.cfg = cfg
	s.manager = manager

	app.Get(Path, s.Get)
	app.Get(PartialPath, s.GetPartial)

	return nil
}

// Get renders the dashboard. Administrators see every ticket, regular users
// only their own.
func (s *Service) Get(c *fiber.Ctx) error {
	u, ok := webauth.CurrentUser(c)
	if !ok {
		return c.Redirect("/login")
	}

	tickets, err := s.manager.ListFor(u.ID)
	if err != nil {
		log.Error().Err(err).Uint64("user_id", u.ID).Msg("failed to list tickets")

		return c.Status(fiber.StatusInternalServerError).SendString("Internal Server Error")
	}

	return c.Render(TemplateName, fiber.Map{
		"Title":   s.cfg.Title,
		"User":    u,
		"Tickets": tickets,
	}, handler.BaseLayout)
}

// GetPartial renders only the ticket table, for the live-updating dashboard.
func (s *Service) GetPartial(c *fiber.Ctx) error {
	u, ok := webauth.CurrentUser(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).SendString("Unauthorized")
	}

	tickets, err := s.manager.ListFor(u.ID)
	if err != nil {
		log.Error().Err(err).Uint64("user_id", u.ID).Msg("failed to list tickets")

		return c.Status(fiber.StatusInternalServerError).SendString("Internal Server Error")
	}

	return c.Render(PartialTemplateName, fiber.Map{
		"Tickets": tickets,
	})
}
