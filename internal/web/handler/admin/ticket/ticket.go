// Package ticket implements the administrative ticket triage page.
package ticket

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/GoHelpdesk/GoHelpdesk/internal/config"
	ticketstore "github.com/GoHelpdesk/GoHelpdesk/internal/db/controller/ticket"
	userstore "github.com/GoHelpdesk/GoHelpdesk/internal/db/controller/user"
	"github.com/GoHelpdesk/GoHelpdesk/internal/ticket"
	"github.com/GoHelpdesk/GoHelpdesk/internal/web/handler"
	webauth "github.com/GoHelpdesk/GoHelpdesk/internal/web/middleware/auth"
)

const (
	// Path is the path to the ticket edit page, relative to the admin group.
	Path = "/ticket/:id/edit"

	// TemplateName is the name of the ticket edit template.
	TemplateName = "ticket_edit"
)

// Service is the admin ticket edit handler service.
type Service struct {
	cfg     *config.Config
	db      *gorm.DB
	manager *ticket.Manager
}

// Handler is the admin ticket edit handler.
var Handler = Service{}

// Init initializes the ticket edit handler on the admin route group.
func (s *Service) Init(admin fiber.Router, cfg *config.Config, db *gorm.DB, manager *ticket.Manager) error {
	if admin == nil || cfg == nil || db == nil {
		return errors.New(handler.ErrNilRCDMsg)
	}

	s.cfg = cfg
	s.db = db
	s.manager = manager

	admin.Get(Path, s.Get)
	admin.Post(Path, s.Post)

	return nil
}

// Get renders the triage form for one ticket.
func (s *Service) Get(c *fiber.Ctx) error {
	u, _ := webauth.CurrentUser(c)

	ticketID, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).SendString("Bad Request")
	}

	t, err := ticketstore.Get(s.db, ticketID)
	if err != nil {
		if errors.Is(err, ticketstore.ErrTicketNotFound) {
			return c.Status(fiber.StatusNotFound).SendString("Ticket not found")
		}

		return c.Status(fiber.StatusInternalServerError).SendString("Internal Server Error")
	}

	agents, err := userstore.GetAll(s.db)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).SendString("Internal Server Error")
	}

	return c.Render(TemplateName, fiber.Map{
		"Title":  s.cfg.Title,
		"User":   u,
		"Ticket": t,
		"Agents": agents,
	}, handler.BaseLayout)
}

// Post applies a partial update: only submitted fields change.
func (s *Service) Post(c *fiber.Ctx) error {
	u, _ := webauth.CurrentUser(c)

	ticketID, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).SendString("Bad Request")
	}

	var (
		status     *string
		priority   *string
		assignedTo *uint64
	)

	if v := c.FormValue("status"); v != "" {
		status = &v
	}

	if v := c.FormValue("priority"); v != "" {
		priority = &v
	}

	if v := c.FormValue("assigned_to"); v != "" {
		id, errParse := strconv.ParseUint(v, 10, 64)
		if errParse != nil {
			return c.Status(fiber.StatusBadRequest).SendString("Bad Request")
		}

		assignedTo = &id
	}

	if _, err := s.manager.Update(u.ID, ticketID, status, priority, assignedTo); err != nil {
		if errors.Is(err, ticket.ErrTicketNotFound) {
			return c.Status(fiber.StatusNotFound).SendString("Ticket not found")
		}

		log.Error().Err(err).Uint64("ticket_id", ticketID).Msg("failed to update ticket")

		return c.Status(fiber.StatusInternalServerError).SendString("Internal Server Error")
	}

	return c.Redirect("/admin/dashboard")
}
