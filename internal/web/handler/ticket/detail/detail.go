// Package detail implements the ticket detail page with the reply thread.
package detail

import (
	"errors"
	"io"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/GoHelpdesk/GoHelpdesk/internal/auth"
	"github.com/GoHelpdesk/GoHelpdesk/internal/config"
	"github.com/GoHelpdesk/GoHelpdesk/internal/ticket"
	"github.com/GoHelpdesk/GoHelpdesk/internal/upload"
	"github.com/GoHelpdesk/GoHelpdesk/internal/web/handler"
	webauth "github.com/GoHelpdesk/GoHelpdesk/internal/web/middleware/auth"
)

const (
	// Path is the path to the ticket detail page.
	Path = "/ticket/:id"

	// TemplateName is the name of the ticket detail template.
	TemplateName = "ticket_detail"
)

// Service is the ticket detail handler service.
type Service struct {
	cfg     *config.Config
	manager *ticket.Manager
	uploads *upload.Store
}

// Handler is the ticket detail handler.
var Handler = Service{}

// Init initializes the ticket detail handler. Replies carry the reply_ticket
// capability gate on the route; the manager checks visibility and the
// capability again before persisting.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB, authService *auth.Service, manager *ticket.Manager, uploads *upload.Store) error {
	if app == nil || cfg == nil || db == nil {
		return errors.New(handler.ErrNilACDMsg)
	}

	s.cfg = cfg
	s.manager = manager
	s.uploads = uploads

	app.Get(Path, s.Get)
	app.Post(Path, auth.RequirePermission(authService, auth.PermReplyTicket), s.Post)

	return nil
}

// Get renders the ticket with its reply thread, after the visibility check.
func (s *Service) Get(c *fiber.Ctx) error {
	u, ok := webauth.CurrentUser(c)
	if !ok {
		return c.Redirect("/login")
	}

	ticketID, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).SendString("Bad Request")
	}

	t, err := s.manager.Thread(u.ID, ticketID)
	if err != nil {
		return s.renderManagerError(c, err, u.ID, ticketID)
	}

	return c.Render(TemplateName, fiber.Map{
		"Title":  s.cfg.Title,
		"User":   u,
		"Ticket": t,
	}, handler.BaseLayout)
}

// Post appends a reply to the ticket's thread.
func (s *Service) Post(c *fiber.Ctx) error {
	u, ok := webauth.CurrentUser(c)
	if !ok {
		return c.Redirect("/login")
	}

	ticketID, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).SendString("Bad Request")
	}

	message := c.FormValue("message")
	if message == "" {
		return c.Status(fiber.StatusBadRequest).SendString("Message is required")
	}

	attachment := s.readAttachment(c)

	if _, err := s.manager.AddReply(u.ID, ticketID, message, attachment); err != nil {
		return s.renderManagerError(c, err, u.ID, ticketID)
	}

	return c.Redirect("/ticket/" + strconv.FormatUint(ticketID, 10))
}

func (s *Service) renderManagerError(c *fiber.Ctx, err error, userID, ticketID uint64) error {
	switch {
	case errors.Is(err, ticket.ErrTicketNotFound):
		return c.Status(fiber.StatusNotFound).SendString("Ticket not found")
	case errors.Is(err, auth.ErrAccessDenied):
		return c.Status(fiber.StatusForbidden).SendString("Access denied")
	case errors.Is(err, auth.ErrPermissionDenied):
		return c.Status(fiber.StatusForbidden).
			SendString("You do not have permission to reply to tickets")
	default:
		log.Error().Err(err).Uint64("user_id", userID).Uint64("ticket_id", ticketID).
			Msg("ticket operation failed")

		return c.Status(fiber.StatusInternalServerError).SendString("Internal Server Error")
	}
}

func (s *Service) readAttachment(c *fiber.Ctx) string {
	fileHeader, err := c.FormFile("attachment")
	if err != nil || fileHeader == nil {
		return ""
	}

	f, err := fileHeader.Open()
	if err != nil {
		return ""
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return ""
	}

	stored, err := s.uploads.Save(fileHeader.Filename, data)
	if err != nil {
		log.Warn().Err(err).Str("filename", fileHeader.Filename).Msg("attachment rejected")
		return ""
	}

	return stored
}
