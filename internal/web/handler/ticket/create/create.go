// Package create implements the ticket creation page.
package create

import (
	"errors"
	"io"

	"github.com/go-playground/validator/v10"
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
	// Path is the path to the ticket creation page.
	Path = "/ticket/create"

	// TemplateName is the name of the ticket creation template.
	TemplateName = "ticket_create"
)

var validate = validator.New()

type createForm struct {
	Subject     string `form:"subject" validate:"required,min=1,max=200"`
	Description string `form:"description" validate:"required"`
}

// Service is the ticket creation handler service.
type Service struct {
	cfg     *config.Config
	manager *ticket.Manager
	uploads *upload.Store
}

// Handler is the ticket creation handler.
var Handler = Service{}

// Init initializes the ticket creation handler. The POST route carries the
// create_ticket capability gate; the manager checks again before persisting.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB, authService *auth.Service, manager *ticket.Manager, uploads *upload.Store) error {
	if app == nil || cfg == nil || db == nil {
		return errors.New(handler.ErrNilACDMsg)
	}

	s.cfg = cfg
	s.manager = manager
	s.uploads = uploads

	app.Route(Path, func(router fiber.Router) {
		router.Get(handler.RouterRootPath, s.Get)
		router.Post(handler.RouterRootPath, auth.RequirePermission(authService, auth.PermCreateTicket), s.Post)
	})

	return nil
}

// Get renders the ticket creation form.
func (s *Service) Get(c *fiber.Ctx) error {
	u, ok := webauth.CurrentUser(c)
	if !ok {
		return c.Redirect("/login")
	}

	return c.Render(TemplateName, fiber.Map{
		"Title": s.cfg.Title,
		"User":  u,
	}, handler.BaseLayout)
}

// Post handles the ticket creation form submission. A rejected attachment
// does not fail the ticket; the upload store returns no reference for
// disallowed files.
func (s *Service) Post(c *fiber.Ctx) error {
	u, ok := webauth.CurrentUser(c)
	if !ok {
		return c.Redirect("/login")
	}

	form := new(createForm)
	if err := c.BodyParser(form); err != nil {
		return err
	}

	if err := validate.Struct(form); err != nil {
		return c.Render(TemplateName, fiber.Map{
			"Title": s.cfg.Title,
			"User":  u,
			"error": "Subject and description are required",
		}, handler.BaseLayout)
	}

	attachment := readAttachment(c, s.uploads)

	t, err := s.manager.Create(u.ID, form.Subject, form.Description, attachment)
	if err != nil {
		if errors.Is(err, auth.ErrPermissionDenied) {
			return c.Status(fiber.StatusForbidden).
				SendString("You do not have permission to create a ticket")
		}

		log.Error().Err(err).Uint64("user_id", u.ID).Msg("failed to create ticket")

		return c.Status(fiber.StatusInternalServerError).SendString("Internal Server Error")
	}

	log.Debug().Uint64("ticket_id", t.ID).Msg("ticket created via web")

	return c.Redirect("/dashboard")
}

// readAttachment stores an uploaded file, if any, and returns its reference.
// Missing or rejected files yield an empty reference.
func readAttachment(c *fiber.Ctx, uploads *upload.Store) string {
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

	stored, err := uploads.Save(fileHeader.Filename, data)
	if err != nil {
		log.Warn().Err(err).Str("filename", fileHeader.Filename).Msg("attachment rejected")
		return ""
	}

	return stored
}
