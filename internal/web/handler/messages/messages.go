// Package messages implements the private messages page.
package messages

import (
	"errors"
	"io"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/GoHelpdesk/GoHelpdesk/internal/config"
	messagestore "github.com/GoHelpdesk/GoHelpdesk/internal/db/controller/message"
	userstore "github.com/GoHelpdesk/GoHelpdesk/internal/db/controller/user"
	"github.com/GoHelpdesk/GoHelpdesk/internal/notify"
	"github.com/GoHelpdesk/GoHelpdesk/internal/upload"
	"github.com/GoHelpdesk/GoHelpdesk/internal/web/handler"
	webauth "github.com/GoHelpdesk/GoHelpdesk/internal/web/middleware/auth"
)

const (
	// Path is the path to the private messages page.
	Path = "/messages"

	// TemplateName is the name of the private messages template.
	TemplateName = "private_chat"
)

// Service is the private messages handler service.
type Service struct {
	cfg     *config.Config
	db      *gorm.DB
	hub     *notify.Hub
	uploads *upload.Store
}

// Handler is the private messages handler.
var Handler = Service{}

// Init initializes the private messages handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB, hub *notify.Hub, uploads *upload.Store) error {
	if app == nil || cfg == nil || db == nil {
		return errors.New(handler.ErrNilACDMsg)
	}

	s.cfg = cfg
	s.db = db
	s.hub = hub
	s.uploads = uploads

	app.Route(Path, func(router fiber.Router) {
		router.Get(handler.RouterRootPath, s.Get)
		router.Post(handler.RouterRootPath, s.Post)
	})

	return nil
}

// Get renders the private messages page with the user's conversation history
// and the recipient picker.
func (s *Service) Get(c *fiber.Ctx) error {
	u, ok := webauth.CurrentUser(c)
	if !ok {
		return c.Redirect("/login")
	}

	msgs, err := messagestore.GetForUser(s.db, u.ID)
	if err != nil {
		log.Error().Err(err).Uint64("user_id", u.ID).Msg("failed to list messages")

		return c.Status(fiber.StatusInternalServerError).SendString("Internal Server Error")
	}

	recipients, err := userstore.Recipients(s.db, u.ID)
	if err != nil {
		log.Error().Err(err).Uint64("user_id", u.ID).Msg("failed to list recipients")

		return c.Status(fiber.StatusInternalServerError).SendString("Internal Server Error")
	}

	return c.Render(TemplateName, fiber.Map{
		"Title":      s.cfg.Title,
		"User":       u,
		"Messages":   msgs,
		"Recipients": recipients,
	}, handler.BaseLayout)
}

// Post sends a private message. The notification event carries a preview
// clipped to the first characters of the body and fires after the commit.
func (s *Service) Post(c *fiber.Ctx) error {
	u, ok := webauth.CurrentUser(c)
	if !ok {
		return c.Redirect("/login")
	}

	recipientID, err := strconv.ParseUint(c.FormValue("recipient"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).SendString("Bad Request")
	}

	// A forged form value must not persist a message with a dangling
	// recipient reference.
	if _, err := userstore.Get(s.db, recipientID); err != nil {
		if errors.Is(err, userstore.ErrUserNotFound) {
			return c.Status(fiber.StatusBadRequest).SendString("Unknown recipient")
		}

		log.Error().Err(err).Uint64("recipient_id", recipientID).Msg("failed to resolve recipient")

		return c.Status(fiber.StatusInternalServerError).SendString("Internal Server Error")
	}

	body := c.FormValue("body")
	if body == "" {
		return c.Status(fiber.StatusBadRequest).SendString("Message body is required")
	}

	attachment := s.readAttachment(c)

	if _, err := messagestore.Create(s.db, u.ID, recipientID, body, attachment); err != nil {
		log.Error().Err(err).Uint64("user_id", u.ID).Msg("failed to send message")

		return c.Status(fiber.StatusInternalServerError).SendString("Internal Server Error")
	}

	s.hub.Publish(notify.PrivateMessageEvent(u.Username, recipientID, body))

	return c.Redirect(Path)
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
