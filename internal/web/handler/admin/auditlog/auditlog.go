// Package auditlog implements the administrative audit trail view.
package auditlog

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/GoHelpdesk/GoHelpdesk/internal/config"
	auditstore "github.com/GoHelpdesk/GoHelpdesk/internal/db/controller/auditlog"
	"github.com/GoHelpdesk/GoHelpdesk/internal/web/handler"
	webauth "github.com/GoHelpdesk/GoHelpdesk/internal/web/middleware/auth"
)

const (
	// Path is the audit log path, relative to the admin group.
	Path = "/audit-logs"

	// TemplateName is the audit log template.
	TemplateName = "audit_logs"
)

// Service is the audit log handler service.
type Service struct {
	cfg *config.Config
	db  *gorm.DB
}

// Handler is the audit log handler.
var Handler = Service{}

// Init initializes the audit log handler on the admin route group.
func (s *Service) Init(admin fiber.Router, cfg *config.Config, db *gorm.DB) error {
	if admin == nil || cfg == nil || db == nil {
		return errors.New(handler.ErrNilRCDMsg)
	}

	s.cfg = cfg
	s.db = db

	admin.Get(Path, s.Get)

	return nil
}

// Get renders the audit trail, most recent entries first.
func (s *Service) Get(c *fiber.Ctx) error {
	u, _ := webauth.CurrentUser(c)

	entries, err := auditstore.GetAll(s.db)
	if err != nil {
		log.Error().Err(err).Msg("failed to list audit logs")

		return c.Status(fiber.StatusInternalServerError).SendString("Internal Server Error")
	}

	return c.Render(TemplateName, fiber.Map{
		"Title":   s.cfg.Title,
		"User":    u,
		"Entries": entries,
	}, handler.BaseLayout)
}
