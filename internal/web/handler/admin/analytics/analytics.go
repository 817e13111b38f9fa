// Package analytics serves ticket volume counts for the admin dashboard charts.
package analytics

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/GoHelpdesk/GoHelpdesk/internal/config"
	ticketstore "github.com/GoHelpdesk/GoHelpdesk/internal/db/controller/ticket"
	"github.com/GoHelpdesk/GoHelpdesk/internal/db/models"
	"github.com/GoHelpdesk/GoHelpdesk/internal/web/handler"
)

// Path is the analytics path, relative to the admin group.
const Path = "/analytics"

// Service is the analytics handler service.
type Service struct {
	cfg *config.Config
	db  *gorm.DB
}

// Handler is the analytics handler.
var Handler = Service{}

// Init initializes the analytics handler on the admin route group.
func (s *Service) Init(admin fiber.Router, cfg *config.Config, db *gorm.DB) error {
	if admin == nil || cfg == nil || db == nil {
		return errors.New(handler.ErrNilRCDMsg)
	}

	s.cfg = cfg
	s.db = db

	admin.Get(Path, s.Get)

	return nil
}

// Get returns ticket counts per lifecycle status as JSON.
func (s *Service) Get(c *fiber.Ctx) error {
	counts := make(map[string]int64, 3)

	for _, status := range []string{
		models.TicketStatusOpen,
		models.TicketStatusInProgress,
		models.TicketStatusClosed,
	} {
		n, err := ticketstore.CountByStatus(s.db, status)
		if err != nil {
			log.Error().Err(err).Str("status", status).Msg("failed to count tickets")

			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Internal Server Error",
			})
		}

		counts[status] = n
	}

	return c.JSON(counts)
}
