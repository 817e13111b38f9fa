// Package ticket implements the ticket lifecycle: creation, the append-only
// reply thread, and administrative triage. Every mutation is permission
// checked through the auth service before it touches the store, and a
// lifecycle event is published only after the database write succeeded.
package ticket

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/GoHelpdesk/GoHelpdesk/internal/auth"
	ticketstore "github.com/GoHelpdesk/GoHelpdesk/internal/db/controller/ticket"
	"github.com/GoHelpdesk/GoHelpdesk/internal/db/models"
	"github.com/GoHelpdesk/GoHelpdesk/internal/notify"
)

// ErrTicketNotFound mirrors the store sentinel so callers only need this package.
var ErrTicketNotFound = ticketstore.ErrTicketNotFound

// initialAttachmentMessage is the body of the synthetic first reply recording
// an attachment supplied at ticket creation. Attachments on creation are
// modeled as a reply, not a ticket field.
const initialAttachmentMessage = "Initial attachment"

var (
	ticketsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "helpdesk_tickets_created_total",
		Help: "Number of tickets created.",
	})

	ticketsReplied = promauto.NewCounter(prometheus.CounterOpts{
		Name: "helpdesk_ticket_replies_total",
		Help: "Number of ticket replies appended.",
	})
)

// Manager coordinates ticket mutations across the permission resolver,
// the ticket store and the event hub.
type Manager struct {
	db          *gorm.DB
	authService *auth.Service
	hub         *notify.Hub
}

// NewManager creates a ticket lifecycle manager.
func NewManager(db *gorm.DB, authService *auth.Service, hub *notify.Hub) *Manager {
	return &Manager{
		db:          db,
		authService: authService,
		hub:         hub,
	}
}

// Create persists a new ticket authored by the given user.
//
// The user must hold the create_ticket capability, otherwise
// auth.ErrPermissionDenied is returned and nothing is persisted. A non-empty
// attachment reference is recorded as a synthetic first reply. The
// ticket_created event fires after the commit.
func (m *Manager) Create(userID uint64, subject, description, attachment string) (*models.Ticket, error) {
	allowed, err := m.authService.HasPermission(userID, auth.PermCreateTicket)
	if err != nil {
		return nil, err
	}

	if !allowed {
		return nil, auth.ErrPermissionDenied
	}

	t, err := ticketstore.Create(m.db, userID, subject, description)
	if err != nil {
		return nil, err
	}

	if attachment != "" {
		if _, err := ticketstore.AddReply(m.db, t.ID, userID, initialAttachmentMessage, attachment); err != nil {
			return nil, err
		}
	}

	ticketsCreated.Inc()
	m.hub.Publish(notify.TicketEvent(notify.ActionCreated, t.ID))

	log.Info().Uint64("ticket_id", t.ID).Uint64("user_id", userID).
		Str("number", t.TicketNumber()).Msg("ticket created")

	return t, nil
}

// AddReply appends a reply to a ticket's thread on behalf of the given user.
//
// The ticket must be visible to the user (administrator or author), otherwise
// auth.ErrAccessDenied is returned; the user additionally needs the
// reply_ticket capability, otherwise auth.ErrPermissionDenied. The
// ticket_replied event fires after the commit.
func (m *Manager) AddReply(userID, ticketID uint64, message, attachment string) (*models.TicketReply, error) {
	t, err := ticketstore.Get(m.db, ticketID)
	if err != nil {
		return nil, err
	}

	visible, err := m.CanView(userID, t)
	if err != nil {
		return nil, err
	}

	if !visible {
		return nil, auth.ErrAccessDenied
	}

	allowed, err := m.authService.HasPermission(userID, auth.PermReplyTicket)
	if err != nil {
		return nil, err
	}

	if !allowed {
		return nil, auth.ErrPermissionDenied
	}

	reply, err := ticketstore.AddReply(m.db, ticketID, userID, message, attachment)
	if err != nil {
		return nil, err
	}

	ticketsReplied.Inc()
	m.hub.Publish(notify.TicketEvent(notify.ActionReplied, ticketID))

	return reply, nil
}

// Update applies a partial administrative update to a ticket. Only non-nil
// fields change. The caller must be an administrator (coarse role label);
// no further granular permission is consulted. Concurrent updates are
// last-write-wins, there is no version check.
func (m *Manager) Update(userID, ticketID uint64, status, priority *string, assignedTo *uint64) (*models.Ticket, error) {
	isAdmin, err := m.authService.IsAdministrator(userID)
	if err != nil {
		return nil, err
	}

	if !isAdmin {
		return nil, auth.ErrAccessDenied
	}

	t, err := ticketstore.Update(m.db, ticketID, status, priority, assignedTo)
	if err != nil {
		return nil, err
	}

	log.Info().Uint64("ticket_id", ticketID).Uint64("user_id", userID).
		Str("status", t.Status).Msg("ticket updated")

	return t, nil
}

// Thread retrieves a ticket with its full reply thread, after checking the
// visibility rule. Invisible tickets yield auth.ErrAccessDenied.
func (m *Manager) Thread(userID, ticketID uint64) (*models.Ticket, error) {
	t, err := ticketstore.GetWithThread(m.db, ticketID)
	if err != nil {
		return nil, err
	}

	visible, err := m.CanView(userID, t)
	if err != nil {
		return nil, err
	}

	if !visible {
		return nil, auth.ErrAccessDenied
	}

	return t, nil
}

// ListFor returns the tickets visible to the user: administrators see every
// ticket, regular users only their own. Newest first.
func (m *Manager) ListFor(userID uint64) ([]models.Ticket, error) {
	isAdmin, err := m.authService.IsAdministrator(userID)
	if err != nil {
		return nil, err
	}

	if isAdmin {
		return ticketstore.GetAll(m.db)
	}

	return ticketstore.GetByAuthor(m.db, userID)
}

// CanView implements the visibility rule: a user may view and act on a
// ticket iff they are an administrator or the ticket's author.
func (m *Manager) CanView(userID uint64, t *models.Ticket) (bool, error) {
	if t.UserID == userID {
		return true, nil
	}

	return m.authService.IsAdministrator(userID)
}
