package ticket

import (
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/GoHelpdesk/GoHelpdesk/internal/auth"
	"github.com/GoHelpdesk/GoHelpdesk/internal/db/models"
	"github.com/GoHelpdesk/GoHelpdesk/internal/notify"
)

// setupManager creates an in-memory database with a fresh manager and hub.
func setupManager(t *testing.T) (*Manager, *gorm.DB, *notify.Hub) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err, "failed to create test database")

	err = db.AutoMigrate(
		&models.User{},
		&models.Role{},
		&models.Permission{},
		&models.RolePermission{},
		&models.UserPermission{},
		&models.Ticket{},
		&models.TicketReply{},
	)
	require.NoError(t, err, "failed to migrate test database")

	hub := notify.NewHub()

	return NewManager(db, auth.NewService(db), hub), db, hub
}

// newUser seeds a user with the legacy flags pinned to the given values.
func newUser(t *testing.T, db *gorm.DB, username string, role models.RoleLabel, create, view, reply bool) *models.User {
	t.Helper()

	u := &models.User{
		Username: username,
		Email:    username + "@example.com",
		Password: "x",
		Role:     role,
	}
	require.NoError(t, db.Create(u).Error)

	require.NoError(t, db.Model(&models.User{}).Where("id = ?", u.ID).Updates(map[string]interface{}{
		"can_create_ticket": create,
		"can_view_ticket":   view,
		"can_reply_ticket":  reply,
		"can_edit_ticket":   false,
		"can_delete_ticket": false,
	}).Error)

	return u
}

func TestCreate(t *testing.T) {
	m, db, hub := setupManager(t)

	author := newUser(t, db, "author", models.RoleLabelUser, true, true, true)

	events := hub.Subscribe()
	defer hub.Unsubscribe(events)

	created, err := m.Create(author.ID, "Printer on fire", "It is actually on fire.", "")
	require.NoError(t, err)
	assert.Equal(t, models.TicketStatusOpen, created.Status)
	assert.Equal(t, models.TicketPriorityNormal, created.Priority)
	assert.Equal(t, author.ID, created.UserID)

	select {
	case ev := <-events:
		assert.Equal(t, notify.EventTypeTicket, ev.Type)
		assert.Equal(t, notify.ActionCreated, ev.Action)
		assert.Equal(t, created.ID, ev.TicketID)
	case <-time.After(time.Second):
		t.Fatal("expected a ticket_created event")
	}
}

func TestCreateWithoutPermission(t *testing.T) {
	m, db, hub := setupManager(t)

	author := newUser(t, db, "limited", models.RoleLabelUser, false, true, true)

	events := hub.Subscribe()
	defer hub.Unsubscribe(events)

	_, err := m.Create(author.ID, "Nope", "Denied.", "")
	require.ErrorIs(t, err, auth.ErrPermissionDenied)

	// Nothing was persisted and no event fired.
	var count int64
	db.Model(&models.Ticket{}).Count(&count)
	assert.Zero(t, count)
	assert.Empty(t, events)
}

func TestCreateWithAttachment(t *testing.T) {
	m, db, _ := setupManager(t)

	author := newUser(t, db, "attacher", models.RoleLabelUser, true, true, true)

	created, err := m.Create(author.ID, "Screenshot attached", "See file.", "abcd1234_shot.png")
	require.NoError(t, err)

	thread, err := m.Thread(author.ID, created.ID)
	require.NoError(t, err)
	require.Len(t, thread.Replies, 1, "attachment must become the first reply")
	assert.Equal(t, "Initial attachment", thread.Replies[0].Message)
	assert.Equal(t, "abcd1234_shot.png", thread.Replies[0].Attachment)
	assert.Equal(t, author.ID, thread.Replies[0].UserID)
}

func TestAddReply(t *testing.T) {
	m, db, hub := setupManager(t)

	author := newUser(t, db, "author", models.RoleLabelUser, true, true, true)

	created, err := m.Create(author.ID, "Subject", "Body", "")
	require.NoError(t, err)

	events := hub.Subscribe()
	defer hub.Unsubscribe(events)

	reply, err := m.AddReply(author.ID, created.ID, "Any update?", "")
	require.NoError(t, err)
	assert.Equal(t, "Any update?", reply.Message)

	select {
	case ev := <-events:
		assert.Equal(t, notify.EventTypeTicket, ev.Type)
		assert.Equal(t, notify.ActionReplied, ev.Action)
		assert.Equal(t, created.ID, ev.TicketID)
	case <-time.After(time.Second):
		t.Fatal("expected a ticket_replied event")
	}
}

func TestAddReplyDeniedStates(t *testing.T) {
	m, db, _ := setupManager(t)

	author := newUser(t, db, "author", models.RoleLabelUser, true, true, true)
	stranger := newUser(t, db, "stranger", models.RoleLabelUser, true, true, true)
	agent := newUser(t, db, "agent", models.RoleLabelSupport, true, true, true)

	created, err := m.Create(author.ID, "Subject", "Body", "")
	require.NoError(t, err)

	// Not the author and not an administrator: the ticket is invisible.
	_, err = m.AddReply(stranger.ID, created.ID, "hi", "")
	require.ErrorIs(t, err, auth.ErrAccessDenied)

	// Author who lost the reply capability: visible but not allowed.
	muted := newUser(t, db, "muted", models.RoleLabelUser, true, true, false)
	t2, err := m.Create(muted.ID, "Mine", "Body", "")
	require.NoError(t, err)

	_, err = m.AddReply(muted.ID, t2.ID, "hi", "")
	require.ErrorIs(t, err, auth.ErrPermissionDenied)

	// Administrators see every ticket.
	reply, err := m.AddReply(agent.ID, created.ID, "on it", "")
	require.NoError(t, err)
	assert.Equal(t, agent.ID, reply.UserID)

	// Unknown ticket.
	_, err = m.AddReply(author.ID, 9999, "hi", "")
	require.ErrorIs(t, err, ErrTicketNotFound)
}

func TestUpdate(t *testing.T) {
	m, db, _ := setupManager(t)

	author := newUser(t, db, "author", models.RoleLabelUser, true, true, true)
	admin := newUser(t, db, "admin", models.RoleLabelAdmin, true, true, true)

	created, err := m.Create(author.ID, "Subject", "Body", "")
	require.NoError(t, err)

	// Regular users cannot triage, not even the author.
	status := models.TicketStatusClosed
	_, err = m.Update(author.ID, created.ID, &status, nil, nil)
	require.ErrorIs(t, err, auth.ErrAccessDenied)

	// Partial update: only the submitted fields change.
	priority := "high"
	updated, err := m.Update(admin.ID, created.ID, nil, &priority, nil)
	require.NoError(t, err)
	assert.Equal(t, models.TicketStatusOpen, updated.Status)
	assert.Equal(t, "high", updated.Priority)

	assignee := admin.ID
	updated, err = m.Update(admin.ID, created.ID, &status, nil, &assignee)
	require.NoError(t, err)
	assert.Equal(t, models.TicketStatusClosed, updated.Status)
	assert.Equal(t, "high", updated.Priority)
	require.NotNil(t, updated.AssignedTo)
	assert.Equal(t, admin.ID, *updated.AssignedTo)

	// Closed tickets can be reopened.
	reopened := models.TicketStatusOpen
	updated, err = m.Update(admin.ID, created.ID, &reopened, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, models.TicketStatusOpen, updated.Status)
}

func TestThreadVisibility(t *testing.T) {
	m, db, _ := setupManager(t)

	author := newUser(t, db, "author", models.RoleLabelUser, true, true, true)
	stranger := newUser(t, db, "stranger", models.RoleLabelUser, true, true, true)
	admin := newUser(t, db, "admin", models.RoleLabelAdmin, true, true, true)

	created, err := m.Create(author.ID, "Subject", "Body", "")
	require.NoError(t, err)

	_, err = m.Thread(author.ID, created.ID)
	require.NoError(t, err)

	_, err = m.Thread(admin.ID, created.ID)
	require.NoError(t, err)

	_, err = m.Thread(stranger.ID, created.ID)
	require.ErrorIs(t, err, auth.ErrAccessDenied)

	_, err = m.Thread(author.ID, 12345)
	require.ErrorIs(t, err, ErrTicketNotFound)
}

func TestThreadOrdering(t *testing.T) {
	m, db, _ := setupManager(t)

	author := newUser(t, db, "author", models.RoleLabelUser, true, true, true)

	created, err := m.Create(author.ID, "Subject", "Body", "")
	require.NoError(t, err)

	for _, msg := range []string{"first", "second", "third"} {
		_, err = m.AddReply(author.ID, created.ID, msg, "")
		require.NoError(t, err)
	}

	thread, err := m.Thread(author.ID, created.ID)
	require.NoError(t, err)
	require.Len(t, thread.Replies, 3)
	assert.Equal(t, "first", thread.Replies[0].Message)
	assert.Equal(t, "second", thread.Replies[1].Message)
	assert.Equal(t, "third", thread.Replies[2].Message)
}

func TestListFor(t *testing.T) {
	m, db, _ := setupManager(t)

	alice := newUser(t, db, "alice", models.RoleLabelUser, true, true, true)
	bob := newUser(t, db, "bob", models.RoleLabelUser, true, true, true)
	admin := newUser(t, db, "admin", models.RoleLabelAdmin, true, true, true)

	_, err := m.Create(alice.ID, "Alice 1", "Body", "")
	require.NoError(t, err)
	_, err = m.Create(alice.ID, "Alice 2", "Body", "")
	require.NoError(t, err)
	_, err = m.Create(bob.ID, "Bob 1", "Body", "")
	require.NoError(t, err)

	mine, err := m.ListFor(alice.ID)
	require.NoError(t, err)
	assert.Len(t, mine, 2)
	for _, tk := range mine {
		assert.Equal(t, alice.ID, tk.UserID)
	}

	all, err := m.ListFor(admin.ID)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestTicketNumberFormat(t *testing.T) {
	tk := models.Ticket{ID: 7, CreatedAt: time.Date(2026, time.March, 5, 10, 0, 0, 0, time.UTC)}
	assert.Equal(t, "Ticket# 03-26-007", tk.TicketNumber())
}
