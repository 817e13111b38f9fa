package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GoHelpdesk/GoHelpdesk/internal/db/models"
	"github.com/GoHelpdesk/GoHelpdesk/internal/web/session"
)

func newGuardedApp(svc *Service) *fiber.App {
	app := fiber.New()

	ok := func(c *fiber.Ctx) error { return c.SendString("ok") }

	app.Post("/guarded", RequirePermission(svc, PermCreateTicket), ok)
	app.Get("/admin-area", RequireAdministrator(svc), ok)

	return app
}

// loginAs writes a session for the user and returns its id.
func loginAs(t *testing.T, u *models.User) string {
	t.Helper()

	sessionID, err := session.GenerateSessionID()
	require.NoError(t, err, "failed to generate session id")

	data := &session.Data{User: *u}
	require.NoError(t, data.Write(sessionID, time.Minute), "failed to write session")

	return sessionID
}

func requestWithSession(t *testing.T, app *fiber.App, method, target, sessionID string) *http.Response {
	t.Helper()

	req := httptest.NewRequest(method, target, nil)
	if sessionID != "" {
		req.AddCookie(&http.Cookie{Name: "session", Value: sessionID})
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err, "app.Test failed")

	return resp
}

func TestRequirePermission(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db)
	session.Init(session.NewMemoryStorage())
	app := newGuardedApp(svc)

	holder := createUser(t, db, &models.User{
		Username: "holder",
		Email:    "holder@example.com",
		Password: "x",
		Role:     models.RoleLabelUser,
	})
	setFlags(t, db, holder, true, false, false, false, false)

	denied := createUser(t, db, &models.User{
		Username: "denied",
		Email:    "denied@example.com",
		Password: "x",
		Role:     models.RoleLabelUser,
	})
	setFlags(t, db, denied, false, false, false, false, false)

	t.Run("no session", func(t *testing.T) {
		resp := requestWithSession(t, app, http.MethodPost, "/guarded", "")
		defer resp.Body.Close()

		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("without capability", func(t *testing.T) {
		resp := requestWithSession(t, app, http.MethodPost, "/guarded", loginAs(t, denied))
		defer resp.Body.Close()

		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	})

	t.Run("with capability", func(t *testing.T) {
		resp := requestWithSession(t, app, http.MethodPost, "/guarded", loginAs(t, holder))
		defer resp.Body.Close()

		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})
}

func TestRequireAdministrator(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db)
	session.Init(session.NewMemoryStorage())
	app := newGuardedApp(svc)

	agent := createUser(t, db, &models.User{
		Username: "agent",
		Email:    "agent@example.com",
		Password: "x",
		Role:     models.RoleLabelSupport,
	})
	regular := createUser(t, db, &models.User{
		Username: "regular",
		Email:    "regular@example.com",
		Password: "x",
		Role:     models.RoleLabelUser,
	})

	t.Run("no session", func(t *testing.T) {
		resp := requestWithSession(t, app, http.MethodGet, "/admin-area", "")
		defer resp.Body.Close()

		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("regular user", func(t *testing.T) {
		resp := requestWithSession(t, app, http.MethodGet, "/admin-area", loginAs(t, regular))
		defer resp.Body.Close()

		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	})

	t.Run("support agent", func(t *testing.T) {
		resp := requestWithSession(t, app, http.MethodGet, "/admin-area", loginAs(t, agent))
		defer resp.Body.Close()

		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})
}
