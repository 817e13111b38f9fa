// Package auth provides the session authentication gate of the web layer.
package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/GoHelpdesk/GoHelpdesk/internal/db/models"
	"github.com/GoHelpdesk/GoHelpdesk/internal/web/session"
)

// loginPath is duplicated here instead of importing the login handler to
// avoid an import cycle between middleware and handlers.
const loginPath = "/login"

// currentUserLocal is the fiber.Locals key holding the authenticated user.
const currentUserLocal = "CurrentUser"

// publicPrefixes are served without authentication.
var publicPrefixes = []string{"/static", "/register", "/healthz", "/metrics"}

// Middleware is a Fiber middleware that checks for user authentication.
func Middleware(c *fiber.Ctx) error {
	var (
		isLoginPage   = isLoginPage(c)
		sessDataValid bool
	)

	originalURL := strings.ToLower(c.OriginalURL())
	for _, prefix := range publicPrefixes {
		if strings.HasPrefix(originalURL, prefix) {
			return c.Next()
		}
	}

	// Allow logout without a valid session
	if strings.HasPrefix(originalURL, "/logout") {
		return c.Next()
	}

	// get session cookie
	loginCookie := c.Cookies("session")

	// if no session cookie, redirect to login page
	if loginCookie == "" && !isLoginPage {
		return c.Redirect(loginPath)
	}

	// check session validity
	sessData := new(session.Data)
	if err := sessData.Read(loginCookie); err != nil {
		// If we're already on the login page, don't redirect (would cause loop)
		if isLoginPage {
			return c.Next()
		}

		return c.Redirect(loginPath)
	}

	// valid data in session
	if sessData.User.ID > 0 {
		sessDataValid = true
		// Add the current user to locals for handlers and templates
		c.Locals(currentUserLocal, sessData.User)
	}

	if sessDataValid && isLoginPage {
		return c.Redirect("/dashboard")
	}

	if !sessDataValid && !isLoginPage {
		return c.Redirect(loginPath)
	}

	return c.Next()
}

// CurrentUser returns the authenticated user placed in locals by Middleware.
func CurrentUser(c *fiber.Ctx) (models.User, bool) {
	u, ok := c.Locals(currentUserLocal).(models.User)
	if !ok || u.ID == 0 {
		return models.User{}, false
	}

	return u, true
}

// isLoginPage checks if the current request is for the login page.
func isLoginPage(c *fiber.Ctx) bool {
	originalURL := strings.ToLower(c.OriginalURL())
	return strings.HasPrefix(originalURL, loginPath)
}
