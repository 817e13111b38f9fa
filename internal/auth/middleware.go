package auth

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/GoHelpdesk/GoHelpdesk/internal/web/session"
)

// RequirePermission creates Fiber middleware that requires a specific permission.
func RequirePermission(authService *Service, permission string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, ok := sessionUserID(c)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).SendString("Unauthorized")
		}

		hasPermission, err := authService.HasPermission(userID, permission)
		if err != nil {
			log.Error().Err(err).Uint64("user_id", userID).Str("permission", permission).
				Msg("failed to check permission")

			return c.Status(fiber.StatusInternalServerError).SendString("Internal Server Error")
		}

		if !hasPermission {
			log.Warn().Uint64("user_id", userID).Str("permission", permission).
				Msg("user lacks required permission")

			return c.Status(fiber.StatusForbidden).
				SendString("Forbidden: You don't have permission to access this resource")
		}

		return c.Next()
	}
}

// RequireAdministrator creates Fiber middleware that gates the administrative
// surface on the coarse role label (admin or support). Granular permissions
// play no part in this check.
func RequireAdministrator(authService *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, ok := sessionUserID(c)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).SendString("Unauthorized")
		}

		isAdmin, err := authService.IsAdministrator(userID)
		if err != nil {
			log.Error().Err(err).Uint64("user_id", userID).
				Msg("failed to check administrator role")

			return c.Status(fiber.StatusInternalServerError).SendString("Internal Server Error")
		}

		if !isAdmin {
			log.Warn().Uint64("user_id", userID).Msg("admin access required")

			return c.Status(fiber.StatusForbidden).SendString("Forbidden: Admin access required")
		}

		return c.Next()
	}
}

// AddPermissionsToLocals is a Fiber middleware that adds the user's effective
// permissions to fiber.Locals, so templates can render conditionally.
func AddPermissionsToLocals(authService *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, ok := sessionUserID(c)
		if !ok {
			// Not authenticated, continue without permissions
			return c.Next()
		}

		permissions, err := authService.EffectivePermissions(userID)
		if err != nil {
			log.Error().Err(err).Uint64("user_id", userID).
				Msg("failed to get effective permissions")

			return c.Next()
		}

		c.Locals("permissions", permissions)
		c.Locals("hasPermission", func(perm string) bool {
			if has, errHas := authService.HasPermission(userID, perm); errHas == nil {
				return has
			}

			return false
		})

		return c.Next()
	}
}

// sessionUserID resolves the authenticated user id from the session cookie.
func sessionUserID(c *fiber.Ctx) (uint64, bool) {
	sessionID := c.Cookies("session")
	if sessionID == "" {
		return 0, false
	}

	sessionData := new(session.Data)
	if err := sessionData.Read(sessionID); err != nil {
		return 0, false
	}

	if sessionData.User.ID == 0 {
		return 0, false
	}

	return sessionData.User.ID, true
}
