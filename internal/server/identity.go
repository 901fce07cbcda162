package server

import (
	"log/slog"
	"time"

	"clubhouse/internal/middleware"
	"clubhouse/internal/models"

	"github.com/gofiber/fiber/v2"
)

const (
	sessionCookie = "clubhouse_session"
	userLocalKey  = "currentUser"
)

// Identity resolves the session cookie to a user on every request. The user
// is reloaded from the store each time so membership and admin changes apply
// immediately. A cookie that no longer resolves is cleared.
func (s *Server) Identity() fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := c.Cookies(sessionCookie)
		if token == "" {
			return c.Next()
		}

		ctx := c.UserContext()
		userID, ok, err := s.sessions.Resolve(ctx, token)
		if err != nil {
			return models.NewInternalError(err)
		}
		if !ok {
			s.clearSessionCookie(c)
			return c.Next()
		}

		user, err := s.userService.GetByID(ctx, userID)
		if err != nil {
			return err
		}
		if user == nil {
			middleware.Logger.WarnContext(ctx, "Session refers to missing user", slog.Uint64("session_user_id", uint64(userID)))
			if err := s.sessions.End(ctx, token); err != nil {
				return models.NewInternalError(err)
			}
			s.clearSessionCookie(c)
			return c.Next()
		}

		c.Locals(userLocalKey, user)
		c.Locals("userID", user.ID)
		c.SetUserContext(middleware.WithUserID(ctx, user.ID))
		return c.Next()
	}
}

// currentUser returns the identity attached by Identity, or nil when anonymous.
func currentUser(c *fiber.Ctx) *models.User {
	user, _ := c.Locals(userLocalKey).(*models.User)
	return user
}

func (s *Server) setSessionCookie(c *fiber.Ctx, token string) {
	c.Cookie(&fiber.Cookie{
		Name:     sessionCookie,
		Value:    token,
		Path:     "/",
		Expires:  s.now().Add(s.sessions.TTL()),
		HTTPOnly: true,
		Secure:   s.config.CookieSecure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

func (s *Server) clearSessionCookie(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     sessionCookie,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HTTPOnly: true,
		Secure:   s.config.CookieSecure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}
