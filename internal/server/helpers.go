package server

import (
	"errors"
	"net/url"
	"time"

	"inkwell/internal/middleware"
	"inkwell/internal/models"
	"inkwell/internal/session"

	"github.com/gofiber/fiber/v2"
)

// FlashCookieName carries a one-shot message across a redirect, the
// cookie flavor of a server-side flash. URL-escaped so arbitrary text
// survives the cookie grammar.
const FlashCookieName = "inkwell_flash"

// errResponseWritten is a sentinel indicating the HTTP response was already
// committed by a helper. Handlers must return nil (not this error) to avoid
// Fiber's ErrorHandler overwriting the response.
var errResponseWritten = errors.New("response already written")

// parseID extracts the :id route parameter as a positive uint.
// On failure it writes a 400 JSON response and returns errResponseWritten.
func (s *Server) parseID(c *fiber.Ctx) (uint, error) {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		_ = models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid ID"))
		return 0, errResponseWritten
	}
	return uint(id), nil
}

// respondError maps an application error to its HTTP status and writes
// the standard error body.
func (s *Server) respondError(c *fiber.Ctx, err error) error {
	status := models.HTTPStatus(err)
	if status == fiber.StatusInternalServerError {
		middleware.Logger.ErrorContext(c.UserContext(), "request error", "error", err)
	}
	return models.RespondWithError(c, status, err)
}

// currentUserID returns the acting user's ID, 0 for anonymous.
func (s *Server) currentUserID(c *fiber.Ctx) uint {
	return middleware.UserID(c)
}

// flashMessage extracts the user-facing message from an error.
func flashMessage(err error) string {
	var appErr *models.AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return err.Error()
}

func (s *Server) setFlash(c *fiber.Ctx, message string) {
	c.Cookie(&fiber.Cookie{
		Name:     FlashCookieName,
		Value:    url.QueryEscape(message),
		Path:     "/",
		Expires:  time.Now().Add(5 * time.Minute),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

// popFlash returns the pending flash message, if any, and clears it.
func (s *Server) popFlash(c *fiber.Ctx) string {
	raw := c.Cookies(FlashCookieName)
	if raw == "" {
		return ""
	}
	c.Cookie(&fiber.Cookie{
		Name:     FlashCookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	message, err := url.QueryUnescape(raw)
	if err != nil {
		return ""
	}
	return message
}

// redirectWithFlash stores a one-shot message and redirects. POST
// handlers use 303 so the browser follows up with a GET.
func (s *Server) redirectWithFlash(c *fiber.Ctx, message, location string) error {
	s.setFlash(c, message)
	return c.Redirect(location, fiber.StatusSeeOther)
}

// establishSession creates a server-side session for the user and hands
// the browser a signed cookie wrapping the session ID.
func (s *Server) establishSession(c *fiber.Ctx, userID uint) error {
	sessionID, err := s.sessions.Create(c.Context(), userID)
	if err != nil {
		return err
	}

	token, err := session.Sign(sessionID, s.config.SessionSecret, s.config.SessionTTL)
	if err != nil {
		return err
	}

	cookie := &fiber.Cookie{
		Name:     session.CookieName,
		Value:    token,
		Path:     "/",
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	}
	if s.config.SessionTTL > 0 {
		cookie.Expires = time.Now().Add(s.config.SessionTTL)
	}
	c.Cookie(cookie)
	return nil
}

// clearSession destroys the server-side session record and expires the
// cookie. Safe to call for anonymous requests.
func (s *Server) clearSession(c *fiber.Ctx) {
	if token := c.Cookies(session.CookieName); token != "" {
		if sessionID, err := session.Verify(token, s.config.SessionSecret); err == nil {
			if err := s.sessions.Destroy(c.Context(), sessionID); err != nil {
				middleware.Logger.WarnContext(c.UserContext(), "session destroy failed", "error", err)
			}
		}
	}

	c.Cookie(&fiber.Cookie{
		Name:     session.CookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}
