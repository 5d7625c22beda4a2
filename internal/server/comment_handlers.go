package server

import (
	"fmt"

	"inkwell/internal/models"
	"inkwell/internal/service"

	"github.com/gofiber/fiber/v2"
)

type commentRequest struct {
	Text string `json:"text" form:"text"`
}

// AddComment attaches a comment to a post. Anonymous visitors are sent
// to the login page with a flash instead of a bare error.
func (s *Server) AddComment(c *fiber.Ctx) error {
	id, err := s.parseID(c)
	if err != nil {
		return nil
	}

	var req commentRequest
	if err := c.BodyParser(&req); err != nil {
		return s.respondError(c, models.NewValidationError("Invalid request body"))
	}

	_, err = s.commentService.AddComment(c.Context(), service.AddCommentInput{
		UserID: s.currentUserID(c),
		PostID: id,
		Text:   req.Text,
	})
	if err != nil {
		switch models.CodeOf(err) {
		case models.CodeAuthenticationRequired:
			return s.redirectWithFlash(c, flashMessage(err), "/login")
		case models.CodeValidation:
			return s.redirectWithFlash(c, flashMessage(err), fmt.Sprintf("/post/%d", id))
		default:
			return s.respondError(c, err)
		}
	}

	return c.Redirect(fmt.Sprintf("/post/%d", id), fiber.StatusSeeOther)
}
