package server

import (
	"fmt"

	"inkwell/internal/middleware"
	"inkwell/internal/models"
	"inkwell/internal/service"

	"github.com/gofiber/fiber/v2"
)

type postRequest struct {
	Title    string `json:"title" form:"title"`
	Subtitle string `json:"subtitle" form:"subtitle"`
	Body     string `json:"body" form:"body"`
	ImageURL string `json:"img_url" form:"img_url"`
}

// ListPosts returns the front page payload: every post, oldest first.
func (s *Server) ListPosts(c *fiber.Ctx) error {
	posts, err := s.postService.ListPosts(c.Context())
	if err != nil {
		return s.respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"page":            "index",
		"posts":           posts,
		"flash":           s.popFlash(c),
		"current_user_id": s.currentUserID(c),
	})
}

// ShowPost returns a single post with its comments.
func (s *Server) ShowPost(c *fiber.Ctx) error {
	id, err := s.parseID(c)
	if err != nil {
		return nil
	}

	post, err := s.postService.GetPost(c.Context(), id)
	if err != nil {
		return s.respondError(c, err)
	}

	comments, err := s.commentService.ListComments(c.Context(), id)
	if err != nil {
		return s.respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"page":            "post",
		"post":            post,
		"comments":        comments,
		"flash":           s.popFlash(c),
		"current_user_id": s.currentUserID(c),
	})
}

// ShowNewPost returns the empty create form payload. Admin only.
func (s *Server) ShowNewPost(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"page":  "new-post",
		"flash": s.popFlash(c),
	})
}

// CreatePost publishes a new post authored by the admin.
func (s *Server) CreatePost(c *fiber.Ctx) error {
	var req postRequest
	if err := c.BodyParser(&req); err != nil {
		return s.respondError(c, models.NewValidationError("Invalid request body"))
	}

	post, err := s.postService.CreatePost(c.Context(), service.CreatePostInput{
		UserID:   s.currentUserID(c),
		Title:    req.Title,
		Subtitle: req.Subtitle,
		Body:     req.Body,
		ImageURL: req.ImageURL,
	})
	if err != nil {
		switch models.CodeOf(err) {
		case models.CodeDuplicateTitle, models.CodeValidation:
			return s.redirectWithFlash(c, flashMessage(err), "/new-post")
		default:
			return s.respondError(c, err)
		}
	}

	middleware.Logger.InfoContext(c.UserContext(), "post created",
		"post_id", post.ID, "title", post.Title)
	return c.Redirect("/", fiber.StatusSeeOther)
}

// ShowEditPost returns the edit form payload pre-filled with the post.
func (s *Server) ShowEditPost(c *fiber.Ctx) error {
	id, err := s.parseID(c)
	if err != nil {
		return nil
	}

	post, err := s.postService.GetPost(c.Context(), id)
	if err != nil {
		return s.respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"page":  "edit-post",
		"post":  post,
		"flash": s.popFlash(c),
	})
}

// EditPost rewrites a post's content fields. The publication date stays
// as originally stamped.
func (s *Server) EditPost(c *fiber.Ctx) error {
	id, err := s.parseID(c)
	if err != nil {
		return nil
	}

	var req postRequest
	if err := c.BodyParser(&req); err != nil {
		return s.respondError(c, models.NewValidationError("Invalid request body"))
	}

	post, err := s.postService.EditPost(c.Context(), service.EditPostInput{
		UserID:   s.currentUserID(c),
		PostID:   id,
		Title:    req.Title,
		Subtitle: req.Subtitle,
		Body:     req.Body,
		ImageURL: req.ImageURL,
	})
	if err != nil {
		switch models.CodeOf(err) {
		case models.CodeDuplicateTitle, models.CodeValidation:
			return s.redirectWithFlash(c, flashMessage(err), fmt.Sprintf("/edit-post/%d", id))
		default:
			return s.respondError(c, err)
		}
	}

	return c.Redirect(fmt.Sprintf("/post/%d", post.ID), fiber.StatusSeeOther)
}

// DeletePost removes a post and its comments, then returns to the front
// page. Admin only.
func (s *Server) DeletePost(c *fiber.Ctx) error {
	id, err := s.parseID(c)
	if err != nil {
		return nil
	}

	if err := s.postService.DeletePost(c.Context(), service.DeletePostInput{
		UserID: s.currentUserID(c),
		PostID: id,
	}); err != nil {
		return s.respondError(c, err)
	}

	middleware.Logger.InfoContext(c.UserContext(), "post deleted", "post_id", id)
	return c.Redirect("/", fiber.StatusFound)
}
