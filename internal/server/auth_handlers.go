package server

import (
	"inkwell/internal/middleware"
	"inkwell/internal/models"
	"inkwell/internal/service"

	"github.com/gofiber/fiber/v2"
)

type registerRequest struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
	Name     string `json:"name" form:"name"`
}

type loginRequest struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

// ShowRegister returns the registration page payload.
func (s *Server) ShowRegister(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"page":  "register",
		"flash": s.popFlash(c),
	})
}

// Register creates an account and logs the new user straight in. A
// taken email bounces to the login page instead of the form.
func (s *Server) Register(c *fiber.Ctx) error {
	var req registerRequest
	if err := c.BodyParser(&req); err != nil {
		return s.respondError(c, models.NewValidationError("Invalid request body"))
	}

	user, err := s.authService.Register(c.Context(), service.RegisterInput{
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
	})
	if err != nil {
		switch models.CodeOf(err) {
		case models.CodeDuplicateEmail:
			return s.redirectWithFlash(c, flashMessage(err), "/login")
		case models.CodeValidation:
			return s.redirectWithFlash(c, flashMessage(err), "/register")
		default:
			return s.respondError(c, err)
		}
	}

	if err := s.establishSession(c, user.ID); err != nil {
		return s.respondError(c, models.NewInternalError(err))
	}

	middleware.Logger.InfoContext(c.UserContext(), "user registered",
		"user_id", user.ID, "email", user.Email)
	return c.Redirect("/", fiber.StatusSeeOther)
}

// ShowLogin returns the login page payload.
func (s *Server) ShowLogin(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"page":  "login",
		"flash": s.popFlash(c),
	})
}

// Login verifies credentials and establishes a session. Both failure
// modes bounce back to the login page with their own message.
func (s *Server) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return s.respondError(c, models.NewValidationError("Invalid request body"))
	}

	user, err := s.authService.Login(c.Context(), service.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		switch models.CodeOf(err) {
		case models.CodeNoSuchUser, models.CodeInvalidCredentials:
			return s.redirectWithFlash(c, flashMessage(err), "/login")
		default:
			return s.respondError(c, err)
		}
	}

	if err := s.establishSession(c, user.ID); err != nil {
		return s.respondError(c, models.NewInternalError(err))
	}

	middleware.Logger.InfoContext(c.UserContext(), "user logged in", "user_id", user.ID)
	return c.Redirect("/", fiber.StatusSeeOther)
}

// Logout destroys the session and returns to the front page. Idempotent:
// logging out while logged out is fine.
func (s *Server) Logout(c *fiber.Ctx) error {
	s.clearSession(c)
	return c.Redirect("/", fiber.StatusFound)
}
