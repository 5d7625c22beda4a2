package server

import (
	"github.com/gofiber/fiber/v2"
)

// About returns the about page payload.
func (s *Server) About(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"page":            "about",
		"current_user_id": s.currentUserID(c),
	})
}

// Contact returns the contact page payload.
func (s *Server) Contact(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"page":            "contact",
		"current_user_id": s.currentUserID(c),
	})
}

// LivenessCheck reports that the process is up.
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "alive"})
}

// ReadinessCheck reports whether the server can actually serve traffic:
// the database must answer and, when configured, Redis must too.
func (s *Server) ReadinessCheck(c *fiber.Ctx) error {
	checks := fiber.Map{}
	ready := true

	sqlDB, err := s.db.DB()
	if err != nil || sqlDB.PingContext(c.Context()) != nil {
		checks["database"] = "down"
		ready = false
	} else {
		checks["database"] = "up"
	}

	if s.redis != nil {
		if err := s.redis.Ping(c.Context()).Err(); err != nil {
			checks["redis"] = "down"
			ready = false
		} else {
			checks["redis"] = "up"
		}
	}

	status := fiber.StatusOK
	state := "ready"
	if !ready {
		status = fiber.StatusServiceUnavailable
		state = "not ready"
	}
	return c.Status(status).JSON(fiber.Map{"status": state, "checks": checks})
}
