package server

import (
	"conduit/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GetTags handles GET /api/tags. Tags come back most used first.
func (s *Server) GetTags(c *fiber.Ctx) error {
	tags, err := s.articleService.Tags(c.UserContext())
	if err != nil {
		return models.Respond(c, err)
	}
	return c.JSON(fiber.Map{"tags": tags})
}
