package server

import (
	"conduit/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GetProfile handles GET /api/profiles/:username
func (s *Server) GetProfile(c *fiber.Ctx) error {
	profile, err := s.userService.Profile(c.UserContext(), c.Params("username"), viewerID(c))
	if err != nil {
		return models.Respond(c, err)
	}
	return c.JSON(fiber.Map{"profile": presentProfile(profile)})
}

// FollowUser handles POST /api/profiles/:username/follow
func (s *Server) FollowUser(c *fiber.Ctx) error {
	profile, err := s.userService.Follow(c.UserContext(), viewerID(c), c.Params("username"))
	if err != nil {
		return models.Respond(c, err)
	}
	return c.JSON(fiber.Map{"profile": presentProfile(profile)})
}

// UnfollowUser handles DELETE /api/profiles/:username/follow
func (s *Server) UnfollowUser(c *fiber.Ctx) error {
	profile, err := s.userService.Unfollow(c.UserContext(), viewerID(c), c.Params("username"))
	if err != nil {
		return models.Respond(c, err)
	}
	return c.JSON(fiber.Map{"profile": presentProfile(profile)})
}
