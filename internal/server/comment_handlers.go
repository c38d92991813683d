package server

import (
	"conduit/internal/models"

	"github.com/gofiber/fiber/v2"
)

// ListComments handles GET /api/articles/:slug/comments
func (s *Server) ListComments(c *fiber.Ctx) error {
	comments, err := s.commentService.List(c.UserContext(), c.Params("slug"), viewerID(c))
	if err != nil {
		return models.Respond(c, err)
	}
	return c.JSON(fiber.Map{"comments": presentComments(comments)})
}

// AddComment handles POST /api/articles/:slug/comments
func (s *Server) AddComment(c *fiber.Ctx) error {
	var req struct {
		Comment struct {
			Body string `json:"body"`
		} `json:"comment"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.Respond(c, models.NewValidationError("invalid request body"))
	}

	comment, err := s.commentService.Add(c.UserContext(), c.Params("slug"), viewerID(c), req.Comment.Body)
	if err != nil {
		return models.Respond(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"comment": presentComment(comment)})
}

// DeleteComment handles DELETE /api/articles/:slug/comments/:id
func (s *Server) DeleteComment(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return models.Respond(c, models.NewValidationError("invalid comment ID"))
	}

	if err := s.commentService.Delete(c.UserContext(), c.Params("slug"), uint(id), viewerID(c)); err != nil {
		return models.Respond(c, err)
	}
	return c.SendStatus(fiber.StatusOK)
}
