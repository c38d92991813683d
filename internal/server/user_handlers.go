package server

import (
	"conduit/internal/models"
	"conduit/internal/service"
	"conduit/internal/token"

	"github.com/gofiber/fiber/v2"
)

// Register handles POST /api/users
func (s *Server) Register(c *fiber.Ctx) error {
	var req struct {
		User struct {
			Username string `json:"username"`
			Email    string `json:"email"`
			Password string `json:"password"`
		} `json:"user"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.Respond(c, models.NewValidationError("invalid request body"))
	}

	user, err := s.userService.Register(c.UserContext(), service.RegisterInput{
		Username: req.User.Username,
		Email:    req.User.Email,
		Password: req.User.Password,
	})
	if err != nil {
		return models.Respond(c, err)
	}

	return s.respondWithUser(c, fiber.StatusCreated, user)
}

// Login handles POST /api/users/login
func (s *Server) Login(c *fiber.Ctx) error {
	var req struct {
		User struct {
			Email    string `json:"email"`
			Password string `json:"password"`
		} `json:"user"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.Respond(c, models.NewValidationError("invalid request body"))
	}

	user, err := s.userService.Login(c.UserContext(), req.User.Email, req.User.Password)
	if err != nil {
		return models.Respond(c, err)
	}

	return s.respondWithUser(c, fiber.StatusOK, user)
}

// CurrentUser handles GET /api/user
func (s *Server) CurrentUser(c *fiber.Ctx) error {
	user, err := s.userService.GetByID(c.UserContext(), viewerID(c))
	if err != nil {
		return models.Respond(c, err)
	}
	return s.respondWithUser(c, fiber.StatusOK, user)
}

// UpdateUser handles PUT /api/user. Absent fields stay untouched.
func (s *Server) UpdateUser(c *fiber.Ctx) error {
	var req struct {
		User struct {
			Email    *string `json:"email"`
			Username *string `json:"username"`
			Password *string `json:"password"`
			Bio      *string `json:"bio"`
			Image    *string `json:"image"`
		} `json:"user"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.Respond(c, models.NewValidationError("invalid request body"))
	}

	user, err := s.userService.Update(c.UserContext(), service.UpdateUserInput{
		UserID:   viewerID(c),
		Email:    req.User.Email,
		Username: req.User.Username,
		Password: req.User.Password,
		Bio:      req.User.Bio,
		Image:    req.User.Image,
	})
	if err != nil {
		return models.Respond(c, err)
	}

	return s.respondWithUser(c, fiber.StatusOK, user)
}

// respondWithUser issues a fresh token and writes the {user} envelope.
func (s *Server) respondWithUser(c *fiber.Ctx, status int, user *models.User) error {
	tok, err := token.Issue(user.ID, user.Username, s.config.JWTSecret, s.config.TokenTTL())
	if err != nil {
		return models.Respond(c, models.NewInternalError(err))
	}
	return c.Status(status).JSON(fiber.Map{
		"user": presentUser(user, tok),
	})
}
