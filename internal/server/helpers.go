package server

import (
	"conduit/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

// Pagination holds parsed limit/offset query parameters. Clamping to the
// service bounds happens in the service layer.
type Pagination struct {
	Limit  int
	Offset int
}

// parsePagination extracts limit and offset query parameters.
func parsePagination(c *fiber.Ctx) Pagination {
	return Pagination{
		Limit:  c.QueryInt("limit", 0),
		Offset: c.QueryInt("offset", 0),
	}
}

// viewerID returns the authenticated user's ID, or 0 for anonymous requests.
func viewerID(c *fiber.Ctx) uint {
	return middleware.CurrentUserID(c)
}
