// Package middleware provides authentication, logging, tracing and rate
// limiting middleware for the HTTP layer.
package middleware

import (
	"context"
	"strings"

	"conduit/internal/config"
	"conduit/internal/models"
	"conduit/internal/token"

	"github.com/gofiber/fiber/v2"
)

var cfg *config.Config

// InitMiddleware initializes authentication middleware with the given config.
func InitMiddleware(c *config.Config) {
	cfg = c
}

const tokenScheme = "Token "

// extractToken pulls the credential out of an Authorization header using the
// "Token <jwt>" scheme. The scheme word is matched case-insensitively.
func extractToken(header string) (string, bool) {
	if len(header) < len(tokenScheme) {
		return "", false
	}
	if !strings.EqualFold(header[:len(tokenScheme)], tokenScheme) {
		return "", false
	}
	return strings.TrimSpace(header[len(tokenScheme):]), true
}

// authenticate verifies the Authorization header and stores the caller
// identity in Fiber locals and the user context. A missing header is reported
// as unauthenticated; a malformed scheme or an invalid token as forbidden.
func authenticate(c *fiber.Ctx) error {
	header := c.Get(fiber.HeaderAuthorization)
	if header == "" {
		return models.NewUnauthorizedError("authorization required")
	}

	raw, ok := extractToken(header)
	if !ok || raw == "" {
		return models.NewForbiddenError("invalid authorization scheme")
	}

	identity, err := token.Verify(raw, cfg.JWTSecret)
	if err != nil {
		return models.NewForbiddenError("invalid or expired token")
	}

	c.Locals("userID", identity.ID)
	c.Locals("username", identity.Username)

	ctx := context.WithValue(c.UserContext(), UserIDKey, identity.ID)
	c.SetUserContext(ctx)

	return c.Next()
}

// AuthRequired enforces authentication for protected routes.
func AuthRequired(c *fiber.Ctx) error {
	if err := authenticate(c); err != nil {
		return models.Respond(c, err)
	}
	return nil
}

// AuthOptional authenticates the caller when an Authorization header is
// present and lets anonymous requests through. A header that is present but
// invalid is still rejected so clients learn their token is bad instead of
// silently losing their viewer-specific fields.
func AuthOptional(c *fiber.Ctx) error {
	if c.Get(fiber.HeaderAuthorization) == "" {
		return c.Next()
	}
	return AuthRequired(c)
}

// CurrentUserID returns the authenticated user ID from Fiber locals, or zero
// when the request is anonymous.
func CurrentUserID(c *fiber.Ctx) uint {
	if uid, ok := c.Locals("userID").(uint); ok {
		return uid
	}
	return 0
}
