package server

import (
	"net/http"
	"testing"

	"conduit/internal/token"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegister(t *testing.T) {
	_, app := newTestServer(t)

	t.Run("creates the account and returns a verifiable token", func(t *testing.T) {
		status, body := doJSON(t, app, http.MethodPost, "/api/users", "", fiber.Map{
			"user": fiber.Map{
				"username": "ada",
				"email":    "ada@example.com",
				"password": "password123",
			},
		})
		require.Equal(t, http.StatusCreated, status)

		user := body["user"].(map[string]any)
		assert.Equal(t, "ada", user["username"])
		assert.Equal(t, "ada@example.com", user["email"])
		assert.NotContains(t, user, "password")

		identity, err := token.Verify(user["token"].(string), testSecret)
		require.NoError(t, err)
		assert.Equal(t, "ada", identity.Username)
	})

	t.Run("field errors come back per field", func(t *testing.T) {
		status, body := doJSON(t, app, http.MethodPost, "/api/users", "", fiber.Map{
			"user": fiber.Map{
				"username": "x",
				"email":    "not-an-email",
				"password": "short",
			},
		})
		require.Equal(t, http.StatusUnprocessableEntity, status)

		errs := body["errors"].(map[string]any)
		assert.Contains(t, errs, "username")
		assert.Contains(t, errs, "email")
		assert.Contains(t, errs, "password")
	})

	t.Run("taken email is rejected", func(t *testing.T) {
		status, body := doJSON(t, app, http.MethodPost, "/api/users", "", fiber.Map{
			"user": fiber.Map{
				"username": "ada2",
				"email":    "ada@example.com",
				"password": "password123",
			},
		})
		require.Equal(t, http.StatusUnprocessableEntity, status)
		errs := body["errors"].(map[string]any)
		assert.Contains(t, errs, "email")
	})
}

func TestLogin(t *testing.T) {
	_, app := newTestServer(t)
	registerUser(t, app, "ada")

	t.Run("valid credentials return the user envelope", func(t *testing.T) {
		status, body := doJSON(t, app, http.MethodPost, "/api/users/login", "", fiber.Map{
			"user": fiber.Map{"email": "ada@example.com", "password": "password123"},
		})
		require.Equal(t, http.StatusOK, status)

		user := body["user"].(map[string]any)
		assert.Equal(t, "ada", user["username"])
		assert.NotEmpty(t, user["token"])
	})

	t.Run("wrong password and unknown email are indistinguishable", func(t *testing.T) {
		statusWrong, bodyWrong := doJSON(t, app, http.MethodPost, "/api/users/login", "", fiber.Map{
			"user": fiber.Map{"email": "ada@example.com", "password": "wrongpass1"},
		})
		statusGhost, bodyGhost := doJSON(t, app, http.MethodPost, "/api/users/login", "", fiber.Map{
			"user": fiber.Map{"email": "ghost@example.com", "password": "password123"},
		})

		assert.Equal(t, http.StatusUnprocessableEntity, statusWrong)
		assert.Equal(t, statusWrong, statusGhost)
		assert.Equal(t, bodyWrong, bodyGhost)
	})
}

func TestCurrentUser(t *testing.T) {
	_, app := newTestServer(t)
	tok := registerUser(t, app, "ada")

	t.Run("returns the account behind the token", func(t *testing.T) {
		status, body := doJSON(t, app, http.MethodGet, "/api/user", tok, nil)
		require.Equal(t, http.StatusOK, status)
		user := body["user"].(map[string]any)
		assert.Equal(t, "ada", user["username"])
	})

	t.Run("requires authentication", func(t *testing.T) {
		status, _ := doJSON(t, app, http.MethodGet, "/api/user", "", nil)
		assert.Equal(t, http.StatusUnauthorized, status)
	})

	t.Run("rejects a garbage token", func(t *testing.T) {
		status, _ := doJSON(t, app, http.MethodGet, "/api/user", "not-a-jwt", nil)
		assert.Equal(t, http.StatusForbidden, status)
	})
}

func TestUpdateUser(t *testing.T) {
	_, app := newTestServer(t)
	tok := registerUser(t, app, "ada")
	registerUser(t, app, "bob")

	t.Run("partial update leaves other fields alone", func(t *testing.T) {
		status, body := doJSON(t, app, http.MethodPut, "/api/user", tok, fiber.Map{
			"user": fiber.Map{"bio": "mathematician"},
		})
		require.Equal(t, http.StatusOK, status)

		user := body["user"].(map[string]any)
		assert.Equal(t, "mathematician", user["bio"])
		assert.Equal(t, "ada", user["username"])
		assert.Equal(t, "ada@example.com", user["email"])
	})

	t.Run("taken username is rejected", func(t *testing.T) {
		status, body := doJSON(t, app, http.MethodPut, "/api/user", tok, fiber.Map{
			"user": fiber.Map{"username": "bob"},
		})
		require.Equal(t, http.StatusUnprocessableEntity, status)
		errs := body["errors"].(map[string]any)
		assert.Contains(t, errs, "username")
	})

	t.Run("requires authentication", func(t *testing.T) {
		status, _ := doJSON(t, app, http.MethodPut, "/api/user", "", fiber.Map{
			"user": fiber.Map{"bio": "anon"},
		})
		assert.Equal(t, http.StatusUnauthorized, status)
	})
}
