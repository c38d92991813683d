package server

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func postComment(t *testing.T, app *fiber.App, tok, slug, text string) map[string]any {
	t.Helper()
	status, body := doJSON(t, app, http.MethodPost, "/api/articles/"+slug+"/comments", tok, fiber.Map{
		"comment": fiber.Map{"body": text},
	})
	require.Equal(t, http.StatusCreated, status, "comment %q: %v", text, body)
	return body["comment"].(map[string]any)
}

func TestComments(t *testing.T) {
	_, app := newTestServer(t)
	ada := registerUser(t, app, "ada")
	bob := registerUser(t, app, "bob")
	slug := createArticle(t, app, ada, "Hello World")

	t.Run("commenting requires authentication", func(t *testing.T) {
		status, _ := doJSON(t, app, http.MethodPost, "/api/articles/"+slug+"/comments", "", fiber.Map{
			"comment": fiber.Map{"body": "anon"},
		})
		assert.Equal(t, http.StatusUnauthorized, status)
	})

	t.Run("a created comment carries its author profile", func(t *testing.T) {
		comment := postComment(t, app, bob, slug, "first!")
		assert.Equal(t, "first!", comment["body"])
		assert.Equal(t, "bob", comment["author"].(map[string]any)["username"])
	})

	t.Run("blank body is a field error", func(t *testing.T) {
		status, body := doJSON(t, app, http.MethodPost, "/api/articles/"+slug+"/comments", bob, fiber.Map{
			"comment": fiber.Map{"body": "   "},
		})
		require.Equal(t, http.StatusUnprocessableEntity, status)
		assert.Contains(t, body["errors"].(map[string]any), "body")
	})

	t.Run("commenting on an unknown article is 404", func(t *testing.T) {
		status, _ := doJSON(t, app, http.MethodPost, "/api/articles/ghost-slug/comments", bob, fiber.Map{
			"comment": fiber.Map{"body": "hello"},
		})
		assert.Equal(t, http.StatusNotFound, status)
	})

	t.Run("listing is newest first and viewer-relative", func(t *testing.T) {
		postComment(t, app, ada, slug, "thanks bob")

		status, body := doJSON(t, app, http.MethodGet, "/api/articles/"+slug+"/comments", "", nil)
		require.Equal(t, http.StatusOK, status)

		comments := body["comments"].([]any)
		require.Len(t, comments, 2)
		assert.Equal(t, "thanks bob", comments[0].(map[string]any)["body"])
		assert.Equal(t, "first!", comments[1].(map[string]any)["body"])

		// bob follows nobody, so every author shows following false.
		for _, c := range comments {
			author := c.(map[string]any)["author"].(map[string]any)
			assert.Equal(t, false, author["following"])
		}
	})
}

func TestDeleteComment(t *testing.T) {
	_, app := newTestServer(t)
	ada := registerUser(t, app, "ada")
	bob := registerUser(t, app, "bob")
	slug := createArticle(t, app, ada, "Hello World")
	otherSlug := createArticle(t, app, ada, "Another One")

	comment := postComment(t, app, bob, slug, "to be deleted")
	commentID := int(comment["id"].(float64))

	commentPath := func(s string, id int) string {
		return fmt.Sprintf("/api/articles/%s/comments/%d", s, id)
	}

	t.Run("someone else's comment is forbidden", func(t *testing.T) {
		status, _ := doJSON(t, app, http.MethodDelete, commentPath(slug, commentID), ada, nil)
		assert.Equal(t, http.StatusForbidden, status)
	})

	t.Run("a comment addressed via the wrong article is 404", func(t *testing.T) {
		status, _ := doJSON(t, app, http.MethodDelete, commentPath(otherSlug, commentID), bob, nil)
		assert.Equal(t, http.StatusNotFound, status)
	})

	t.Run("the author deletes it", func(t *testing.T) {
		status, _ := doJSON(t, app, http.MethodDelete, commentPath(slug, commentID), bob, nil)
		require.Equal(t, http.StatusOK, status)

		status, body := doJSON(t, app, http.MethodGet, "/api/articles/"+slug+"/comments", "", nil)
		require.Equal(t, http.StatusOK, status)
		assert.Empty(t, body["comments"].([]any))
	})

	t.Run("deleting an unknown comment is 404", func(t *testing.T) {
		status, _ := doJSON(t, app, http.MethodDelete, commentPath(slug, 9999), bob, nil)
		assert.Equal(t, http.StatusNotFound, status)
	})
}
