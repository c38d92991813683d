package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"conduit/internal/config"
	"conduit/internal/database"
	"conduit/internal/middleware"
	"conduit/internal/repository"
	"conduit/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const testSecret = "handler-test-secret"

// newTestServer wires a Server over an in-memory database and returns the
// routed app. No HTTP middleware stack: handlers and the auth middleware on
// each route are what is under test.
func newTestServer(t *testing.T) (*Server, *fiber.App) {
	t.Helper()

	// TranslateError stays off: the raw sqlite constraint message carries the
	// column name, which the repository maps to a per-field error.
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(database.PersistentModels()...))

	cfg := &config.Config{
		Port:          "0",
		Env:           "test",
		JWTSecret:     testSecret,
		TokenTTLHours: 1,
	}

	middleware.InitMiddleware(cfg)

	// Built by hand rather than through NewServerWithDeps so repeated test
	// construction does not re-register the Prometheus collectors.
	userRepo := repository.NewUserRepository(db)
	articleRepo := repository.NewArticleRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	tagRepo := repository.NewTagRepository(db)

	s := &Server{
		config:         cfg,
		db:             db,
		userService:    service.NewUserService(userRepo),
		articleService: service.NewArticleService(articleRepo, tagRepo),
		commentService: service.NewCommentService(commentRepo, articleRepo),
	}

	app := fiber.New()
	s.SetupRoutes(app)
	return s, app
}

// doJSON performs a request with an optional token and decodes the response
// body into a generic map.
func doJSON(t *testing.T, app *fiber.App, method, path, tok string, body any) (int, map[string]any) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if tok != "" {
		req.Header.Set("Authorization", "Token "+tok)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	decoded := map[string]any{}
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &decoded), "body: %s", raw)
	}
	return resp.StatusCode, decoded
}

// registerUser creates an account through the API and returns its token.
func registerUser(t *testing.T, app *fiber.App, username string) string {
	t.Helper()

	status, body := doJSON(t, app, http.MethodPost, "/api/users", "", fiber.Map{
		"user": fiber.Map{
			"username": username,
			"email":    fmt.Sprintf("%s@example.com", username),
			"password": "password123",
		},
	})
	require.Equal(t, http.StatusCreated, status, "register %s: %v", username, body)

	user := body["user"].(map[string]any)
	return user["token"].(string)
}

// createArticle publishes an article through the API and returns its slug.
func createArticle(t *testing.T, app *fiber.App, tok, title string, tags ...string) string {
	t.Helper()

	status, body := doJSON(t, app, http.MethodPost, "/api/articles", tok, fiber.Map{
		"article": fiber.Map{
			"title":       title,
			"description": "about " + title,
			"body":        "body of " + title,
			"tagList":     tags,
		},
	})
	require.Equal(t, http.StatusCreated, status, "create article %q: %v", title, body)

	article := body["article"].(map[string]any)
	return article["slug"].(string)
}
