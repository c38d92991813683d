package server

import (
	"conduit/internal/models"
	"conduit/internal/service"

	"github.com/gofiber/fiber/v2"
)

// ListArticles handles GET /api/articles. All filters are conjunctive;
// unknown tag/author/favoriter values yield an empty page, not an error.
func (s *Server) ListArticles(c *fiber.Ctx) error {
	page := parsePagination(c)
	articles, total, err := s.articleService.List(c.UserContext(), service.ListArticlesInput{
		Tag:         c.Query("tag"),
		Author:      c.Query("author"),
		FavoritedBy: c.Query("favorited"),
		Limit:       page.Limit,
		Offset:      page.Offset,
		ViewerID:    viewerID(c),
	})
	if err != nil {
		return models.Respond(c, err)
	}
	return c.JSON(fiber.Map{
		"articles":      presentArticles(articles),
		"articlesCount": total,
	})
}

// Feed handles GET /api/articles/feed
func (s *Server) Feed(c *fiber.Ctx) error {
	page := parsePagination(c)
	articles, total, err := s.articleService.Feed(c.UserContext(), viewerID(c), page.Limit, page.Offset)
	if err != nil {
		return models.Respond(c, err)
	}
	return c.JSON(fiber.Map{
		"articles":      presentArticles(articles),
		"articlesCount": total,
	})
}

// GetArticle handles GET /api/articles/:slug
func (s *Server) GetArticle(c *fiber.Ctx) error {
	article, err := s.articleService.Get(c.UserContext(), c.Params("slug"), viewerID(c))
	if err != nil {
		return models.Respond(c, err)
	}
	return c.JSON(fiber.Map{"article": presentArticle(article)})
}

// CreateArticle handles POST /api/articles
func (s *Server) CreateArticle(c *fiber.Ctx) error {
	var req struct {
		Article struct {
			Title       string   `json:"title"`
			Description string   `json:"description"`
			Body        string   `json:"body"`
			TagList     []string `json:"tagList"`
		} `json:"article"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.Respond(c, models.NewValidationError("invalid request body"))
	}

	article, err := s.articleService.Create(c.UserContext(), service.CreateArticleInput{
		AuthorID:    viewerID(c),
		Title:       req.Article.Title,
		Description: req.Article.Description,
		Body:        req.Article.Body,
		TagList:     req.Article.TagList,
	})
	if err != nil {
		return models.Respond(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"article": presentArticle(article)})
}

// UpdateArticle handles PUT /api/articles/:slug. Absent fields stay
// untouched; a present tagList replaces the tag set.
func (s *Server) UpdateArticle(c *fiber.Ctx) error {
	var req struct {
		Article struct {
			Title       *string  `json:"title"`
			Description *string  `json:"description"`
			Body        *string  `json:"body"`
			TagList     []string `json:"tagList"`
		} `json:"article"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.Respond(c, models.NewValidationError("invalid request body"))
	}

	article, err := s.articleService.Update(c.UserContext(), service.UpdateArticleInput{
		Slug:        c.Params("slug"),
		ViewerID:    viewerID(c),
		Title:       req.Article.Title,
		Description: req.Article.Description,
		Body:        req.Article.Body,
		TagList:     req.Article.TagList,
	})
	if err != nil {
		return models.Respond(c, err)
	}
	return c.JSON(fiber.Map{"article": presentArticle(article)})
}

// DeleteArticle handles DELETE /api/articles/:slug
func (s *Server) DeleteArticle(c *fiber.Ctx) error {
	if err := s.articleService.Delete(c.UserContext(), c.Params("slug"), viewerID(c)); err != nil {
		return models.Respond(c, err)
	}
	return c.SendStatus(fiber.StatusOK)
}

// FavoriteArticle handles POST /api/articles/:slug/favorite
func (s *Server) FavoriteArticle(c *fiber.Ctx) error {
	article, err := s.articleService.Favorite(c.UserContext(), c.Params("slug"), viewerID(c))
	if err != nil {
		return models.Respond(c, err)
	}
	return c.JSON(fiber.Map{"article": presentArticle(article)})
}

// UnfavoriteArticle handles DELETE /api/articles/:slug/favorite
func (s *Server) UnfavoriteArticle(c *fiber.Ctx) error {
	article, err := s.articleService.Unfavorite(c.UserContext(), c.Params("slug"), viewerID(c))
	if err != nil {
		return models.Respond(c, err)
	}
	return c.JSON(fiber.Map{"article": presentArticle(article)})
}
