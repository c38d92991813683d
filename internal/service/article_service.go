package service

import (
	"context"
	"strings"

	"conduit/internal/models"
	"conduit/internal/repository"
	"conduit/internal/slug"
	"conduit/internal/validation"
)

const (
	// DefaultLimit is used when the client does not ask for a page size.
	DefaultLimit = 20
	// MaxLimit caps the page size regardless of what the client asks for.
	MaxLimit = 500

	maxTitleLen = 255
	maxTagLen   = 100
	maxTags     = 10
)

// ArticleService handles article publishing, listing, favorites and the tag
// inventory.
type ArticleService struct {
	articleRepo repository.ArticleRepository
	tagRepo     repository.TagRepository
	sanitizer   validation.Sanitizer
}

// NewArticleService returns a new ArticleService.
func NewArticleService(articleRepo repository.ArticleRepository, tagRepo repository.TagRepository) *ArticleService {
	return &ArticleService{
		articleRepo: articleRepo,
		tagRepo:     tagRepo,
		sanitizer:   validation.BasicSanitizer{},
	}
}

// ClampPagination normalizes a requested page window. Limits outside
// [1, MaxLimit] fall back to the default or the cap; negative offsets
// become zero.
func ClampPagination(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

// ListArticlesInput narrows and pages the global article listing.
type ListArticlesInput struct {
	Tag         string
	Author      string
	FavoritedBy string
	Limit       int
	Offset      int
	ViewerID    uint
}

// List returns the filtered article page plus the total match count.
func (s *ArticleService) List(ctx context.Context, in ListArticlesInput) ([]*models.Article, int64, error) {
	limit, offset := ClampPagination(in.Limit, in.Offset)
	filters := repository.ListFilters{
		Tag:         in.Tag,
		Author:      in.Author,
		FavoritedBy: in.FavoritedBy,
	}
	return s.articleRepo.List(ctx, filters, limit, offset, in.ViewerID)
}

// Feed returns recent articles from authors the viewer follows.
func (s *ArticleService) Feed(ctx context.Context, viewerID uint, limit, offset int) ([]*models.Article, int64, error) {
	limit, offset = ClampPagination(limit, offset)
	return s.articleRepo.Feed(ctx, viewerID, limit, offset)
}

// Get returns a single article by slug with viewer-relative fields.
func (s *ArticleService) Get(ctx context.Context, slugStr string, viewerID uint) (*models.Article, error) {
	return s.articleRepo.GetBySlug(ctx, slugStr, viewerID)
}

// CreateArticleInput carries the fields for a new article.
type CreateArticleInput struct {
	AuthorID    uint
	Title       string
	Description string
	Body        string
	TagList     []string
}

// Create validates and publishes a new article under a fresh unique slug.
func (s *ArticleService) Create(ctx context.Context, in CreateArticleInput) (*models.Article, error) {
	title := s.sanitizer.Clean(in.Title)
	description := s.sanitizer.Clean(in.Description)

	fields := map[string][]string{}
	if title == "" {
		fields["title"] = append(fields["title"], "can't be blank")
	}
	if len(title) > maxTitleLen {
		fields["title"] = append(fields["title"], "is too long")
	}
	if strings.TrimSpace(in.Body) == "" {
		fields["body"] = append(fields["body"], "can't be blank")
	}
	if len(in.TagList) > maxTags {
		fields["tagList"] = append(fields["tagList"], "too many tags")
	}
	tags := make([]string, 0, len(in.TagList))
	for _, raw := range in.TagList {
		tag := strings.TrimSpace(raw)
		if tag == "" {
			continue
		}
		if len(tag) > maxTagLen {
			fields["tagList"] = append(fields["tagList"], "tag is too long")
			continue
		}
		tags = append(tags, tag)
	}
	if len(fields) > 0 {
		return nil, models.NewFieldErrors(fields)
	}

	article := &models.Article{
		Slug:        slug.Make(title),
		Title:       title,
		Description: description,
		Body:        in.Body,
		AuthorID:    in.AuthorID,
	}
	if err := s.articleRepo.Create(ctx, article, tags); err != nil {
		return nil, err
	}

	// Re-read so the author association is populated.
	return s.articleRepo.GetBySlug(ctx, article.Slug, in.AuthorID)
}

// UpdateArticleInput carries a partial article update addressed by slug.
// A nil TagList leaves the tag association untouched; a non-nil slice
// replaces it.
type UpdateArticleInput struct {
	Slug        string
	ViewerID    uint
	Title       *string
	Description *string
	Body        *string
	TagList     []string
}

// Update applies the provided fields. Only the author may update, and the
// slug is regenerated only when the title meaningfully changes.
func (s *ArticleService) Update(ctx context.Context, in UpdateArticleInput) (*models.Article, error) {
	article, err := s.articleRepo.GetBySlug(ctx, in.Slug, in.ViewerID)
	if err != nil {
		return nil, err
	}
	if article.AuthorID != in.ViewerID {
		return nil, models.NewForbiddenError("you do not own this article")
	}

	if in.Title != nil {
		title := s.sanitizer.Clean(*in.Title)
		if title == "" {
			return nil, models.NewFieldErrors(map[string][]string{"title": {"can't be blank"}})
		}
		if len(title) > maxTitleLen {
			return nil, models.NewFieldErrors(map[string][]string{"title": {"is too long"}})
		}
		if slug.Base(title) != slug.Base(article.Title) {
			article.Slug = slug.Make(title)
		}
		article.Title = title
	}
	if in.Description != nil {
		article.Description = s.sanitizer.Clean(*in.Description)
	}
	if in.Body != nil {
		if strings.TrimSpace(*in.Body) == "" {
			return nil, models.NewFieldErrors(map[string][]string{"body": {"can't be blank"}})
		}
		article.Body = *in.Body
	}

	var tags []string
	if in.TagList != nil {
		if len(in.TagList) > maxTags {
			return nil, models.NewFieldErrors(map[string][]string{"tagList": {"too many tags"}})
		}
		tags = make([]string, 0, len(in.TagList))
		for _, raw := range in.TagList {
			tag := strings.TrimSpace(raw)
			if tag == "" {
				continue
			}
			if len(tag) > maxTagLen {
				return nil, models.NewFieldErrors(map[string][]string{"tagList": {"tag is too long"}})
			}
			tags = append(tags, tag)
		}
	}

	if err := s.articleRepo.Update(ctx, article, tags); err != nil {
		return nil, err
	}
	return s.articleRepo.GetBySlug(ctx, article.Slug, in.ViewerID)
}

// Delete removes an article. Only the author may delete.
func (s *ArticleService) Delete(ctx context.Context, slugStr string, viewerID uint) error {
	article, err := s.articleRepo.GetBySlug(ctx, slugStr, viewerID)
	if err != nil {
		return err
	}
	if article.AuthorID != viewerID {
		return models.NewForbiddenError("you do not own this article")
	}
	return s.articleRepo.Delete(ctx, article)
}

// Favorite marks the article as favorited by the user and returns the
// refreshed article.
func (s *ArticleService) Favorite(ctx context.Context, slugStr string, userID uint) (*models.Article, error) {
	article, err := s.articleRepo.GetBySlug(ctx, slugStr, userID)
	if err != nil {
		return nil, err
	}
	if err := s.articleRepo.Favorite(ctx, userID, article); err != nil {
		return nil, err
	}
	return s.articleRepo.GetBySlug(ctx, slugStr, userID)
}

// Unfavorite removes the user's favorite and returns the refreshed article.
func (s *ArticleService) Unfavorite(ctx context.Context, slugStr string, userID uint) (*models.Article, error) {
	article, err := s.articleRepo.GetBySlug(ctx, slugStr, userID)
	if err != nil {
		return nil, err
	}
	if err := s.articleRepo.Unfavorite(ctx, userID, article); err != nil {
		return nil, err
	}
	return s.articleRepo.GetBySlug(ctx, slugStr, userID)
}

// Tags returns the most used tag names.
func (s *ArticleService) Tags(ctx context.Context) ([]string, error) {
	return s.tagRepo.ListPopular(ctx)
}
