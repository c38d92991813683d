package service

import (
	"context"
	"strings"

	"conduit/internal/models"
	"conduit/internal/repository"
	"conduit/internal/validation"
)

const maxCommentLen = 5000

// CommentService handles commenting on articles.
type CommentService struct {
	commentRepo repository.CommentRepository
	articleRepo repository.ArticleRepository
	sanitizer   validation.Sanitizer
}

// NewCommentService returns a new CommentService.
func NewCommentService(commentRepo repository.CommentRepository, articleRepo repository.ArticleRepository) *CommentService {
	return &CommentService{
		commentRepo: commentRepo,
		articleRepo: articleRepo,
		sanitizer:   validation.BasicSanitizer{},
	}
}

// Add attaches a comment to the article behind slug.
func (s *CommentService) Add(ctx context.Context, slug string, userID uint, body string) (*models.Comment, error) {
	cleaned := s.sanitizer.Clean(body)
	if strings.TrimSpace(cleaned) == "" {
		return nil, models.NewFieldErrors(map[string][]string{"body": {"can't be blank"}})
	}
	if len(cleaned) > maxCommentLen {
		return nil, models.NewFieldErrors(map[string][]string{"body": {"is too long"}})
	}

	article, err := s.articleRepo.GetBySlug(ctx, slug, userID)
	if err != nil {
		return nil, err
	}

	comment := &models.Comment{
		Body:      cleaned,
		UserID:    userID,
		ArticleID: article.ID,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

// List returns the article's comments, newest first.
func (s *CommentService) List(ctx context.Context, slug string, viewerID uint) ([]*models.Comment, error) {
	article, err := s.articleRepo.GetBySlug(ctx, slug, viewerID)
	if err != nil {
		return nil, err
	}
	return s.commentRepo.ListByArticle(ctx, article.ID, viewerID)
}

// Delete removes a comment. Only the comment's author may delete it, and the
// comment must belong to the article addressed by slug.
func (s *CommentService) Delete(ctx context.Context, slug string, commentID, userID uint) error {
	article, err := s.articleRepo.GetBySlug(ctx, slug, userID)
	if err != nil {
		return err
	}

	comment, err := s.commentRepo.GetByID(ctx, commentID)
	if err != nil {
		return err
	}
	if comment.ArticleID != article.ID {
		return models.NewNotFoundError("Comment", commentID)
	}
	if comment.UserID != userID {
		return models.NewForbiddenError("you do not own this comment")
	}
	return s.commentRepo.Delete(ctx, commentID)
}
