package service

import (
	"context"
	"testing"

	"conduit/internal/models"
	"conduit/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Function-field stubs so each test overrides only what it needs.

type userRepoStub struct {
	getByIDFn       func(ctx context.Context, id uint) (*models.User, error)
	getByEmailFn    func(ctx context.Context, email string) (*models.User, error)
	getByUsernameFn func(ctx context.Context, username string) (*models.User, error)
	createFn        func(ctx context.Context, user *models.User) error
	updateFn        func(ctx context.Context, user *models.User) error
	followFn        func(ctx context.Context, followerID, followedID uint) error
	unfollowFn      func(ctx context.Context, followerID, followedID uint) error
	isFollowingFn   func(ctx context.Context, followerID, followedID uint) (bool, error)
}

func (s *userRepoStub) GetByID(ctx context.Context, id uint) (*models.User, error) {
	return s.getByIDFn(ctx, id)
}
func (s *userRepoStub) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.getByEmailFn(ctx, email)
}
func (s *userRepoStub) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.getByUsernameFn(ctx, username)
}
func (s *userRepoStub) Create(ctx context.Context, user *models.User) error {
	return s.createFn(ctx, user)
}
func (s *userRepoStub) Update(ctx context.Context, user *models.User) error {
	return s.updateFn(ctx, user)
}
func (s *userRepoStub) Follow(ctx context.Context, followerID, followedID uint) error {
	return s.followFn(ctx, followerID, followedID)
}
func (s *userRepoStub) Unfollow(ctx context.Context, followerID, followedID uint) error {
	return s.unfollowFn(ctx, followerID, followedID)
}
func (s *userRepoStub) IsFollowing(ctx context.Context, followerID, followedID uint) (bool, error) {
	return s.isFollowingFn(ctx, followerID, followedID)
}

// noopUserRepo returns a stub whose methods all succeed with zero values.
func noopUserRepo() *userRepoStub {
	return &userRepoStub{
		getByIDFn:       func(context.Context, uint) (*models.User, error) { return &models.User{}, nil },
		getByEmailFn:    func(context.Context, string) (*models.User, error) { return nil, nil },
		getByUsernameFn: func(context.Context, string) (*models.User, error) { return nil, nil },
		createFn:        func(context.Context, *models.User) error { return nil },
		updateFn:        func(context.Context, *models.User) error { return nil },
		followFn:        func(context.Context, uint, uint) error { return nil },
		unfollowFn:      func(context.Context, uint, uint) error { return nil },
		isFollowingFn:   func(context.Context, uint, uint) (bool, error) { return false, nil },
	}
}

type articleRepoStub struct {
	createFn     func(ctx context.Context, article *models.Article, tagNames []string) error
	getBySlugFn  func(ctx context.Context, slug string, viewerID uint) (*models.Article, error)
	listFn       func(ctx context.Context, filters repository.ListFilters, limit, offset int, viewerID uint) ([]*models.Article, int64, error)
	feedFn       func(ctx context.Context, viewerID uint, limit, offset int) ([]*models.Article, int64, error)
	updateFn     func(ctx context.Context, article *models.Article, tagNames []string) error
	deleteFn     func(ctx context.Context, article *models.Article) error
	favoriteFn   func(ctx context.Context, userID uint, article *models.Article) error
	unfavoriteFn func(ctx context.Context, userID uint, article *models.Article) error
}

func (s *articleRepoStub) Create(ctx context.Context, article *models.Article, tagNames []string) error {
	return s.createFn(ctx, article, tagNames)
}
func (s *articleRepoStub) GetBySlug(ctx context.Context, slug string, viewerID uint) (*models.Article, error) {
	return s.getBySlugFn(ctx, slug, viewerID)
}
func (s *articleRepoStub) List(ctx context.Context, filters repository.ListFilters, limit, offset int, viewerID uint) ([]*models.Article, int64, error) {
	return s.listFn(ctx, filters, limit, offset, viewerID)
}
func (s *articleRepoStub) Feed(ctx context.Context, viewerID uint, limit, offset int) ([]*models.Article, int64, error) {
	return s.feedFn(ctx, viewerID, limit, offset)
}
func (s *articleRepoStub) Update(ctx context.Context, article *models.Article, tagNames []string) error {
	return s.updateFn(ctx, article, tagNames)
}
func (s *articleRepoStub) Delete(ctx context.Context, article *models.Article) error {
	return s.deleteFn(ctx, article)
}
func (s *articleRepoStub) Favorite(ctx context.Context, userID uint, article *models.Article) error {
	return s.favoriteFn(ctx, userID, article)
}
func (s *articleRepoStub) Unfavorite(ctx context.Context, userID uint, article *models.Article) error {
	return s.unfavoriteFn(ctx, userID, article)
}

func noopArticleRepo() *articleRepoStub {
	return &articleRepoStub{
		createFn: func(context.Context, *models.Article, []string) error { return nil },
		getBySlugFn: func(_ context.Context, slug string, _ uint) (*models.Article, error) {
			return &models.Article{Slug: slug}, nil
		},
		listFn: func(context.Context, repository.ListFilters, int, int, uint) ([]*models.Article, int64, error) {
			return nil, 0, nil
		},
		feedFn: func(context.Context, uint, int, int) ([]*models.Article, int64, error) {
			return nil, 0, nil
		},
		updateFn:     func(context.Context, *models.Article, []string) error { return nil },
		deleteFn:     func(context.Context, *models.Article) error { return nil },
		favoriteFn:   func(context.Context, uint, *models.Article) error { return nil },
		unfavoriteFn: func(context.Context, uint, *models.Article) error { return nil },
	}
}

type commentRepoStub struct {
	createFn        func(ctx context.Context, comment *models.Comment) error
	getByIDFn       func(ctx context.Context, id uint) (*models.Comment, error)
	listByArticleFn func(ctx context.Context, articleID uint, viewerID uint) ([]*models.Comment, error)
	deleteFn        func(ctx context.Context, id uint) error
}

func (s *commentRepoStub) Create(ctx context.Context, comment *models.Comment) error {
	return s.createFn(ctx, comment)
}
func (s *commentRepoStub) GetByID(ctx context.Context, id uint) (*models.Comment, error) {
	return s.getByIDFn(ctx, id)
}
func (s *commentRepoStub) ListByArticle(ctx context.Context, articleID uint, viewerID uint) ([]*models.Comment, error) {
	return s.listByArticleFn(ctx, articleID, viewerID)
}
func (s *commentRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}

func noopCommentRepo() *commentRepoStub {
	return &commentRepoStub{
		createFn:        func(context.Context, *models.Comment) error { return nil },
		getByIDFn:       func(context.Context, uint) (*models.Comment, error) { return &models.Comment{}, nil },
		listByArticleFn: func(context.Context, uint, uint) ([]*models.Comment, error) { return nil, nil },
		deleteFn:        func(context.Context, uint) error { return nil },
	}
}

type tagRepoStub struct {
	listPopularFn func(ctx context.Context) ([]string, error)
}

func (s *tagRepoStub) ListPopular(ctx context.Context) ([]string, error) {
	return s.listPopularFn(ctx)
}

func assertValidationError(t *testing.T, err error) {
	t.Helper()
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, models.CodeValidation, appErr.Code)
}

func assertErrorCode(t *testing.T, err error, code string) {
	t.Helper()
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, code, appErr.Code)
}
