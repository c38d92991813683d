package service

import (
	"context"
	"strings"
	"testing"

	"conduit/internal/models"
	"conduit/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClampPagination(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name       string
		limit      int
		offset     int
		wantLimit  int
		wantOffset int
	}{
		{"defaults", 0, 0, DefaultLimit, 0},
		{"negative limit", -5, 0, DefaultLimit, 0},
		{"explicit limit", 50, 10, 50, 10},
		{"limit at cap", MaxLimit, 0, MaxLimit, 0},
		{"limit above cap", MaxLimit + 1, 0, MaxLimit, 0},
		{"negative offset", 20, -10, 20, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			limit, offset := ClampPagination(tt.limit, tt.offset)
			assert.Equal(t, tt.wantLimit, limit)
			assert.Equal(t, tt.wantOffset, offset)
		})
	}
}

func TestArticleService_List_PassesClampedWindow(t *testing.T) {
	t.Parallel()

	repo := noopArticleRepo()
	var gotFilters repository.ListFilters
	var gotLimit, gotOffset int
	var gotViewer uint
	repo.listFn = func(_ context.Context, filters repository.ListFilters, limit, offset int, viewerID uint) ([]*models.Article, int64, error) {
		gotFilters, gotLimit, gotOffset, gotViewer = filters, limit, offset, viewerID
		return nil, 0, nil
	}
	svc := NewArticleService(repo, &tagRepoStub{})

	_, _, err := svc.List(context.Background(), ListArticlesInput{
		Tag:      "go",
		Author:   "jake",
		Limit:    9999,
		Offset:   -3,
		ViewerID: 42,
	})
	require.NoError(t, err)
	assert.Equal(t, "go", gotFilters.Tag)
	assert.Equal(t, "jake", gotFilters.Author)
	assert.Equal(t, MaxLimit, gotLimit)
	assert.Zero(t, gotOffset)
	assert.EqualValues(t, 42, gotViewer)
}

func TestArticleService_Create(t *testing.T) {
	t.Parallel()

	t.Run("builds a slugged article and trims tags", func(t *testing.T) {
		t.Parallel()
		repo := noopArticleRepo()
		var created *models.Article
		var createdTags []string
		repo.createFn = func(_ context.Context, a *models.Article, tags []string) error {
			created = a
			createdTags = tags
			return nil
		}
		repo.getBySlugFn = func(_ context.Context, slug string, _ uint) (*models.Article, error) {
			return created, nil
		}
		svc := NewArticleService(repo, &tagRepoStub{})

		article, err := svc.Create(context.Background(), CreateArticleInput{
			AuthorID:    1,
			Title:       "How to Train Your Dragon",
			Description: "Ever wondered?",
			Body:        "Very carefully.",
			TagList:     []string{" dragons ", "", "training"},
		})
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(article.Slug, "how-to-train-your-dragon-"))
		assert.Equal(t, []string{"dragons", "training"}, createdTags)
		assert.EqualValues(t, 1, article.AuthorID)
	})

	t.Run("blank title and body are field errors", func(t *testing.T) {
		t.Parallel()
		svc := NewArticleService(noopArticleRepo(), &tagRepoStub{})

		_, err := svc.Create(context.Background(), CreateArticleInput{AuthorID: 1, Title: "  ", Body: " "})
		var appErr *models.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Contains(t, appErr.Fields, "title")
		assert.Contains(t, appErr.Fields, "body")
	})

	t.Run("markup is stripped from the title", func(t *testing.T) {
		t.Parallel()
		repo := noopArticleRepo()
		var created *models.Article
		repo.createFn = func(_ context.Context, a *models.Article, _ []string) error {
			created = a
			return nil
		}
		repo.getBySlugFn = func(_ context.Context, _ string, _ uint) (*models.Article, error) {
			return created, nil
		}
		svc := NewArticleService(repo, &tagRepoStub{})

		article, err := svc.Create(context.Background(), CreateArticleInput{
			AuthorID: 1,
			Title:    "<b>Bold</b> Claims",
			Body:     "text",
		})
		require.NoError(t, err)
		assert.Equal(t, "Bold Claims", article.Title)
	})
}

func TestArticleService_Update(t *testing.T) {
	t.Parallel()

	strPtr := func(s string) *string { return &s }

	stored := func() *models.Article {
		return &models.Article{
			ID:       10,
			Slug:     "old-title-abc12345",
			Title:    "Old Title",
			Body:     "old body",
			AuthorID: 1,
		}
	}

	t.Run("non-owner is forbidden", func(t *testing.T) {
		t.Parallel()
		repo := noopArticleRepo()
		repo.getBySlugFn = func(_ context.Context, _ string, _ uint) (*models.Article, error) {
			return stored(), nil
		}
		svc := NewArticleService(repo, &tagRepoStub{})

		_, err := svc.Update(context.Background(), UpdateArticleInput{Slug: "old-title-abc12345", ViewerID: 2})
		assertErrorCode(t, err, models.CodeForbidden)
	})

	t.Run("changed title regenerates the slug", func(t *testing.T) {
		t.Parallel()
		repo := noopArticleRepo()
		article := stored()
		repo.getBySlugFn = func(_ context.Context, _ string, _ uint) (*models.Article, error) {
			return article, nil
		}
		var saved *models.Article
		repo.updateFn = func(_ context.Context, a *models.Article, _ []string) error {
			saved = a
			return nil
		}
		svc := NewArticleService(repo, &tagRepoStub{})

		_, err := svc.Update(context.Background(), UpdateArticleInput{
			Slug:     "old-title-abc12345",
			ViewerID: 1,
			Title:    strPtr("Brand New Title"),
		})
		require.NoError(t, err)
		require.NotNil(t, saved)
		assert.True(t, strings.HasPrefix(saved.Slug, "brand-new-title-"))
		assert.NotEqual(t, "old-title-abc12345", saved.Slug)
	})

	t.Run("cosmetic title change keeps the slug", func(t *testing.T) {
		t.Parallel()
		repo := noopArticleRepo()
		article := stored()
		repo.getBySlugFn = func(_ context.Context, _ string, _ uint) (*models.Article, error) {
			return article, nil
		}
		var saved *models.Article
		repo.updateFn = func(_ context.Context, a *models.Article, _ []string) error {
			saved = a
			return nil
		}
		svc := NewArticleService(repo, &tagRepoStub{})

		_, err := svc.Update(context.Background(), UpdateArticleInput{
			Slug:     "old-title-abc12345",
			ViewerID: 1,
			Title:    strPtr("OLD TITLE!"),
		})
		require.NoError(t, err)
		require.NotNil(t, saved)
		assert.Equal(t, "old-title-abc12345", saved.Slug)
		assert.Equal(t, "OLD TITLE!", saved.Title)
	})

	t.Run("tag list replacement is passed through trimmed", func(t *testing.T) {
		t.Parallel()
		repo := noopArticleRepo()
		article := stored()
		repo.getBySlugFn = func(_ context.Context, _ string, _ uint) (*models.Article, error) {
			return article, nil
		}
		var gotTags []string
		repo.updateFn = func(_ context.Context, _ *models.Article, tagNames []string) error {
			gotTags = tagNames
			return nil
		}
		svc := NewArticleService(repo, &tagRepoStub{})

		_, err := svc.Update(context.Background(), UpdateArticleInput{
			Slug:     "old-title-abc12345",
			ViewerID: 1,
			TagList:  []string{" go ", "", "web"},
		})
		require.NoError(t, err)
		assert.Equal(t, []string{"go", "web"}, gotTags)
	})

	t.Run("absent tag list leaves the association untouched", func(t *testing.T) {
		t.Parallel()
		repo := noopArticleRepo()
		article := stored()
		repo.getBySlugFn = func(_ context.Context, _ string, _ uint) (*models.Article, error) {
			return article, nil
		}
		var gotTags []string
		tagsSeen := false
		repo.updateFn = func(_ context.Context, _ *models.Article, tagNames []string) error {
			gotTags, tagsSeen = tagNames, true
			return nil
		}
		svc := NewArticleService(repo, &tagRepoStub{})

		_, err := svc.Update(context.Background(), UpdateArticleInput{
			Slug:     "old-title-abc12345",
			ViewerID: 1,
			Body:     strPtr("fresh body"),
		})
		require.NoError(t, err)
		assert.True(t, tagsSeen)
		assert.Nil(t, gotTags)
	})

	t.Run("body only update never touches the slug", func(t *testing.T) {
		t.Parallel()
		repo := noopArticleRepo()
		article := stored()
		repo.getBySlugFn = func(_ context.Context, _ string, _ uint) (*models.Article, error) {
			return article, nil
		}
		var saved *models.Article
		repo.updateFn = func(_ context.Context, a *models.Article, _ []string) error {
			saved = a
			return nil
		}
		svc := NewArticleService(repo, &tagRepoStub{})

		_, err := svc.Update(context.Background(), UpdateArticleInput{
			Slug:     "old-title-abc12345",
			ViewerID: 1,
			Body:     strPtr("fresh body"),
		})
		require.NoError(t, err)
		assert.Equal(t, "old-title-abc12345", saved.Slug)
		assert.Equal(t, "fresh body", saved.Body)
	})
}

func TestArticleService_Delete(t *testing.T) {
	t.Parallel()

	t.Run("owner can delete", func(t *testing.T) {
		t.Parallel()
		repo := noopArticleRepo()
		repo.getBySlugFn = func(_ context.Context, slug string, _ uint) (*models.Article, error) {
			return &models.Article{ID: 5, Slug: slug, AuthorID: 1}, nil
		}
		deleted := false
		repo.deleteFn = func(context.Context, *models.Article) error {
			deleted = true
			return nil
		}
		svc := NewArticleService(repo, &tagRepoStub{})

		require.NoError(t, svc.Delete(context.Background(), "some-slug", 1))
		assert.True(t, deleted)
	})

	t.Run("non-owner is forbidden", func(t *testing.T) {
		t.Parallel()
		repo := noopArticleRepo()
		repo.getBySlugFn = func(_ context.Context, slug string, _ uint) (*models.Article, error) {
			return &models.Article{ID: 5, Slug: slug, AuthorID: 1}, nil
		}
		svc := NewArticleService(repo, &tagRepoStub{})

		err := svc.Delete(context.Background(), "some-slug", 2)
		assertErrorCode(t, err, models.CodeForbidden)
	})
}

func TestArticleService_Favorite(t *testing.T) {
	t.Parallel()

	repo := noopArticleRepo()
	calls := 0
	repo.getBySlugFn = func(_ context.Context, slug string, viewerID uint) (*models.Article, error) {
		calls++
		// Second read reflects the new favorite state.
		return &models.Article{ID: 5, Slug: slug, Favorited: calls > 1, FavoritesCount: calls - 1}, nil
	}
	var favUser, favArticle uint
	repo.favoriteFn = func(_ context.Context, userID uint, article *models.Article) error {
		favUser, favArticle = userID, article.ID
		return nil
	}
	svc := NewArticleService(repo, &tagRepoStub{})

	article, err := svc.Favorite(context.Background(), "some-slug", 3)
	require.NoError(t, err)
	assert.EqualValues(t, 3, favUser)
	assert.EqualValues(t, 5, favArticle)
	assert.True(t, article.Favorited)
	assert.Equal(t, 1, article.FavoritesCount)
}

func TestArticleService_Tags(t *testing.T) {
	t.Parallel()

	svc := NewArticleService(noopArticleRepo(), &tagRepoStub{
		listPopularFn: func(context.Context) ([]string, error) {
			return []string{"go", "web"}, nil
		},
	})

	tags, err := svc.Tags(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"go", "web"}, tags)
}
