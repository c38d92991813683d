package repository

import (
	"context"

	"conduit/internal/cache"
	"conduit/internal/models"
	"conduit/internal/observability"

	"gorm.io/gorm"
)

// popularTagLimit caps the tag list at the most used tags.
const popularTagLimit = 20

// TagRepository defines read operations over the tag inventory.
type TagRepository interface {
	ListPopular(ctx context.Context) ([]string, error)
}

type tagRepository struct {
	db *gorm.DB
}

// NewTagRepository returns a new TagRepository implementation.
func NewTagRepository(db *gorm.DB) TagRepository {
	return &tagRepository{db: db}
}

// ListPopular returns tag names ordered by how many articles use them,
// most used first. The result is cached briefly; it sits on the hot path
// of every landing page load.
func (r *tagRepository) ListPopular(ctx context.Context) ([]string, error) {
	defer observability.TrackQuery("list_popular", "tags")()

	tags := []string{}
	err := cache.Aside(ctx, cache.TagsKey, &tags, cache.TagsTTL, func() error {
		err := r.db.WithContext(ctx).
			Table("tags").
			Select("tags.tag").
			Joins("JOIN article_tag_associations ON article_tag_associations.tag_id = tags.id").
			Group("tags.id, tags.tag").
			Order("COUNT(article_tag_associations.article_id) DESC, tags.tag ASC").
			Limit(popularTagLimit).
			Pluck("tags.tag", &tags).Error
		if err != nil {
			return models.NewInternalError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return tags, nil
}
