package repository

import (
	"context"
	"errors"

	"conduit/internal/cache"
	"conduit/internal/models"
	"conduit/internal/observability"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ListFilters narrows an article listing. Empty fields are ignored; set
// fields must all match.
type ListFilters struct {
	Tag         string
	Author      string
	FavoritedBy string
}

// ArticleRepository defines persistence operations for articles, tags and
// favorites.
type ArticleRepository interface {
	Create(ctx context.Context, article *models.Article, tagNames []string) error
	GetBySlug(ctx context.Context, slug string, viewerID uint) (*models.Article, error)
	List(ctx context.Context, filters ListFilters, limit, offset int, viewerID uint) ([]*models.Article, int64, error)
	Feed(ctx context.Context, viewerID uint, limit, offset int) ([]*models.Article, int64, error)
	Update(ctx context.Context, article *models.Article, tagNames []string) error
	Delete(ctx context.Context, article *models.Article) error
	Favorite(ctx context.Context, userID uint, article *models.Article) error
	Unfavorite(ctx context.Context, userID uint, article *models.Article) error
}

type articleRepository struct {
	db *gorm.DB
}

// NewArticleRepository returns a new ArticleRepository implementation.
func NewArticleRepository(db *gorm.DB) ArticleRepository {
	return &articleRepository{db: db}
}

// applyArticleDetails adds subqueries computing the viewer-relative favorited
// and following flags in the same query.
func (r *articleRepository) applyArticleDetails(db *gorm.DB, viewerID uint) *gorm.DB {
	if viewerID != 0 {
		return db.Select("articles.*, "+
			"EXISTS(SELECT 1 FROM favorites WHERE favorites.article_id = articles.id AND favorites.user_id = ?) as favorited, "+
			"EXISTS(SELECT 1 FROM followings WHERE followings.followed_id = articles.author_id AND followings.follower_id = ?) as following_author",
			viewerID, viewerID)
	}
	return db.Select("articles.*, false as favorited, false as following_author")
}

// applyFilters narrows the query with conjunctive subqueries. Filtering on an
// unknown tag or user simply matches nothing.
func (r *articleRepository) applyFilters(db *gorm.DB, filters ListFilters) *gorm.DB {
	if filters.Tag != "" {
		db = db.Where("articles.id IN (?)",
			r.db.Table("article_tag_associations").
				Select("article_tag_associations.article_id").
				Joins("JOIN tags ON tags.id = article_tag_associations.tag_id").
				Where("tags.tag = ?", filters.Tag))
	}
	if filters.Author != "" {
		db = db.Where("articles.author_id IN (?)",
			r.db.Table("users").Select("users.id").Where("users.username = ?", filters.Author))
	}
	if filters.FavoritedBy != "" {
		db = db.Where("articles.id IN (?)",
			r.db.Table("favorites").
				Select("favorites.article_id").
				Joins("JOIN users ON users.id = favorites.user_id").
				Where("users.username = ?", filters.FavoritedBy))
	}
	return db
}

func (r *articleRepository) Create(ctx context.Context, article *models.Article, tagNames []string) error {
	defer observability.TrackQuery("create", "articles")()

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		tags, err := upsertTags(tx, tagNames)
		if err != nil {
			return err
		}
		article.Tags = tags

		if err := tx.Create(article).Error; err != nil {
			if _, ok := uniqueViolation(err); ok {
				return models.NewConflictError("article slug already exists")
			}
			return models.NewInternalError(err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	observability.ArticlesCreated.Inc()
	cache.InvalidateTags(ctx)
	return nil
}

// upsertTags ensures a tag row exists for every name and returns the rows in
// input order. Existing tags are left untouched.
func upsertTags(tx *gorm.DB, names []string) ([]models.Tag, error) {
	if len(names) == 0 {
		return nil, nil
	}

	rows := make([]models.Tag, 0, len(names))
	seen := make(map[string]struct{}, len(names))
	for _, name := range names {
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		rows = append(rows, models.Tag{Tag: name})
	}

	if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&rows).Error; err != nil {
		return nil, models.NewInternalError(err)
	}

	// Re-read so rows that already existed get their IDs.
	var tags []models.Tag
	ordered := make([]string, 0, len(rows))
	for _, row := range rows {
		ordered = append(ordered, row.Tag)
	}
	if err := tx.Where("tag IN ?", ordered).Find(&tags).Error; err != nil {
		return nil, models.NewInternalError(err)
	}

	byName := make(map[string]models.Tag, len(tags))
	for _, t := range tags {
		byName[t.Tag] = t
	}
	result := make([]models.Tag, 0, len(ordered))
	for _, name := range ordered {
		if t, ok := byName[name]; ok {
			result = append(result, t)
		}
	}
	return result, nil
}

func (r *articleRepository) GetBySlug(ctx context.Context, slug string, viewerID uint) (*models.Article, error) {
	defer observability.TrackQuery("get_by_slug", "articles")()

	var article models.Article

	fetch := func() error {
		err := r.applyArticleDetails(r.db.WithContext(ctx), viewerID).
			Preload("Author").
			Preload("Tags").
			Where("articles.slug = ?", slug).
			First(&article).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("Article", slug)
			}
			return models.NewInternalError(err)
		}
		return nil
	}

	var err error
	if viewerID == 0 {
		// Anonymous reads share one cache entry; viewer-relative flags are
		// always false for them.
		err = cache.Aside(ctx, cache.ArticleKey(slug), &article, cache.ArticleTTL, fetch)
	} else {
		err = fetch()
	}
	if err != nil {
		return nil, err
	}
	return &article, nil
}

func (r *articleRepository) List(ctx context.Context, filters ListFilters, limit, offset int, viewerID uint) ([]*models.Article, int64, error) {
	defer observability.TrackQuery("list", "articles")()

	base := r.applyFilters(r.db.WithContext(ctx).Model(&models.Article{}), filters)

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, models.NewInternalError(err)
	}

	var articles []*models.Article
	err := r.applyArticleDetails(base.Session(&gorm.Session{}), viewerID).
		Preload("Author").
		Preload("Tags").
		Order("articles.created_at DESC, articles.id DESC").
		Limit(limit).
		Offset(offset).
		Find(&articles).Error
	if err != nil {
		return nil, 0, models.NewInternalError(err)
	}
	return articles, total, nil
}

func (r *articleRepository) Feed(ctx context.Context, viewerID uint, limit, offset int) ([]*models.Article, int64, error) {
	defer observability.TrackQuery("feed", "articles")()

	followed := r.db.Table("followings").
		Select("followings.followed_id").
		Where("followings.follower_id = ?", viewerID)

	base := r.db.WithContext(ctx).
		Model(&models.Article{}).
		Where("articles.author_id IN (?)", followed)

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, models.NewInternalError(err)
	}

	var articles []*models.Article
	err := r.applyArticleDetails(base.Session(&gorm.Session{}), viewerID).
		Preload("Author").
		Preload("Tags").
		Order("articles.created_at DESC, articles.id DESC").
		Limit(limit).
		Offset(offset).
		Find(&articles).Error
	if err != nil {
		return nil, 0, models.NewInternalError(err)
	}
	return articles, total, nil
}

// Update saves the article fields. A nil tagNames leaves the association
// untouched; a non-nil slice (empty included) replaces it.
func (r *articleRepository) Update(ctx context.Context, article *models.Article, tagNames []string) error {
	defer observability.TrackQuery("update", "articles")()

	// The caller may have regenerated the slug already, so the stored one is
	// read back inside the transaction to invalidate its cache entry too.
	var prevSlug string
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var stored models.Article
		if err := tx.Select("slug").Take(&stored, article.ID).Error; err == nil {
			prevSlug = stored.Slug
		}
		if err := tx.Omit("Tags", "Author").Save(article).Error; err != nil {
			if _, ok := uniqueViolation(err); ok {
				return models.NewConflictError("article slug already exists")
			}
			return models.NewInternalError(err)
		}
		if tagNames == nil {
			return nil
		}
		tags, err := upsertTags(tx, tagNames)
		if err != nil {
			return err
		}
		assoc := tx.Model(article).Association("Tags")
		if len(tags) == 0 {
			if err := assoc.Clear(); err != nil {
				return models.NewInternalError(err)
			}
		} else if err := assoc.Replace(tags); err != nil {
			return models.NewInternalError(err)
		}
		article.Tags = tags
		return nil
	})
	if err != nil {
		return err
	}
	cache.InvalidateArticle(ctx, article.Slug)
	if prevSlug != "" && prevSlug != article.Slug {
		cache.InvalidateArticle(ctx, prevSlug)
	}
	if tagNames != nil {
		cache.InvalidateTags(ctx)
	}
	return nil
}

func (r *articleRepository) Delete(ctx context.Context, article *models.Article) error {
	defer observability.TrackQuery("delete", "articles")()

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Association rows first so no orphans survive on engines without
		// cascading foreign keys.
		if err := tx.Where("article_id = ?", article.ID).Delete(&models.Favorite{}).Error; err != nil {
			return models.NewInternalError(err)
		}
		if err := tx.Where("article_id = ?", article.ID).Delete(&models.Comment{}).Error; err != nil {
			return models.NewInternalError(err)
		}
		if err := tx.Model(article).Association("Tags").Clear(); err != nil {
			return models.NewInternalError(err)
		}
		if err := tx.Delete(&models.Article{}, article.ID).Error; err != nil {
			return models.NewInternalError(err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	cache.InvalidateArticle(ctx, article.Slug)
	cache.InvalidateTags(ctx)
	return nil
}

// Favorite inserts the favorite edge and recomputes the denormalized counter
// in one transaction. Favoriting twice is a conflict.
func (r *articleRepository) Favorite(ctx context.Context, userID uint, article *models.Article) error {
	defer observability.TrackQuery("favorite", "favorites")()

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		edge := models.Favorite{UserID: userID, ArticleID: article.ID}
		if err := tx.Create(&edge).Error; err != nil {
			if _, ok := uniqueViolation(err); ok {
				return models.NewConflictError("article already favorited")
			}
			return models.NewInternalError(err)
		}
		return r.syncFavoritesCount(tx, article.ID)
	})
	if err != nil {
		return err
	}
	cache.InvalidateArticle(ctx, article.Slug)
	return nil
}

// Unfavorite removes the favorite edge and recomputes the counter. Removing
// an absent favorite reports not found.
func (r *articleRepository) Unfavorite(ctx context.Context, userID uint, article *models.Article) error {
	defer observability.TrackQuery("unfavorite", "favorites")()

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("user_id = ? AND article_id = ?", userID, article.ID).
			Delete(&models.Favorite{})
		if res.Error != nil {
			return models.NewInternalError(res.Error)
		}
		if res.RowsAffected == 0 {
			return models.NewNotFoundError("Favorite", article.ID)
		}
		return r.syncFavoritesCount(tx, article.ID)
	})
	if err != nil {
		return err
	}
	cache.InvalidateArticle(ctx, article.Slug)
	return nil
}

// syncFavoritesCount recomputes the counter from the edge table so it can
// never drift under concurrent favorites.
func (r *articleRepository) syncFavoritesCount(tx *gorm.DB, articleID uint) error {
	err := tx.Model(&models.Article{}).
		Where("id = ?", articleID).
		Update("favorites_count", tx.Session(&gorm.Session{NewDB: true}).
			Table("favorites").
			Select("COUNT(*)").
			Where("favorites.article_id = ?", articleID)).Error
	if err != nil {
		return models.NewInternalError(err)
	}
	return nil
}
