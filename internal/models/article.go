package models

import (
	"time"
)

// Article is an authored post. FavoritesCount is denormalized and kept in
// sync with the favorites table transactionally by the repository; after any
// mutation settles it equals the live count of Favorite edges.
type Article struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Slug        string `gorm:"uniqueIndex;not null" json:"slug"`
	Title       string `gorm:"not null" json:"title"`
	Description string `gorm:"not null" json:"description"`
	Body        string `gorm:"type:text;not null" json:"body"`
	AuthorID    uint   `gorm:"not null;index" json:"author_id"`
	Author      User   `gorm:"foreignKey:AuthorID" json:"author"`
	Tags        []Tag  `gorm:"many2many:article_tag_associations" json:"tags"`

	FavoritesCount int `gorm:"not null;default:0" json:"favorites_count"`
	// Favorited indicates whether the current requesting user favorited
	// this article (computed at query time, never persisted).
	Favorited bool `gorm:"->" json:"favorited"`
	// FollowingAuthor is computed per viewer alongside Favorited.
	FollowingAuthor bool `gorm:"->" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TagNames flattens the association into a deduplicated list in insertion
// order. Always non-nil so the API renders [] rather than null.
func (a *Article) TagNames() []string {
	names := make([]string, 0, len(a.Tags))
	seen := make(map[string]struct{}, len(a.Tags))
	for _, t := range a.Tags {
		if _, ok := seen[t.Tag]; ok {
			continue
		}
		seen[t.Tag] = struct{}{}
		names = append(names, t.Tag)
	}
	return names
}

// Tag is a unique tag string. Tags are never deleted when dissociated from
// their last article.
type Tag struct {
	ID  uint   `gorm:"primaryKey" json:"id"`
	Tag string `gorm:"unique;not null" json:"tag"`
}

// Favorite marks that a user favorited an article.
// The combination of UserID and ArticleID must be unique.
type Favorite struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_user_article" json:"user_id"`
	ArticleID uint      `gorm:"not null;uniqueIndex:idx_user_article" json:"article_id"`
	CreatedAt time.Time `json:"created_at"`

	User    User    `gorm:"foreignKey:UserID" json:"-"`
	Article Article `gorm:"foreignKey:ArticleID" json:"-"`
}
