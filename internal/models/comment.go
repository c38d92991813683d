package models

import (
	"time"
)

// Comment represents a comment on an article.
type Comment struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Body      string    `gorm:"type:text;not null" json:"body"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	ArticleID uint      `gorm:"not null;index" json:"article_id"`
	User      User      `gorm:"foreignKey:UserID" json:"user"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// FollowingAuthor is the viewer-relative flag for the comment's author
	// (computed at query time).
	FollowingAuthor bool `gorm:"->" json:"-"`
}
