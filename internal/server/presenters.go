package server

import (
	"time"

	"conduit/internal/models"
)

// Wire shapes for the public API. These are deliberately separate from the
// persistence models: the API speaks camelCase and nests the author profile,
// while the models keep their storage-oriented layout.

type userPayload struct {
	Email    string `json:"email"`
	Token    string `json:"token"`
	Username string `json:"username"`
	Bio      string `json:"bio"`
	Image    string `json:"image"`
}

type profilePayload struct {
	Username  string `json:"username"`
	Bio       string `json:"bio"`
	Image     string `json:"image"`
	Following bool   `json:"following"`
}

type articlePayload struct {
	Slug           string         `json:"slug"`
	Title          string         `json:"title"`
	Description    string         `json:"description"`
	Body           string         `json:"body"`
	TagList        []string       `json:"tagList"`
	CreatedAt      time.Time      `json:"createdAt"`
	UpdatedAt      time.Time      `json:"updatedAt"`
	Favorited      bool           `json:"favorited"`
	FavoritesCount int            `json:"favoritesCount"`
	Author         profilePayload `json:"author"`
}

type commentPayload struct {
	ID        uint           `json:"id"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	Body      string         `json:"body"`
	Author    profilePayload `json:"author"`
}

func presentUser(user *models.User, token string) userPayload {
	return userPayload{
		Email:    user.Email,
		Token:    token,
		Username: user.Username,
		Bio:      user.Bio,
		Image:    user.Image,
	}
}

func presentProfile(profile *models.Profile) profilePayload {
	return profilePayload{
		Username:  profile.Username,
		Bio:       profile.Bio,
		Image:     profile.Image,
		Following: profile.Following,
	}
}

func presentArticle(article *models.Article) articlePayload {
	author := article.Author.Profile(article.FollowingAuthor)
	return articlePayload{
		Slug:           article.Slug,
		Title:          article.Title,
		Description:    article.Description,
		Body:           article.Body,
		TagList:        article.TagNames(),
		CreatedAt:      article.CreatedAt,
		UpdatedAt:      article.UpdatedAt,
		Favorited:      article.Favorited,
		FavoritesCount: article.FavoritesCount,
		Author:         presentProfile(&author),
	}
}

// presentArticles always yields a non-nil slice so the listing renders [].
func presentArticles(articles []*models.Article) []articlePayload {
	payloads := make([]articlePayload, 0, len(articles))
	for _, a := range articles {
		payloads = append(payloads, presentArticle(a))
	}
	return payloads
}

func presentComment(comment *models.Comment) commentPayload {
	author := comment.User.Profile(comment.FollowingAuthor)
	return commentPayload{
		ID:        comment.ID,
		CreatedAt: comment.CreatedAt,
		UpdatedAt: comment.UpdatedAt,
		Body:      comment.Body,
		Author:    presentProfile(&author),
	}
}

func presentComments(comments []*models.Comment) []commentPayload {
	payloads := make([]commentPayload, 0, len(comments))
	for _, c := range comments {
		payloads = append(payloads, presentComment(c))
	}
	return payloads
}
