package repository

import (
	"fmt"
	"testing"

	"conduit/internal/models"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB opens a fresh in-memory database with the full schema.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Follow{},
		&models.Article{},
		&models.Tag{},
		&models.Favorite{},
		&models.Comment{},
	))
	return db
}

func createTestUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	user := &models.User{
		Username: username,
		Email:    fmt.Sprintf("%s@example.com", username),
		Password: "not-a-real-hash",
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func createTestArticle(t *testing.T, db *gorm.DB, author *models.User, slug, title string, tags ...string) *models.Article {
	t.Helper()
	article := &models.Article{
		Slug:     slug,
		Title:    title,
		Body:     "body of " + title,
		AuthorID: author.ID,
	}
	for _, tag := range tags {
		var row models.Tag
		require.NoError(t, db.Where(models.Tag{Tag: tag}).FirstOrCreate(&row).Error)
		article.Tags = append(article.Tags, row)
	}
	require.NoError(t, db.Create(article).Error)
	return article
}
