// Package seed provides helpers to create demo and test data for the
// application database. These helpers are intended for development and
// testing only.
package seed

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"conduit/internal/models"
	"conduit/internal/slug"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// SeedOptions tune factory behavior.
type SeedOptions struct {
	// DryRun builds entities and assigns synthetic IDs without touching
	// the database.
	DryRun bool
	// SkipBcrypt stores the demo password in plain text for fast local
	// seeding of thousands of users.
	SkipBcrypt bool
	// MaxDays spreads created_at timestamps over this many days back.
	MaxDays int
}

// DemoPassword is the password every seeded account gets.
const DemoPassword = "password123"

// Factory builds domain entities and persists them to the database.
// It is a thin helper used by seed presets and tests.
type Factory struct {
	db   *gorm.DB
	opts SeedOptions
	rand *rand.Rand
	// synthetic ID counter when running in DryRun mode
	nextID uint
}

// NewFactory creates a new Factory bound to the provided Gorm DB.
func NewFactory(db *gorm.DB, opts SeedOptions) *Factory {
	gofakeit.Seed(time.Now().UnixNano())
	return &Factory{
		db:   db,
		opts: opts,
		// #nosec G404: acceptable for seeding
		rand:   rand.New(rand.NewSource(time.Now().UnixNano())),
		nextID: 1000,
	}
}

// spreadCreatedAt returns a timestamp up to MaxDays in the past so listings
// have a realistic spread.
func (f *Factory) spreadCreatedAt() time.Time {
	maxDays := f.opts.MaxDays
	if maxDays <= 0 {
		maxDays = 90
	}
	back := time.Duration(f.rand.Intn(maxDays))*24*time.Hour +
		time.Duration(f.rand.Intn(24))*time.Hour +
		time.Duration(f.rand.Intn(60))*time.Minute
	return time.Now().Add(-back)
}

// CreateUser constructs and persists a sample account. Optional override
// functions may modify the generated user before saving.
func (f *Factory) CreateUser(overrides ...func(*models.User)) (*models.User, error) {
	user := &models.User{
		Username: fmt.Sprintf("%s%d", gofakeit.Username(), gofakeit.Number(100, 999)),
		Email:    gofakeit.Email(),
		Bio:      gofakeit.Sentence(10),
		Image:    fmt.Sprintf("https://i.pravatar.cc/150?u=%s", gofakeit.UUID()),
	}

	if f.opts.SkipBcrypt {
		user.Password = DemoPassword
	} else {
		hashed, _ := bcrypt.GenerateFromPassword([]byte(DemoPassword), bcrypt.DefaultCost)
		user.Password = string(hashed)
	}

	for _, override := range overrides {
		override(user)
	}

	if f.opts.DryRun {
		f.nextID++
		user.ID = f.nextID
		log.Printf("[dry-run] CreateUser: %s <%s>", user.Username, user.Email)
		return user, nil
	}

	if err := f.db.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// BuildArticle constructs an article for the author without persisting it.
func (f *Factory) BuildArticle(author *models.User, overrides ...func(*models.Article)) *models.Article {
	title := gofakeit.Sentence(f.rand.Intn(5) + 3)
	article := &models.Article{
		Slug:        slug.Make(title),
		Title:       title,
		Description: gofakeit.Sentence(8),
		Body:        gofakeit.Paragraph(2, 4, 8, "\n\n"),
		AuthorID:    author.ID,
		CreatedAt:   f.spreadCreatedAt(),
	}
	for _, override := range overrides {
		override(article)
	}
	return article
}

// CreateArticle persists a generated article with the given tags. Tag rows
// are reused when they already exist.
func (f *Factory) CreateArticle(author *models.User, tagNames []string, overrides ...func(*models.Article)) (*models.Article, error) {
	article := f.BuildArticle(author, overrides...)

	if f.opts.DryRun {
		f.nextID++
		article.ID = f.nextID
		log.Printf("[dry-run] CreateArticle: author=%d title=%q tags=%v", article.AuthorID, article.Title, tagNames)
		return article, nil
	}

	for _, name := range tagNames {
		var tag models.Tag
		if err := f.db.Where(models.Tag{Tag: name}).FirstOrCreate(&tag).Error; err != nil {
			return nil, err
		}
		article.Tags = append(article.Tags, tag)
	}

	if err := f.db.Create(article).Error; err != nil {
		return nil, err
	}
	return article, nil
}

// CreateComment persists a generated comment on the article by the user.
func (f *Factory) CreateComment(user *models.User, article *models.Article, overrides ...func(*models.Comment)) (*models.Comment, error) {
	comment := &models.Comment{
		Body:      gofakeit.Sentence(f.rand.Intn(10) + 3),
		UserID:    user.ID,
		ArticleID: article.ID,
	}
	for _, override := range overrides {
		override(comment)
	}

	if f.opts.DryRun {
		f.nextID++
		comment.ID = f.nextID
		return comment, nil
	}

	if err := f.db.Create(comment).Error; err != nil {
		return nil, err
	}
	return comment, nil
}

// CreateFollow persists a follow edge between two users.
func (f *Factory) CreateFollow(follower, followed *models.User) error {
	if f.opts.DryRun {
		return nil
	}
	edge := &models.Follow{FollowerID: follower.ID, FollowedID: followed.ID}
	return f.db.Create(edge).Error
}

// CreateFavorite persists a favorite edge and keeps the denormalized counter
// in step with the edge count.
func (f *Factory) CreateFavorite(user *models.User, article *models.Article) error {
	if f.opts.DryRun {
		return nil
	}
	return f.db.Transaction(func(tx *gorm.DB) error {
		edge := &models.Favorite{UserID: user.ID, ArticleID: article.ID}
		if err := tx.Create(edge).Error; err != nil {
			return err
		}
		return tx.Model(&models.Article{}).
			Where("id = ?", article.ID).
			Update("favorites_count", tx.Session(&gorm.Session{NewDB: true}).
				Table("favorites").
				Select("COUNT(*)").
				Where("favorites.article_id = ?", article.ID)).Error
	})
}
