package seed

import (
	"fmt"
	"log"

	"conduit/internal/models"

	"gorm.io/gorm"
)

// Options controls how much demo data Seed generates.
type Options struct {
	NumUsers    int
	NumArticles int
	// ShouldClean wipes existing rows before seeding.
	ShouldClean bool
	// Tags is the pool articles draw their tags from.
	Tags []string
}

// DefaultTags is the tag pool used when Options.Tags is empty.
var DefaultTags = []string{
	"go", "web", "databases", "testing", "devops",
	"frontend", "security", "performance", "tutorial", "opinion",
}

// Seed populates the database with demo accounts, articles, comments,
// follows and favorites. It is idempotent only when ShouldClean is set.
func Seed(db *gorm.DB, opts Options) error {
	if opts.NumUsers <= 0 {
		opts.NumUsers = 10
	}
	if opts.NumArticles <= 0 {
		opts.NumArticles = 30
	}
	if len(opts.Tags) == 0 {
		opts.Tags = DefaultTags
	}

	if opts.ShouldClean {
		if err := clearData(db); err != nil {
			return fmt.Errorf("failed to clear existing data: %w", err)
		}
		log.Println("Cleared existing data")
	}

	factory := NewFactory(db, SeedOptions{MaxDays: 90})

	users, err := createBaseUsers(factory)
	if err != nil {
		return err
	}

	for i := len(users); i < opts.NumUsers; i++ {
		user, err := factory.CreateUser()
		if err != nil {
			return fmt.Errorf("failed to create user %d: %w", i, err)
		}
		users = append(users, user)
	}
	log.Printf("Created %d users", len(users))

	if err := createFollowMesh(factory, users); err != nil {
		return err
	}

	articles := make([]*models.Article, 0, opts.NumArticles)
	for i := 0; i < opts.NumArticles; i++ {
		author := users[factory.rand.Intn(len(users))]
		tags := pickTags(factory, opts.Tags)
		article, err := factory.CreateArticle(author, tags)
		if err != nil {
			return fmt.Errorf("failed to create article %d: %w", i, err)
		}
		articles = append(articles, article)
	}
	log.Printf("Created %d articles", len(articles))

	commentCount := 0
	for _, article := range articles {
		for i := 0; i < factory.rand.Intn(4); i++ {
			commenter := users[factory.rand.Intn(len(users))]
			if _, err := factory.CreateComment(commenter, article); err != nil {
				return fmt.Errorf("failed to create comment: %w", err)
			}
			commentCount++
		}
	}
	log.Printf("Created %d comments", commentCount)

	favoriteCount := 0
	for _, article := range articles {
		seen := map[uint]bool{}
		for i := 0; i < factory.rand.Intn(len(users)); i++ {
			fan := users[factory.rand.Intn(len(users))]
			if seen[fan.ID] {
				continue
			}
			seen[fan.ID] = true
			if err := factory.CreateFavorite(fan, article); err != nil {
				return fmt.Errorf("failed to create favorite: %w", err)
			}
			favoriteCount++
		}
	}
	log.Printf("Created %d favorites", favoriteCount)

	log.Printf("Seeding complete. All accounts use password %q", DemoPassword)
	return nil
}

// createBaseUsers guarantees a few well-known demo accounts exist so the
// README login instructions always work.
func createBaseUsers(factory *Factory) ([]*models.User, error) {
	base := []struct{ username, email string }{
		{"ada", "ada@example.com"},
		{"bob", "bob@example.com"},
		{"test", "test@example.com"},
	}

	users := make([]*models.User, 0, len(base))
	for _, b := range base {
		b := b
		user, err := factory.CreateUser(func(u *models.User) {
			u.Username = b.username
			u.Email = b.email
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create base user %s: %w", b.username, err)
		}
		users = append(users, user)
	}
	return users, nil
}

// createFollowMesh wires a sparse follow graph so feeds are non-empty.
func createFollowMesh(factory *Factory, users []*models.User) error {
	count := 0
	for _, follower := range users {
		for i := 0; i < factory.rand.Intn(3)+1; i++ {
			followed := users[factory.rand.Intn(len(users))]
			if followed.ID == follower.ID {
				continue
			}
			if err := factory.CreateFollow(follower, followed); err != nil {
				// duplicate edges are fine during random generation
				continue
			}
			count++
		}
	}
	log.Printf("Created %d follows", count)
	return nil
}

func pickTags(factory *Factory, pool []string) []string {
	n := factory.rand.Intn(3) + 1
	picked := make([]string, 0, n)
	seen := map[string]bool{}
	for len(picked) < n {
		tag := pool[factory.rand.Intn(len(pool))]
		if seen[tag] {
			continue
		}
		seen[tag] = true
		picked = append(picked, tag)
	}
	return picked
}

// clearData deletes all rows from every table in dependency order.
// Plain DELETEs keep this portable between postgres and sqlite.
func clearData(db *gorm.DB) error {
	tables := []string{
		"favorites",
		"comments",
		"article_tag_associations",
		"articles",
		"tags",
		"followings",
		"users",
	}
	for _, table := range tables {
		if err := db.Exec("DELETE FROM " + table).Error; err != nil {
			return fmt.Errorf("failed to clear table %s: %w", table, err)
		}
	}
	return nil
}
