// Package bootstrap wires shared runtime dependencies for commands that are
// not the API server, such as the seeder and the migration tool.
package bootstrap

import (
	"fmt"

	"conduit/internal/cache"
	"conduit/internal/config"
	"conduit/internal/database"
	"conduit/internal/seed"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Options control runtime initialization behavior.
type Options struct {
	// ApplySchema runs the configured schema policy on connect.
	ApplySchema bool
	// SeedDemoData populates the database with demo content after connecting.
	SeedDemoData bool
	// SkipRedis leaves the cache client nil for commands that never read it.
	SkipRedis bool
}

// InitRuntime connects to the database and Redis per the configuration.
// The returned Redis client is nil when Redis is unreachable or skipped;
// callers treat a nil client as cache-off.
func InitRuntime(cfg *config.Config, opts Options) (*gorm.DB, *redis.Client, error) {
	db, err := database.ConnectWithOptions(cfg, database.ConnectOptions{ApplySchema: opts.ApplySchema})
	if err != nil {
		return nil, nil, fmt.Errorf("database connection failed: %w", err)
	}

	var client *redis.Client
	if !opts.SkipRedis {
		cache.InitRedis(cfg.RedisURL)
		client = cache.GetClient()
	}

	if opts.SeedDemoData {
		if err := seed.Seed(db, seed.Options{}); err != nil {
			return nil, nil, fmt.Errorf("failed to seed demo data: %w", err)
		}
	}

	return db, client, nil
}
