// Command seed populates the database with demo data.
package main

import (
	"flag"
	"log"

	"conduit/internal/bootstrap"
	"conduit/internal/config"
	"conduit/internal/seed"
)

func main() {
	numUsers := flag.Int("users", 10, "Number of users to create")
	numArticles := flag.Int("articles", 30, "Number of articles to create")
	shouldClean := flag.Bool("clean", true, "Clean database before seeding")
	presetPath := flag.String("preset", "", "Path to a YAML seeding preset (overrides other flags)")
	flag.Parse()

	log.Println("Database Seeder")
	log.Println("===============")

	opts := seed.Options{
		NumUsers:    *numUsers,
		NumArticles: *numArticles,
		ShouldClean: *shouldClean,
	}

	if *presetPath != "" {
		preset, err := seed.LoadPreset(*presetPath)
		if err != nil {
			log.Fatalf("Failed to load preset: %v", err)
		}
		opts = preset.Options()
		log.Printf("Applying preset %s: %d users, %d articles, clean=%v",
			*presetPath, opts.NumUsers, opts.NumArticles, opts.ShouldClean)
	} else {
		log.Printf("Target: %d users, %d articles, clean=%v", *numUsers, *numArticles, *shouldClean)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, _, err := bootstrap.InitRuntime(cfg, bootstrap.Options{ApplySchema: true, SkipRedis: true})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := seed.Seed(db, opts); err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}

	log.Printf("All done! Every account logs in with password %q", seed.DemoPassword)
}
