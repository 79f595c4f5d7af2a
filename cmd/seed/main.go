// Command seed fills the database with demo portfolios.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"

	"folio/internal/config"
	"folio/internal/database"
	"folio/internal/middleware"
	"folio/internal/seed"
)

func main() {
	defaults := seed.DefaultOptions()

	numUsers := flag.Int("users", defaults.Users, "Number of users to create")
	projects := flag.Int("projects", defaults.ProjectsPerUser, "Projects per user")
	posts := flag.Int("posts", defaults.PostsPerUser, "Posts per user")
	views := flag.Int("views", defaults.ViewsPerUser, "Page views per user")
	days := flag.Int("days", defaults.MaxDays, "Spread timestamps over this many days")
	seedValue := flag.Int64("seed", 0, "Random seed (0 uses the clock)")
	shouldClean := flag.Bool("clean", true, "Clean database before seeding")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("Failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}
	middleware.Logger = middleware.NewLogger(cfg.Env)
	if cfg.IsProduction() {
		middleware.Logger.Error("Refusing to seed a production database")
		os.Exit(1)
	}

	ctx := context.Background()
	db, err := database.Connect(ctx, cfg)
	if err != nil {
		middleware.Logger.Error("Failed to connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}

	s := seed.NewSeeder(db, seed.Options{
		Users:           *numUsers,
		ProjectsPerUser: *projects,
		PostsPerUser:    *posts,
		ViewsPerUser:    *views,
		MaxDays:         *days,
		Seed:            *seedValue,
	})

	if *shouldClean {
		if err := s.ClearAll(ctx); err != nil {
			middleware.Logger.Error("Cleanup failed", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}

	sum, err := s.Run(ctx)
	if err != nil {
		middleware.Logger.Error("Seeding failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	middleware.Logger.Info("Seeding complete",
		slog.Int("users", sum.Users),
		slog.Int("projects", sum.Projects),
		slog.Int("posts", sum.Posts),
		slog.Int("views", sum.Views),
		slog.String("password", seed.DemoPassword),
	)
}
