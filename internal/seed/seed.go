package seed

import (
	"context"
	"fmt"
	"log/slog"

	"folio/internal/middleware"
	"folio/internal/models"

	"gorm.io/gorm"
)

// Summary counts what a run created.
type Summary struct {
	Users    int
	Projects int
	Posts    int
	Views    int
}

// Seeder fills a database with demo portfolios.
type Seeder struct {
	db      *gorm.DB
	opts    Options
	factory *Factory
}

func NewSeeder(db *gorm.DB, opts Options) *Seeder {
	return &Seeder{db: db, opts: opts, factory: NewFactory(db, opts)}
}

// ClearAll deletes every row from the domain tables, children first.
func (s *Seeder) ClearAll(ctx context.Context) error {
	for _, model := range []any{&models.PageView{}, &models.Post{}, &models.Project{}, &models.User{}} {
		if err := s.db.WithContext(ctx).Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(model).Error; err != nil {
			return fmt.Errorf("clear %T: %w", model, err)
		}
	}
	middleware.Logger.InfoContext(ctx, "Cleared existing data")
	return nil
}

// Run creates opts.Users portfolios, each with projects, posts and a view history.
func (s *Seeder) Run(ctx context.Context) (*Summary, error) {
	sum := &Summary{}

	for range s.opts.Users {
		user, err := s.factory.CreateUser(ctx)
		if err != nil {
			return sum, fmt.Errorf("create user: %w", err)
		}
		sum.Users++

		projects := make([]*models.Project, 0, s.opts.ProjectsPerUser)
		for range s.opts.ProjectsPerUser {
			p, err := s.factory.CreateProject(ctx, user)
			if err != nil {
				return sum, fmt.Errorf("create project for %s: %w", user.Username, err)
			}
			projects = append(projects, p)
		}
		sum.Projects += len(projects)

		posts := make([]*models.Post, 0, s.opts.PostsPerUser)
		for range s.opts.PostsPerUser {
			p, err := s.factory.CreatePost(ctx, user)
			if err != nil {
				return sum, fmt.Errorf("create post for %s: %w", user.Username, err)
			}
			posts = append(posts, p)
		}
		sum.Posts += len(posts)

		views := s.factory.BuildViews(user, projects, posts, s.opts.ViewsPerUser)
		if err := s.factory.CreateViews(ctx, views); err != nil {
			return sum, fmt.Errorf("create views for %s: %w", user.Username, err)
		}
		sum.Views += len(views)

		middleware.Logger.InfoContext(ctx, "Seeded portfolio",
			slog.String("username", user.Username),
			slog.Int("projects", len(projects)),
			slog.Int("posts", len(posts)),
			slog.Int("views", len(views)),
		)
	}

	return sum, nil
}
