// Package seed creates demo data for local development and tests.
package seed

import (
	"context"
	"fmt"
	"strings"
	"time"

	"folio/internal/models"
	"folio/internal/slug"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// DemoPassword is the password every seeded user signs in with.
const DemoPassword = "password123"

// Options controls how much data the seeder produces.
type Options struct {
	Users           int
	ProjectsPerUser int
	PostsPerUser    int
	ViewsPerUser    int
	// MaxDays spreads timestamps over the last MaxDays days.
	MaxDays int
	// Seed makes the generated content reproducible. Zero uses the clock.
	Seed int64
	// SkipBcrypt stores a cheap hash; only for tests.
	SkipBcrypt bool
}

// DefaultOptions is a dashboard-sized dataset.
func DefaultOptions() Options {
	return Options{
		Users:           10,
		ProjectsPerUser: 4,
		PostsPerUser:    6,
		ViewsPerUser:    200,
		MaxDays:         60,
	}
}

// Factory builds domain entities and persists them.
type Factory struct {
	db    *gorm.DB
	faker *gofakeit.Faker
	opts  Options
	now   func() time.Time
	hash  string
	slugs map[string]int
}

// NewFactory creates a Factory bound to db.
func NewFactory(db *gorm.DB, opts Options) *Factory {
	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	if opts.MaxDays <= 0 {
		opts.MaxDays = 60
	}
	return &Factory{
		db:    db,
		faker: gofakeit.New(seed),
		opts:  opts,
		now:   func() time.Time { return time.Now().UTC() },
		slugs: make(map[string]int),
	}
}

func (f *Factory) passwordHash() (string, error) {
	if f.hash != "" {
		return f.hash, nil
	}
	cost := bcrypt.DefaultCost
	if f.opts.SkipBcrypt {
		cost = bcrypt.MinCost
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(DemoPassword), cost)
	if err != nil {
		return "", err
	}
	f.hash = string(hashed)
	return f.hash, nil
}

// pastTime returns a random instant within the configured window.
func (f *Factory) pastTime() time.Time {
	minutes := f.faker.Number(0, f.opts.MaxDays*24*60)
	return f.now().Add(-time.Duration(minutes) * time.Minute)
}

// uniqueSlug derives a slug from title, suffixing repeats with a counter.
func (f *Factory) uniqueSlug(title string) string {
	base := slug.Make(title)
	if base == "" {
		base = "post"
	}
	f.slugs[base]++
	if n := f.slugs[base]; n > 1 {
		return fmt.Sprintf("%s-%d", base, n)
	}
	return base
}

// CreateUser persists a user whose password is DemoPassword.
func (f *Factory) CreateUser(ctx context.Context, overrides ...func(*models.User)) (*models.User, error) {
	hashed, err := f.passwordHash()
	if err != nil {
		return nil, err
	}

	first, last := f.faker.FirstName(), f.faker.LastName()
	handle := strings.ToLower(first + "-" + last)
	user := &models.User{
		Name:     first + " " + last,
		Username: fmt.Sprintf("%s-%d", slug.Make(handle), f.faker.Number(100, 999)),
		Password: hashed,
	}
	user.Email = user.Username + "@example.com"

	for _, override := range overrides {
		override(user)
	}

	if err := f.db.WithContext(ctx).Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// CreateProject persists a project owned by user.
func (f *Factory) CreateProject(ctx context.Context, user *models.User, overrides ...func(*models.Project)) (*models.Project, error) {
	name := f.faker.AppName()
	techs := make([]string, 0, 3)
	for range f.faker.Number(1, 3) {
		techs = append(techs, f.faker.ProgrammingLanguage())
	}
	created := f.pastTime()

	project := &models.Project{
		Title:        name,
		Description:  f.faker.Paragraph(1, 2, 12, " "),
		Technologies: dedupe(techs),
		GithubLink:   fmt.Sprintf("https://github.com/%s/%s", user.Username, slug.Make(name)),
		ImageURL:     fmt.Sprintf("https://picsum.photos/seed/%s/800/450", f.faker.UUID()),
		UserID:       user.ID,
		CreatedAt:    created,
		UpdatedAt:    created,
	}
	if f.faker.Bool() {
		project.LiveLink = f.faker.URL()
	}

	for _, override := range overrides {
		override(project)
	}

	if err := f.db.WithContext(ctx).Create(project).Error; err != nil {
		return nil, err
	}
	return project, nil
}

// CreatePost persists a post owned by user. Roughly two thirds are published.
func (f *Factory) CreatePost(ctx context.Context, user *models.User, overrides ...func(*models.Post)) (*models.Post, error) {
	title := strings.TrimSuffix(f.faker.Sentence(f.faker.Number(3, 7)), ".")
	status := models.PostStatusPublished
	if f.faker.Number(1, 3) == 1 {
		status = models.PostStatusDraft
	}
	created := f.pastTime()

	post := &models.Post{
		UserID:     user.ID,
		Title:      title,
		Content:    f.faker.Paragraph(3, 5, 14, "\n\n"),
		Excerpt:    f.faker.Sentence(14),
		CoverImage: fmt.Sprintf("https://picsum.photos/seed/%s/1200/630", f.faker.UUID()),
		Tags:       dedupe([]string{strings.ToLower(f.faker.ProgrammingLanguage()), f.faker.BuzzWord()}),
		Status:     status,
		CreatedAt:  created,
		UpdatedAt:  created,
	}

	for _, override := range overrides {
		override(post)
	}
	post.Slug = f.uniqueSlug(post.Title)

	if err := f.db.WithContext(ctx).Create(post).Error; err != nil {
		return nil, err
	}
	return post, nil
}

type viewTarget struct {
	id  string
	typ models.TargetType
}

// BuildViews returns n page views for owner spread over its posts, projects and
// profile, without persisting them.
func (f *Factory) BuildViews(owner *models.User, projects []*models.Project, posts []*models.Post, n int) []models.PageView {
	targets := []viewTarget{{owner.Username, models.TargetProfile}}
	for _, p := range projects {
		targets = append(targets, viewTarget{fmt.Sprint(p.ID), models.TargetProject})
	}
	for _, p := range posts {
		targets = append(targets, viewTarget{fmt.Sprint(p.ID), models.TargetPost})
	}

	views := make([]models.PageView, 0, n)
	for range n {
		target := targets[f.faker.Number(0, len(targets)-1)]
		views = append(views, models.PageView{
			UserID:     owner.ID,
			TargetID:   target.id,
			TargetType: target.typ,
			VisitorID:  f.faker.UUID(),
			ViewedAt:   f.pastTime(),
			Referrer:   f.faker.URL(),
			UserAgent:  f.faker.UserAgent(),
		})
	}
	return views
}

// CreateViews persists views in batches.
func (f *Factory) CreateViews(ctx context.Context, views []models.PageView) error {
	if len(views) == 0 {
		return nil
	}
	return f.db.WithContext(ctx).CreateInBatches(views, 200).Error
}

func dedupe(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, v := range in {
		if _, ok := seen[v]; ok || v == "" {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
