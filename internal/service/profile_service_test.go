package service

import (
	"context"
	"testing"

	"folio/internal/cache"
	"folio/internal/models"
	"folio/internal/repository"
	"folio/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type profileFixture struct {
	db       *gorm.DB
	owner    *models.User
	profiles *ProfileService
	projects *ProjectService
	posts    *PostService
}

func newProfileFixture(t *testing.T, c *cache.Cache) *profileFixture {
	t.Helper()
	db := testutil.NewSQLiteDB(t)
	userRepo := repository.NewUserRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	postRepo := repository.NewPostRepository(db)
	return &profileFixture{
		db:       db,
		owner:    seedUser(t, db, "ada"),
		profiles: NewProfileService(userRepo, projectRepo, postRepo, c, 0),
		projects: NewProjectService(projectRepo, c),
		posts:    NewPostService(postRepo, c),
	}
}

func TestProfileService_GetProfile_PublishedOnly(t *testing.T) {
	f := newProfileFixture(t, cache.New(nil))
	ctx := context.Background()

	_, err := f.projects.CreateProject(ctx, f.owner.ID, validProjectInput())
	require.NoError(t, err)

	published := validPostInput("Shipped")
	published.Status = models.PostStatusPublished
	_, err = f.posts.CreatePost(ctx, f.owner.ID, published)
	require.NoError(t, err)
	_, err = f.posts.CreatePost(ctx, f.owner.ID, validPostInput("Work in progress"))
	require.NoError(t, err)

	profile, err := f.profiles.GetProfile(ctx, "ada")
	require.NoError(t, err)
	assert.Equal(t, models.PublicUser{ID: f.owner.ID, Name: f.owner.Name, Username: "ada"}, profile.User)
	assert.Len(t, profile.Projects, 1)
	require.Len(t, profile.Posts, 1)
	assert.Equal(t, "Shipped", profile.Posts[0].Title)
}

func TestProfileService_GetProfile_UnknownUser(t *testing.T) {
	f := newProfileFixture(t, cache.New(nil))

	_, err := f.profiles.GetProfile(context.Background(), "nobody")
	assertNotFoundError(t, err)

	_, err = f.profiles.GetProfile(context.Background(), " ")
	assertNotFoundError(t, err)
}

func TestProfileService_GetProfile_CachedUntilOwnerWrites(t *testing.T) {
	c, mr := newTestCache(t)
	f := newProfileFixture(t, c)
	ctx := context.Background()

	profile, err := f.profiles.GetProfile(ctx, "ada")
	require.NoError(t, err)
	assert.Empty(t, profile.Projects)
	assert.True(t, mr.Exists(cache.ProfileKey(f.owner.ID)))

	// A row written behind the service's back stays invisible while cached.
	require.NoError(t, f.db.Create(&models.Project{UserID: f.owner.ID, Title: "Direct", Description: "inserted directly"}).Error)
	profile, err = f.profiles.GetProfile(ctx, "ada")
	require.NoError(t, err)
	assert.Empty(t, profile.Projects)

	_, err = f.projects.CreateProject(ctx, f.owner.ID, validProjectInput())
	require.NoError(t, err)
	profile, err = f.profiles.GetProfile(ctx, "ada")
	require.NoError(t, err)
	assert.Len(t, profile.Projects, 2)
}

func TestProfileService_GetPublishedPost(t *testing.T) {
	f := newProfileFixture(t, cache.New(nil))
	ctx := context.Background()

	published := validPostInput("Hello World")
	published.Status = models.PostStatusPublished
	_, err := f.posts.CreatePost(ctx, f.owner.ID, published)
	require.NoError(t, err)
	_, err = f.posts.CreatePost(ctx, f.owner.ID, validPostInput("Secret Draft"))
	require.NoError(t, err)

	post, err := f.profiles.GetPublishedPost(ctx, "ada", "hello-world")
	require.NoError(t, err)
	assert.Equal(t, "Hello World", post.Title)

	_, err = f.profiles.GetPublishedPost(ctx, "ada", "secret-draft")
	assertNotFoundError(t, err)

	_, err = f.profiles.GetPublishedPost(ctx, "nobody", "hello-world")
	assertNotFoundError(t, err)
}
