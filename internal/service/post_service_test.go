package service

import (
	"context"
	"testing"
	"time"

	"folio/internal/cache"
	"folio/internal/models"
	"folio/internal/repository"
	"folio/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validPostInput(title string) PostInput {
	return PostInput{
		Title:   title,
		Content: "Long form content",
		Excerpt: "Short summary",
		Tags:    []string{"go", "go", " web "},
	}
}

func TestPostService_CreateDerivesSlugAndOwner(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	owner := seedUser(t, db, "owner")
	ctx := context.Background()

	svc := NewPostService(repository.NewPostRepository(db), cache.New(nil))
	post, err := svc.CreatePost(ctx, owner.ID, validPostInput("Hello, World!  2024"))
	require.NoError(t, err)

	assert.Equal(t, "hello-world-2024", post.Slug)
	assert.Equal(t, owner.ID, post.UserID)
	assert.Equal(t, models.PostStatusDraft, post.Status)
	assert.Equal(t, []string{"go", "web"}, []string(post.Tags))
}

func TestPostService_UpdateRederivesSlug(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	owner := seedUser(t, db, "owner")
	ctx := context.Background()

	svc := NewPostService(repository.NewPostRepository(db), cache.New(nil))
	post, err := svc.CreatePost(ctx, owner.ID, validPostInput("First Title"))
	require.NoError(t, err)

	in := validPostInput("Second Title")
	in.Status = models.PostStatusPublished
	updated, err := svc.UpdatePost(ctx, owner.ID, post.ID, in)
	require.NoError(t, err)
	assert.Equal(t, "second-title", updated.Slug)
	assert.Equal(t, models.PostStatusPublished, updated.Status)
}

func TestPostService_ListNewestFirst(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	owner := seedUser(t, db, "owner")
	ctx := context.Background()

	svc := NewPostService(repository.NewPostRepository(db), cache.New(nil))
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	for i, title := range []string{"Oldest post", "Middle post", "Newest post"} {
		svc.now = fixedClock(base.Add(time.Duration(i) * time.Hour))
		_, err := svc.CreatePost(ctx, owner.ID, validPostInput(title))
		require.NoError(t, err)
	}

	posts, err := svc.ListPosts(ctx, owner.ID)
	require.NoError(t, err)
	require.Len(t, posts, 3)
	assert.Equal(t, "Newest post", posts[0].Title)
	assert.Equal(t, "Oldest post", posts[2].Title)
}

func TestPostService_OwnerScoping(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	owner := seedUser(t, db, "owner")
	intruder := seedUser(t, db, "intruder")
	ctx := context.Background()

	svc := NewPostService(repository.NewPostRepository(db), cache.New(nil))
	post, err := svc.CreatePost(ctx, owner.ID, validPostInput("Private thoughts"))
	require.NoError(t, err)

	_, err = svc.GetPost(ctx, intruder.ID, post.ID)
	assertNotFoundError(t, err)
	_, err = svc.UpdatePost(ctx, intruder.ID, post.ID, validPostInput("Hijacked"))
	assertNotFoundError(t, err)
	assertNotFoundError(t, svc.DeletePost(ctx, intruder.ID, post.ID))

	require.NoError(t, svc.DeletePost(ctx, owner.ID, post.ID))
	assertNotFoundError(t, svc.DeletePost(ctx, owner.ID, post.ID))
}

func TestPostService_DuplicateSlugIsGeneric(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	owner := seedUser(t, db, "owner")
	ctx := context.Background()

	svc := NewPostService(repository.NewPostRepository(db), cache.New(nil))
	_, err := svc.CreatePost(ctx, owner.ID, validPostInput("Same Title"))
	require.NoError(t, err)

	_, err = svc.CreatePost(ctx, owner.ID, validPostInput("same title!"))
	appErr := assertAppError(t, err, models.CodeInternal)
	assert.Equal(t, "Failed to create post", appErr.Message)
	assert.ErrorIs(t, err, repository.ErrDuplicateSlug)

	other, err := svc.CreatePost(ctx, owner.ID, validPostInput("Other Title"))
	require.NoError(t, err)
	_, err = svc.UpdatePost(ctx, owner.ID, other.ID, validPostInput("Same Title"))
	appErr = assertAppError(t, err, models.CodeInternal)
	assert.Equal(t, "Failed to update post", appErr.Message)
}

func TestPostService_Validation(t *testing.T) {
	t.Parallel()
	svc := NewPostService(nil, cache.New(nil))
	ctx := context.Background()

	_, err := svc.CreatePost(ctx, 0, validPostInput("Title"))
	assertUnauthorizedError(t, err)

	in := validPostInput("Title")
	in.Status = "archived"
	_, err = svc.CreatePost(ctx, 1, in)
	assertValidationError(t, err)

	_, err = svc.CreatePost(ctx, 1, validPostInput("!!!"))
	assertValidationError(t, err)

	in = validPostInput("Title")
	in.Excerpt = ""
	_, err = svc.UpdatePost(ctx, 1, 5, in)
	assertValidationError(t, err)

	_, err = svc.GetPost(ctx, 1, 0)
	assertNotFoundError(t, err)
}
