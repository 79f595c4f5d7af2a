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

func validProjectInput() ProjectInput {
	return ProjectInput{
		Title:        "Folio",
		Description:  "A portfolio builder for developers",
		Technologies: []string{"Go", " Fiber ", "Go", ""},
		GithubLink:   "https://github.com/ada/folio",
	}
}

func TestProjectService_CRUD(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	owner := seedUser(t, db, "owner")
	ctx := context.Background()

	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	svc := NewProjectService(repository.NewProjectRepository(db), cache.New(nil))
	svc.now = fixedClock(now)

	created, err := svc.CreateProject(ctx, owner.ID, validProjectInput())
	require.NoError(t, err)
	assert.NotZero(t, created.ID)
	assert.Equal(t, owner.ID, created.UserID)
	assert.Equal(t, []string{"Go", "Fiber"}, []string(created.Technologies))
	assert.True(t, created.CreatedAt.Equal(now))

	got, err := svc.GetProject(ctx, owner.ID, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Folio", got.Title)

	in := validProjectInput()
	in.Title = "Folio v2"
	in.GithubLink = ""
	in.Technologies = nil
	svc.now = fixedClock(now.Add(time.Hour))
	updated, err := svc.UpdateProject(ctx, owner.ID, created.ID, in)
	require.NoError(t, err)
	assert.Equal(t, "Folio v2", updated.Title)
	assert.Empty(t, updated.GithubLink, "PUT replaces every editable field")
	assert.Empty(t, updated.Technologies)

	list, err := svc.ListProjects(ctx, owner.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)

	require.NoError(t, svc.DeleteProject(ctx, owner.ID, created.ID))
	_, err = svc.GetProject(ctx, owner.ID, created.ID)
	assertNotFoundError(t, err)
}

func TestProjectService_OwnerScoping(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	owner := seedUser(t, db, "owner")
	intruder := seedUser(t, db, "intruder")
	ctx := context.Background()

	svc := NewProjectService(repository.NewProjectRepository(db), cache.New(nil))
	project, err := svc.CreateProject(ctx, owner.ID, validProjectInput())
	require.NoError(t, err)

	_, err = svc.GetProject(ctx, intruder.ID, project.ID)
	assertNotFoundError(t, err)

	in := validProjectInput()
	in.Title = "Hijacked"
	_, err = svc.UpdateProject(ctx, intruder.ID, project.ID, in)
	assertNotFoundError(t, err)

	err = svc.DeleteProject(ctx, intruder.ID, project.ID)
	assertNotFoundError(t, err)

	list, err := svc.ListProjects(ctx, intruder.ID)
	require.NoError(t, err)
	assert.Empty(t, list)

	got, err := svc.GetProject(ctx, owner.ID, project.ID)
	require.NoError(t, err)
	assert.Equal(t, "Folio", got.Title, "intruder writes must not land")
}

func TestProjectService_Validation(t *testing.T) {
	t.Parallel()
	svc := NewProjectService(nil, cache.New(nil))
	ctx := context.Background()

	_, err := svc.CreateProject(ctx, 0, validProjectInput())
	assertUnauthorizedError(t, err)

	in := validProjectInput()
	in.Description = "short"
	_, err = svc.CreateProject(ctx, 1, in)
	assertValidationError(t, err)

	in = validProjectInput()
	in.GithubLink = "https://gitlab.com/ada"
	_, err = svc.UpdateProject(ctx, 1, 3, in)
	assertValidationError(t, err)

	_, err = svc.GetProject(ctx, 1, 0)
	assertNotFoundError(t, err)
	assertNotFoundError(t, svc.DeleteProject(ctx, 1, 0))
}

func TestProjectService_WritesInvalidateOwnerCache(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	owner := seedUser(t, db, "owner")
	c, mr := newTestCache(t)
	ctx := context.Background()

	svc := NewProjectService(repository.NewProjectRepository(db), c)
	for _, key := range cache.OwnerKeys(owner.ID) {
		require.NoError(t, mr.Set(key, "{}"))
	}

	_, err := svc.CreateProject(ctx, owner.ID, validProjectInput())
	require.NoError(t, err)

	for _, key := range cache.OwnerKeys(owner.ID) {
		assert.False(t, mr.Exists(key), key)
	}
}

func TestProjectService_StoreFailureIsGeneric(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	svc := NewProjectService(repository.NewProjectRepository(db), cache.New(nil))
	_, err = svc.ListProjects(context.Background(), 1)
	appErr := assertAppError(t, err, models.CodeInternal)
	assert.Equal(t, "Failed to fetch projects", appErr.Message)
}
