package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"folio/internal/cache"
	"folio/internal/models"
	"folio/internal/repository"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func fixedClock(t time.Time) Clock {
	return func() time.Time { return t }
}

func newTestCache(t *testing.T) (*cache.Cache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return cache.New(client), mr
}

func seedUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	user := &models.User{
		Name:     "Test " + username,
		Username: username,
		Email:    username + "@example.com",
		Password: "hash",
	}
	require.NoError(t, repository.NewUserRepository(db).Create(context.Background(), user))
	return user
}

func assertAppError(t *testing.T, err error, code string) *models.AppError {
	t.Helper()
	require.Error(t, err)
	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr), "expected AppError, got %T: %v", err, err)
	assert.Equal(t, code, appErr.Code)
	return appErr
}

func assertValidationError(t *testing.T, err error) {
	t.Helper()
	assertAppError(t, err, models.CodeValidation)
}

func assertUnauthorizedError(t *testing.T, err error) {
	t.Helper()
	assertAppError(t, err, models.CodeUnauthorized)
}

func assertNotFoundError(t *testing.T, err error) {
	t.Helper()
	assertAppError(t, err, models.CodeNotFound)
}

// userRepoStub lets tests script individual repository calls.
type userRepoStub struct {
	createFn        func(context.Context, *models.User) error
	getByIDFn       func(context.Context, uint) (*models.User, error)
	getByEmailFn    func(context.Context, string) (*models.User, error)
	getByUsernameFn func(context.Context, string) (*models.User, error)
}

func (s *userRepoStub) Create(ctx context.Context, user *models.User) error {
	return s.createFn(ctx, user)
}
func (s *userRepoStub) GetByID(ctx context.Context, id uint) (*models.User, error) {
	return s.getByIDFn(ctx, id)
}
func (s *userRepoStub) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.getByEmailFn(ctx, email)
}
func (s *userRepoStub) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.getByUsernameFn(ctx, username)
}

func noopUserRepo() *userRepoStub {
	return &userRepoStub{
		createFn:        func(context.Context, *models.User) error { return nil },
		getByIDFn:       func(context.Context, uint) (*models.User, error) { return &models.User{}, nil },
		getByEmailFn:    func(context.Context, string) (*models.User, error) { return nil, nil },
		getByUsernameFn: func(context.Context, string) (*models.User, error) { return nil, nil },
	}
}

// pageViewRepoStub fails or succeeds on demand and records inserts.
type pageViewRepoStub struct {
	findRecentFn func(context.Context, string, string, time.Time) (*models.PageView, error)
	createFn     func(context.Context, *models.PageView) error
	countFn      func(context.Context, repository.ViewFilter) (int64, error)
}

func (s *pageViewRepoStub) Create(ctx context.Context, view *models.PageView) error {
	return s.createFn(ctx, view)
}
func (s *pageViewRepoStub) FindRecent(ctx context.Context, targetID, visitorID string, since time.Time) (*models.PageView, error) {
	return s.findRecentFn(ctx, targetID, visitorID, since)
}
func (s *pageViewRepoStub) Count(ctx context.Context, filter repository.ViewFilter) (int64, error) {
	return s.countFn(ctx, filter)
}

type countStub struct {
	n   int64
	err error
}

func (c countStub) CountByOwner(context.Context, uint) (int64, error) { return c.n, c.err }

func (c countStub) CountPublishedByOwner(context.Context, uint) (int64, error) { return c.n, c.err }
