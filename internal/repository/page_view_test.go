package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"folio/internal/models"
	"folio/internal/testutil"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPageViewRepository_Count_SQL(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewPageViewRepository(db)

	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT count(*) FROM "page_views" WHERE user_id = $1 AND target_type = $2 AND viewed_at >= $3 AND viewed_at < $4`)).
		WithArgs(7, models.TargetPost, from, to).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(12))

	n, err := repo.Count(context.Background(), ViewFilter{OwnerID: 7, TargetType: models.TargetPost, From: from, To: to})
	require.NoError(t, err)
	assert.Equal(t, int64(12), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPageViewRepository_FindRecent_SQL(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewPageViewRepository(db)
	since := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "page_views" WHERE target_id = $1 AND visitor_id = $2 AND viewed_at >= $3 ORDER BY viewed_at DESC LIMIT $4`)).
		WithArgs("42", "visitor-1", since, 1).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	view, err := repo.FindRecent(context.Background(), "42", "visitor-1", since)
	assert.NoError(t, err)
	assert.Nil(t, view)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPageViewRepository_WindowBounds(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	repo := NewPageViewRepository(db)
	ctx := context.Background()

	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
	views := []models.PageView{
		{UserID: 1, TargetID: "p1", TargetType: models.TargetPost, VisitorID: "a", ViewedAt: now.Add(-time.Hour)},
		{UserID: 1, TargetID: "p1", TargetType: models.TargetPost, VisitorID: "b", ViewedAt: now.AddDate(0, -1, 0)},
		{UserID: 1, TargetID: "p1", TargetType: models.TargetPost, VisitorID: "c", ViewedAt: now.AddDate(0, -1, -1)},
		{UserID: 1, TargetID: "1", TargetType: models.TargetProfile, VisitorID: "a", ViewedAt: now.Add(-time.Hour)},
		{UserID: 2, TargetID: "p9", TargetType: models.TargetPost, VisitorID: "a", ViewedAt: now.Add(-time.Hour)},
	}
	for i := range views {
		require.NoError(t, repo.Create(ctx, &views[i]))
	}

	monthAgo := now.AddDate(0, -1, 0)
	current, err := repo.Count(ctx, ViewFilter{OwnerID: 1, TargetType: models.TargetPost, From: monthAgo})
	require.NoError(t, err)
	assert.Equal(t, int64(2), current, "lower bound is inclusive")

	previous, err := repo.Count(ctx, ViewFilter{OwnerID: 1, TargetType: models.TargetPost, From: monthAgo.AddDate(0, -1, 0), To: monthAgo})
	require.NoError(t, err)
	assert.Equal(t, int64(1), previous, "upper bound is exclusive")

	total, err := repo.Count(ctx, ViewFilter{OwnerID: 1})
	require.NoError(t, err)
	assert.Equal(t, int64(4), total)

	recent, err := repo.FindRecent(ctx, "p1", "a", now.Add(-30*time.Minute))
	require.NoError(t, err)
	assert.Nil(t, recent)

	recent, err = repo.FindRecent(ctx, "p1", "a", now.Add(-2*time.Hour))
	require.NoError(t, err)
	require.NotNil(t, recent)
	assert.Equal(t, "a", recent.VisitorID)
}
