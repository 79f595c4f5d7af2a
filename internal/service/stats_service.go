package service

import (
	"context"
	"log/slog"
	"math"
	"time"

	"folio/internal/cache"
	"folio/internal/featureflags"
	"folio/internal/middleware"
	"folio/internal/models"
	"folio/internal/observability"
	"folio/internal/repository"

	"golang.org/x/sync/errgroup"
)

// ViewCounter counts page views matching a filter.
type ViewCounter interface {
	Count(ctx context.Context, filter repository.ViewFilter) (int64, error)
}

// ProjectCounter counts an owner's projects.
type ProjectCounter interface {
	CountByOwner(ctx context.Context, ownerID uint) (int64, error)
}

// PublishedPostCounter counts an owner's published posts.
type PublishedPostCounter interface {
	CountPublishedByOwner(ctx context.Context, ownerID uint) (int64, error)
}

type StatsService struct {
	views    ViewCounter
	projects ProjectCounter
	posts    PublishedPostCounter
	cache    *cache.Cache
	flags    *featureflags.Manager
	ttl      time.Duration
	now      Clock
}

func NewStatsService(views ViewCounter, projects ProjectCounter, posts PublishedPostCounter, c *cache.Cache, flags *featureflags.Manager, ttl time.Duration) *StatsService {
	if ttl <= 0 {
		ttl = cache.StatsTTL
	}
	return &StatsService{
		views:    views,
		projects: projects,
		posts:    posts,
		cache:    c,
		flags:    flags,
		ttl:      ttl,
		now:      utcNow,
	}
}

// GetStats returns the caller's dashboard stats as of now, through the cache when
// the stats_cache flag is on for the user.
func (s *StatsService) GetStats(ctx context.Context, userID uint) (*models.DashboardStats, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	if !s.flags.Enabled(featureflags.StatsCache, userID) {
		return s.ComputeStats(ctx, userID, s.now())
	}
	return cache.Aside(ctx, s.cache, "stats", cache.StatsKey(userID), s.ttl, func(ctx context.Context) (*models.DashboardStats, error) {
		return s.ComputeStats(ctx, userID, s.now())
	})
}

// ComputeStats runs the six counts concurrently. Any failing count fails the whole call;
// the counts share no transaction.
func (s *StatsService) ComputeStats(ctx context.Context, userID uint, now time.Time) (stats *models.DashboardStats, err error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}

	ctx, end := observability.StartSpan(ctx, "StatsService.ComputeStats")
	defer func() { end(err) }()
	defer observability.ObserveStats("db", time.Now())

	oneMonthAgo := now.AddDate(0, -1, 0)
	twoMonthsAgo := oneMonthAgo.AddDate(0, -1, 0)
	oneWeekAgo := now.AddDate(0, 0, -7)
	twoWeeksAgo := oneWeekAgo.AddDate(0, 0, -7)

	var (
		currentMonthViews, previousMonthViews   int64
		currentWeekProfile, previousWeekProfile int64
		totalProjects, totalPosts               int64
	)

	g, gctx := errgroup.WithContext(ctx)
	countViews := func(dst *int64, f repository.ViewFilter) {
		g.Go(func() error {
			n, err := s.views.Count(gctx, f)
			*dst = n
			return err
		})
	}

	countViews(&currentMonthViews, repository.ViewFilter{OwnerID: userID, TargetType: models.TargetPost, From: oneMonthAgo})
	countViews(&previousMonthViews, repository.ViewFilter{OwnerID: userID, TargetType: models.TargetPost, From: twoMonthsAgo, To: oneMonthAgo})
	countViews(&currentWeekProfile, repository.ViewFilter{OwnerID: userID, TargetType: models.TargetProfile, From: oneWeekAgo})
	countViews(&previousWeekProfile, repository.ViewFilter{OwnerID: userID, TargetType: models.TargetProfile, From: twoWeeksAgo, To: oneWeekAgo})
	g.Go(func() error {
		n, err := s.projects.CountByOwner(gctx, userID)
		totalProjects = n
		return err
	})
	g.Go(func() error {
		n, err := s.posts.CountPublishedByOwner(gctx, userID)
		totalPosts = n
		return err
	})

	if err := g.Wait(); err != nil {
		middleware.Logger.ErrorContext(ctx, "Failed to fetch stats", slog.String("error", err.Error()))
		return nil, models.NewInternalError("Failed to fetch stats", err)
	}

	return &models.DashboardStats{
		TotalViews:        currentMonthViews,
		TotalProjects:     totalProjects,
		TotalPosts:        totalPosts,
		ProfileViews:      currentWeekProfile,
		ViewsTrend:        Trend(currentMonthViews, previousMonthViews),
		ProfileViewsTrend: Trend(currentWeekProfile, previousWeekProfile),
	}, nil
}

// Trend is the percentage change from previous to current, rounded to two decimals.
// A zero previous period reports 100.
func Trend(current, previous int64) float64 {
	if previous == 0 {
		return 100
	}
	return Round2(float64(current-previous) / float64(previous) * 100)
}

// Round2 rounds x to two decimal places, halves rounding up.
func Round2(x float64) float64 {
	return math.Floor(x*100+0.5) / 100
}
