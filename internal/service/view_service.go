package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"folio/internal/cache"
	"folio/internal/featureflags"
	"folio/internal/middleware"
	"folio/internal/models"
	"folio/internal/observability"
	"folio/internal/repository"

	"go.opentelemetry.io/otel/attribute"
)

// DedupWindow is how long a (target, visitor) pair is suppressed after an accepted view.
const DedupWindow = 30 * time.Minute

const (
	msgViewRecorded  = "View recorded successfully"
	msgViewDuplicate = "View already recorded"
)

// ViewPublisher pushes accepted views to live subscribers.
type ViewPublisher interface {
	PublishView(ctx context.Context, view *models.PageView) error
}

// RecordViewInput describes one view. OwnerID is the content owner, not the visitor.
type RecordViewInput struct {
	OwnerID    uint
	TargetID   string
	TargetType models.TargetType
	VisitorID  string
	Referrer   string
	UserAgent  string
}

// RecordViewResult reports whether a new PageView was stored.
type RecordViewResult struct {
	Accepted bool   `json:"accepted"`
	Message  string `json:"message"`
}

type ViewService struct {
	viewRepo  repository.PageViewRepository
	cache     *cache.Cache
	publisher ViewPublisher
	flags     *featureflags.Manager
	now       Clock
}

// NewViewService builds the recorder. publisher may be nil when live updates are unavailable.
func NewViewService(viewRepo repository.PageViewRepository, c *cache.Cache, publisher ViewPublisher, flags *featureflags.Manager) *ViewService {
	return &ViewService{
		viewRepo:  viewRepo,
		cache:     c,
		publisher: publisher,
		flags:     flags,
		now:       utcNow,
	}
}

// RecordView stores a PageView unless the same visitor viewed the same target within
// DedupWindow. It writes zero or one row. Two concurrent calls for the same pair can
// both pass the lookup and both insert.
func (s *ViewService) RecordView(ctx context.Context, in RecordViewInput) (res *RecordViewResult, err error) {
	if err := requireUser(in.OwnerID); err != nil {
		return nil, err
	}

	in.TargetID = strings.TrimSpace(in.TargetID)
	if in.TargetID == "" || in.TargetType == "" {
		return nil, models.NewValidationError("target_id and target_type are required")
	}
	if !in.TargetType.Valid() {
		return nil, models.NewValidationError("target_type must be one of post, profile, project")
	}
	if strings.TrimSpace(in.VisitorID) == "" {
		in.VisitorID = models.AnonymousVisitor
	}

	ctx, end := observability.StartSpan(ctx, "ViewService.RecordView",
		attribute.String("view.target_type", string(in.TargetType)),
		attribute.String("view.target_id", in.TargetID),
	)
	defer func() { end(err) }()

	now := s.now()

	recent, err := s.viewRepo.FindRecent(ctx, in.TargetID, in.VisitorID, now.Add(-DedupWindow))
	if err != nil {
		observability.RecordView(string(in.TargetType), observability.ViewResultError)
		return nil, storeError(ctx, "Failed to record view", err)
	}
	if recent != nil {
		observability.RecordView(string(in.TargetType), observability.ViewResultDuplicate)
		return &RecordViewResult{Accepted: false, Message: msgViewDuplicate}, nil
	}

	view := &models.PageView{
		UserID:     in.OwnerID,
		TargetID:   in.TargetID,
		TargetType: in.TargetType,
		VisitorID:  in.VisitorID,
		ViewedAt:   now,
		Referrer:   in.Referrer,
		UserAgent:  in.UserAgent,
	}
	if err := s.viewRepo.Create(ctx, view); err != nil {
		observability.RecordView(string(in.TargetType), observability.ViewResultError)
		return nil, storeError(ctx, "Failed to record view", err)
	}

	observability.RecordView(string(in.TargetType), observability.ViewResultAccepted)
	s.cache.Invalidate(ctx, cache.StatsKey(in.OwnerID))
	s.publish(ctx, view)

	return &RecordViewResult{Accepted: true, Message: msgViewRecorded}, nil
}

func (s *ViewService) publish(ctx context.Context, view *models.PageView) {
	if s.publisher == nil || !s.flags.Enabled(featureflags.LiveViews, view.UserID) {
		return
	}
	if err := s.publisher.PublishView(ctx, view); err != nil {
		middleware.Logger.WarnContext(ctx, "failed to publish view event",
			slog.String("target_id", view.TargetID),
			slog.String("error", err.Error()),
		)
	}
}
