package service

import (
	"context"
	"strings"
	"time"

	"folio/internal/cache"
	"folio/internal/models"
	"folio/internal/repository"
)

// Profile is the public portfolio page of one user.
type Profile struct {
	User     models.PublicUser `json:"user"`
	Projects []models.Project  `json:"projects"`
	Posts    []models.Post     `json:"posts"`
}

type ProfileService struct {
	userRepo    repository.UserRepository
	projectRepo repository.ProjectRepository
	postRepo    repository.PostRepository
	cache       *cache.Cache
	ttl         time.Duration
}

func NewProfileService(userRepo repository.UserRepository, projectRepo repository.ProjectRepository, postRepo repository.PostRepository, c *cache.Cache, ttl time.Duration) *ProfileService {
	if ttl <= 0 {
		ttl = cache.ProfileTTL
	}
	return &ProfileService{
		userRepo:    userRepo,
		projectRepo: projectRepo,
		postRepo:    postRepo,
		cache:       c,
		ttl:         ttl,
	}
}

// GetProfile returns username's projects and published posts. Drafts never appear.
func (s *ProfileService) GetProfile(ctx context.Context, username string) (*Profile, error) {
	user, err := s.lookupUser(ctx, username)
	if err != nil {
		return nil, err
	}

	return cache.Aside(ctx, s.cache, "profile", cache.ProfileKey(user.ID), s.ttl, func(ctx context.Context) (*Profile, error) {
		projects, err := s.projectRepo.ListByOwner(ctx, user.ID)
		if err != nil {
			return nil, storeError(ctx, "Failed to fetch profile", err)
		}
		posts, err := s.postRepo.ListPublishedByOwner(ctx, user.ID)
		if err != nil {
			return nil, storeError(ctx, "Failed to fetch profile", err)
		}
		return &Profile{
			User:     user.Public(),
			Projects: projects,
			Posts:    posts,
		}, nil
	})
}

// GetPublishedPost returns one of username's published posts by slug.
func (s *ProfileService) GetPublishedPost(ctx context.Context, username, postSlug string) (*models.Post, error) {
	user, err := s.lookupUser(ctx, username)
	if err != nil {
		return nil, err
	}
	postSlug = strings.TrimSpace(postSlug)
	if postSlug == "" {
		return nil, models.NewNotFoundError("Post")
	}
	post, err := s.postRepo.GetPublishedBySlug(ctx, user.ID, postSlug)
	if err != nil {
		return nil, storeError(ctx, "Failed to fetch post", err)
	}
	return post, nil
}

func (s *ProfileService) lookupUser(ctx context.Context, username string) (*models.User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, models.NewNotFoundError("User")
	}
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, storeError(ctx, "Failed to fetch profile", err)
	}
	if user == nil {
		return nil, models.NewNotFoundError("User")
	}
	return user, nil
}
