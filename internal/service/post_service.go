package service

import (
	"context"
	"strings"

	"folio/internal/cache"
	"folio/internal/models"
	"folio/internal/repository"
	"folio/internal/slug"
	"folio/internal/validation"
)

// PostInput carries the editable fields of a post. Slug, ownership and
// timestamps are always server-derived.
type PostInput struct {
	Title      string
	Content    string
	Excerpt    string
	CoverImage string
	Tags       []string
	Status     models.PostStatus
}

type PostService struct {
	postRepo repository.PostRepository
	cache    *cache.Cache
	now      Clock
}

func NewPostService(postRepo repository.PostRepository, c *cache.Cache) *PostService {
	return &PostService{
		postRepo: postRepo,
		cache:    c,
		now:      utcNow,
	}
}

func (s *PostService) ListPosts(ctx context.Context, userID uint) ([]models.Post, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	posts, err := s.postRepo.ListByOwner(ctx, userID)
	if err != nil {
		return nil, storeError(ctx, "Failed to fetch posts", err)
	}
	return posts, nil
}

func (s *PostService) GetPost(ctx context.Context, userID, postID uint) (*models.Post, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	if postID == 0 {
		return nil, models.NewNotFoundError("Post")
	}
	post, err := s.postRepo.GetByIDForOwner(ctx, postID, userID)
	if err != nil {
		return nil, storeError(ctx, "Failed to fetch post", err)
	}
	return post, nil
}

// CreatePost stores a new post for userID with a slug derived from its title.
// A slug collision surfaces as a generic creation failure.
func (s *PostService) CreatePost(ctx context.Context, userID uint, in PostInput) (*models.Post, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	post, err := buildPost(in)
	if err != nil {
		return nil, err
	}

	now := s.now()
	post.UserID = userID
	post.CreatedAt = now
	post.UpdatedAt = now

	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, storeError(ctx, "Failed to create post", err)
	}
	s.cache.Invalidate(ctx, cache.OwnerKeys(userID)...)
	return post, nil
}

// UpdatePost replaces every editable field of the caller's post and re-derives its slug.
func (s *PostService) UpdatePost(ctx context.Context, userID, postID uint, in PostInput) (*models.Post, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	if postID == 0 {
		return nil, models.NewNotFoundError("Post")
	}
	post, err := buildPost(in)
	if err != nil {
		return nil, err
	}
	post.UpdatedAt = s.now()

	updated, err := s.postRepo.UpdateForOwner(ctx, postID, userID, post)
	if err != nil {
		return nil, storeError(ctx, "Failed to update post", err)
	}
	s.cache.Invalidate(ctx, cache.OwnerKeys(userID)...)
	return updated, nil
}

func (s *PostService) DeletePost(ctx context.Context, userID, postID uint) error {
	if err := requireUser(userID); err != nil {
		return err
	}
	if postID == 0 {
		return models.NewNotFoundError("Post")
	}
	if err := s.postRepo.DeleteForOwner(ctx, postID, userID); err != nil {
		return storeError(ctx, "Failed to delete post", err)
	}
	s.cache.Invalidate(ctx, cache.OwnerKeys(userID)...)
	return nil
}

func buildPost(in PostInput) (*models.Post, error) {
	status := in.Status
	if status == "" {
		status = models.PostStatusDraft
	}
	if !status.Valid() {
		return nil, models.NewValidationError("status must be draft or published")
	}

	p := &models.Post{
		Title:      strings.TrimSpace(in.Title),
		Content:    in.Content,
		Excerpt:    strings.TrimSpace(in.Excerpt),
		CoverImage: strings.TrimSpace(in.CoverImage),
		Tags:       cleanList(in.Tags),
		Status:     status,
	}
	if err := validation.ValidatePostFields(p.Title, p.Content, p.Excerpt, p.CoverImage); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	p.Slug = slug.Make(p.Title)
	if strings.Trim(p.Slug, "-") == "" {
		return nil, models.NewValidationError("title must contain at least one letter or digit")
	}
	return p, nil
}
