package repository

import (
	"context"
	"errors"
	"fmt"

	"folio/internal/models"

	"gorm.io/gorm"
)

// PostRepository defines owner-scoped persistence for blog posts plus the
// published-only reads behind public profiles.
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByIDForOwner(ctx context.Context, id, ownerID uint) (*models.Post, error)
	ListByOwner(ctx context.Context, ownerID uint) ([]models.Post, error)
	UpdateForOwner(ctx context.Context, id, ownerID uint, post *models.Post) (*models.Post, error)
	DeleteForOwner(ctx context.Context, id, ownerID uint) error
	CountPublishedByOwner(ctx context.Context, ownerID uint) (int64, error)
	ListPublishedByOwner(ctx context.Context, ownerID uint) ([]models.Post, error)
	GetPublishedBySlug(ctx context.Context, ownerID uint, slug string) (*models.Post, error)
}

// ErrDuplicateSlug is returned when a write collides with an existing post slug.
var ErrDuplicateSlug = errors.New("post slug already exists")

type postRepository struct {
	db *gorm.DB
}

// NewPostRepository creates a new post repository
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	if err := r.db.WithContext(ctx).Create(post).Error; err != nil {
		if isUniqueConstraintError(err) {
			return fmt.Errorf("create post: %w: %w", ErrDuplicateSlug, err)
		}
		return fmt.Errorf("create post: %w", err)
	}
	return nil
}

func (r *postRepository) GetByIDForOwner(ctx context.Context, id, ownerID uint) (*models.Post, error) {
	var post models.Post
	if err := r.db.WithContext(ctx).Scopes(ownerScope(id, ownerID)).Take(&post).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Post")
		}
		return nil, fmt.Errorf("get post %d: %w", id, err)
	}
	return &post, nil
}

// ListByOwner returns all of the owner's posts, newest first.
func (r *postRepository) ListByOwner(ctx context.Context, ownerID uint) ([]models.Post, error) {
	posts := []models.Post{}
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", ownerID).
		Order("created_at DESC").
		Order("id DESC").
		Find(&posts).Error; err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	return posts, nil
}

// UpdateForOwner overwrites the editable fields, including the re-derived slug, in a
// single filtered UPDATE and returns the stored row.
func (r *postRepository) UpdateForOwner(ctx context.Context, id, ownerID uint, post *models.Post) (*models.Post, error) {
	var updated models.Post
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Post{}).Scopes(ownerScope(id, ownerID)).Updates(map[string]any{
			"title":       post.Title,
			"content":     post.Content,
			"excerpt":     post.Excerpt,
			"slug":        post.Slug,
			"cover_image": post.CoverImage,
			"tags":        post.Tags,
			"status":      post.Status,
			"updated_at":  post.UpdatedAt,
		})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return tx.Scopes(ownerScope(id, ownerID)).Take(&updated).Error
	})
	if err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			return nil, models.NewNotFoundError("Post")
		case isUniqueConstraintError(err):
			return nil, fmt.Errorf("update post %d: %w: %w", id, ErrDuplicateSlug, err)
		}
		return nil, fmt.Errorf("update post %d: %w", id, err)
	}
	return &updated, nil
}

func (r *postRepository) DeleteForOwner(ctx context.Context, id, ownerID uint) error {
	res := r.db.WithContext(ctx).Scopes(ownerScope(id, ownerID)).Delete(&models.Post{})
	if res.Error != nil {
		return fmt.Errorf("delete post %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("Post")
	}
	return nil
}

func (r *postRepository) CountPublishedByOwner(ctx context.Context, ownerID uint) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).
		Model(&models.Post{}).
		Where("user_id = ? AND status = ?", ownerID, models.PostStatusPublished).
		Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count published posts: %w", err)
	}
	return n, nil
}

func (r *postRepository) ListPublishedByOwner(ctx context.Context, ownerID uint) ([]models.Post, error) {
	posts := []models.Post{}
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND status = ?", ownerID, models.PostStatusPublished).
		Order("created_at DESC").
		Order("id DESC").
		Find(&posts).Error; err != nil {
		return nil, fmt.Errorf("list published posts: %w", err)
	}
	return posts, nil
}

func (r *postRepository) GetPublishedBySlug(ctx context.Context, ownerID uint, slug string) (*models.Post, error) {
	var post models.Post
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND slug = ? AND status = ?", ownerID, slug, models.PostStatusPublished).
		Take(&post).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Post")
		}
		return nil, fmt.Errorf("get post by slug: %w", err)
	}
	return &post, nil
}
