package repository

import (
	"context"
	"errors"
	"fmt"

	"folio/internal/models"

	"gorm.io/gorm"
)

// ProjectRepository defines owner-scoped persistence for projects.
// Every single-record operation filters by id and owner, so a record of another
// owner is reported as not found.
type ProjectRepository interface {
	Create(ctx context.Context, project *models.Project) error
	GetByIDForOwner(ctx context.Context, id, ownerID uint) (*models.Project, error)
	ListByOwner(ctx context.Context, ownerID uint) ([]models.Project, error)
	UpdateForOwner(ctx context.Context, id, ownerID uint, project *models.Project) (*models.Project, error)
	DeleteForOwner(ctx context.Context, id, ownerID uint) error
	CountByOwner(ctx context.Context, ownerID uint) (int64, error)
}

type projectRepository struct {
	db *gorm.DB
}

// NewProjectRepository creates a new project repository
func NewProjectRepository(db *gorm.DB) ProjectRepository {
	return &projectRepository{db: db}
}

func (r *projectRepository) Create(ctx context.Context, project *models.Project) error {
	if err := r.db.WithContext(ctx).Create(project).Error; err != nil {
		return fmt.Errorf("create project: %w", err)
	}
	return nil
}

func (r *projectRepository) GetByIDForOwner(ctx context.Context, id, ownerID uint) (*models.Project, error) {
	var project models.Project
	if err := r.db.WithContext(ctx).Scopes(ownerScope(id, ownerID)).Take(&project).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Project")
		}
		return nil, fmt.Errorf("get project %d: %w", id, err)
	}
	return &project, nil
}

func (r *projectRepository) ListByOwner(ctx context.Context, ownerID uint) ([]models.Project, error) {
	projects := []models.Project{}
	if err := r.db.WithContext(ctx).Where("user_id = ?", ownerID).Order("id ASC").Find(&projects).Error; err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	return projects, nil
}

// UpdateForOwner overwrites the editable fields of the owner's project in a single
// filtered UPDATE and returns the stored row.
func (r *projectRepository) UpdateForOwner(ctx context.Context, id, ownerID uint, project *models.Project) (*models.Project, error) {
	var updated models.Project
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Project{}).Scopes(ownerScope(id, ownerID)).Updates(map[string]any{
			"title":        project.Title,
			"description":  project.Description,
			"technologies": project.Technologies,
			"github_link":  project.GithubLink,
			"live_link":    project.LiveLink,
			"image_url":    project.ImageURL,
			"updated_at":   project.UpdatedAt,
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
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Project")
		}
		return nil, fmt.Errorf("update project %d: %w", id, err)
	}
	return &updated, nil
}

func (r *projectRepository) DeleteForOwner(ctx context.Context, id, ownerID uint) error {
	res := r.db.WithContext(ctx).Scopes(ownerScope(id, ownerID)).Delete(&models.Project{})
	if res.Error != nil {
		return fmt.Errorf("delete project %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("Project")
	}
	return nil
}

func (r *projectRepository) CountByOwner(ctx context.Context, ownerID uint) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&models.Project{}).Where("user_id = ?", ownerID).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count projects: %w", err)
	}
	return n, nil
}
