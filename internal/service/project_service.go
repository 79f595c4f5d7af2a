package service

import (
	"context"
	"strings"

	"folio/internal/cache"
	"folio/internal/models"
	"folio/internal/repository"
	"folio/internal/validation"
)

// ProjectInput carries the editable fields of a project. Ownership and
// timestamps are always server-assigned.
type ProjectInput struct {
	Title        string
	Description  string
	Technologies []string
	GithubLink   string
	LiveLink     string
	ImageURL     string
}

type ProjectService struct {
	projectRepo repository.ProjectRepository
	cache       *cache.Cache
	now         Clock
}

func NewProjectService(projectRepo repository.ProjectRepository, c *cache.Cache) *ProjectService {
	return &ProjectService{
		projectRepo: projectRepo,
		cache:       c,
		now:         utcNow,
	}
}

func (s *ProjectService) ListProjects(ctx context.Context, userID uint) ([]models.Project, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	projects, err := s.projectRepo.ListByOwner(ctx, userID)
	if err != nil {
		return nil, storeError(ctx, "Failed to fetch projects", err)
	}
	return projects, nil
}

func (s *ProjectService) GetProject(ctx context.Context, userID, projectID uint) (*models.Project, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	if projectID == 0 {
		return nil, models.NewNotFoundError("Project")
	}
	project, err := s.projectRepo.GetByIDForOwner(ctx, projectID, userID)
	if err != nil {
		return nil, storeError(ctx, "Failed to fetch project", err)
	}
	return project, nil
}

func (s *ProjectService) CreateProject(ctx context.Context, userID uint, in ProjectInput) (*models.Project, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	project, err := buildProject(in)
	if err != nil {
		return nil, err
	}

	now := s.now()
	project.UserID = userID
	project.CreatedAt = now
	project.UpdatedAt = now

	if err := s.projectRepo.Create(ctx, project); err != nil {
		return nil, storeError(ctx, "Failed to create project", err)
	}
	s.cache.Invalidate(ctx, cache.OwnerKeys(userID)...)
	return project, nil
}

// UpdateProject replaces every editable field of the caller's project.
func (s *ProjectService) UpdateProject(ctx context.Context, userID, projectID uint, in ProjectInput) (*models.Project, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	if projectID == 0 {
		return nil, models.NewNotFoundError("Project")
	}
	project, err := buildProject(in)
	if err != nil {
		return nil, err
	}
	project.UpdatedAt = s.now()

	updated, err := s.projectRepo.UpdateForOwner(ctx, projectID, userID, project)
	if err != nil {
		return nil, storeError(ctx, "Failed to update project", err)
	}
	s.cache.Invalidate(ctx, cache.OwnerKeys(userID)...)
	return updated, nil
}

func (s *ProjectService) DeleteProject(ctx context.Context, userID, projectID uint) error {
	if err := requireUser(userID); err != nil {
		return err
	}
	if projectID == 0 {
		return models.NewNotFoundError("Project")
	}
	if err := s.projectRepo.DeleteForOwner(ctx, projectID, userID); err != nil {
		return storeError(ctx, "Failed to delete project", err)
	}
	s.cache.Invalidate(ctx, cache.OwnerKeys(userID)...)
	return nil
}

func buildProject(in ProjectInput) (*models.Project, error) {
	p := &models.Project{
		Title:        strings.TrimSpace(in.Title),
		Description:  strings.TrimSpace(in.Description),
		Technologies: cleanList(in.Technologies),
		GithubLink:   strings.TrimSpace(in.GithubLink),
		LiveLink:     strings.TrimSpace(in.LiveLink),
		ImageURL:     strings.TrimSpace(in.ImageURL),
	}
	if err := validation.ValidateProjectFields(p.Title, p.Description, p.GithubLink, p.LiveLink, p.ImageURL); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	return p, nil
}
