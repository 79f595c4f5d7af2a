package server

import (
	"folio/internal/service"

	"github.com/gofiber/fiber/v2"
)

// projectRequest is the writable shape of a project. Any user_id, id or timestamps
// in the body are ignored.
type projectRequest struct {
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	Technologies []string `json:"technologies"`
	GithubLink   string   `json:"github_link"`
	LiveLink     string   `json:"live_link"`
	ImageURL     string   `json:"image_url"`
}

func (r projectRequest) input() service.ProjectInput {
	return service.ProjectInput{
		Title:        r.Title,
		Description:  r.Description,
		Technologies: r.Technologies,
		GithubLink:   r.GithubLink,
		LiveLink:     r.LiveLink,
		ImageURL:     r.ImageURL,
	}
}

// ListProjects handles GET /api/projects
// @Summary List my projects
// @Tags projects
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.Project
// @Failure 401 {object} models.ErrorResponse
// @Router /projects [get]
func (s *Server) ListProjects(c *fiber.Ctx) error {
	projects, err := s.projectService.ListProjects(c.UserContext(), currentUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(projects)
}

// CreateProject handles POST /api/projects
// @Summary Create a project
// @Tags projects
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body projectRequest true "Project"
// @Success 201 {object} models.Project
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Router /projects [post]
func (s *Server) CreateProject(c *fiber.Ctx) error {
	var req projectRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}
	project, err := s.projectService.CreateProject(c.UserContext(), currentUserID(c), req.input())
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(project)
}

// GetProject handles GET /api/projects/:id
// @Summary Get one of my projects
// @Tags projects
// @Produce json
// @Security BearerAuth
// @Param id path int true "Project ID"
// @Success 200 {object} models.Project
// @Failure 404 {object} models.ErrorResponse
// @Router /projects/{id} [get]
func (s *Server) GetProject(c *fiber.Ctx) error {
	project, err := s.projectService.GetProject(c.UserContext(), currentUserID(c), parseID(c, "id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(project)
}

// UpdateProject handles PUT /api/projects/:id
// @Summary Replace one of my projects
// @Tags projects
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Project ID"
// @Param request body projectRequest true "Project"
// @Success 200 {object} models.Project
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /projects/{id} [put]
func (s *Server) UpdateProject(c *fiber.Ctx) error {
	var req projectRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}
	project, err := s.projectService.UpdateProject(c.UserContext(), currentUserID(c), parseID(c, "id"), req.input())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(project)
}

// DeleteProject handles DELETE /api/projects/:id
// @Summary Delete one of my projects
// @Tags projects
// @Produce json
// @Security BearerAuth
// @Param id path int true "Project ID"
// @Success 200 {object} object{message=string}
// @Failure 404 {object} models.ErrorResponse
// @Router /projects/{id} [delete]
func (s *Server) DeleteProject(c *fiber.Ctx) error {
	if err := s.projectService.DeleteProject(c.UserContext(), currentUserID(c), parseID(c, "id")); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Project deleted successfully"})
}
