package server

import (
	"folio/internal/models"
	"folio/internal/service"

	"github.com/gofiber/fiber/v2"
)

type recordViewRequest struct {
	TargetID   string            `json:"target_id"`
	TargetType models.TargetType `json:"target_type"`
}

// RecordView handles POST /api/views
// @Summary Record a page view
// @Description Stores a view unless the same visitor viewed the same target in the last 30 minutes
// @Tags views
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param X-Visitor-Id header string false "Stable visitor identity"
// @Param request body recordViewRequest true "View target"
// @Success 200 {object} service.RecordViewResult
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Router /views [post]
func (s *Server) RecordView(c *fiber.Ctx) error {
	var req recordViewRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}

	res, err := s.viewService.RecordView(c.UserContext(), service.RecordViewInput{
		OwnerID:    currentUserID(c),
		TargetID:   req.TargetID,
		TargetType: req.TargetType,
		VisitorID:  c.Get("X-Visitor-Id"),
		Referrer:   c.Get(fiber.HeaderReferer),
		UserAgent:  c.Get(fiber.HeaderUserAgent),
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(res)
}
