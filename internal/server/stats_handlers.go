package server

import "github.com/gofiber/fiber/v2"

// GetStats handles GET /api/stats
// @Summary Dashboard stats
// @Description View totals for the last month and week-over-week trends
// @Tags stats
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.DashboardStats
// @Failure 401 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /stats [get]
func (s *Server) GetStats(c *fiber.Ctx) error {
	stats, err := s.statsService.GetStats(c.UserContext(), currentUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(stats)
}
