package server

import "github.com/gofiber/fiber/v2"

// GetProfile handles GET /api/profiles/:username
// @Summary Public portfolio
// @Description A user's projects and published posts
// @Tags profiles
// @Produce json
// @Param username path string true "Username"
// @Success 200 {object} service.Profile
// @Failure 404 {object} models.ErrorResponse
// @Router /profiles/{username} [get]
func (s *Server) GetProfile(c *fiber.Ctx) error {
	profile, err := s.profileService.GetProfile(c.UserContext(), c.Params("username"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(profile)
}

// GetProfilePost handles GET /api/profiles/:username/posts/:slug
// @Summary Public post
// @Tags profiles
// @Produce json
// @Param username path string true "Username"
// @Param slug path string true "Post slug"
// @Success 200 {object} models.Post
// @Failure 404 {object} models.ErrorResponse
// @Router /profiles/{username}/posts/{slug} [get]
func (s *Server) GetProfilePost(c *fiber.Ctx) error {
	post, err := s.profileService.GetPublishedPost(c.UserContext(), c.Params("username"), c.Params("slug"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(post)
}
