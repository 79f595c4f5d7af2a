package server

import (
	"strconv"

	"folio/internal/models"

	"github.com/gofiber/fiber/v2"
)

// parseID reads a positive numeric route parameter. Anything else yields 0, which
// services treat as a record that does not exist.
func parseID(c *fiber.Ctx, param string) uint {
	id, err := strconv.ParseUint(c.Params(param), 10, 32)
	if err != nil {
		return 0
	}
	return uint(id)
}

// currentUserID returns the identity set by AuthRequired, or 0.
func currentUserID(c *fiber.Ctx) uint {
	id, _ := c.Locals("userID").(uint)
	return id
}

// respondError writes err with the status its AppError code maps to.
func respondError(c *fiber.Ctx, err error) error {
	return models.RespondWithError(c, models.StatusOf(err), err)
}

func badBody(c *fiber.Ctx) error {
	return models.RespondWithError(c, fiber.StatusBadRequest,
		models.NewValidationError("Invalid request body"))
}
