package handlers

import (
	"errors"
	"strings"

	"github.com/famcart/backend/internal/services"
	"github.com/famcart/backend/pkg/logger"
	"github.com/famcart/backend/pkg/utils"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

func parseUUID(value string) (uuid.UUID, error) {
	return uuid.Parse(strings.TrimSpace(value))
}

// respondServiceError translates the service error taxonomy into HTTP
// statuses. Anything unrecognized is logged and reported as a 500.
func respondServiceError(c *fiber.Ctx, err error) error {
	var validationErr *services.ValidationError
	if errors.As(err, &validationErr) {
		return utils.Error(c, fiber.StatusBadRequest, validationErr.Message)
	}

	var notFoundErr *services.NotFoundError
	if errors.As(err, &notFoundErr) {
		return utils.Error(c, fiber.StatusNotFound, notFoundErr.Error())
	}

	var forbiddenErr *services.ForbiddenError
	if errors.As(err, &forbiddenErr) {
		return utils.Error(c, fiber.StatusForbidden, forbiddenErr.Message)
	}

	var badRequestErr *services.BadRequestError
	if errors.As(err, &badRequestErr) {
		return utils.Error(c, fiber.StatusBadRequest, badRequestErr.Message)
	}

	logger.Error("unhandled_service_error", err, map[string]interface{}{
		"path": c.Path(),
	})
	return utils.Error(c, fiber.StatusInternalServerError, "internal server error")
}
