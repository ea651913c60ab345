// Package handlers contains the HTTP route handler functions for the
// tournament API. Each exported function follows the handler factory pattern:
// it takes its dependencies and returns a fiber.Handler, so nothing reaches
// for globals.
package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/fergarri/golf-tournament-app/internal/apperrors"
	"github.com/fergarri/golf-tournament-app/internal/logging"
)

// fail maps service and engine errors onto HTTP statuses. Typed apperrors
// carry a safe message for the client; anything else is logged and hidden
// behind a generic 500.
func fail(c *fiber.Ctx, err error) error {
	var appErr *apperrors.Error
	if errors.As(err, &appErr) {
		status := fiber.StatusInternalServerError
		switch appErr.Kind {
		case apperrors.KindNotFound:
			status = fiber.StatusNotFound
		case apperrors.KindInvalidState:
			status = fiber.StatusConflict
		case apperrors.KindInconsistency:
			status = fiber.StatusUnprocessableEntity
		}
		return c.Status(status).JSON(fiber.Map{"error": appErr.Message})
	}

	logging.Log.WithError(err).Error("request failed")
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
}

// parseID reads a UUID path parameter, writing a 400 response itself when the
// value is malformed. The bool reports whether parsing succeeded.
func parseID(c *fiber.Ctx, param string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Params(param))
	if err != nil {
		_ = c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid " + param})
		return uuid.Nil, false
	}
	return id, true
}
