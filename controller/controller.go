package controller

import (
	"legendario-service/pkg/errors"
	"legendario-service/service"

	"github.com/gofiber/fiber/v2"
)

var services *service.Services

// Use hands the wired services to the package. Called once from main
// before any route is registered.
func Use(s *service.Services) {
	services = s
}

func statusOf(code errors.Code) int {
	switch code {
	case errors.CodeInvalidArgument:
		return fiber.StatusBadRequest
	case errors.CodeNotFound:
		return fiber.StatusNotFound
	case errors.CodeAlreadyExists, errors.CodeConflict:
		return fiber.StatusConflict
	case errors.CodeQuotaExceeded:
		return fiber.StatusUnprocessableEntity
	case errors.CodeForbidden, errors.CodeReadOnly:
		return fiber.StatusForbidden
	default:
		return fiber.StatusInternalServerError
	}
}

// fail renders a domain error with the service's response envelope.
func fail(c *fiber.Ctx, err error) error {
	code := errors.CodeOf(err)
	message := "Internal server error"
	if code != errors.CodeUnknown && code != errors.CodeInternal {
		message = err.Error()
	}
	return c.Status(statusOf(code)).JSON(fiber.Map{
		"status":  "error",
		"message": message,
		"data":    nil,
	})
}

func ok(c *fiber.Ctx, data any) error {
	return c.JSON(fiber.Map{
		"status":  "success",
		"message": nil,
		"data":    data,
	})
}

func unauthenticated(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"status":  "error",
		"message": "Invalid or expired JWT",
		"data":    nil,
	})
}
