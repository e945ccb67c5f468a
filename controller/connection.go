package controller

import (
	"strconv"

	"legendario-service/utils"

	"github.com/gofiber/fiber/v2"
)

type ConnectionRequestInput struct {
	UserID uint `json:"user_id"`
}

type ConnectionRespondInput struct {
	Accept bool `json:"accept"`
}

func paramUserID(c *fiber.Ctx) (uint, bool) {
	id, err := strconv.ParseUint(c.Params("userId"), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

func ConnectionRequest(c *fiber.Ctx) error {
	self, okID := utils.CurrentUserID(c)
	if !okID {
		return unauthenticated(c)
	}

	input := new(ConnectionRequestInput)
	if err := c.BodyParser(input); err != nil || input.UserID == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"status":  "error",
			"message": "Review your input",
			"data":    nil,
		})
	}

	edge, err := services.Connections.Request(c.Context(), self, input.UserID)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, edge)
}

func ConnectionRespond(c *fiber.Ctx) error {
	self, okID := utils.CurrentUserID(c)
	if !okID {
		return unauthenticated(c)
	}
	requester, okParam := paramUserID(c)
	if !okParam {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"status":  "error",
			"message": "Review your input",
			"data":    nil,
		})
	}

	input := new(ConnectionRespondInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"status":  "error",
			"message": "Review your input",
			"data":    nil,
		})
	}

	edge, err := services.Connections.Respond(c.Context(), self, requester, input.Accept)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, edge)
}

func ConnectionRevoke(c *fiber.Ctx) error {
	self, okID := utils.CurrentUserID(c)
	if !okID {
		return unauthenticated(c)
	}
	other, okParam := paramUserID(c)
	if !okParam {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"status":  "error",
			"message": "Review your input",
			"data":    nil,
		})
	}

	if err := services.Connections.Revoke(c.Context(), self, other); err != nil {
		return fail(c, err)
	}
	return ok(c, nil)
}

func ConnectionStatus(c *fiber.Ctx) error {
	self, okID := utils.CurrentUserID(c)
	if !okID {
		return unauthenticated(c)
	}
	other, okParam := paramUserID(c)
	if !okParam {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"status":  "error",
			"message": "Review your input",
			"data":    nil,
		})
	}

	status, err := services.Connections.Status(c.Context(), self, other)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, fiber.Map{"status": status})
}

func ConnectionList(c *fiber.Ctx) error {
	self, okID := utils.CurrentUserID(c)
	if !okID {
		return unauthenticated(c)
	}

	edges, err := services.Connections.List(c.Context(), self)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, edges)
}
