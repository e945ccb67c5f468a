package controller

import (
	"log"

	"legendario-service/database"
	"legendario-service/model"

	"github.com/gofiber/fiber/v2"
)

type AdminBroadcastInput struct {
	UserIDs []uint `json:"user_ids"`
	Content string `json:"content"`
}

// AdminBroadcast originates announcements from the system identity.
// Each recipient gets the message in their read-only system
// conversation through the same resolve-and-send path as everything
// else. An empty recipient list targets every known user.
func AdminBroadcast(c *fiber.Ctx) error {
	input := new(AdminBroadcastInput)
	if err := c.BodyParser(input); err != nil || input.Content == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"status":  "error",
			"message": "Review your input",
			"data":    nil,
		})
	}

	system := services.Messages.SystemUserID
	if system == 0 {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"status":  "error",
			"message": "System identity is not configured",
			"data":    nil,
		})
	}

	recipients := input.UserIDs
	if len(recipients) == 0 {
		if err := database.Postgres.Model(&model.User{}).
			Where("id <> ?", system).
			Pluck("id", &recipients).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"status":  "error",
				"message": "Internal server error",
				"data":    nil,
			})
		}
	}

	sent := 0
	for _, recipient := range recipients {
		if recipient == system {
			continue
		}
		if _, err := services.Messages.SendTo(c.Context(), system, recipient, input.Content); err != nil {
			log.Printf("broadcast to user %d failed: %v", recipient, err)
			continue
		}
		sent++
	}

	return ok(c, fiber.Map{"sent": sent})
}
