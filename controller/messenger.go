package controller

import (
	"strconv"

	"legendario-service/utils"

	"github.com/gofiber/fiber/v2"
)

type MessageSendInput struct {
	UserID  uint   `json:"user_id"`
	Content string `json:"content"`
}

func paramConversationID(c *fiber.Ctx) (uint, bool) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

func ConversationList(c *fiber.Ctx) error {
	self, okID := utils.CurrentUserID(c)
	if !okID {
		return unauthenticated(c)
	}

	summaries, err := services.Conversations.ListFor(c.Context(), self)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, summaries)
}

func ConversationMessages(c *fiber.Ctx) error {
	self, okID := utils.CurrentUserID(c)
	if !okID {
		return unauthenticated(c)
	}
	conversationID, okParam := paramConversationID(c)
	if !okParam {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"status":  "error",
			"message": "Review your input",
			"data":    nil,
		})
	}

	limit, _ := strconv.Atoi(c.Query("limit"))
	before, _ := strconv.ParseUint(c.Query("before"), 10, 64)

	messages, err := services.Messages.History(c.Context(), conversationID, self, limit, uint(before))
	if err != nil {
		return fail(c, err)
	}
	return ok(c, messages)
}

// MessageSend resolves the canonical conversation for the pair and
// appends to it; the explicit message action and the chat surface both
// end up on this one path.
func MessageSend(c *fiber.Ctx) error {
	self, okID := utils.CurrentUserID(c)
	if !okID {
		return unauthenticated(c)
	}

	input := new(MessageSendInput)
	if err := c.BodyParser(input); err != nil || input.UserID == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"status":  "error",
			"message": "Review your input",
			"data":    nil,
		})
	}

	message, err := services.Messages.SendTo(c.Context(), self, input.UserID, input.Content)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, message)
}

func ConversationRead(c *fiber.Ctx) error {
	self, okID := utils.CurrentUserID(c)
	if !okID {
		return unauthenticated(c)
	}
	conversationID, okParam := paramConversationID(c)
	if !okParam {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"status":  "error",
			"message": "Review your input",
			"data":    nil,
		})
	}

	marked, err := services.Messages.MarkRead(c.Context(), conversationID, self)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, fiber.Map{"marked": marked})
}
