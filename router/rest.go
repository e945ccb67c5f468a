package router

import (
	"legendario-service/controller"
	"legendario-service/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
)

func Rest(app *fiber.App) {
	api := app.Group("/v1", logger.New())

	// Connections
	connections := api.Group("/connections", middleware.JWT(), middleware.OTP())
	connections.Get("/", controller.ConnectionList)
	connections.Post("/", controller.ConnectionRequest)
	connections.Get("/:userId/status", controller.ConnectionStatus)
	connections.Post("/:userId/respond", controller.ConnectionRespond)
	connections.Delete("/:userId", controller.ConnectionRevoke)

	// Awards
	awards := api.Group("/awards", middleware.JWT(), middleware.OTP())
	awards.Get("/", controller.AwardSummary)
	awards.Get("/badges", controller.BadgeList)

	// Tiers
	tiers := api.Group("/tiers", middleware.JWT(), middleware.OTP())
	tiers.Get("/limits", controller.TierLimits)

	// Messenger
	conversations := api.Group("/conversations", middleware.JWT(), middleware.OTP())
	conversations.Get("/", controller.ConversationList)
	conversations.Get("/:id/messages", controller.ConversationMessages)
	conversations.Post("/:id/read", controller.ConversationRead)

	messages := api.Group("/messages", middleware.JWT(), middleware.OTP())
	messages.Post("/", controller.MessageSend)

	// Admin
	admin := api.Group("/admin", middleware.JWT(), middleware.OTP(), middleware.RBAC())
	admin.Post("/broadcast", controller.AdminBroadcast)
}
