package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"legendario-service/config"
	"legendario-service/controller"
	"legendario-service/database"
	"legendario-service/event"
	"legendario-service/event/listener"
	"legendario-service/router"
	"legendario-service/service"
	"legendario-service/socketio"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

func main() {
	log.SetPrefix("legendario-service: ")

	rest := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		StrictRouting:         true,
		AppName:               "legendario-service",
	})

	rest.Use(cors.New())

	rest.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "healthy"})
	})

	database.RedisConnect()
	database.PostgresConnect()

	event.RabbitMQConnect([]string{
		// Connect to queues
		"account",
		"progression",
	})

	systemUserID, _ := strconv.ParseUint(config.Config("SYSTEM_USER_ID"), 10, 64)
	services := service.New(
		database.Postgres,
		database.Redis[0],
		event.ProgressionQueue{},
		socketio.RoomNotifier{},
		uint(systemUserID),
	)
	controller.Use(services)

	// Run the account sync listener
	go listener.Account(services.Tiers)

	// Subscribe listener channel to account service events
	event.RabbitMQSubscribe([]event.RabbitMQSubscribeListener{
		{
			Queue:   "account",
			Channel: listener.AccountChannel,
		},
	})

	socket := socketio.Init(rest)

	router.Rest(rest)
	router.Socket(socket, services)

	go rest.Listen(fmt.Sprintf(":%s", config.Config("SERVER_PORT")))

	exit := make(chan struct{})
	SignalC := make(chan os.Signal, 1)

	signal.Notify(SignalC, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	go func() {
		for s := range SignalC {
			switch s {
			case syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT:
				close(exit)
				return
			}
		}
	}()

	<-exit
	socket.Close(nil)
	event.RabbitMQChannel.Close()
	event.RabbitMQConnection.Close()
	event.InLogFile.Close()
	event.OutLogFile.Close()
	os.Exit(0)
}
