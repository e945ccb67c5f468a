package socketio

import (
	"context"
	"strconv"
	"time"

	"legendario-service/database"
	"legendario-service/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/zishang520/socket.io-go-redis/adapter"
	r_type "github.com/zishang520/socket.io-go-redis/types"
	"github.com/zishang520/socket.io/v2/socket"
)

var server *socket.Server

// Init mounts the socket.io endpoint. Every authenticated session
// joins the room named by its user id; a user active on several
// devices holds several sockets in the same room, and the Redis
// adapter extends the rooms across service instances.
func Init(app *fiber.App) *socket.Server {
	options := socket.DefaultServerOptions()
	options.SetServeClient(true)
	options.SetAllowEIO3(true)
	options.SetPingInterval(25 * time.Second)
	options.SetPingTimeout(20 * time.Second)
	options.SetConnectTimeout(5 * time.Second)
	options.SetAdapter(&adapter.RedisAdapterBuilder{
		Redis: r_type.NewRedisClient(context.Background(), database.Redis[1]),
		Opts:  &adapter.RedisAdapterOptions{},
	})

	server = socket.NewServer(nil, nil)

	server.Use(func(client *socket.Socket, next func(*socket.ExtendedError)) {
		token, auth := client.Conn().Request().Query().Get("token")

		if auth {
			claims, err := utils.CheckAndExtractTokenMetadata(token, "JWT_ACCESS_KEY")

			if err == nil {
				if !claims.Otp {
					client.Join(socket.Room(claims.Id))
					client.SetData(claims)
				}
			}
		}

		next(nil)
	})

	app.Get("/socket.io/", adaptor.HTTPHandler(server.ServeHandler(options)))
	app.Post("/socket.io/", adaptor.HTTPHandler(server.ServeHandler(options)))

	return server
}

func Broadcast(event string, message any) {
	server.FetchSockets()(func(sockets []*socket.RemoteSocket, _ error) {
		for _, socket := range sockets {
			socket.Emit(event, message)
		}
	})
}

func Emit(id string, event string, message any) {
	server.To(socket.Room(id)).Emit(event, message)
}

// Online reports whether any session of the user currently holds its
// room.
func Online(id string) bool {
	rooms := server.Sockets().Adapter().Rooms().Keys()
	for i := range rooms {
		if rooms[i] == socket.Room(id) {
			return true
		}
	}
	return false
}

// RoomNotifier adapts room emits to the service layer's Notifier.
type RoomNotifier struct{}

func (RoomNotifier) Notify(userID uint, event string, payload any) {
	Emit(strconv.FormatUint(uint64(userID), 10), event, payload)
}
