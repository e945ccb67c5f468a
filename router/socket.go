package router

import (
	"context"
	"strconv"

	"legendario-service/pkg/errors"
	"legendario-service/service"
	"legendario-service/socketio"
	"legendario-service/utils"

	"github.com/zishang520/socket.io/v2/socket"
)

// InitConnection is the snapshot pushed on "init" and replayed on
// reconnect: presenters re-fetch state instead of gap-filling the
// stream.
type InitConnection struct {
	Conversations []service.ConversationSummary `json:"conversations"`
	UserStatus    []UserStatus                  `json:"user_status"`
	Points        int64                         `json:"points"`
}

type UserStatus struct {
	Id     uint `json:"id"`
	Status bool `json:"status"`
}

type ConversationOpen struct {
	Conversation any `json:"conversation"`
	Messages     any `json:"messages"`
}

func currentUser(client *socket.Socket) (uint, bool) {
	claims, ok := client.Data().(*utils.TokenMetadata)
	if !ok {
		return 0, false
	}
	id, err := strconv.ParseUint(claims.Id, 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

func emitError(client *socket.Socket, err error) {
	client.Emit("error", map[string]any{
		"code":    errors.CodeOf(err),
		"message": err.Error(),
	})
}

func statusesFor(summaries []service.ConversationSummary) []UserStatus {
	userStatus := []UserStatus{}
	for _, summary := range summaries {
		id := summary.CounterpartID
		userStatus = append(userStatus, UserStatus{
			Id:     id,
			Status: socketio.Online(strconv.FormatUint(uint64(id), 10)),
		})
	}
	return userStatus
}

func Socket(server *socket.Server, services *service.Services) {
	server.On("connection", func(clients ...interface{}) {
		client := clients[0].(*socket.Socket)
		ctx := context.Background()

		client.On("init", func(args ...interface{}) {
			self, ok := currentUser(client)
			if !ok {
				return
			}

			conversations, err := services.Conversations.ListFor(ctx, self)
			if err != nil {
				emitError(client, err)
				return
			}
			points, err := services.Awards.Total(ctx, self)
			if err != nil {
				emitError(client, err)
				return
			}

			client.Emit(
				"init",
				InitConnection{
					Conversations: conversations,
					UserStatus:    statusesFor(conversations),
					Points:        points,
				},
			)
		})

		// Opens (or first creates) the conversation with another user:
		// resolve the canonical pair, return history, mark it read.
		client.On("conversation_open", func(args ...interface{}) {
			self, ok := currentUser(client)
			if !ok || len(args) < 1 {
				return
			}
			other, _ := strconv.ParseUint(args[0].(string), 10, 64)

			conversation, err := services.Conversations.Resolve(ctx, self, uint(other))
			if err != nil {
				emitError(client, err)
				return
			}
			messages, err := services.Messages.History(ctx, conversation.ID, self, 0, 0)
			if err != nil {
				emitError(client, err)
				return
			}
			if _, err := services.Messages.MarkRead(ctx, conversation.ID, self); err != nil {
				emitError(client, err)
				return
			}

			client.Emit(
				"conversation_open",
				ConversationOpen{
					Conversation: conversation,
					Messages:     messages,
				},
			)
		})

		// The service pushes message_create to both participants'
		// rooms, this session's own room included; no direct echo here.
		client.On("message_send", func(args ...interface{}) {
			self, ok := currentUser(client)
			if !ok || len(args) < 2 {
				return
			}
			conversationID, _ := strconv.ParseUint(args[0].(string), 10, 64)
			content, _ := args[1].(string)

			if _, err := services.Messages.Send(ctx, uint(conversationID), self, content); err != nil {
				emitError(client, err)
			}
		})

		client.On("conversation_read", func(args ...interface{}) {
			self, ok := currentUser(client)
			if !ok || len(args) < 1 {
				return
			}
			conversationID, _ := strconv.ParseUint(args[0].(string), 10, 64)

			if _, err := services.Messages.MarkRead(ctx, uint(conversationID), self); err != nil {
				emitError(client, err)
			}
		})

		client.On("user_status", func(args ...interface{}) {
			self, ok := currentUser(client)
			if !ok {
				return
			}

			conversations, err := services.Conversations.ListFor(ctx, self)
			if err != nil {
				emitError(client, err)
				return
			}

			client.Emit(
				"user_status",
				statusesFor(conversations),
			)
		})
	})
}
