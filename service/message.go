package service

import (
	"context"
	"time"

	"legendario-service/model"
	"legendario-service/pkg/errors"

	"gorm.io/gorm"
)

// Push event names delivered over a user's subscription.
const (
	EventMessageCreate = "message_create"
)

const previewLimit = 120

// MessageEvent is the push payload for a created message. Every
// session of both participants receives it once; consumers dedupe on
// the message id, not on "am I the sender", so a sender active on two
// devices sees consistent state.
type MessageEvent struct {
	ID             uint      `json:"id"`
	ConversationID uint      `json:"conversation_id"`
	SenderID       uint      `json:"sender_id"`
	Content        string    `json:"content"`
	CreatedAt      time.Time `json:"created_at"`
}

// MessageService appends to conversations, tracks reads and fans
// created messages out to both participants' rooms. SystemUserID names
// the broadcast-only identity: conversations with it accept no human
// replies.
type MessageService struct {
	DB            *gorm.DB
	Conversations *ConversationService
	Notifier      Notifier
	SystemUserID  uint
}

// Send appends a message to the conversation and pushes one
// message_create event to each participant.
func (s *MessageService) Send(ctx context.Context, conversationID, sender uint, content string) (*model.Message, error) {
	if content == "" {
		return nil, errors.InvalidArg("message content cannot be empty")
	}

	conversation, err := s.Conversations.Get(ctx, conversationID, sender)
	if err != nil {
		return nil, err
	}

	if other := conversation.Other(sender); s.SystemUserID != 0 && other == s.SystemUserID {
		return nil, errors.ReadOnly("this conversation only receives announcements")
	}

	message := &model.Message{
		ConversationID: conversation.ID,
		SenderID:       sender,
		Content:        content,
	}
	if err := s.DB.WithContext(ctx).Create(message).Error; err != nil {
		return nil, errors.Wrap(errors.CodeInternal, "failed to store message", err)
	}

	preview := content
	if len(preview) > previewLimit {
		preview = preview[:previewLimit]
	}
	if err := s.DB.WithContext(ctx).Model(&model.Conversation{}).
		Where("id = ?", conversation.ID).
		Updates(map[string]any{
			"last_message_at": message.CreatedAt,
			"last_preview":    preview,
		}).Error; err != nil {
		return nil, errors.Wrap(errors.CodeInternal, "failed to update conversation", err)
	}

	if s.Notifier != nil {
		event := MessageEvent{
			ID:             message.ID,
			ConversationID: message.ConversationID,
			SenderID:       message.SenderID,
			Content:        message.Content,
			CreatedAt:      message.CreatedAt,
		}
		s.Notifier.Notify(conversation.ParticipantLow, EventMessageCreate, event)
		s.Notifier.Notify(conversation.ParticipantHigh, EventMessageCreate, event)
	}
	return message, nil
}

// SendTo resolves the canonical conversation for (sender, recipient)
// and appends to it. REST sends, socket sends and system broadcasts
// all land here so no caller re-derives pair order.
func (s *MessageService) SendTo(ctx context.Context, sender, recipient uint, content string) (*model.Message, error) {
	conversation, err := s.Conversations.Resolve(ctx, sender, recipient)
	if err != nil {
		return nil, err
	}
	return s.Send(ctx, conversation.ID, sender, content)
}

// MarkRead stamps read_at on every unread message authored by the
// other participant. Calling it again is a no-op.
func (s *MessageService) MarkRead(ctx context.Context, conversationID, reader uint) (int64, error) {
	if _, err := s.Conversations.Get(ctx, conversationID, reader); err != nil {
		return 0, err
	}

	result := s.DB.WithContext(ctx).Model(&model.Message{}).
		Where("conversation_id = ? AND sender_id <> ? AND read_at IS NULL", conversationID, reader).
		Update("read_at", time.Now())
	if result.Error != nil {
		return 0, errors.Wrap(errors.CodeInternal, "failed to mark messages read", result.Error)
	}
	return result.RowsAffected, nil
}

// History returns messages in conversation order (ascending id).
// beforeID > 0 pages backwards from that message.
func (s *MessageService) History(ctx context.Context, conversationID, requester uint, limit int, beforeID uint) ([]model.Message, error) {
	if _, err := s.Conversations.Get(ctx, conversationID, requester); err != nil {
		return nil, err
	}
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	query := s.DB.WithContext(ctx).
		Where("conversation_id = ?", conversationID)
	if beforeID > 0 {
		query = query.Where("id < ?", beforeID)
	}

	// Fetch the newest page, then flip to ascending order.
	messages := []model.Message{}
	if err := query.Order("id DESC").Limit(limit).Find(&messages).Error; err != nil {
		return nil, errors.Wrap(errors.CodeInternal, "failed to load messages", err)
	}
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}
	return messages, nil
}
