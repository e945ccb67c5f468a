package service

import (
	"context"

	"legendario-service/database"
	"legendario-service/model"
	"legendario-service/pkg/errors"

	"gorm.io/gorm"
)

// ConversationService maps an unordered pair of users to exactly one
// conversation. Every creation path must come through Resolve; the
// canonical pair order lives here and nowhere else.
type ConversationService struct {
	DB *gorm.DB
}

// ConversationSummary is one entry of a user's conversation list.
type ConversationSummary struct {
	Conversation  model.Conversation `json:"conversation"`
	CounterpartID uint               `json:"counterpart_id"`
	Unread        int64              `json:"unread"`
}

// Resolve finds or creates the canonical conversation for the pair.
// Resolve(a, b) and Resolve(b, a) always return the same row; under
// simultaneous first contact the losing writer re-reads the winner's
// row.
func (s *ConversationService) Resolve(ctx context.Context, a, b uint) (*model.Conversation, error) {
	if a == b {
		return nil, errors.InvalidArg("cannot open a conversation with yourself")
	}
	low, high := pairOf(a, b)

	conversation := new(model.Conversation)
	err := s.DB.WithContext(ctx).
		Where("participant_low = ? AND participant_high = ?", low, high).
		First(conversation).Error
	if err == nil {
		return conversation, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, errors.Wrap(errors.CodeInternal, "failed to load conversation", err)
	}

	conversation = &model.Conversation{ParticipantLow: low, ParticipantHigh: high}
	if err := s.DB.WithContext(ctx).Create(conversation).Error; err != nil {
		if database.IsDuplicateKey(err) {
			winner := new(model.Conversation)
			if err := s.DB.WithContext(ctx).
				Where("participant_low = ? AND participant_high = ?", low, high).
				First(winner).Error; err != nil {
				return nil, errors.Wrap(errors.CodeInternal, "failed to reload conversation after collision", err)
			}
			return winner, nil
		}
		return nil, errors.Wrap(errors.CodeInternal, "failed to create conversation", err)
	}
	return conversation, nil
}

// Get loads a conversation and verifies the requester participates.
func (s *ConversationService) Get(ctx context.Context, id, requester uint) (*model.Conversation, error) {
	conversation := new(model.Conversation)
	if err := s.DB.WithContext(ctx).First(conversation, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.NotFound("conversation not found")
		}
		return nil, errors.Wrap(errors.CodeInternal, "failed to load conversation", err)
	}
	if !conversation.Holds(requester) {
		return nil, errors.Forbidden("not a participant of this conversation")
	}
	return conversation, nil
}

// ListFor returns the user's conversations, most recently active
// first, with per-conversation unread counts for the init snapshot.
func (s *ConversationService) ListFor(ctx context.Context, user uint) ([]ConversationSummary, error) {
	conversations := []model.Conversation{}
	if err := s.DB.WithContext(ctx).
		Where("participant_low = ? OR participant_high = ?", user, user).
		Order("last_message_at DESC").
		Find(&conversations).Error; err != nil {
		return nil, errors.Wrap(errors.CodeInternal, "failed to list conversations", err)
	}

	summaries := make([]ConversationSummary, 0, len(conversations))
	for _, conversation := range conversations {
		var unread int64
		if err := s.DB.WithContext(ctx).Model(&model.Message{}).
			Where("conversation_id = ? AND sender_id <> ? AND read_at IS NULL", conversation.ID, user).
			Count(&unread).Error; err != nil {
			return nil, errors.Wrap(errors.CodeInternal, "failed to count unread messages", err)
		}
		summaries = append(summaries, ConversationSummary{
			Conversation:  conversation,
			CounterpartID: conversation.Other(user),
			Unread:        unread,
		})
	}
	return summaries, nil
}
