package model

import "time"

// Conversation is the canonical row for an unordered pair of users.
// ParticipantLow/ParticipantHigh are the pair's ids in ascending order;
// the unique index keeps simultaneous first contact from both sides
// down to a single row.
type Conversation struct {
	ID              uint       `gorm:"primaryKey" json:"id"`
	ParticipantLow  uint       `gorm:"not null;uniqueIndex:idx_conversation_pair,priority:1" json:"participant_low"`
	ParticipantHigh uint       `gorm:"not null;uniqueIndex:idx_conversation_pair,priority:2" json:"participant_high"`
	LastMessageAt   *time.Time `json:"last_message_at"`
	LastPreview     string     `json:"last_preview"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Other returns the counterpart of the given participant.
func (c *Conversation) Other(userID uint) uint {
	if c.ParticipantLow == userID {
		return c.ParticipantHigh
	}
	return c.ParticipantLow
}

// Holds reports whether the given user participates in the conversation.
func (c *Conversation) Holds(userID uint) bool {
	return c.ParticipantLow == userID || c.ParticipantHigh == userID
}

// Message is append-only. ReadAt is set once by the counterpart and the
// row is never touched again; conversation order is the store-assigned
// id order.
type Message struct {
	ID             uint       `gorm:"primaryKey" json:"id"`
	ConversationID uint       `gorm:"not null;index:idx_message_conversation" json:"conversation_id"`
	SenderID       uint       `gorm:"not null" json:"sender_id"`
	Content        string     `gorm:"not null" json:"content"`
	CreatedAt      time.Time  `json:"created_at"`
	ReadAt         *time.Time `json:"read_at"`
}
