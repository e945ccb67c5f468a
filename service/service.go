package service

import (
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Publisher carries ledger events out to the progression queue. Nil is
// allowed; publishing is best-effort and never blocks a credit.
type Publisher interface {
	Publish(action string, payload any)
}

// Notifier pushes an event to every live session of a user.
type Notifier interface {
	Notify(userID uint, event string, payload any)
}

// Services wires the core together. Construct once in main and hand to
// routers and controllers.
type Services struct {
	Tiers         *TierService
	Awards        *AwardService
	Connections   *ConnectionService
	Conversations *ConversationService
	Messages      *MessageService
}

func New(db *gorm.DB, cache *redis.Client, events Publisher, notifier Notifier, systemUserID uint) *Services {
	tiers := &TierService{DB: db, Cache: cache}
	awards := &AwardService{DB: db, Events: events}
	conversations := &ConversationService{DB: db}
	return &Services{
		Tiers:         tiers,
		Awards:        awards,
		Connections:   &ConnectionService{DB: db, Awards: awards, Tiers: tiers},
		Conversations: conversations,
		Messages: &MessageService{
			DB:            db,
			Conversations: conversations,
			Notifier:      notifier,
			SystemUserID:  systemUserID,
		},
	}
}
