package service

import (
	"fmt"
	"testing"

	"legendario-service/database"
	"legendario-service/model"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	// One in-memory database per test; a second pooled connection
	// would otherwise see an empty schema.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	database.Migrate(db)
	return db
}

func seedUser(t *testing.T, db *gorm.DB, id uint, tier string) {
	t.Helper()
	user := &model.User{
		Model:    gorm.Model{ID: id},
		Username: fmt.Sprintf("user-%d", id),
		Email:    fmt.Sprintf("user-%d@example.com", id),
		Tier:     tier,
	}
	require.NoError(t, db.Create(user).Error)
}

type capturedEvent struct {
	UserID  uint
	Event   string
	Payload any
}

// captureNotifier records push fan-out instead of emitting to socket
// rooms.
type captureNotifier struct {
	events []capturedEvent
}

func (n *captureNotifier) Notify(userID uint, event string, payload any) {
	n.events = append(n.events, capturedEvent{UserID: userID, Event: event, Payload: payload})
}

type publishedEvent struct {
	Action  string
	Payload any
}

// capturePublisher records progression events instead of publishing to
// RabbitMQ.
type capturePublisher struct {
	events []publishedEvent
}

func (p *capturePublisher) Publish(action string, payload any) {
	p.events = append(p.events, publishedEvent{Action: action, Payload: payload})
}

type fixture struct {
	DB        *gorm.DB
	Services  *Services
	Notifier  *captureNotifier
	Publisher *capturePublisher
}

func newFixture(t *testing.T, systemUserID uint) *fixture {
	t.Helper()
	db := newTestDB(t)
	notifier := &captureNotifier{}
	publisher := &capturePublisher{}
	services := New(db, nil, publisher, notifier, systemUserID)
	return &fixture{DB: db, Services: services, Notifier: notifier, Publisher: publisher}
}
