package listener

import (
	"context"
	"encoding/json"
	"log"

	"legendario-service/database"
	"legendario-service/event"
	"legendario-service/model"
	"legendario-service/service"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	AccountChannel = make(chan event.EventChannelData)
)

// accountUser is the identity payload emitted by the account service.
type accountUser struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Tier     string `json:"tier"`
	Role     string `json:"role"`
}

// Account mirrors identities owned by the external account service
// into the local users table. Tier changes invalidate the cached tier
// so quota checks pick them up immediately.
func Account(tiers *service.TierService) {
	for ev := range AccountChannel {
		switch ev.Action {
		case "user_create", "user_update":
			payload := accountUser{}
			if err := json.Unmarshal(ev.Data, &payload); err != nil {
				log.Printf("discarding malformed %s event: %v", ev.Action, err)
				continue
			}
			if payload.ID == 0 {
				log.Printf("discarding %s event without user id", ev.Action)
				continue
			}

			user := model.User{
				Model:    gorm.Model{ID: payload.ID},
				Username: payload.Username,
				Email:    payload.Email,
				Tier:     payload.Tier,
				Role:     payload.Role,
			}
			if user.Tier == "" {
				user.Tier = "basic"
			}
			if err := database.Postgres.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "id"}},
				DoUpdates: clause.AssignmentColumns([]string{"username", "email", "tier", "role", "updated_at"}),
			}).Create(&user).Error; err != nil {
				log.Printf("failed to sync user %d: %v", payload.ID, err)
				continue
			}
			if tiers != nil {
				tiers.Invalidate(context.Background(), payload.ID)
			}
			log.Printf("synced user %d from account service (%s)", payload.ID, ev.Action)

		case "user_delete":
			payload := accountUser{}
			if err := json.Unmarshal(ev.Data, &payload); err != nil || payload.ID == 0 {
				log.Printf("discarding malformed user_delete event")
				continue
			}
			if err := database.Postgres.Delete(&model.User{}, payload.ID).Error; err != nil {
				log.Printf("failed to delete user %d: %v", payload.ID, err)
				continue
			}
			if tiers != nil {
				tiers.Invalidate(context.Background(), payload.ID)
			}
			log.Printf("deleted user %d after account service event", payload.ID)

		default:
			log.Printf("ignoring unknown account event action: %s", ev.Action)
		}
	}
}
