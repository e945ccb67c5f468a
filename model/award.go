package model

import "time"

// AwardEvent is one ledger entry. For counterparty-scoped action kinds
// the unique index over (actor, counterparty, kind) makes the credit an
// insert-if-absent: reconnecting with the same partner can never be
// credited twice. CounterpartyID is NULL for kinds that are not scoped
// to a partner, and both Postgres and SQLite treat NULLs as distinct in
// unique indexes, so those kinds stay repeatable.
type AwardEvent struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	ActorID        uint      `gorm:"not null;uniqueIndex:idx_award_tuple,priority:1" json:"actor_id"`
	CounterpartyID *uint     `gorm:"uniqueIndex:idx_award_tuple,priority:2" json:"counterparty_id"`
	ActionKind     string    `gorm:"not null;uniqueIndex:idx_award_tuple,priority:3" json:"action_kind"`
	Points         int64     `gorm:"not null" json:"points"`
	Description    string    `json:"description"`
	CreatedAt      time.Time `json:"created_at"`
}

// Badge is a one-off unlock per (owner, kind).
type Badge struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	OwnerID   uint      `gorm:"not null;uniqueIndex:idx_badge_owner_kind,priority:1" json:"owner_id"`
	BadgeKind string    `gorm:"not null;uniqueIndex:idx_badge_owner_kind,priority:2" json:"badge_kind"`
	AwardedAt time.Time `gorm:"autoCreateTime" json:"awarded_at"`
}
