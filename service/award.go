package service

import (
	"context"
	"log"

	"legendario-service/database"
	"legendario-service/model"
	"legendario-service/pkg/errors"

	"gorm.io/gorm"
)

// Action kinds and their point values. Kinds that carry a counterparty
// are scoped to it by the ledger's unique index.
const (
	ActionConnectionAccepted = "connection_accepted"

	PointsConnectionAccepted int64 = 50
)

// Badge kinds.
const (
	BadgeFirstConnection = "first_connection"
)

// Progression event actions published to the external rank display.
const (
	EventAwardCredit = "award_credit"
	EventBadgeUnlock = "badge_unlock"
)

// AwardService owns the anti-duplication guarantee: the same
// user-visible action fires from several entry points, so callers never
// decide whether a credit applies. Crediting is an insert-if-absent on
// the (actor, counterparty, kind) tuple, not a check followed by a
// write.
type AwardService struct {
	DB     *gorm.DB
	Events Publisher
}

// AlreadyAwarded reports whether the tuple has been credited. Advisory
// only: Credit re-checks atomically through the unique index.
func (s *AwardService) AlreadyAwarded(ctx context.Context, actor uint, counterparty *uint, kind string) (bool, error) {
	var count int64
	query := s.DB.WithContext(ctx).Model(&model.AwardEvent{}).
		Where("actor_id = ? AND action_kind = ?", actor, kind)
	if counterparty != nil {
		query = query.Where("counterparty_id = ?", *counterparty)
	} else {
		query = query.Where("counterparty_id IS NULL")
	}
	if err := query.Count(&count).Error; err != nil {
		return false, errors.Wrap(errors.CodeInternal, "failed to check award ledger", err)
	}
	return count > 0, nil
}

// Credit appends a ledger entry and bumps the actor's running total.
// A duplicate counterparty-scoped tuple comes back as ALREADY_EXISTS
// and leaves the total untouched.
func (s *AwardService) Credit(ctx context.Context, actor uint, counterparty *uint, kind string, points int64, description string) (*model.AwardEvent, error) {
	event := &model.AwardEvent{
		ActorID:        actor,
		CounterpartyID: counterparty,
		ActionKind:     kind,
		Points:         points,
		Description:    description,
	}

	if err := s.DB.WithContext(ctx).Create(event).Error; err != nil {
		if database.IsDuplicateKey(err) {
			return nil, errors.AlreadyExists("action already awarded for this counterparty")
		}
		return nil, errors.Wrap(errors.CodeInternal, "failed to append award event", err)
	}

	if err := s.DB.WithContext(ctx).Model(&model.User{}).
		Where("id = ?", actor).
		UpdateColumn("points", gorm.Expr("points + ?", points)).Error; err != nil {
		return nil, errors.Wrap(errors.CodeInternal, "failed to update point total", err)
	}

	if s.Events != nil {
		s.Events.Publish(EventAwardCredit, event)
	}
	log.Printf("awarded %d points to user %d for %s", points, actor, kind)
	return event, nil
}

// UnlockBadge grants a badge. Re-granting an owned badge is a silent
// no-op that returns the existing row.
func (s *AwardService) UnlockBadge(ctx context.Context, owner uint, kind string) (*model.Badge, error) {
	badge := &model.Badge{OwnerID: owner, BadgeKind: kind}

	if err := s.DB.WithContext(ctx).Create(badge).Error; err != nil {
		if database.IsDuplicateKey(err) {
			existing := new(model.Badge)
			if err := s.DB.WithContext(ctx).
				Where("owner_id = ? AND badge_kind = ?", owner, kind).
				First(existing).Error; err != nil {
				return nil, errors.Wrap(errors.CodeInternal, "failed to load existing badge", err)
			}
			return existing, nil
		}
		return nil, errors.Wrap(errors.CodeInternal, "failed to unlock badge", err)
	}

	if s.Events != nil {
		s.Events.Publish(EventBadgeUnlock, badge)
	}
	log.Printf("unlocked badge %s for user %d", kind, owner)
	return badge, nil
}

// Total returns the running point total of a user.
func (s *AwardService) Total(ctx context.Context, owner uint) (int64, error) {
	user := new(model.User)
	if err := s.DB.WithContext(ctx).First(user, owner).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return 0, errors.NotFound("user not found")
		}
		return 0, errors.Wrap(errors.CodeInternal, "failed to load point total", err)
	}
	return user.Points, nil
}

// History lists a user's ledger entries, newest first.
func (s *AwardService) History(ctx context.Context, owner uint) ([]model.AwardEvent, error) {
	events := []model.AwardEvent{}
	if err := s.DB.WithContext(ctx).
		Where("actor_id = ?", owner).
		Order("id DESC").
		Find(&events).Error; err != nil {
		return nil, errors.Wrap(errors.CodeInternal, "failed to list award events", err)
	}
	return events, nil
}

// Badges lists a user's unlocked badges.
func (s *AwardService) Badges(ctx context.Context, owner uint) ([]model.Badge, error) {
	badges := []model.Badge{}
	if err := s.DB.WithContext(ctx).
		Where("owner_id = ?", owner).
		Order("id ASC").
		Find(&badges).Error; err != nil {
		return nil, errors.Wrap(errors.CodeInternal, "failed to list badges", err)
	}
	return badges, nil
}
