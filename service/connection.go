package service

import (
	"context"
	"fmt"
	"log"

	"legendario-service/database"
	"legendario-service/model"
	"legendario-service/pkg/errors"

	"gorm.io/gorm"
)

// Connection status as seen by one side of the pair.
const (
	StatusNone     = "none"
	StatusSent     = "sent"
	StatusPending  = "pending"
	StatusAccepted = "accepted"
)

// ConnectionService runs the edge state machine:
// none → pending → accepted|rejected, accepted → none via revoke,
// rejected → pending via a fresh request. One row per unordered pair,
// serialized by the (pair_low, pair_high) unique index.
type ConnectionService struct {
	DB     *gorm.DB
	Awards *AwardService
	Tiers  *TierService
}

func pairOf(a, b uint) (uint, uint) {
	if a < b {
		return a, b
	}
	return b, a
}

func (s *ConnectionService) pairEdge(ctx context.Context, a, b uint) (*model.Connection, error) {
	low, high := pairOf(a, b)
	edge := new(model.Connection)
	err := s.DB.WithContext(ctx).
		Where("pair_low = ? AND pair_high = ?", low, high).
		First(edge).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, errors.Wrap(errors.CodeInternal, "failed to load connection", err)
	}
	return edge, nil
}

// sideStatus maps an edge to the status the given user observes.
func sideStatus(edge *model.Connection, self uint) string {
	switch edge.Status {
	case model.ConnectionAccepted:
		return StatusAccepted
	case model.ConnectionPending:
		if edge.RequesterID == self {
			return StatusSent
		}
		return StatusPending
	default:
		return StatusNone
	}
}

// Request creates a pending edge from requester to addressee. An
// existing non-rejected edge is reported as its current state rather
// than duplicated; a rejected edge is flipped back to pending with the
// caller as the new requester.
func (s *ConnectionService) Request(ctx context.Context, requester, addressee uint) (*model.Connection, error) {
	if requester == addressee {
		return nil, errors.InvalidArg("cannot request a connection with yourself")
	}

	if err := s.DB.WithContext(ctx).First(new(model.User), addressee).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.NotFound("addressee not found")
		}
		return nil, errors.Wrap(errors.CodeInternal, "failed to load addressee", err)
	}

	if err := s.checkQuota(ctx, requester); err != nil {
		return nil, err
	}

	edge, err := s.pairEdge(ctx, requester, addressee)
	if err != nil {
		return nil, err
	}

	if edge != nil {
		if edge.Status != model.ConnectionRejected {
			return edge, errors.AlreadyExists(fmt.Sprintf("connection already %s", sideStatus(edge, requester)))
		}
		// A fresh request after rejection reuses the pair row. No
		// cooldown: the observed behavior permits immediate re-request.
		edge.RequesterID = requester
		edge.AddresseeID = addressee
		edge.Status = model.ConnectionPending
		if err := s.DB.WithContext(ctx).Save(edge).Error; err != nil {
			return nil, errors.Wrap(errors.CodeInternal, "failed to renew connection request", err)
		}
		return edge, nil
	}

	low, high := pairOf(requester, addressee)
	edge = &model.Connection{
		PairLow:     low,
		PairHigh:    high,
		RequesterID: requester,
		AddresseeID: addressee,
		Status:      model.ConnectionPending,
	}
	if err := s.DB.WithContext(ctx).Create(edge).Error; err != nil {
		if database.IsDuplicateKey(err) {
			// Lost a race against the other side's simultaneous
			// request: surface the winner's edge, not a second one.
			winner, rerr := s.pairEdge(ctx, requester, addressee)
			if rerr != nil || winner == nil {
				return nil, errors.Conflict("connection request collided, retry")
			}
			return winner, errors.AlreadyExists(fmt.Sprintf("connection already %s", sideStatus(winner, requester)))
		}
		return nil, errors.Wrap(errors.CodeInternal, "failed to create connection request", err)
	}

	log.Printf("connection requested: %d -> %d", requester, addressee)
	return edge, nil
}

func (s *ConnectionService) checkQuota(ctx context.Context, requester uint) error {
	tier, err := s.Tiers.Tier(ctx, requester)
	if err != nil {
		return err
	}
	limit := s.Tiers.Limit(tier, ResourceMaxConnections)

	// Outstanding plus accepted edges held as the requester. Revoking
	// deletes the row, which frees the original requester's slot.
	var count int64
	if err := s.DB.WithContext(ctx).Model(&model.Connection{}).
		Where("requester_id = ? AND status IN ?", requester, []string{model.ConnectionPending, model.ConnectionAccepted}).
		Count(&count).Error; err != nil {
		return errors.Wrap(errors.CodeInternal, "failed to count connections", err)
	}
	if count >= int64(limit) {
		return errors.QuotaExceeded(fmt.Sprintf("connection limit of %d reached for tier %s", limit, tier))
	}
	return nil
}

// Respond accepts or rejects the pending request from requester to
// addressee. Accepting credits the addressee once per counterparty and
// unlocks the first-connection badge; both are idempotent in the
// ledger, so a duplicated respond can never double-award.
func (s *ConnectionService) Respond(ctx context.Context, addressee, requester uint, accept bool) (*model.Connection, error) {
	edge := new(model.Connection)
	err := s.DB.WithContext(ctx).
		Where("requester_id = ? AND addressee_id = ? AND status = ?", requester, addressee, model.ConnectionPending).
		First(edge).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.NotFound("no pending connection request")
		}
		return nil, errors.Wrap(errors.CodeInternal, "failed to load connection request", err)
	}

	status := model.ConnectionRejected
	if accept {
		status = model.ConnectionAccepted
	}

	// Guard on pending so a concurrent duplicate respond falls through
	// to not-found instead of rewriting a settled edge.
	result := s.DB.WithContext(ctx).Model(&model.Connection{}).
		Where("id = ? AND status = ?", edge.ID, model.ConnectionPending).
		Update("status", status)
	if result.Error != nil {
		return nil, errors.Wrap(errors.CodeInternal, "failed to update connection", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, errors.NotFound("no pending connection request")
	}
	edge.Status = status

	if !accept {
		log.Printf("connection rejected: %d -> %d", requester, addressee)
		return edge, nil
	}

	counterparty := requester
	if _, err := s.Awards.Credit(ctx, addressee, &counterparty, ActionConnectionAccepted, PointsConnectionAccepted,
		"accepted a connection request"); err != nil && !errors.Is(err, errors.CodeAlreadyExists) {
		return nil, err
	}
	if _, err := s.Awards.UnlockBadge(ctx, addressee, BadgeFirstConnection); err != nil {
		return nil, err
	}

	log.Printf("connection accepted: %d <-> %d", requester, addressee)
	return edge, nil
}

// Revoke deletes the accepted edge between caller and other.
func (s *ConnectionService) Revoke(ctx context.Context, caller, other uint) error {
	edge, err := s.pairEdge(ctx, caller, other)
	if err != nil {
		return err
	}
	if edge == nil || edge.Status != model.ConnectionAccepted || !edge.Holds(caller) {
		return errors.NotFound("no accepted connection to revoke")
	}

	if err := s.DB.WithContext(ctx).Delete(&model.Connection{}, edge.ID).Error; err != nil {
		return errors.Wrap(errors.CodeInternal, "failed to revoke connection", err)
	}
	log.Printf("connection revoked: %d <-> %d by %d", edge.RequesterID, edge.AddresseeID, caller)
	return nil
}

// Status returns what self observes for the pair (self, other).
func (s *ConnectionService) Status(ctx context.Context, self, other uint) (string, error) {
	edge, err := s.pairEdge(ctx, self, other)
	if err != nil {
		return "", err
	}
	if edge == nil {
		return StatusNone, nil
	}
	return sideStatus(edge, self), nil
}

// List returns the user's accepted edges.
func (s *ConnectionService) List(ctx context.Context, self uint) ([]model.Connection, error) {
	edges := []model.Connection{}
	if err := s.DB.WithContext(ctx).
		Where("(requester_id = ? OR addressee_id = ?) AND status = ?", self, self, model.ConnectionAccepted).
		Order("updated_at DESC").
		Find(&edges).Error; err != nil {
		return nil, errors.Wrap(errors.CodeInternal, "failed to list connections", err)
	}
	return edges, nil
}
