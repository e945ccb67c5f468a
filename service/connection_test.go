package service

import (
	"context"
	"testing"

	"legendario-service/model"
	"legendario-service/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnectionLifecycle(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, 0)
	seedUser(t, f.DB, 1, "basic")
	seedUser(t, f.DB, 2, "basic")

	t.Run("Request", func(t *testing.T) {
		edge, err := f.Services.Connections.Request(ctx, 1, 2)
		require.NoError(t, err)
		assert.Equal(t, model.ConnectionPending, edge.Status)
		assert.Equal(t, uint(1), edge.RequesterID)
		assert.Equal(t, uint(2), edge.AddresseeID)

		status, err := f.Services.Connections.Status(ctx, 1, 2)
		require.NoError(t, err)
		assert.Equal(t, StatusSent, status)

		status, err = f.Services.Connections.Status(ctx, 2, 1)
		require.NoError(t, err)
		assert.Equal(t, StatusPending, status)
	})

	t.Run("Accept", func(t *testing.T) {
		edge, err := f.Services.Connections.Respond(ctx, 2, 1, true)
		require.NoError(t, err)
		assert.Equal(t, model.ConnectionAccepted, edge.Status)

		for _, self := range []uint{1, 2} {
			status, err := f.Services.Connections.Status(ctx, self, edge.Other(self))
			require.NoError(t, err)
			assert.Equal(t, StatusAccepted, status)
		}
	})

	t.Run("AddresseeCredited", func(t *testing.T) {
		total, err := f.Services.Awards.Total(ctx, 2)
		require.NoError(t, err)
		assert.Equal(t, PointsConnectionAccepted, total)

		total, err = f.Services.Awards.Total(ctx, 1)
		require.NoError(t, err)
		assert.Zero(t, total)
	})

	t.Run("FirstConnectionBadge", func(t *testing.T) {
		badges, err := f.Services.Awards.Badges(ctx, 2)
		require.NoError(t, err)
		require.Len(t, badges, 1)
		assert.Equal(t, BadgeFirstConnection, badges[0].BadgeKind)
	})

	t.Run("Revoke", func(t *testing.T) {
		require.NoError(t, f.Services.Connections.Revoke(ctx, 1, 2))

		status, err := f.Services.Connections.Status(ctx, 1, 2)
		require.NoError(t, err)
		assert.Equal(t, StatusNone, status)
	})
}

func TestConnectionDuplicateRequest(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, 0)
	seedUser(t, f.DB, 1, "basic")
	seedUser(t, f.DB, 2, "basic")

	_, err := f.Services.Connections.Request(ctx, 1, 2)
	require.NoError(t, err)

	// The second request reports the existing state instead of
	// creating a second edge.
	edge, err := f.Services.Connections.Request(ctx, 1, 2)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.CodeAlreadyExists))
	require.NotNil(t, edge)
	assert.Equal(t, model.ConnectionPending, edge.Status)

	var count int64
	require.NoError(t, f.DB.Model(&model.Connection{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestConnectionReciprocalRequestsCollapse(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, 0)
	seedUser(t, f.DB, 1, "basic")
	seedUser(t, f.DB, 2, "basic")

	_, err := f.Services.Connections.Request(ctx, 1, 2)
	require.NoError(t, err)

	// The other side requesting back lands on the same pair row, not a
	// reciprocal edge.
	edge, err := f.Services.Connections.Request(ctx, 2, 1)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.CodeAlreadyExists))
	require.NotNil(t, edge)
	assert.Equal(t, uint(1), edge.RequesterID)

	var count int64
	require.NoError(t, f.DB.Model(&model.Connection{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestConnectionQuota(t *testing.T) {
	t.Setenv("TIER_BASIC_MAX_CONNECTIONS", "2")

	ctx := context.Background()
	f := newFixture(t, 0)
	for id := uint(1); id <= 4; id++ {
		seedUser(t, f.DB, id, "basic")
	}

	_, err := f.Services.Connections.Request(ctx, 1, 2)
	require.NoError(t, err)
	_, err = f.Services.Connections.Request(ctx, 1, 3)
	require.NoError(t, err)

	_, err = f.Services.Connections.Request(ctx, 1, 4)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.CodeQuotaExceeded))

	// Revoking an accepted edge frees the requester's slot.
	_, err = f.Services.Connections.Respond(ctx, 2, 1, true)
	require.NoError(t, err)
	require.NoError(t, f.Services.Connections.Revoke(ctx, 1, 2))

	_, err = f.Services.Connections.Request(ctx, 1, 4)
	require.NoError(t, err)
}

func TestConnectionRespondRequiresPending(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, 0)
	seedUser(t, f.DB, 1, "basic")
	seedUser(t, f.DB, 2, "basic")

	_, err := f.Services.Connections.Respond(ctx, 2, 1, true)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.CodeNotFound))

	_, err = f.Services.Connections.Request(ctx, 1, 2)
	require.NoError(t, err)
	_, err = f.Services.Connections.Respond(ctx, 2, 1, true)
	require.NoError(t, err)

	// A duplicated accept finds no pending edge and must not credit
	// again.
	_, err = f.Services.Connections.Respond(ctx, 2, 1, true)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.CodeNotFound))

	total, err := f.Services.Awards.Total(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, PointsConnectionAccepted, total)
}

func TestConnectionRejectAllowsImmediateReRequest(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, 0)
	seedUser(t, f.DB, 1, "basic")
	seedUser(t, f.DB, 2, "basic")

	_, err := f.Services.Connections.Request(ctx, 1, 2)
	require.NoError(t, err)
	_, err = f.Services.Connections.Respond(ctx, 2, 1, false)
	require.NoError(t, err)

	status, err := f.Services.Connections.Status(ctx, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, StatusNone, status)

	// No cooldown after rejection; the pair row flips back to pending.
	edge, err := f.Services.Connections.Request(ctx, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, model.ConnectionPending, edge.Status)

	var count int64
	require.NoError(t, f.DB.Model(&model.Connection{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestConnectionRevokeReacceptDoesNotRecredit(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, 0)
	seedUser(t, f.DB, 1, "basic")
	seedUser(t, f.DB, 2, "basic")

	_, err := f.Services.Connections.Request(ctx, 1, 2)
	require.NoError(t, err)
	_, err = f.Services.Connections.Respond(ctx, 2, 1, true)
	require.NoError(t, err)
	require.NoError(t, f.Services.Connections.Revoke(ctx, 2, 1))

	_, err = f.Services.Connections.Request(ctx, 1, 2)
	require.NoError(t, err)
	_, err = f.Services.Connections.Respond(ctx, 2, 1, true)
	require.NoError(t, err)

	// Still one ledger entry and the original total: reconnecting with
	// the same partner is never credited twice.
	total, err := f.Services.Awards.Total(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, PointsConnectionAccepted, total)

	var count int64
	require.NoError(t, f.DB.Model(&model.AwardEvent{}).Where("actor_id = ?", 2).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestConnectionRevokeRequiresAccepted(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, 0)
	seedUser(t, f.DB, 1, "basic")
	seedUser(t, f.DB, 2, "basic")

	_, err := f.Services.Connections.Request(ctx, 1, 2)
	require.NoError(t, err)

	err = f.Services.Connections.Revoke(ctx, 1, 2)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.CodeNotFound))
}

func TestConnectionRequestValidation(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, 0)
	seedUser(t, f.DB, 1, "basic")

	_, err := f.Services.Connections.Request(ctx, 1, 1)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.CodeInvalidArgument))

	_, err = f.Services.Connections.Request(ctx, 1, 99)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.CodeNotFound))
}
