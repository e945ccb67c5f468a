package service

import (
	"context"
	"testing"

	"legendario-service/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreditScopedToCounterparty(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, 0)
	seedUser(t, f.DB, 1, "basic")
	seedUser(t, f.DB, 2, "basic")
	seedUser(t, f.DB, 3, "basic")

	partner := uint(2)
	_, err := f.Services.Awards.Credit(ctx, 1, &partner, ActionConnectionAccepted, 50, "")
	require.NoError(t, err)

	// Same partner again: blocked by the ledger, total untouched.
	_, err = f.Services.Awards.Credit(ctx, 1, &partner, ActionConnectionAccepted, 50, "")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.CodeAlreadyExists))

	// A different partner is a fresh tuple.
	other := uint(3)
	_, err = f.Services.Awards.Credit(ctx, 1, &other, ActionConnectionAccepted, 50, "")
	require.NoError(t, err)

	total, err := f.Services.Awards.Total(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(100), total)
}

func TestCreditWithoutCounterpartyRepeats(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, 0)
	seedUser(t, f.DB, 1, "basic")

	_, err := f.Services.Awards.Credit(ctx, 1, nil, "daily_login", 5, "")
	require.NoError(t, err)
	_, err = f.Services.Awards.Credit(ctx, 1, nil, "daily_login", 5, "")
	require.NoError(t, err)

	total, err := f.Services.Awards.Total(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(10), total)
}

func TestAlreadyAwarded(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, 0)
	seedUser(t, f.DB, 1, "basic")
	seedUser(t, f.DB, 2, "basic")

	partner := uint(2)
	awarded, err := f.Services.Awards.AlreadyAwarded(ctx, 1, &partner, ActionConnectionAccepted)
	require.NoError(t, err)
	assert.False(t, awarded)

	_, err = f.Services.Awards.Credit(ctx, 1, &partner, ActionConnectionAccepted, 50, "")
	require.NoError(t, err)

	awarded, err = f.Services.Awards.AlreadyAwarded(ctx, 1, &partner, ActionConnectionAccepted)
	require.NoError(t, err)
	assert.True(t, awarded)
}

func TestUnlockBadgeIdempotent(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, 0)
	seedUser(t, f.DB, 1, "basic")

	first, err := f.Services.Awards.UnlockBadge(ctx, 1, BadgeFirstConnection)
	require.NoError(t, err)

	// Re-granting an owned badge is a silent no-op.
	second, err := f.Services.Awards.UnlockBadge(ctx, 1, BadgeFirstConnection)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	badges, err := f.Services.Awards.Badges(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, badges, 1)
}

func TestProgressionEventsPublishedOnce(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, 0)
	seedUser(t, f.DB, 1, "basic")
	seedUser(t, f.DB, 2, "basic")

	partner := uint(2)
	_, err := f.Services.Awards.Credit(ctx, 1, &partner, ActionConnectionAccepted, 50, "")
	require.NoError(t, err)
	f.Services.Awards.Credit(ctx, 1, &partner, ActionConnectionAccepted, 50, "")

	_, err = f.Services.Awards.UnlockBadge(ctx, 1, BadgeFirstConnection)
	require.NoError(t, err)
	_, err = f.Services.Awards.UnlockBadge(ctx, 1, BadgeFirstConnection)
	require.NoError(t, err)

	var credits, unlocks int
	for _, event := range f.Publisher.events {
		switch event.Action {
		case EventAwardCredit:
			credits++
		case EventBadgeUnlock:
			unlocks++
		}
	}
	assert.Equal(t, 1, credits)
	assert.Equal(t, 1, unlocks)
}
