package service

import (
	"context"
	"testing"

	"legendario-service/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTierLookup(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, 0)
	seedUser(t, f.DB, 1, "elite")

	tier, err := f.Services.Tiers.Tier(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "elite", tier)

	_, err = f.Services.Tiers.Tier(ctx, 42)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.CodeNotFound))
}

func TestTierLimits(t *testing.T) {
	f := newFixture(t, 0)

	assert.Equal(t, 10, f.Services.Tiers.Limit("basic", ResourceMaxConnections))
	assert.Equal(t, 200, f.Services.Tiers.Limit("legendary", ResourceMaxConnections))

	// Unknown tiers fall back to basic.
	assert.Equal(t, 10, f.Services.Tiers.Limit("mystery", ResourceMaxConnections))

	// Environment overrides win over the built-in table.
	t.Setenv("TIER_BASIC_MAX_CONNECTIONS", "3")
	assert.Equal(t, 3, f.Services.Tiers.Limit("basic", ResourceMaxConnections))

	limits := f.Services.Tiers.Limits("elite")
	assert.Equal(t, 50, limits[ResourceMaxConnections])
	assert.Equal(t, 4, limits[ResourceMaxConfraternitiesMonthly])
	assert.Equal(t, 5, limits[ResourceMaxMarketplaceAds])
}
