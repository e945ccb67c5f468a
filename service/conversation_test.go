package service

import (
	"context"
	"testing"

	"legendario-service/model"
	"legendario-service/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveIsOrderIndependent(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, 0)
	seedUser(t, f.DB, 1, "basic")
	seedUser(t, f.DB, 2, "basic")

	forward, err := f.Services.Conversations.Resolve(ctx, 1, 2)
	require.NoError(t, err)
	backward, err := f.Services.Conversations.Resolve(ctx, 2, 1)
	require.NoError(t, err)

	assert.Equal(t, forward.ID, backward.ID)
	assert.Equal(t, uint(1), forward.ParticipantLow)
	assert.Equal(t, uint(2), forward.ParticipantHigh)

	var count int64
	require.NoError(t, f.DB.Model(&model.Conversation{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestResolveDistinctPairs(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, 0)
	seedUser(t, f.DB, 1, "basic")
	seedUser(t, f.DB, 2, "basic")
	seedUser(t, f.DB, 3, "basic")

	first, err := f.Services.Conversations.Resolve(ctx, 1, 2)
	require.NoError(t, err)
	second, err := f.Services.Conversations.Resolve(ctx, 1, 3)
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)

	_, err = f.Services.Conversations.Resolve(ctx, 1, 1)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.CodeInvalidArgument))
}

func TestGetChecksParticipation(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, 0)
	seedUser(t, f.DB, 1, "basic")
	seedUser(t, f.DB, 2, "basic")
	seedUser(t, f.DB, 3, "basic")

	conversation, err := f.Services.Conversations.Resolve(ctx, 1, 2)
	require.NoError(t, err)

	_, err = f.Services.Conversations.Get(ctx, conversation.ID, 3)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.CodeForbidden))

	_, err = f.Services.Conversations.Get(ctx, conversation.ID+100, 1)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.CodeNotFound))
}

func TestListForUnreadCounts(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, 0)
	seedUser(t, f.DB, 1, "basic")
	seedUser(t, f.DB, 2, "basic")
	seedUser(t, f.DB, 3, "basic")

	_, err := f.Services.Messages.SendTo(ctx, 2, 1, "oi")
	require.NoError(t, err)
	_, err = f.Services.Messages.SendTo(ctx, 2, 1, "tudo bem?")
	require.NoError(t, err)
	_, err = f.Services.Messages.SendTo(ctx, 3, 1, "fala")
	require.NoError(t, err)

	summaries, err := f.Services.Conversations.ListFor(ctx, 1)
	require.NoError(t, err)
	require.Len(t, summaries, 2)

	unreadBy := map[uint]int64{}
	for _, summary := range summaries {
		unreadBy[summary.CounterpartID] = summary.Unread
		assert.NotNil(t, summary.Conversation.LastMessageAt)
	}
	assert.Equal(t, int64(2), unreadBy[2])
	assert.Equal(t, int64(1), unreadBy[3])

	// Reading one conversation zeroes only that counter.
	conversation, err := f.Services.Conversations.Resolve(ctx, 1, 2)
	require.NoError(t, err)
	_, err = f.Services.Messages.MarkRead(ctx, conversation.ID, 1)
	require.NoError(t, err)

	summaries, err = f.Services.Conversations.ListFor(ctx, 1)
	require.NoError(t, err)
	for _, summary := range summaries {
		if summary.CounterpartID == 2 {
			assert.Zero(t, summary.Unread)
		} else {
			assert.Equal(t, int64(1), summary.Unread)
		}
	}
}
