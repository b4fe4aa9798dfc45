package service

import (
	"studio-service/internal/domain/account"
	"studio-service/internal/domain/notification"
	apperrors "studio-service/pkg/errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInbox_OwnNotificationsOnly(t *testing.T) {
	f := newFixture(t)
	me := f.profile(t, account.ProfileCreative, nil)
	other := f.profile(t, account.ProfileCreative, nil)

	f.notifier.NotifyUsers(f.ctx, []uuid.UUID{me.ID, other.ID}, nil, notification.TypeJobClaimed, map[string]any{"job_id": "j1"}, uuid.Nil)
	f.notifier.NotifyUsers(f.ctx, []uuid.UUID{me.ID}, nil, notification.TypeJobCompleted, nil, uuid.Nil)

	list, err := f.inbox.ListInbox(f.ctx, me, 0)
	require.NoError(t, err)
	require.Len(t, list, 2)
	for _, n := range list {
		assert.Equal(t, me.ID, n.UserID)
	}

	limited, err := f.inbox.ListInbox(f.ctx, me, 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)

	_, err = f.inbox.ListInbox(f.ctx, nil, 0)
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
}

func TestInbox_MarkRead(t *testing.T) {
	f := newFixture(t)
	me := f.profile(t, account.ProfileClient, nil)
	other := f.profile(t, account.ProfileProducer, nil)
	f.notifier.NotifyUsers(f.ctx, []uuid.UUID{me.ID, other.ID}, nil, notification.TypePaymentUpdated, nil, uuid.Nil)

	unread, err := f.inbox.UnreadCount(f.ctx, me)
	require.NoError(t, err)
	assert.Equal(t, 1, unread)

	theirs := f.inboxOf(t, other.ID)
	require.Len(t, theirs, 1)
	_, err = f.inbox.MarkRead(f.ctx, me, theirs[0].ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	mine := f.inboxOf(t, me.ID)
	require.Len(t, mine, 1)
	read, err := f.inbox.MarkRead(f.ctx, me, mine[0].ID)
	require.NoError(t, err)
	require.NotNil(t, read.ReadAt)

	again, err := f.inbox.MarkRead(f.ctx, me, mine[0].ID)
	require.NoError(t, err)
	assert.Equal(t, *read.ReadAt, *again.ReadAt)

	unread, err = f.inbox.UnreadCount(f.ctx, me)
	require.NoError(t, err)
	assert.Zero(t, unread)

	theirUnread, err := f.inbox.UnreadCount(f.ctx, other)
	require.NoError(t, err)
	assert.Equal(t, 1, theirUnread)
}
