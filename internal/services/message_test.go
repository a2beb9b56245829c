package services

import (
	"context"
	"testing"

	"distance-backend/internal/apperror"
	"distance-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMessageService(f *fakes) *MessageService {
	return NewMessageService(f.users, f.friends, f.msgs)
}

func TestSend_ReceiverMustExist(t *testing.T) {
	f := newFakes()
	svc := newMessageService(f)
	alice := f.addUser(t, "alice")

	_, err := svc.Send(context.Background(), alice.ID, "nobody", "hello")
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestSend_RequiresFriendship(t *testing.T) {
	f := newFakes()
	svc := newMessageService(f)
	alice := f.addUser(t, "alice")
	f.addUser(t, "bob")

	_, err := svc.Send(context.Background(), alice.ID, "bob", "hello")
	assert.ErrorIs(t, err, apperror.ErrNotFriends)
}

func TestSend_CreatesUnreadNormalMessage(t *testing.T) {
	f := newFakes()
	svc := newMessageService(f)
	alice := f.addUser(t, "alice")
	bob := f.addUser(t, "bob")
	f.befriend(alice, bob)

	msg, err := svc.Send(context.Background(), alice.ID, "bob", "hello")
	require.NoError(t, err)

	assert.Equal(t, models.MsgTypeNormal, msg.MsgType)
	assert.Equal(t, bob.ID, msg.ReceiverID)
	assert.False(t, msg.Read)
	assert.False(t, msg.CreatedAt.IsZero())
}

func TestSend_EmptyContent(t *testing.T) {
	f := newFakes()
	svc := newMessageService(f)
	alice := f.addUser(t, "alice")
	bob := f.addUser(t, "bob")
	f.befriend(alice, bob)

	_, err := svc.Send(context.Background(), alice.ID, "bob", "   ")
	assert.ErrorIs(t, err, apperror.ErrValidation)
}

func TestSendToFriend_RequiresFriendship(t *testing.T) {
	f := newFakes()
	svc := newMessageService(f)
	alice := f.addUser(t, "alice")
	bob := f.addUser(t, "bob")

	_, err := svc.SendToFriend(context.Background(), alice.ID, bob.ID, "hello")
	assert.ErrorIs(t, err, apperror.ErrNotFriends)
}

func TestInbox_ViewMarksRead(t *testing.T) {
	f := newFakes()
	svc := newMessageService(f)
	alice := f.addUser(t, "alice")
	bob := f.addUser(t, "bob")
	f.befriend(alice, bob)

	_, err := svc.Send(context.Background(), alice.ID, "bob", "one")
	require.NoError(t, err)
	_, err = svc.Send(context.Background(), alice.ID, "bob", "two")
	require.NoError(t, err)

	unread, err := svc.UnreadCount(context.Background(), bob.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, unread)

	first, err := svc.Inbox(context.Background(), bob.ID)
	require.NoError(t, err)
	require.Len(t, first, 2)
	for _, msg := range first {
		assert.True(t, msg.Read)
	}

	unread, err = svc.UnreadCount(context.Background(), bob.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, unread)

	// A second view yields the same set.
	second, err := svc.Inbox(context.Background(), bob.ID)
	require.NoError(t, err)
	require.Len(t, second, 2)
	assert.Equal(t, first[0].ID, second[0].ID)
	assert.Equal(t, first[1].ID, second[1].ID)
}

func TestInbox_AscendingByCreation(t *testing.T) {
	f := newFakes()
	svc := newMessageService(f)
	alice := f.addUser(t, "alice")
	bob := f.addUser(t, "bob")
	f.befriend(alice, bob)

	for _, content := range []string{"one", "two", "three"} {
		_, err := svc.Send(context.Background(), alice.ID, "bob", content)
		require.NoError(t, err)
	}

	inbox, err := svc.Inbox(context.Background(), bob.ID)
	require.NoError(t, err)
	require.Len(t, inbox, 3)
	assert.Equal(t, "one", inbox[0].Content)
	assert.Equal(t, "two", inbox[1].Content)
	assert.Equal(t, "three", inbox[2].Content)
}

func TestThreadFrom_OnlyIncomingMessages(t *testing.T) {
	f := newFakes()
	svc := newMessageService(f)
	alice := f.addUser(t, "alice")
	bob := f.addUser(t, "bob")
	f.befriend(alice, bob)

	_, err := svc.Send(context.Background(), alice.ID, "bob", "from alice")
	require.NoError(t, err)
	_, err = svc.Send(context.Background(), bob.ID, "alice", "from bob")
	require.NoError(t, err)

	// Bob's view of Alice shows only alice→bob messages.
	thread, err := svc.ThreadFrom(context.Background(), bob.ID, alice.ID)
	require.NoError(t, err)
	require.Len(t, thread, 1)
	assert.Equal(t, "from alice", thread[0].Content)
	assert.True(t, thread[0].Read)

	// Bob's outgoing message stays unread for Alice.
	unread, err := svc.UnreadCount(context.Background(), alice.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, unread)
}

func TestDelete_ReceiverOnly(t *testing.T) {
	f := newFakes()
	svc := newMessageService(f)
	alice := f.addUser(t, "alice")
	bob := f.addUser(t, "bob")
	f.befriend(alice, bob)

	msg, err := svc.Send(context.Background(), alice.ID, "bob", "hello")
	require.NoError(t, err)

	// The sender may not delete it.
	err = svc.Delete(context.Background(), alice.ID, msg.ID)
	assert.ErrorIs(t, err, apperror.ErrForbidden)

	// The receiver may.
	require.NoError(t, svc.Delete(context.Background(), bob.ID, msg.ID))
	inbox, err := svc.Inbox(context.Background(), bob.ID)
	require.NoError(t, err)
	assert.Empty(t, inbox)
}

func TestDelete_UnknownMessage(t *testing.T) {
	f := newFakes()
	svc := newMessageService(f)
	alice := f.addUser(t, "alice")

	err := svc.Delete(context.Background(), alice.ID, "missing")
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}
