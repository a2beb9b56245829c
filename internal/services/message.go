package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"distance-backend/internal/apperror"
	"distance-backend/internal/models"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// MessageService handles direct messages and the inbox.
type MessageService struct {
	userRepo   UserStore
	friendRepo FriendStore
	msgRepo    MessageStore
}

// NewMessageService creates a new message service
func NewMessageService(userRepo UserStore, friendRepo FriendStore, msgRepo MessageStore) *MessageService {
	return &MessageService{
		userRepo:   userRepo,
		friendRepo: friendRepo,
		msgRepo:    msgRepo,
	}
}

func (s *MessageService) create(ctx context.Context, senderID, receiverID, content string) (*models.Message, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, apperror.ValidationFailed("msg", "message content is required")
	}

	msg := &models.Message{
		ID:         uuid.New().String(),
		SenderID:   senderID,
		ReceiverID: receiverID,
		Content:    content,
		MsgType:    models.MsgTypeNormal,
		CreatedAt:  time.Now(),
	}
	if err := s.msgRepo.Create(ctx, msg); err != nil {
		return nil, fmt.Errorf("failed to create message: %w", err)
	}

	log.Info().
		Str("sender_id", senderID).
		Str("receiver_id", receiverID).
		Msg("Message sent")
	return msg, nil
}

// Send delivers a normal message to the named user. The receiver must
// exist and be a friend of the sender.
func (s *MessageService) Send(ctx context.Context, senderID, receiverUsername, content string) (*models.Message, error) {
	receiver, err := s.userRepo.GetByUsername(ctx, receiverUsername)
	if err != nil {
		return nil, err
	}
	friends, err := s.friendRepo.AreFriends(ctx, senderID, receiver.ID)
	if err != nil {
		return nil, err
	}
	if !friends {
		return nil, apperror.NotFriends()
	}
	return s.create(ctx, senderID, receiver.ID, content)
}

// SendToFriend delivers a normal message from a friend's page, after
// re-validating the friendship.
func (s *MessageService) SendToFriend(ctx context.Context, senderID, friendID, content string) (*models.Message, error) {
	friends, err := s.friendRepo.AreFriends(ctx, senderID, friendID)
	if err != nil {
		return nil, err
	}
	if !friends {
		return nil, apperror.NotFriends()
	}
	return s.create(ctx, senderID, friendID, content)
}

// Inbox returns every message addressed to the user, ascending by
// creation time, and marks them all read as a side effect of viewing.
func (s *MessageService) Inbox(ctx context.Context, userID string) ([]*models.Message, error) {
	msgs, err := s.msgRepo.ListByReceiver(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := s.msgRepo.MarkReadByReceiver(ctx, userID, ""); err != nil {
		return nil, err
	}
	for _, msg := range msgs {
		msg.Read = true
	}
	return msgs, nil
}

// ThreadFrom returns the messages sent by the friend to the viewer,
// marked read. Outgoing viewer→friend messages are not part of this
// view.
func (s *MessageService) ThreadFrom(ctx context.Context, viewerID, friendID string) ([]*models.Message, error) {
	msgs, err := s.msgRepo.ListBySenderAndReceiver(ctx, friendID, viewerID)
	if err != nil {
		return nil, err
	}
	if err := s.msgRepo.MarkReadByReceiver(ctx, viewerID, friendID); err != nil {
		return nil, err
	}
	for _, msg := range msgs {
		msg.Read = true
	}
	return msgs, nil
}

// Delete removes a message; only its receiver may do so.
func (s *MessageService) Delete(ctx context.Context, receiverID, messageID string) error {
	msg, err := s.msgRepo.GetByID(ctx, messageID)
	if err != nil {
		return err
	}
	if msg.ReceiverID != receiverID {
		return apperror.Forbidden("only the receiver may delete a message")
	}
	return s.msgRepo.Delete(ctx, messageID)
}

// UnreadCount returns the unread badge count.
func (s *MessageService) UnreadCount(ctx context.Context, userID string) (int, error) {
	return s.msgRepo.CountUnread(ctx, userID)
}

// Received returns the inbox without the view-as-read side effect. Used
// by the accept endpoint to match per-message action keys.
func (s *MessageService) Received(ctx context.Context, userID string) ([]*models.Message, error) {
	return s.msgRepo.ListByReceiver(ctx, userID)
}

// ReceivedFrom returns the friend→viewer messages without the
// view-as-read side effect. Used to match per-message delete keys.
func (s *MessageService) ReceivedFrom(ctx context.Context, viewerID, friendID string) ([]*models.Message, error) {
	return s.msgRepo.ListBySenderAndReceiver(ctx, friendID, viewerID)
}
