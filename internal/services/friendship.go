package services

import (
	"context"
	"fmt"
	"time"

	"distance-backend/internal/apperror"
	"distance-backend/internal/models"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// FriendshipService drives the request → accept/reject → friends state
// machine and the friend list.
type FriendshipService struct {
	userRepo   UserStore
	friendRepo FriendStore
	msgRepo    MessageStore
}

// NewFriendshipService creates a new friendship service
func NewFriendshipService(userRepo UserStore, friendRepo FriendStore, msgRepo MessageStore) *FriendshipService {
	return &FriendshipService{
		userRepo:   userRepo,
		friendRepo: friendRepo,
		msgRepo:    msgRepo,
	}
}

// SearchResult describes the relationship between the viewer and the
// matched account.
type SearchResult struct {
	Username       string `json:"username"`
	AlreadyFriends bool   `json:"already_friends"`
	Pending        bool   `json:"pending"`
}

// Search performs an exact-match username search and reports whether
// the two accounts are already friends or have a pending request from
// the viewer.
func (s *FriendshipService) Search(ctx context.Context, viewerID, username string) (*SearchResult, error) {
	target, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if target.ID == viewerID {
		return nil, apperror.SelfAction("That's your username!")
	}

	alreadyFriends, err := s.friendRepo.AreFriends(ctx, viewerID, target.ID)
	if err != nil {
		return nil, err
	}
	pending, err := s.msgRepo.PendingRequestExists(ctx, viewerID, target.ID)
	if err != nil {
		return nil, err
	}

	return &SearchResult{
		Username:       target.Username,
		AlreadyFriends: alreadyFriends,
		Pending:        pending,
	}, nil
}

// SendRequest creates a friend-request message addressed to the named
// user. Requests to self, to existing friends, or duplicating a pending
// same-direction request are rejected.
func (s *FriendshipService) SendRequest(ctx context.Context, senderID, username string) (*models.Message, error) {
	sender, err := s.userRepo.GetByID(ctx, senderID)
	if err != nil {
		return nil, err
	}
	receiver, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if receiver.ID == senderID {
		return nil, apperror.SelfAction("You cannot send yourself a friend request.")
	}

	alreadyFriends, err := s.friendRepo.AreFriends(ctx, senderID, receiver.ID)
	if err != nil {
		return nil, err
	}
	if alreadyFriends {
		return nil, apperror.Conflict("You are already friends with this user.")
	}
	pending, err := s.msgRepo.PendingRequestExists(ctx, senderID, receiver.ID)
	if err != nil {
		return nil, err
	}
	if pending {
		return nil, apperror.Conflict("You have already sent this user a friend request.")
	}

	request := &models.Message{
		ID:         uuid.New().String(),
		SenderID:   senderID,
		ReceiverID: receiver.ID,
		Content:    sender.Username + " has sent you a friend request.",
		MsgType:    models.MsgTypeFriendRequest,
		CreatedAt:  time.Now(),
	}
	if err := s.msgRepo.Create(ctx, request); err != nil {
		return nil, fmt.Errorf("failed to create friend request: %w", err)
	}

	log.Info().
		Str("sender_id", senderID).
		Str("receiver_id", receiver.ID).
		Msg("Friend request sent")
	return request, nil
}

// requestFor loads the message and checks it is a friend request
// addressed to the receiver.
func (s *FriendshipService) requestFor(ctx context.Context, receiverID, messageID string) (*models.Message, error) {
	msg, err := s.msgRepo.GetByID(ctx, messageID)
	if err != nil {
		return nil, err
	}
	if msg.ReceiverID != receiverID {
		return nil, apperror.Forbidden("only the receiver may act on a friend request")
	}
	if msg.MsgType != models.MsgTypeFriendRequest {
		return nil, apperror.ValidationFailed("message_id", "message is not a friend request")
	}
	return msg, nil
}

// Accept establishes the friendship in both directions and consumes the
// request message, atomically. Returns the new friend.
func (s *FriendshipService) Accept(ctx context.Context, receiverID, messageID string) (*models.User, error) {
	msg, err := s.requestFor(ctx, receiverID, messageID)
	if err != nil {
		return nil, err
	}
	if err := s.friendRepo.Befriend(ctx, receiverID, msg.SenderID, msg.ID); err != nil {
		return nil, err
	}

	log.Info().
		Str("user_id", receiverID).
		Str("friend_id", msg.SenderID).
		Msg("Friend request accepted")
	return s.userRepo.GetByID(ctx, msg.SenderID)
}

// Reject deletes the friend-request message without any connection
// change.
func (s *FriendshipService) Reject(ctx context.Context, receiverID, messageID string) error {
	msg, err := s.requestFor(ctx, receiverID, messageID)
	if err != nil {
		return err
	}
	if err := s.msgRepo.Delete(ctx, msg.ID); err != nil {
		return err
	}

	log.Info().
		Str("user_id", receiverID).
		Str("sender_id", msg.SenderID).
		Msg("Friend request rejected")
	return nil
}

// Unfriend removes the symmetric connection. Unfriending a non-friend
// is a no-op; the returned flag tells the caller which notice to show.
func (s *FriendshipService) Unfriend(ctx context.Context, userID, friendID string) (bool, error) {
	removed, err := s.friendRepo.Unfriend(ctx, userID, friendID)
	if err != nil {
		return false, err
	}
	if removed {
		log.Info().
			Str("user_id", userID).
			Str("friend_id", friendID).
			Msg("Friend removed")
	}
	return removed, nil
}

// ListFriends returns the user's connections set.
func (s *FriendshipService) ListFriends(ctx context.Context, userID string) ([]*models.User, error) {
	return s.friendRepo.ListFriends(ctx, userID)
}

// AreFriends reports whether the two accounts are connected.
func (s *FriendshipService) AreFriends(ctx context.Context, userID, friendID string) (bool, error) {
	return s.friendRepo.AreFriends(ctx, userID, friendID)
}
