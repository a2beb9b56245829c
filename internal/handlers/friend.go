package handlers

import (
	"net/http"

	"distance-backend/internal/middleware"
	"distance-backend/internal/models"
	"distance-backend/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

// FriendHandler handles the friendship protocol and friend pages.
type FriendHandler struct {
	friendService  *services.FriendshipService
	messageService *services.MessageService
	viewService    *services.FriendViewService
}

// NewFriendHandler creates a new friend handler
func NewFriendHandler(friendService *services.FriendshipService, messageService *services.MessageService, viewService *services.FriendViewService) *FriendHandler {
	return &FriendHandler{
		friendService:  friendService,
		messageService: messageService,
		viewService:    viewService,
	}
}

// Search handles GET /search_friends/?search_friends=<username>
func (h *FriendHandler) Search(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	result, err := h.friendService.Search(ctx, userID, r.URL.Query().Get("search_friends"))
	if err != nil {
		respondAppError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// AddFriend handles POST /add_friend/ with field friend_result
func (h *FriendHandler) AddFriend(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	if err := r.ParseForm(); err != nil {
		respondError(w, "Invalid form body", http.StatusBadRequest)
		return
	}
	username := r.FormValue("friend_result")

	if _, err := h.friendService.SendRequest(ctx, userID, username); err != nil {
		log.Error().Err(err).Str("user_id", userID).Str("username", username).Msg("Failed to send friend request")
		respondAppError(w, err)
		return
	}

	respondNotice(w, "You have sent "+username+" a friend request.")
}

// Accept handles POST /accept/. The form carries one action key per
// inbox message: "<id>=Accept" accepts, "<id>X=X" deletes the message,
// rejecting it when it is a friend request. The first matching message
// wins; a form matching nothing is a no-op.
func (h *FriendHandler) Accept(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	if err := r.ParseForm(); err != nil {
		respondError(w, "Invalid form body", http.StatusBadRequest)
		return
	}

	msgs, err := h.messageService.Received(ctx, userID)
	if err != nil {
		respondAppError(w, err)
		return
	}

	for _, msg := range msgs {
		if r.PostForm.Get(msg.ID) == "Accept" {
			friend, err := h.friendService.Accept(ctx, userID, msg.ID)
			if err != nil {
				respondAppError(w, err)
				return
			}
			respondNotice(w, friend.Username+" has been added as a friend.")
			return
		}
		if r.PostForm.Get(msg.ID+"X") == "X" {
			if msg.MsgType == models.MsgTypeFriendRequest {
				if err := h.friendService.Reject(ctx, userID, msg.ID); err != nil {
					respondAppError(w, err)
					return
				}
				respondNotice(w, "Friend request removed.")
				return
			}
			if err := h.messageService.Delete(ctx, userID, msg.ID); err != nil {
				respondAppError(w, err)
				return
			}
			respondNotice(w, "Message deleted.")
			return
		}
	}

	respondNotice(w, "No matching friend request.")
}

// FriendsResponse is the friend list payload.
type FriendsResponse struct {
	Friends     []*models.User `json:"friends_list"`
	UnreadCount int            `json:"num_msgs"`
}

// List handles GET /friends/
func (h *FriendHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	friends, err := h.friendService.ListFriends(ctx, userID)
	if err != nil {
		respondAppError(w, err)
		return
	}
	unread, err := h.messageService.UnreadCount(ctx, userID)
	if err != nil {
		respondAppError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, FriendsResponse{Friends: friends, UnreadCount: unread})
}

// View handles GET /friends/{friend_id}/
func (h *FriendHandler) View(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	friendID := chi.URLParam(r, "friend_id")

	view, err := h.viewService.Compose(ctx, userID, friendID)
	if err != nil {
		log.Error().Err(err).
			Str("user_id", userID).
			Str("friend_id", friendID).
			Msg("Failed to compose friend view")
		respondAppError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, view)
}

// Delete handles POST /del_friend/ with per-friend field <friend_id>=X.
// Unfriending someone who is not a friend is a no-op with a notice.
func (h *FriendHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	if err := r.ParseForm(); err != nil {
		respondError(w, "Invalid form body", http.StatusBadRequest)
		return
	}

	friends, err := h.friendService.ListFriends(ctx, userID)
	if err != nil {
		respondAppError(w, err)
		return
	}

	for _, friend := range friends {
		if r.PostForm.Get(friend.ID) != "X" {
			continue
		}
		removed, err := h.friendService.Unfriend(ctx, userID, friend.ID)
		if err != nil {
			respondAppError(w, err)
			return
		}
		if removed {
			respondNotice(w, "You have unfriended "+friend.Username+".")
			return
		}
		break
	}

	respondNotice(w, "You are not friends with this user.")
}
