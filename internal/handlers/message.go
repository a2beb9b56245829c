package handlers

import (
	"net/http"

	"distance-backend/internal/middleware"
	"distance-backend/internal/models"
	"distance-backend/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

// MessageHandler handles the inbox and message sending.
type MessageHandler struct {
	messageService *services.MessageService
	friendService  *services.FriendshipService
}

// NewMessageHandler creates a new message handler
func NewMessageHandler(messageService *services.MessageService, friendService *services.FriendshipService) *MessageHandler {
	return &MessageHandler{
		messageService: messageService,
		friendService:  friendService,
	}
}

// InboxResponse is the inbox payload. Viewing the inbox marks all
// returned messages read, so num_msgs is always zero here.
type InboxResponse struct {
	Messages    []*models.Message `json:"msg_list"`
	UnreadCount int               `json:"num_msgs"`
}

// Inbox handles GET /messages/
func (h *MessageHandler) Inbox(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	msgs, err := h.messageService.Inbox(ctx, userID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to load inbox")
		respondAppError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, InboxResponse{Messages: msgs, UnreadCount: 0})
}

// Send handles POST /send_msg/ with fields receiver and msg
func (h *MessageHandler) Send(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	if err := r.ParseForm(); err != nil {
		respondError(w, "Invalid form body", http.StatusBadRequest)
		return
	}
	receiver := r.FormValue("receiver")

	if _, err := h.messageService.Send(ctx, userID, receiver, r.FormValue("msg")); err != nil {
		respondAppError(w, err)
		return
	}

	respondNotice(w, "You have sent "+receiver+" a message.")
}

// SendToFriend handles POST /friends/{friend_id}/send_msg/. Besides
// sending (field msg), the same form carries per-message delete keys
// "<id>FX=X" for clearing messages out of the friend thread.
func (h *MessageHandler) SendToFriend(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	friendID := chi.URLParam(r, "friend_id")

	if err := r.ParseForm(); err != nil {
		respondError(w, "Invalid form body", http.StatusBadRequest)
		return
	}

	friends, err := h.friendService.AreFriends(ctx, userID, friendID)
	if err != nil {
		respondAppError(w, err)
		return
	}
	if !friends {
		respondNotice(w, "You are not friends with this user.")
		return
	}

	// A delete action takes precedence over sending.
	thread, err := h.messageService.ReceivedFrom(ctx, userID, friendID)
	if err != nil {
		respondAppError(w, err)
		return
	}
	for _, msg := range thread {
		if r.PostForm.Get(msg.ID+"FX") == "X" {
			if err := h.messageService.Delete(ctx, userID, msg.ID); err != nil {
				respondAppError(w, err)
				return
			}
			respondNotice(w, "Message deleted.")
			return
		}
	}

	msg, err := h.messageService.SendToFriend(ctx, userID, friendID, r.FormValue("msg"))
	if err != nil {
		respondAppError(w, err)
		return
	}

	log.Info().
		Str("user_id", userID).
		Str("friend_id", msg.ReceiverID).
		Msg("Message sent from friend page")
	respondNotice(w, "You have sent your friend a message.")
}
