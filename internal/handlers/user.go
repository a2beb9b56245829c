package handlers

import (
	"net/http"
	"strconv"

	"distance-backend/internal/apperror"
	"distance-backend/internal/middleware"
	"distance-backend/internal/models"
	"distance-backend/internal/services"

	"github.com/rs/zerolog/log"
)

// UserHandler handles signup, login, the dashboard and settings.
type UserHandler struct {
	userService    *services.UserService
	friendService  *services.FriendshipService
	messageService *services.MessageService
}

// NewUserHandler creates a new user handler
func NewUserHandler(userService *services.UserService, friendService *services.FriendshipService, messageService *services.MessageService) *UserHandler {
	return &UserHandler{
		userService:    userService,
		friendService:  friendService,
		messageService: messageService,
	}
}

// AuthResponse is returned by signup and login.
type AuthResponse struct {
	User  *models.User `json:"user"`
	Token string       `json:"token"`
}

func parseCoord(r *http.Request, field string) (float64, error) {
	value, err := strconv.ParseFloat(r.FormValue(field), 64)
	if err != nil {
		return 0, apperror.ValidationFailed(field, field+" must be a number")
	}
	return value, nil
}

// SignUp handles POST /signup/
func (h *UserHandler) SignUp(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		respondError(w, "Invalid form body", http.StatusBadRequest)
		return
	}

	lat, err := parseCoord(r, "lat")
	if err != nil {
		respondAppError(w, err)
		return
	}
	lng, err := parseCoord(r, "lng")
	if err != nil {
		respondAppError(w, err)
		return
	}

	user, token, err := h.userService.SignUp(r.Context(), services.SignUpRequest{
		Username: r.FormValue("username"),
		Email:    r.FormValue("email"),
		Password: r.FormValue("password"),
		Timezone: r.FormValue("timezone"),
		Lat:      lat,
		Lng:      lng,
	})
	if err != nil {
		log.Error().Err(err).Str("username", r.FormValue("username")).Msg("Failed to sign up user")
		respondAppError(w, err)
		return
	}

	log.Info().
		Str("user_id", user.ID).
		Str("username", user.Username).
		Str("city", user.City).
		Msg("User signed up")
	respondJSON(w, http.StatusCreated, AuthResponse{User: user, Token: token})
}

// Login handles POST /login/
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		respondError(w, "Invalid form body", http.StatusBadRequest)
		return
	}

	user, token, err := h.userService.Login(r.Context(), r.FormValue("username"), r.FormValue("password"))
	if err != nil {
		respondAppError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, AuthResponse{User: user, Token: token})
}

// HomeResponse is the dashboard payload: friend list plus unread badge.
type HomeResponse struct {
	Friends     []*models.User `json:"friends_list"`
	UnreadCount int            `json:"num_msgs"`
}

// Home handles GET /home/
func (h *UserHandler) Home(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	friends, err := h.friendService.ListFriends(ctx, userID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to list friends")
		respondAppError(w, err)
		return
	}
	unread, err := h.messageService.UnreadCount(ctx, userID)
	if err != nil {
		respondAppError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, HomeResponse{Friends: friends, UnreadCount: unread})
}

// SettingsView handles GET /settings_view/
func (h *UserHandler) SettingsView(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	form, err := h.userService.Settings(ctx, middleware.GetUserID(ctx))
	if err != nil {
		respondAppError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, form)
}

// SettingsSet handles POST /settings_set/
func (h *UserHandler) SettingsSet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	if err := r.ParseForm(); err != nil {
		respondError(w, "Invalid form body", http.StatusBadRequest)
		return
	}

	lat, err := parseCoord(r, "lat")
	if err != nil {
		respondAppError(w, err)
		return
	}
	lng, err := parseCoord(r, "lng")
	if err != nil {
		respondAppError(w, err)
		return
	}

	form := services.SettingsForm{
		Timezone: r.FormValue("timezone"),
		Lat:      lat,
		Lng:      lng,
		TempUnit: r.FormValue("temp_unit"),
		City:     r.FormValue("city"),
		Country:  r.FormValue("country"),
	}
	if err := h.userService.UpdateSettings(ctx, userID, form); err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to update settings")
		respondAppError(w, err)
		return
	}

	respondNotice(w, "You have changed your settings.")
}
