package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"distance-backend/internal/apperror"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error"`
}

// NoticeResponse carries the transient user-visible notice the UI shows
// after an action.
type NoticeResponse struct {
	Notice string `json:"notice"`
}

// respondError sends an error response
func respondError(w http.ResponseWriter, message string, statusCode int) {
	respondJSON(w, statusCode, ErrorResponse{Error: message})
}

// respondJSON writes a JSON response body with the given status
func respondJSON(w http.ResponseWriter, statusCode int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(body)
}

// respondNotice sends an OK response with just a notice
func respondNotice(w http.ResponseWriter, notice string) {
	respondJSON(w, http.StatusOK, NoticeResponse{Notice: notice})
}

// respondAppError maps the error taxonomy onto HTTP statuses. The
// message of an AppError is the user-facing notice text.
func respondAppError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	message := "internal error"

	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		message = appErr.Message
		switch {
		case errors.Is(err, apperror.ErrNotFound):
			status = http.StatusNotFound
		case errors.Is(err, apperror.ErrNotFriends), errors.Is(err, apperror.ErrForbidden):
			status = http.StatusForbidden
		case errors.Is(err, apperror.ErrValidation), errors.Is(err, apperror.ErrSelfAction):
			status = http.StatusBadRequest
		case errors.Is(err, apperror.ErrConflict):
			status = http.StatusConflict
		case errors.Is(err, apperror.ErrProvider):
			status = http.StatusBadGateway
		}
	}

	respondError(w, message, status)
}
