package apperror

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound   = errors.New("not found")
	ErrValidation = errors.New("validation error")
	ErrConflict   = errors.New("conflict")
	ErrNotFriends = errors.New("not friends")
	ErrSelfAction = errors.New("self action")
	ErrForbidden  = errors.New("forbidden")
	ErrProvider   = errors.New("provider failure")
)

// AppError carries a sentinel kind plus a human-readable notice that
// handlers surface to the user.
type AppError struct {
	Err     error
	Message string
	Field   string
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NotFound(resource, key string) *AppError {
	return &AppError{
		Err:     ErrNotFound,
		Message: fmt.Sprintf("%s not found: %s", resource, key),
	}
}

func ValidationFailed(field, message string) *AppError {
	return &AppError{
		Err:     ErrValidation,
		Message: message,
		Field:   field,
	}
}

func Conflict(message string) *AppError {
	return &AppError{
		Err:     ErrConflict,
		Message: message,
	}
}

// NotFriends indicates an action that requires an existing friendship.
func NotFriends() *AppError {
	return &AppError{
		Err:     ErrNotFriends,
		Message: "You are not friends with this user.",
	}
}

// SelfAction indicates acting on one's own identity, such as searching
// for or befriending oneself.
func SelfAction(message string) *AppError {
	return &AppError{
		Err:     ErrSelfAction,
		Message: message,
	}
}

func Forbidden(message string) *AppError {
	return &AppError{
		Err:     ErrForbidden,
		Message: message,
	}
}

func Provider(provider string, err error) *AppError {
	return &AppError{
		Err:     ErrProvider,
		Message: fmt.Sprintf("%s lookup failed: %v", provider, err),
		Field:   provider,
	}
}
