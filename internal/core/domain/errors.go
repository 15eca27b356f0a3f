package domain

import "errors"

var (
	ErrUnauthorized     = errors.New("unauthorized")
	ErrNotAuthenticated = errors.New("not authenticated")
	ErrForbidden        = errors.New("access forbidden")
	ErrNotFound         = errors.New("not found")
	ErrValidation       = errors.New("validation failed")
	ErrDraftNotFound    = errors.New("registration draft not found")
	ErrInvalidOrder     = errors.New("invalid payment order")
	ErrEmptyMessage     = errors.New("message is empty")
)

// FieldError describes a single invalid input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}
