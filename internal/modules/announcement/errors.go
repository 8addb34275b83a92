package announcement

import "errors"

var (
	ErrValidation    = errors.New("validation error")
	ErrNotFound      = errors.New("announcement not found")
	ErrForbidden     = errors.New("announcement belongs to another user")
	ErrNotCancelable = errors.New("announcement is no longer active")
)
