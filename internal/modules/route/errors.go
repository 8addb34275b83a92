package route

import "errors"

var (
	ErrValidation = errors.New("validation error")
	ErrNotFound   = errors.New("route not found")
	ErrForbidden  = errors.New("route belongs to another deliverer")
)
