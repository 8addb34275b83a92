package delivery

import "errors"

var (
	ErrValidation          = errors.New("validation error")
	ErrNotFound            = errors.New("delivery not found")
	ErrAnnouncementGone    = errors.New("announcement is no longer available")
	ErrMatchNotFound       = errors.New("no match exists for this route and announcement")
	ErrForbidden           = errors.New("delivery involves another user")
	ErrInvalidTransition   = errors.New("invalid delivery status transition")
	ErrInvalidCode         = errors.New("validation code does not match")
	ErrAlreadyDelivered    = errors.New("delivery already completed")
	ErrRouteInactive       = errors.New("route is no longer active")
	ErrNotAnnouncementAuthor = errors.New("announcement belongs to another client")
)
