package matching

import "errors"

var (
	ErrRouteNotFound        = errors.New("route not found")
	ErrAnnouncementNotFound = errors.New("announcement not found")
)
