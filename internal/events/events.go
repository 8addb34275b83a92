package events

// Domain events published on the ecodeli.events topic exchange. The matcher
// worker consumes both keys and runs a matching pass per event.

const (
	Exchange = "ecodeli.events"

	RouteCreatedKey        = "route.created"
	AnnouncementCreatedKey = "announcement.created"
)

type RouteCreated struct {
	RouteID int64 `json:"route_id"`
}

type AnnouncementCreated struct {
	AnnouncementID int64 `json:"announcement_id"`
}
