package domain

import "time"

// RouteAnnouncementMatch is one scored pairing between a route and an
// announcement. At most one row exists per (route, announcement) pair;
// every matching pass overwrites the score in place.
type RouteAnnouncementMatch struct {
	RouteID        int64      `json:"route_id"`
	AnnouncementID int64      `json:"announcement_id"`
	Score          int        `json:"score"`
	Notified       bool       `json:"notified"`
	NotifiedAt     *time.Time `json:"notified_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`

	Route        *Route        `json:"route,omitempty" gorm:"foreignKey:RouteID"`
	Announcement *Announcement `json:"announcement,omitempty" gorm:"foreignKey:AnnouncementID"`
}
