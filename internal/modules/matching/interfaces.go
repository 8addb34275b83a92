package matching

import (
	"context"
	"time"

	"ecodeli/internal/domain"
)

// RouteRepository defines the route reads the matching engine needs
type RouteRepository interface {
	GetByIDWithDeliverer(ctx context.Context, id int64) (*domain.Route, error)
	ListActiveCovering(ctx context.Context, at time.Time) ([]domain.Route, error)
}

// AnnouncementRepository defines the announcement reads the matching engine needs
type AnnouncementRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Announcement, error)
	ListActiveInWindow(ctx context.Context, from, to time.Time, types []domain.AnnouncementType) ([]domain.Announcement, error)
}

// MatchRepository persists scored pairings
type MatchRepository interface {
	Upsert(ctx context.Context, routeID, announcementID int64, score int) error
	MarkNotified(ctx context.Context, routeID, announcementID int64) error
}

// NotificationSender delivers the high-confidence match notification to the
// deliverer owning the route. Failures are swallowed by the engine.
type NotificationSender interface {
	NotifyMatchFound(ctx context.Context, delivererID int64, a *domain.Announcement, score int) error
}
