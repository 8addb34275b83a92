package route

import (
	"context"

	"ecodeli/internal/domain"
)

// RouteRepository defines the interface for route persistence
type RouteRepository interface {
	Create(ctx context.Context, rt *domain.Route) error
	GetByID(ctx context.Context, id int64) (*domain.Route, error)
	ListByDeliverer(ctx context.Context, delivererID int64) ([]domain.Route, error)
	Deactivate(ctx context.Context, id int64) error
}

// MatchReader lists persisted pairings for a route
type MatchReader interface {
	ListByRoute(ctx context.Context, routeID int64) ([]domain.RouteAnnouncementMatch, error)
}

// Matcher runs the inline matching pass when no broker is wired
type Matcher interface {
	FindMatchingAnnouncements(ctx context.Context, routeID int64) error
}

// EventPublisher hands the matching trigger to the broker
type EventPublisher interface {
	PublishJSON(ctx context.Context, routingKey string, msg any) error
}
