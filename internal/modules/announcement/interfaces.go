package announcement

import (
	"context"

	"ecodeli/internal/domain"
)

// AnnouncementRepository defines the interface for announcement persistence
type AnnouncementRepository interface {
	Create(ctx context.Context, a *domain.Announcement) error
	GetByID(ctx context.Context, id int64) (*domain.Announcement, error)
	ListActive(ctx context.Context, annType string, limit, offset int) ([]domain.Announcement, error)
	ListByAuthor(ctx context.Context, authorID int64) ([]domain.Announcement, error)
	UpdateStatus(ctx context.Context, id int64, status domain.AnnouncementStatus) error
}

// Matcher runs the inline matching pass when no broker is wired
type Matcher interface {
	FindMatchingRoutes(ctx context.Context, announcementID int64) error
}

// EventPublisher hands the matching trigger to the broker
type EventPublisher interface {
	PublishJSON(ctx context.Context, routingKey string, msg any) error
}
