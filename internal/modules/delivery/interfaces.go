package delivery

import (
	"context"
	"database/sql"

	"ecodeli/internal/domain"

	"gorm.io/gorm"
)

// TxRunner groups repository writes into one transaction. *gorm.DB
// satisfies it.
type TxRunner interface {
	Transaction(fc func(tx *gorm.DB) error, opts ...*sql.TxOptions) error
}

type DeliveryRepository interface {
	CreateTx(ctx context.Context, tx *gorm.DB, d *domain.Delivery) error
	GetByID(ctx context.Context, id int64) (*domain.Delivery, error)
	GetByTrackingNumber(ctx context.Context, tracking string) (*domain.Delivery, error)
	ListByUser(ctx context.Context, userID int64) ([]domain.Delivery, error)
	UpdateStatus(ctx context.Context, id int64, status domain.DeliveryStatus) error
	MarkValidated(ctx context.Context, id int64) error
}

type AnnouncementRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Announcement, error)
	AssignTx(ctx context.Context, tx *gorm.DB, id int64) (bool, error)
	UpdateStatus(ctx context.Context, id int64, status domain.AnnouncementStatus) error
}

type RouteRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Route, error)
}

type MatchRepository interface {
	GetByPair(ctx context.Context, routeID, announcementID int64) (*domain.RouteAnnouncementMatch, error)
}

// Notifier tells the counterpart about lifecycle changes. Failures are
// logged by the service and never fail the operation.
type Notifier interface {
	NotifyDeliveryAccepted(ctx context.Context, delivererID, deliveryID, announcementID int64) error
	NotifyDeliveryStatus(ctx context.Context, userID, deliveryID int64, status domain.DeliveryStatus) error
}

// AnnouncementCache drops cached announcement entries after status flips.
type AnnouncementCache interface {
	Invalidate(ctx context.Context, id int64)
}
