package notification

import (
	"context"

	"ecodeli/internal/domain"
)

// Store is the persistence surface the notification service uses
type Store interface {
	Create(ctx context.Context, n *domain.Notification) error
	GetByUserID(ctx context.Context, userID int64, limit int) ([]domain.Notification, error)
	CountUnread(ctx context.Context, userID int64) (int64, error)
	MarkAsRead(ctx context.Context, notificationID, userID int64) error
	MarkAllAsRead(ctx context.Context, userID int64) error
}

// Pusher delivers a live copy of a stored notification. The websocket hub
// implements it; delivery is best effort.
type Pusher interface {
	SendToUser(userID int64, message interface{}) bool
}
