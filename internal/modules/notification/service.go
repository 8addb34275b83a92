package notification

import (
	"context"
	"fmt"

	"ecodeli/internal/domain"
)

type Service struct {
	repo Store
	hub  Pusher
}

func NewService(repo Store, hub Pusher) *Service {
	return &Service{repo: repo, hub: hub}
}

// Create persists the notification and pushes a live copy to the recipient
// when they hold an open websocket. The push result is ignored.
func (s *Service) Create(ctx context.Context, userID int64, t domain.NotificationType, title, message string, data map[string]any) error {
	n := &domain.Notification{
		UserID:  userID,
		Type:    t,
		Title:   title,
		Message: message,
		Data:    data,
	}
	if err := s.repo.Create(ctx, n); err != nil {
		return err
	}

	if s.hub != nil {
		_ = s.hub.SendToUser(userID, n)
	}
	return nil
}

func (s *Service) GetUserNotifications(ctx context.Context, userID int64, limit int) ([]domain.Notification, int64, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	list, err := s.repo.GetByUserID(ctx, userID, limit)
	if err != nil {
		return nil, 0, err
	}

	unread, err := s.repo.CountUnread(ctx, userID)
	if err != nil {
		unread = 0
	}

	return list, unread, nil
}

func (s *Service) MarkAsRead(ctx context.Context, notificationID, userID int64) error {
	return s.repo.MarkAsRead(ctx, notificationID, userID)
}

func (s *Service) MarkAllAsRead(ctx context.Context, userID int64) error {
	return s.repo.MarkAllAsRead(ctx, userID)
}

// NotifyMatchFound tells a deliverer that an announcement fits one of their
// routes. Implements the matching engine's NotificationSender.
func (s *Service) NotifyMatchFound(ctx context.Context, delivererID int64, a *domain.Announcement, score int) error {
	return s.Create(
		ctx,
		delivererID,
		domain.NotifMatchFound,
		"New delivery opportunity",
		fmt.Sprintf("%q matches one of your routes at %d%% compatibility", a.Title, score),
		map[string]any{
			"announcement_id": a.ID,
			"score":           score,
			"price":           a.Price,
		},
	)
}

func (s *Service) NotifyDeliveryAccepted(ctx context.Context, delivererID, deliveryID, announcementID int64) error {
	return s.Create(
		ctx,
		delivererID,
		domain.NotifDeliveryAccepted,
		"Delivery assigned to you",
		"A client accepted your route for their announcement",
		map[string]any{
			"delivery_id":     deliveryID,
			"announcement_id": announcementID,
		},
	)
}

func (s *Service) NotifyDeliveryStatus(ctx context.Context, userID, deliveryID int64, status domain.DeliveryStatus) error {
	var (
		t     domain.NotificationType
		title string
	)
	switch status {
	case domain.DeliveryPickedUp:
		t, title = domain.NotifDeliveryPickedUp, "Package picked up"
	case domain.DeliveryInTransit:
		t, title = domain.NotifDeliveryInTransit, "Package in transit"
	case domain.DeliveryDelivered:
		t, title = domain.NotifDeliveryComplete, "Delivery completed"
	case domain.DeliveryCancelled:
		t, title = domain.NotifDeliveryCancelled, "Delivery cancelled"
	default:
		return nil
	}

	return s.Create(
		ctx,
		userID,
		t,
		title,
		fmt.Sprintf("Delivery #%d is now %s", deliveryID, status),
		map[string]any{
			"delivery_id": deliveryID,
			"status":      string(status),
		},
	)
}
