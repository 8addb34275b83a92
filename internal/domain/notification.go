package domain

import "time"

type NotificationType string

const (
	NotifMatchFound        NotificationType = "match_found"
	NotifDeliveryAccepted  NotificationType = "delivery_accepted"
	NotifDeliveryPickedUp  NotificationType = "delivery_picked_up"
	NotifDeliveryInTransit NotificationType = "delivery_in_transit"
	NotifDeliveryComplete  NotificationType = "delivery_complete"
	NotifDeliveryCancelled NotificationType = "delivery_cancelled"
)

type Notification struct {
	ID        int64            `json:"id"`
	UserID    int64            `json:"user_id"`
	Type      NotificationType `json:"type"`
	Title     string           `json:"title"`
	Message   string           `json:"message,omitempty"`
	Data      map[string]any   `json:"data,omitempty" gorm:"-"`
	IsRead    bool             `json:"is_read"`
	CreatedAt time.Time        `json:"created_at"`
}
