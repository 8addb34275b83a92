package domain

import "time"

type DeliveryStatus string

const (
	DeliveryPending   DeliveryStatus = "pending"
	DeliveryPickedUp  DeliveryStatus = "picked_up"
	DeliveryInTransit DeliveryStatus = "in_transit"
	DeliveryDelivered DeliveryStatus = "delivered"
	DeliveryCancelled DeliveryStatus = "cancelled"
)

type Delivery struct {
	ID             int64          `json:"id"`
	TrackingNumber string         `json:"tracking_number"`
	AnnouncementID int64          `json:"announcement_id"`
	RouteID        int64          `json:"route_id"`
	DelivererID    int64          `json:"deliverer_id"`
	ClientID       int64          `json:"client_id"`
	Status         DeliveryStatus `json:"status"`
	// ValidationCodeHash stores a sha256 of the 6-digit handover code.
	// The plain code is shown to the client once at creation time.
	ValidationCodeHash string     `json:"-"`
	ValidatedAt        *time.Time `json:"validated_at,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`

	Announcement *Announcement `json:"announcement,omitempty" gorm:"foreignKey:AnnouncementID"`
}
