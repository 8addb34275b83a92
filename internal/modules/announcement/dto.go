package announcement

import "time"

type CreateAnnouncementRequest struct {
	Type            string    `json:"type" binding:"required"`
	Title           string    `json:"title" binding:"required"`
	Description     string    `json:"description"`
	PickupAddress   string    `json:"pickup_address" binding:"required"`
	DeliveryAddress string    `json:"delivery_address" binding:"required"`
	ScheduledAt     time.Time `json:"scheduled_at" binding:"required"`
	Price           float64   `json:"price" binding:"gte=0"`
}

type ListFilter struct {
	Type   string
	Limit  int
	Offset int
}
