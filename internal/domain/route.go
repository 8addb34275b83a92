package domain

import "time"

// Route is a deliverer's planned trip between two cities with spare capacity.
type Route struct {
	ID              int64      `json:"id"`
	DelivererID     int64      `json:"deliverer_id" validate:"required"`
	StartCity       string     `json:"start_city" validate:"required"`
	StartLat        float64    `json:"start_lat"`
	StartLng        float64    `json:"start_lng"`
	EndCity         string     `json:"end_city" validate:"required"`
	EndLat          float64    `json:"end_lat"`
	EndLng          float64    `json:"end_lng"`
	DepartureDate   time.Time  `json:"departure_date" validate:"required"`
	ArrivalDate     time.Time  `json:"arrival_date" validate:"required"`
	AvailableWeight *float64   `json:"available_weight,omitempty"`
	AvailableVolume *float64   `json:"available_volume,omitempty"`
	PricePerKg      *float64   `json:"price_per_kg,omitempty"`
	IsActive        bool       `json:"is_active"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
	DeactivatedAt   *time.Time `json:"deactivated_at,omitempty"`

	Deliverer *User `json:"deliverer,omitempty" gorm:"foreignKey:DelivererID"`
}
