package route

import "time"

type CreateRouteRequest struct {
	StartCity       string    `json:"start_city" binding:"required"`
	StartLat        float64   `json:"start_lat"`
	StartLng        float64   `json:"start_lng"`
	EndCity         string    `json:"end_city" binding:"required"`
	EndLat          float64   `json:"end_lat"`
	EndLng          float64   `json:"end_lng"`
	DepartureDate   time.Time `json:"departure_date" binding:"required"`
	ArrivalDate     time.Time `json:"arrival_date" binding:"required"`
	AvailableWeight *float64  `json:"available_weight"`
	AvailableVolume *float64  `json:"available_volume"`
	PricePerKg      *float64  `json:"price_per_kg"`
}
