package repository

import (
	"context"
	"time"

	"ecodeli/internal/domain"

	"gorm.io/gorm"
)

type RouteRepository struct {
	db *gorm.DB
}

func NewRouteRepository(db *gorm.DB) *RouteRepository {
	return &RouteRepository{db: db}
}

type routeModel struct {
	ID              int64      `gorm:"column:id;primaryKey"`
	DelivererID     int64      `gorm:"column:deliverer_id"`
	StartCity       string     `gorm:"column:start_city"`
	StartLat        float64    `gorm:"column:start_lat"`
	StartLng        float64    `gorm:"column:start_lng"`
	EndCity         string     `gorm:"column:end_city"`
	EndLat          float64    `gorm:"column:end_lat"`
	EndLng          float64    `gorm:"column:end_lng"`
	DepartureDate   time.Time  `gorm:"column:departure_date"`
	ArrivalDate     time.Time  `gorm:"column:arrival_date"`
	AvailableWeight *float64   `gorm:"column:available_weight"`
	AvailableVolume *float64   `gorm:"column:available_volume"`
	PricePerKg      *float64   `gorm:"column:price_per_kg"`
	IsActive        bool       `gorm:"column:is_active"`
	CreatedAt       time.Time  `gorm:"column:created_at"`
	UpdatedAt       time.Time  `gorm:"column:updated_at"`
	DeactivatedAt   *time.Time `gorm:"column:deactivated_at"`
}

func (routeModel) TableName() string { return "routes" }

func toDomainRoute(m routeModel) *domain.Route {
	return &domain.Route{
		ID:              m.ID,
		DelivererID:     m.DelivererID,
		StartCity:       m.StartCity,
		StartLat:        m.StartLat,
		StartLng:        m.StartLng,
		EndCity:         m.EndCity,
		EndLat:          m.EndLat,
		EndLng:          m.EndLng,
		DepartureDate:   m.DepartureDate,
		ArrivalDate:     m.ArrivalDate,
		AvailableWeight: m.AvailableWeight,
		AvailableVolume: m.AvailableVolume,
		PricePerKg:      m.PricePerKg,
		IsActive:        m.IsActive,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
		DeactivatedAt:   m.DeactivatedAt,
	}
}

func toRouteModel(rt *domain.Route) routeModel {
	return routeModel{
		ID:              rt.ID,
		DelivererID:     rt.DelivererID,
		StartCity:       rt.StartCity,
		StartLat:        rt.StartLat,
		StartLng:        rt.StartLng,
		EndCity:         rt.EndCity,
		EndLat:          rt.EndLat,
		EndLng:          rt.EndLng,
		DepartureDate:   rt.DepartureDate,
		ArrivalDate:     rt.ArrivalDate,
		AvailableWeight: rt.AvailableWeight,
		AvailableVolume: rt.AvailableVolume,
		PricePerKg:      rt.PricePerKg,
		IsActive:        rt.IsActive,
		CreatedAt:       rt.CreatedAt,
		UpdatedAt:       rt.UpdatedAt,
		DeactivatedAt:   rt.DeactivatedAt,
	}
}

func (r *RouteRepository) Create(ctx context.Context, rt *domain.Route) error {
	m := toRouteModel(rt)
	tx := r.db.WithContext(ctx).Create(&m)
	if tx.Error != nil {
		return tx.Error
	}
	*rt = *toDomainRoute(m)
	return nil
}

func (r *RouteRepository) GetByID(ctx context.Context, id int64) (*domain.Route, error) {
	var m routeModel
	tx := r.db.WithContext(ctx).First(&m, id)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return toDomainRoute(m), nil
}

// GetByIDWithDeliverer loads the route together with its owning deliverer.
// The matching engine needs the owner to address notifications.
func (r *RouteRepository) GetByIDWithDeliverer(ctx context.Context, id int64) (*domain.Route, error) {
	var m routeModel
	tx := r.db.WithContext(ctx).First(&m, id)
	if tx.Error != nil {
		return nil, tx.Error
	}
	rt := toDomainRoute(m)

	var u userModel
	tx = r.db.WithContext(ctx).First(&u, m.DelivererID)
	if tx.Error != nil {
		return nil, tx.Error
	}
	rt.Deliverer = toDomainUser(u)
	return rt, nil
}

func (r *RouteRepository) ListByDeliverer(ctx context.Context, delivererID int64) ([]domain.Route, error) {
	var models []routeModel
	tx := r.db.WithContext(ctx).
		Where("deliverer_id = ?", delivererID).
		Order("departure_date DESC").
		Find(&models)
	if tx.Error != nil {
		return nil, tx.Error
	}

	out := make([]domain.Route, 0, len(models))
	for _, m := range models {
		out = append(out, *toDomainRoute(m))
	}
	return out, nil
}

// ListActiveCovering returns active routes whose travel window contains the
// given moment: departure_date <= at <= arrival_date.
func (r *RouteRepository) ListActiveCovering(ctx context.Context, at time.Time) ([]domain.Route, error) {
	var models []routeModel
	tx := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Where("departure_date <= ? AND arrival_date >= ?", at, at).
		Find(&models)
	if tx.Error != nil {
		return nil, tx.Error
	}

	out := make([]domain.Route, 0, len(models))
	for _, m := range models {
		out = append(out, *toDomainRoute(m))
	}
	return out, nil
}

func (r *RouteRepository) Deactivate(ctx context.Context, id int64) error {
	now := time.Now()
	return r.db.WithContext(ctx).
		Model(&routeModel{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"is_active":      false,
			"deactivated_at": now,
			"updated_at":     now,
		}).Error
}
