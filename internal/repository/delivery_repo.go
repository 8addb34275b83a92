package repository

import (
	"context"
	"time"

	"ecodeli/internal/domain"

	"gorm.io/gorm"
)

type DeliveryRepository struct {
	db *gorm.DB
}

func NewDeliveryRepository(db *gorm.DB) *DeliveryRepository {
	return &DeliveryRepository{db: db}
}

type deliveryModel struct {
	ID                 int64      `gorm:"column:id;primaryKey"`
	TrackingNumber     string     `gorm:"column:tracking_number"`
	AnnouncementID     int64      `gorm:"column:announcement_id"`
	RouteID            int64      `gorm:"column:route_id"`
	DelivererID        int64      `gorm:"column:deliverer_id"`
	ClientID           int64      `gorm:"column:client_id"`
	Status             string     `gorm:"column:status"`
	ValidationCodeHash string     `gorm:"column:validation_code_hash"`
	ValidatedAt        *time.Time `gorm:"column:validated_at"`
	CreatedAt          time.Time  `gorm:"column:created_at"`
	UpdatedAt          time.Time  `gorm:"column:updated_at"`
}

func (deliveryModel) TableName() string { return "deliveries" }

func toDomainDelivery(m deliveryModel) *domain.Delivery {
	return &domain.Delivery{
		ID:                 m.ID,
		TrackingNumber:     m.TrackingNumber,
		AnnouncementID:     m.AnnouncementID,
		RouteID:            m.RouteID,
		DelivererID:        m.DelivererID,
		ClientID:           m.ClientID,
		Status:             domain.DeliveryStatus(m.Status),
		ValidationCodeHash: m.ValidationCodeHash,
		ValidatedAt:        m.ValidatedAt,
		CreatedAt:          m.CreatedAt,
		UpdatedAt:          m.UpdatedAt,
	}
}

func toDeliveryModel(d *domain.Delivery) deliveryModel {
	return deliveryModel{
		ID:                 d.ID,
		TrackingNumber:     d.TrackingNumber,
		AnnouncementID:     d.AnnouncementID,
		RouteID:            d.RouteID,
		DelivererID:        d.DelivererID,
		ClientID:           d.ClientID,
		Status:             string(d.Status),
		ValidationCodeHash: d.ValidationCodeHash,
		ValidatedAt:        d.ValidatedAt,
		CreatedAt:          d.CreatedAt,
		UpdatedAt:          d.UpdatedAt,
	}
}

func (r *DeliveryRepository) Create(ctx context.Context, d *domain.Delivery) error {
	m := toDeliveryModel(d)
	tx := r.db.WithContext(ctx).Create(&m)
	if tx.Error != nil {
		return tx.Error
	}
	*d = *toDomainDelivery(m)
	return nil
}

// CreateTx inserts within a caller-provided transaction. The accept-match
// flow groups the announcement status flip and the delivery insert.
func (r *DeliveryRepository) CreateTx(ctx context.Context, tx *gorm.DB, d *domain.Delivery) error {
	m := toDeliveryModel(d)
	if err := tx.WithContext(ctx).Create(&m).Error; err != nil {
		return err
	}
	*d = *toDomainDelivery(m)
	return nil
}

func (r *DeliveryRepository) GetByID(ctx context.Context, id int64) (*domain.Delivery, error) {
	var m deliveryModel
	tx := r.db.WithContext(ctx).First(&m, id)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return toDomainDelivery(m), nil
}

func (r *DeliveryRepository) GetByTrackingNumber(ctx context.Context, tracking string) (*domain.Delivery, error) {
	var m deliveryModel
	tx := r.db.WithContext(ctx).Where("tracking_number = ?", tracking).First(&m)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return toDomainDelivery(m), nil
}

func (r *DeliveryRepository) ListByUser(ctx context.Context, userID int64) ([]domain.Delivery, error) {
	var models []deliveryModel
	tx := r.db.WithContext(ctx).
		Where("deliverer_id = ? OR client_id = ?", userID, userID).
		Order("created_at DESC").
		Find(&models)
	if tx.Error != nil {
		return nil, tx.Error
	}

	out := make([]domain.Delivery, 0, len(models))
	for _, m := range models {
		out = append(out, *toDomainDelivery(m))
	}
	return out, nil
}

func (r *DeliveryRepository) UpdateStatus(ctx context.Context, id int64, status domain.DeliveryStatus) error {
	return r.db.WithContext(ctx).
		Model(&deliveryModel{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":     string(status),
			"updated_at": time.Now(),
		}).Error
}

func (r *DeliveryRepository) MarkValidated(ctx context.Context, id int64) error {
	now := time.Now()
	return r.db.WithContext(ctx).
		Model(&deliveryModel{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":       string(domain.DeliveryDelivered),
			"validated_at": now,
			"updated_at":   now,
		}).Error
}
