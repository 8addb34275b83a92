package repository

import (
	"context"
	"time"

	"ecodeli/internal/domain"

	"gorm.io/gorm"
)

type AnnouncementRepository struct {
	db *gorm.DB
}

func NewAnnouncementRepository(db *gorm.DB) *AnnouncementRepository {
	return &AnnouncementRepository{db: db}
}

type announcementModel struct {
	ID              int64     `gorm:"column:id;primaryKey"`
	AuthorID        int64     `gorm:"column:author_id"`
	Type            string    `gorm:"column:type"`
	Status          string    `gorm:"column:status"`
	Title           string    `gorm:"column:title"`
	Description     *string   `gorm:"column:description"`
	PickupAddress   string    `gorm:"column:pickup_address"`
	DeliveryAddress string    `gorm:"column:delivery_address"`
	ScheduledAt     time.Time `gorm:"column:scheduled_at"`
	Price           float64   `gorm:"column:price"`
	CreatedAt       time.Time `gorm:"column:created_at"`
	UpdatedAt       time.Time `gorm:"column:updated_at"`
}

func (announcementModel) TableName() string { return "announcements" }

func toDomainAnnouncement(m announcementModel) *domain.Announcement {
	var desc string
	if m.Description != nil {
		desc = *m.Description
	}

	return &domain.Announcement{
		ID:              m.ID,
		AuthorID:        m.AuthorID,
		Type:            domain.AnnouncementType(m.Type),
		Status:          domain.AnnouncementStatus(m.Status),
		Title:           m.Title,
		Description:     desc,
		PickupAddress:   m.PickupAddress,
		DeliveryAddress: m.DeliveryAddress,
		ScheduledAt:     m.ScheduledAt,
		Price:           m.Price,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
}

func toAnnouncementModel(a *domain.Announcement) announcementModel {
	var desc *string
	if a.Description != "" {
		v := a.Description
		desc = &v
	}

	return announcementModel{
		ID:              a.ID,
		AuthorID:        a.AuthorID,
		Type:            string(a.Type),
		Status:          string(a.Status),
		Title:           a.Title,
		Description:     desc,
		PickupAddress:   a.PickupAddress,
		DeliveryAddress: a.DeliveryAddress,
		ScheduledAt:     a.ScheduledAt,
		Price:           a.Price,
		CreatedAt:       a.CreatedAt,
		UpdatedAt:       a.UpdatedAt,
	}
}

func (r *AnnouncementRepository) Create(ctx context.Context, a *domain.Announcement) error {
	m := toAnnouncementModel(a)
	tx := r.db.WithContext(ctx).Create(&m)
	if tx.Error != nil {
		return tx.Error
	}
	*a = *toDomainAnnouncement(m)
	return nil
}

func (r *AnnouncementRepository) GetByID(ctx context.Context, id int64) (*domain.Announcement, error) {
	var m announcementModel
	tx := r.db.WithContext(ctx).First(&m, id)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return toDomainAnnouncement(m), nil
}

// ListActiveInWindow returns matchable announcements scheduled inside
// [from, to] inclusive, restricted to the transportable types.
func (r *AnnouncementRepository) ListActiveInWindow(ctx context.Context, from, to time.Time, types []domain.AnnouncementType) ([]domain.Announcement, error) {
	typeStrings := make([]string, 0, len(types))
	for _, t := range types {
		typeStrings = append(typeStrings, string(t))
	}

	var models []announcementModel
	tx := r.db.WithContext(ctx).
		Where("status = ?", string(domain.AnnouncementActive)).
		Where("type IN ?", typeStrings).
		Where("scheduled_at >= ? AND scheduled_at <= ?", from, to).
		Find(&models)
	if tx.Error != nil {
		return nil, tx.Error
	}

	out := make([]domain.Announcement, 0, len(models))
	for _, m := range models {
		out = append(out, *toDomainAnnouncement(m))
	}
	return out, nil
}

func (r *AnnouncementRepository) ListActive(ctx context.Context, annType string, limit, offset int) ([]domain.Announcement, error) {
	q := r.db.WithContext(ctx).
		Where("status = ?", string(domain.AnnouncementActive)).
		Order("scheduled_at ASC").
		Limit(limit).
		Offset(offset)
	if annType != "" {
		q = q.Where("type = ?", annType)
	}

	var models []announcementModel
	if tx := q.Find(&models); tx.Error != nil {
		return nil, tx.Error
	}

	out := make([]domain.Announcement, 0, len(models))
	for _, m := range models {
		out = append(out, *toDomainAnnouncement(m))
	}
	return out, nil
}

func (r *AnnouncementRepository) ListByAuthor(ctx context.Context, authorID int64) ([]domain.Announcement, error) {
	var models []announcementModel
	tx := r.db.WithContext(ctx).
		Where("author_id = ?", authorID).
		Order("created_at DESC").
		Find(&models)
	if tx.Error != nil {
		return nil, tx.Error
	}

	out := make([]domain.Announcement, 0, len(models))
	for _, m := range models {
		out = append(out, *toDomainAnnouncement(m))
	}
	return out, nil
}

func (r *AnnouncementRepository) UpdateStatus(ctx context.Context, id int64, status domain.AnnouncementStatus) error {
	return r.db.WithContext(ctx).
		Model(&announcementModel{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":     string(status),
			"updated_at": time.Now(),
		}).Error
}

// AssignTx flips an active announcement to assigned within a caller-provided
// transaction. Returns false when the announcement was not active anymore,
// which protects against two deliverers being accepted concurrently.
func (r *AnnouncementRepository) AssignTx(ctx context.Context, tx *gorm.DB, id int64) (bool, error) {
	res := tx.WithContext(ctx).
		Model(&announcementModel{}).
		Where("id = ? AND status = ?", id, string(domain.AnnouncementActive)).
		Updates(map[string]any{
			"status":     string(domain.AnnouncementAssigned),
			"updated_at": time.Now(),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// DB exposes the underlying handle for cross-repository transactions.
func (r *AnnouncementRepository) DB() *gorm.DB {
	return r.db
}
