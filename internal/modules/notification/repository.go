package notification

import (
	"context"
	"encoding/json"
	"time"

	"ecodeli/internal/domain"

	"gorm.io/gorm"
)

type notificationModel struct {
	ID        int64     `gorm:"column:id;primaryKey"`
	UserID    int64     `gorm:"column:user_id"`
	Type      string    `gorm:"column:type"`
	Title     string    `gorm:"column:title"`
	Message   *string   `gorm:"column:message"`
	IsRead    bool      `gorm:"column:is_read"`
	Data      []byte    `gorm:"column:data"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

func (notificationModel) TableName() string { return "notifications" }

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// AutoMigrate creates the notifications table. Intended for local
// development and seeding.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&notificationModel{})
}

func toDomainNotification(m notificationModel) domain.Notification {
	var msg string
	if m.Message != nil {
		msg = *m.Message
	}

	var data map[string]any
	if len(m.Data) > 0 {
		_ = json.Unmarshal(m.Data, &data)
	}

	return domain.Notification{
		ID:        m.ID,
		UserID:    m.UserID,
		Type:      domain.NotificationType(m.Type),
		Title:     m.Title,
		Message:   msg,
		Data:      data,
		IsRead:    m.IsRead,
		CreatedAt: m.CreatedAt,
	}
}

func (r *Repository) Create(ctx context.Context, n *domain.Notification) error {
	var raw []byte
	if n.Data != nil {
		b, err := json.Marshal(n.Data)
		if err != nil {
			return err
		}
		raw = b
	}

	var msg *string
	if n.Message != "" {
		m := n.Message
		msg = &m
	}

	m := notificationModel{
		UserID:    n.UserID,
		Type:      string(n.Type),
		Title:     n.Title,
		Message:   msg,
		IsRead:    false,
		Data:      raw,
		CreatedAt: time.Now(),
	}

	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return err
	}
	n.ID = m.ID
	n.CreatedAt = m.CreatedAt
	return nil
}

func (r *Repository) GetByUserID(ctx context.Context, userID int64, limit int) ([]domain.Notification, error) {
	var models []notificationModel
	tx := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&models)
	if tx.Error != nil {
		return nil, tx.Error
	}

	out := make([]domain.Notification, 0, len(models))
	for _, m := range models {
		out = append(out, toDomainNotification(m))
	}
	return out, nil
}

func (r *Repository) CountUnread(ctx context.Context, userID int64) (int64, error) {
	var cnt int64
	tx := r.db.WithContext(ctx).
		Model(&notificationModel{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&cnt)
	return cnt, tx.Error
}

func (r *Repository) MarkAsRead(ctx context.Context, notificationID, userID int64) error {
	tx := r.db.WithContext(ctx).
		Model(&notificationModel{}).
		Where("id = ? AND user_id = ?", notificationID, userID).
		Update("is_read", true)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *Repository) MarkAllAsRead(ctx context.Context, userID int64) error {
	return r.db.WithContext(ctx).
		Model(&notificationModel{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Update("is_read", true).Error
}
