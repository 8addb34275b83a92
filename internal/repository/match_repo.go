package repository

import (
	"context"
	"time"

	"ecodeli/internal/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type MatchRepository struct {
	db *gorm.DB
}

func NewMatchRepository(db *gorm.DB) *MatchRepository {
	return &MatchRepository{db: db}
}

type matchModel struct {
	RouteID        int64      `gorm:"column:route_id;primaryKey"`
	AnnouncementID int64      `gorm:"column:announcement_id;primaryKey"`
	Score          int        `gorm:"column:score"`
	Notified       bool       `gorm:"column:notified"`
	NotifiedAt     *time.Time `gorm:"column:notified_at"`
	CreatedAt      time.Time  `gorm:"column:created_at"`
	UpdatedAt      time.Time  `gorm:"column:updated_at"`
}

func (matchModel) TableName() string { return "route_announcement_matches" }

func toDomainMatch(m matchModel) *domain.RouteAnnouncementMatch {
	return &domain.RouteAnnouncementMatch{
		RouteID:        m.RouteID,
		AnnouncementID: m.AnnouncementID,
		Score:          m.Score,
		Notified:       m.Notified,
		NotifiedAt:     m.NotifiedAt,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
}

// Upsert writes the score for a (route, announcement) pair. Repeated passes
// overwrite the score in place; the notified flag is left untouched so a
// re-score never re-arms a notification.
func (r *MatchRepository) Upsert(ctx context.Context, routeID, announcementID int64, score int) error {
	now := time.Now()
	m := matchModel{
		RouteID:        routeID,
		AnnouncementID: announcementID,
		Score:          score,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "route_id"}, {Name: "announcement_id"}},
		DoUpdates: clause.Assignments(map[string]any{
			"score":      score,
			"updated_at": now,
		}),
	}).Create(&m).Error
}

// MarkNotified flips the notified flag for one pair after a successful send.
func (r *MatchRepository) MarkNotified(ctx context.Context, routeID, announcementID int64) error {
	now := time.Now()
	return r.db.WithContext(ctx).
		Model(&matchModel{}).
		Where("route_id = ? AND announcement_id = ?", routeID, announcementID).
		Updates(map[string]any{
			"notified":    true,
			"notified_at": now,
			"updated_at":  now,
		}).Error
}

func (r *MatchRepository) GetByPair(ctx context.Context, routeID, announcementID int64) (*domain.RouteAnnouncementMatch, error) {
	var m matchModel
	tx := r.db.WithContext(ctx).
		Where("route_id = ? AND announcement_id = ?", routeID, announcementID).
		First(&m)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return toDomainMatch(m), nil
}

func (r *MatchRepository) ListByRoute(ctx context.Context, routeID int64) ([]domain.RouteAnnouncementMatch, error) {
	var models []matchModel
	tx := r.db.WithContext(ctx).
		Where("route_id = ?", routeID).
		Order("score DESC").
		Find(&models)
	if tx.Error != nil {
		return nil, tx.Error
	}

	out := make([]domain.RouteAnnouncementMatch, 0, len(models))
	for _, m := range models {
		out = append(out, *toDomainMatch(m))
	}
	return out, nil
}

func (r *MatchRepository) ListByAnnouncement(ctx context.Context, announcementID int64) ([]domain.RouteAnnouncementMatch, error) {
	var models []matchModel
	tx := r.db.WithContext(ctx).
		Where("announcement_id = ?", announcementID).
		Order("score DESC").
		Find(&models)
	if tx.Error != nil {
		return nil, tx.Error
	}

	out := make([]domain.RouteAnnouncementMatch, 0, len(models))
	for _, m := range models {
		out = append(out, *toDomainMatch(m))
	}
	return out, nil
}
