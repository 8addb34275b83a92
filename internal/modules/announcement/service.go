package announcement

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"ecodeli/internal/cache"
	"ecodeli/internal/domain"
	"ecodeli/internal/events"

	"gorm.io/gorm"
)

const (
	cacheKeyDetail = "announcements:detail:%d"
	cacheKeyList   = "announcements:list:%s:%d:%d"
)

var validTypes = map[domain.AnnouncementType]bool{
	domain.AnnouncementPackageDelivery:       true,
	domain.AnnouncementShopping:              true,
	domain.AnnouncementInternationalPurchase: true,
	domain.AnnouncementPetSitting:            true,
	domain.AnnouncementHomeService:           true,
}

type Service struct {
	announcements AnnouncementRepository
	matcher       Matcher
	events        EventPublisher
	cache         *cache.Cache
}

func NewService(announcements AnnouncementRepository, matcher Matcher, publisher EventPublisher, c *cache.Cache) *Service {
	return &Service{
		announcements: announcements,
		matcher:       matcher,
		events:        publisher,
		cache:         c,
	}
}

func (s *Service) CreateAnnouncement(ctx context.Context, authorID int64, req CreateAnnouncementRequest) (*domain.Announcement, error) {
	annType := domain.AnnouncementType(req.Type)
	if !validTypes[annType] {
		return nil, ErrValidation
	}
	if req.ScheduledAt.Before(time.Now()) {
		return nil, ErrValidation
	}
	if req.Price < 0 {
		return nil, ErrValidation
	}

	a := &domain.Announcement{
		AuthorID:        authorID,
		Type:            annType,
		Status:          domain.AnnouncementActive,
		Title:           req.Title,
		Description:     req.Description,
		PickupAddress:   req.PickupAddress,
		DeliveryAddress: req.DeliveryAddress,
		ScheduledAt:     req.ScheduledAt,
		Price:           req.Price,
	}

	if err := s.announcements.Create(ctx, a); err != nil {
		return nil, err
	}

	s.invalidateLists(ctx)

	// service-style announcements are fulfilled by providers, not routes
	if a.Matchable() {
		s.triggerMatching(ctx, a.ID)
	}

	return a, nil
}

func (s *Service) triggerMatching(ctx context.Context, announcementID int64) {
	if s.events != nil {
		err := s.events.PublishJSON(ctx, events.AnnouncementCreatedKey, events.AnnouncementCreated{AnnouncementID: announcementID})
		if err == nil {
			return
		}
		log.Printf("announcement_event_publish_failed announcement_id=%d error=%q", announcementID, err.Error())
	}

	if s.matcher != nil {
		if err := s.matcher.FindMatchingRoutes(ctx, announcementID); err != nil {
			log.Printf("announcement_matching_failed announcement_id=%d error=%q", announcementID, err.Error())
		}
	}
}

func (s *Service) GetAnnouncement(ctx context.Context, id int64) (*domain.Announcement, error) {
	key := fmt.Sprintf(cacheKeyDetail, id)

	var cached domain.Announcement
	if hit, err := s.cache.Get(ctx, key, &cached); err == nil && hit {
		return &cached, nil
	}

	a, err := s.announcements.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if err := s.cache.Set(ctx, key, a); err != nil {
		log.Printf("announcement_cache_set_failed id=%d error=%q", id, err.Error())
	}
	return a, nil
}

func (s *Service) ListActive(ctx context.Context, f ListFilter) ([]domain.Announcement, error) {
	if f.Limit <= 0 || f.Limit > 100 {
		f.Limit = 20
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
	key := fmt.Sprintf(cacheKeyList, f.Type, f.Limit, f.Offset)

	var cached []domain.Announcement
	if hit, err := s.cache.Get(ctx, key, &cached); err == nil && hit {
		return cached, nil
	}

	list, err := s.announcements.ListActive(ctx, f.Type, f.Limit, f.Offset)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(ctx, key, list); err != nil {
		log.Printf("announcement_cache_set_failed key=%s error=%q", key, err.Error())
	}
	return list, nil
}

func (s *Service) GetMyAnnouncements(ctx context.Context, authorID int64) ([]domain.Announcement, error) {
	return s.announcements.ListByAuthor(ctx, authorID)
}

func (s *Service) CancelAnnouncement(ctx context.Context, id, authorID int64) error {
	a, err := s.announcements.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	if a.AuthorID != authorID {
		return ErrForbidden
	}
	if a.Status != domain.AnnouncementActive {
		return ErrNotCancelable
	}

	if err := s.announcements.UpdateStatus(ctx, id, domain.AnnouncementCancelled); err != nil {
		return err
	}

	s.Invalidate(ctx, id)
	return nil
}

// Invalidate drops the detail entry and every cached list page.
func (s *Service) Invalidate(ctx context.Context, id int64) {
	if err := s.cache.Delete(ctx, fmt.Sprintf(cacheKeyDetail, id)); err != nil {
		log.Printf("announcement_cache_delete_failed id=%d error=%q", id, err.Error())
	}
	s.invalidateLists(ctx)
}

func (s *Service) invalidateLists(ctx context.Context) {
	if err := s.cache.DeletePattern(ctx, "announcements:list:*"); err != nil {
		log.Printf("announcement_cache_invalidate_failed error=%q", err.Error())
	}
}
