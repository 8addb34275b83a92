package matching

import (
	"context"
	"errors"
	"log"

	"ecodeli/internal/config"
	"ecodeli/internal/domain"

	"gorm.io/gorm"
)

// Service scores route/announcement pairings, persists everything above the
// keep threshold and notifies deliverers about high-confidence matches.
// Passes are strictly sequential: one candidate is scored and upserted
// before the next is looked at, and concurrent passes racing on the same
// pair resolve through the upsert (last write wins).
type Service struct {
	routes        RouteRepository
	announcements AnnouncementRepository
	matches       MatchRepository
	notifs        NotificationSender
	cfg           config.MatchingConfig
}

func NewService(
	routes RouteRepository,
	announcements AnnouncementRepository,
	matches MatchRepository,
	notifs NotificationSender,
	cfg config.MatchingConfig,
) *Service {
	return &Service{
		routes:        routes,
		announcements: announcements,
		matches:       matches,
		notifs:        notifs,
		cfg:           cfg,
	}
}

// FindMatchingAnnouncements scores every active, transportable announcement
// scheduled inside the route's travel window against the route.
func (s *Service) FindMatchingAnnouncements(ctx context.Context, routeID int64) error {
	route, err := s.routes.GetByIDWithDeliverer(ctx, routeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrRouteNotFound
		}
		return err
	}

	candidates, err := s.announcements.ListActiveInWindow(
		ctx,
		route.DepartureDate,
		route.ArrivalDate,
		domain.MatchableAnnouncementTypes,
	)
	if err != nil {
		return err
	}

	for i := range candidates {
		if err := s.evaluatePair(ctx, route, &candidates[i]); err != nil {
			return err
		}
	}
	return nil
}

// FindMatchingRoutes is the symmetric pass: all active routes whose travel
// window covers the announcement's scheduled time. The notification
// recipient is always the deliverer owning the matched route.
func (s *Service) FindMatchingRoutes(ctx context.Context, announcementID int64) error {
	a, err := s.announcements.GetByID(ctx, announcementID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAnnouncementNotFound
		}
		return err
	}

	candidates, err := s.routes.ListActiveCovering(ctx, a.ScheduledAt)
	if err != nil {
		return err
	}

	for i := range candidates {
		if err := s.evaluatePair(ctx, &candidates[i], a); err != nil {
			return err
		}
	}
	return nil
}

// evaluatePair scores one pairing, persists it when it clears the keep
// threshold and fires the notification above the notify threshold.
// Persistence errors propagate; notification errors never do.
func (s *Service) evaluatePair(ctx context.Context, route *domain.Route, a *domain.Announcement) error {
	score := s.CalculateScore(route, a)
	if score < s.cfg.KeepThreshold {
		return nil
	}

	if err := s.matches.Upsert(ctx, route.ID, a.ID, score); err != nil {
		return err
	}

	if score > s.cfg.NotifyThreshold {
		s.notifyDeliverer(ctx, route, a, score)
	}
	return nil
}

// notifyDeliverer sends the opportunity notification and marks the match
// notified after a successful send. A failed send must not abort the batch,
// so errors are logged and dropped.
func (s *Service) notifyDeliverer(ctx context.Context, route *domain.Route, a *domain.Announcement, score int) {
	if s.notifs == nil {
		return
	}

	if err := s.notifs.NotifyMatchFound(ctx, route.DelivererID, a, score); err != nil {
		log.Printf("match_notify_failed route_id=%d announcement_id=%d score=%d error=%q",
			route.ID, a.ID, score, err.Error())
		return
	}

	if err := s.matches.MarkNotified(ctx, route.ID, a.ID); err != nil {
		log.Printf("match_mark_notified_failed route_id=%d announcement_id=%d error=%q",
			route.ID, a.ID, err.Error())
	}
}
