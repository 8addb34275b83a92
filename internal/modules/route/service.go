package route

import (
	"context"
	"errors"
	"log"
	"time"

	"ecodeli/internal/domain"
	"ecodeli/internal/events"

	"gorm.io/gorm"
)

type Service struct {
	routes  RouteRepository
	matches MatchReader
	matcher Matcher
	events  EventPublisher
}

func NewService(routes RouteRepository, matches MatchReader, matcher Matcher, publisher EventPublisher) *Service {
	return &Service{
		routes:  routes,
		matches: matches,
		matcher: matcher,
		events:  publisher,
	}
}

func (s *Service) CreateRoute(ctx context.Context, delivererID int64, req CreateRouteRequest) (*domain.Route, error) {
	if !req.ArrivalDate.After(req.DepartureDate) {
		return nil, ErrValidation
	}
	if req.DepartureDate.Before(time.Now()) {
		return nil, ErrValidation
	}
	if req.AvailableWeight != nil && *req.AvailableWeight <= 0 {
		return nil, ErrValidation
	}
	if req.PricePerKg != nil && *req.PricePerKg <= 0 {
		return nil, ErrValidation
	}

	rt := &domain.Route{
		DelivererID:     delivererID,
		StartCity:       req.StartCity,
		StartLat:        req.StartLat,
		StartLng:        req.StartLng,
		EndCity:         req.EndCity,
		EndLat:          req.EndLat,
		EndLng:          req.EndLng,
		DepartureDate:   req.DepartureDate,
		ArrivalDate:     req.ArrivalDate,
		AvailableWeight: req.AvailableWeight,
		AvailableVolume: req.AvailableVolume,
		PricePerKg:      req.PricePerKg,
		IsActive:        true,
	}

	if err := s.routes.Create(ctx, rt); err != nil {
		return nil, err
	}

	s.triggerMatching(ctx, rt.ID)

	return rt, nil
}

// triggerMatching hands the new route to the matcher worker via the broker,
// or runs the pass inline when no broker is wired. Either way a failure
// must not fail route creation.
func (s *Service) triggerMatching(ctx context.Context, routeID int64) {
	if s.events != nil {
		err := s.events.PublishJSON(ctx, events.RouteCreatedKey, events.RouteCreated{RouteID: routeID})
		if err == nil {
			return
		}
		log.Printf("route_event_publish_failed route_id=%d error=%q", routeID, err.Error())
	}

	if s.matcher != nil {
		if err := s.matcher.FindMatchingAnnouncements(ctx, routeID); err != nil {
			log.Printf("route_matching_failed route_id=%d error=%q", routeID, err.Error())
		}
	}
}

func (s *Service) GetMyRoutes(ctx context.Context, delivererID int64) ([]domain.Route, error) {
	return s.routes.ListByDeliverer(ctx, delivererID)
}

func (s *Service) GetRoute(ctx context.Context, routeID, delivererID int64) (*domain.Route, error) {
	rt, err := s.routes.GetByID(ctx, routeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if rt.DelivererID != delivererID {
		return nil, ErrForbidden
	}
	return rt, nil
}

// GetRouteMatches returns the persisted pairings for one of the caller's
// routes, best score first.
func (s *Service) GetRouteMatches(ctx context.Context, routeID, delivererID int64) ([]domain.RouteAnnouncementMatch, error) {
	if _, err := s.GetRoute(ctx, routeID, delivererID); err != nil {
		return nil, err
	}
	return s.matches.ListByRoute(ctx, routeID)
}

func (s *Service) DeactivateRoute(ctx context.Context, routeID, delivererID int64) error {
	if _, err := s.GetRoute(ctx, routeID, delivererID); err != nil {
		return err
	}
	return s.routes.Deactivate(ctx, routeID)
}
