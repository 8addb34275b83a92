package matching

import (
	"math"
	"strings"

	"ecodeli/internal/domain"
)

// CalculateScore computes the weighted 0-100 compatibility score between a
// route and an announcement. Each sub-score is bounded to [0,100], so the
// weighted sum cannot leave that range.
func (s *Service) CalculateScore(route *domain.Route, a *domain.Announcement) int {
	total := s.locationScore(route, a)*s.cfg.LocationWeight +
		s.timeScore(route, a)*s.cfg.TimeWeight +
		s.capacityScore(route, a)*s.cfg.CapacityWeight +
		s.priceScore(route, a)*s.cfg.PriceWeight

	score := int(math.Round(total))
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

// locationScore checks, case-insensitively, whether the route's start city
// appears in the pickup address and the end city in the delivery address
// (containment in either direction counts). Both sides matching scores 100,
// a single side is capped at 80, no match is 0.
func (s *Service) locationScore(route *domain.Route, a *domain.Announcement) float64 {
	startMatch := citiesOverlap(route.StartCity, a.PickupAddress)
	endMatch := citiesOverlap(route.EndCity, a.DeliveryAddress)

	score := 0.0
	if startMatch {
		score += 50
	}
	if endMatch {
		score += 50
	}

	if startMatch && endMatch {
		return 100
	}
	if score > 0 {
		return 80
	}
	return 0
}

func citiesOverlap(city, address string) bool {
	if city == "" || address == "" {
		return false
	}
	c := strings.ToLower(strings.TrimSpace(city))
	addr := strings.ToLower(strings.TrimSpace(address))
	return strings.Contains(addr, c) || strings.Contains(c, addr)
}

// timeScore is zero outside the route's travel window. Inside it, earlier
// scheduled times score higher: they leave the deliverer more slack.
func (s *Service) timeScore(route *domain.Route, a *domain.Announcement) float64 {
	if a.ScheduledAt.Before(route.DepartureDate) || a.ScheduledAt.After(route.ArrivalDate) {
		return 0
	}

	window := route.ArrivalDate.Sub(route.DepartureDate)
	if window <= 0 {
		return 100
	}
	position := float64(a.ScheduledAt.Sub(route.DepartureDate)) / float64(window)

	switch {
	case position <= 0.3:
		return 100
	case position <= 0.7:
		return 90
	default:
		return 75
	}
}

// capacityScore compares the type-estimated parcel weight against the
// route's declared spare weight. Routes that declare nothing get a neutral
// 50; weight unknown but volume known falls back to a flat 70. Exceeding
// capacity is heavily penalized but not zeroed, since the estimate is only
// approximate.
func (s *Service) capacityScore(route *domain.Route, a *domain.Announcement) float64 {
	if route.AvailableWeight == nil && route.AvailableVolume == nil {
		return 50
	}
	if route.AvailableWeight == nil {
		return 70
	}

	estimated := s.estimatedWeight(a.Type)
	capacity := *route.AvailableWeight

	switch {
	case estimated <= capacity*0.8:
		return 100
	case estimated <= capacity:
		return 80
	default:
		return 20
	}
}

func (s *Service) estimatedWeight(t domain.AnnouncementType) float64 {
	if w, ok := s.cfg.WeightEstimates[string(t)]; ok {
		return w
	}
	return s.cfg.DefaultWeightEstimate
}

// priceScore relates what the client offers to what the route would charge
// for the estimated weight. Missing price data on either side is neutral.
func (s *Service) priceScore(route *domain.Route, a *domain.Announcement) float64 {
	if route.PricePerKg == nil || a.Price <= 0 {
		return 50
	}

	routePrice := *route.PricePerKg * s.estimatedWeight(a.Type)
	if routePrice <= 0 {
		return 50
	}
	ratio := a.Price / routePrice

	switch {
	case ratio >= 1.2:
		return 100
	case ratio >= 1.0:
		return 90
	case ratio >= 0.8:
		return 70
	default:
		return 30
	}
}
