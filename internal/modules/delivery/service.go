package delivery

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"math/big"

	"ecodeli/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Service struct {
	tx            TxRunner
	deliveries    DeliveryRepository
	announcements AnnouncementRepository
	routes        RouteRepository
	matches       MatchRepository
	notifs        Notifier
	cache         AnnouncementCache
}

func NewService(
	tx TxRunner,
	deliveries DeliveryRepository,
	announcements AnnouncementRepository,
	routes RouteRepository,
	matches MatchRepository,
	notifs Notifier,
	cache AnnouncementCache,
) *Service {
	return &Service{
		tx:            tx,
		deliveries:    deliveries,
		announcements: announcements,
		routes:        routes,
		matches:       matches,
		notifs:        notifs,
		cache:         cache,
	}
}

// AcceptMatch lets the announcement's author hire the deliverer behind a
// scored match. The announcement status flip and the delivery insert run in
// one transaction so a second concurrent accept loses cleanly.
func (s *Service) AcceptMatch(ctx context.Context, clientID int64, req AcceptMatchRequest) (*domain.Delivery, string, error) {
	a, err := s.announcements.GetByID(ctx, req.AnnouncementID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrNotFound
		}
		return nil, "", err
	}
	if a.AuthorID != clientID {
		return nil, "", ErrNotAnnouncementAuthor
	}
	if a.Status != domain.AnnouncementActive {
		return nil, "", ErrAnnouncementGone
	}

	if _, err := s.matches.GetByPair(ctx, req.RouteID, req.AnnouncementID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrMatchNotFound
		}
		return nil, "", err
	}

	rt, err := s.routes.GetByID(ctx, req.RouteID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrMatchNotFound
		}
		return nil, "", err
	}
	if !rt.IsActive {
		return nil, "", ErrRouteInactive
	}

	code, err := generateValidationCode()
	if err != nil {
		return nil, "", fmt.Errorf("generate validation code: %w", err)
	}

	d := &domain.Delivery{
		TrackingNumber:     uuid.New().String(),
		AnnouncementID:     a.ID,
		RouteID:            rt.ID,
		DelivererID:        rt.DelivererID,
		ClientID:           clientID,
		Status:             domain.DeliveryPending,
		ValidationCodeHash: hashCode(code),
	}

	err = s.tx.Transaction(func(tx *gorm.DB) error {
		assigned, err := s.announcements.AssignTx(ctx, tx, a.ID)
		if err != nil {
			return err
		}
		if !assigned {
			return ErrAnnouncementGone
		}
		return s.deliveries.CreateTx(ctx, tx, d)
	})
	if err != nil {
		return nil, "", err
	}

	s.cache.Invalidate(ctx, a.ID)

	if s.notifs != nil {
		if err := s.notifs.NotifyDeliveryAccepted(ctx, rt.DelivererID, d.ID, a.ID); err != nil {
			log.Printf("level=warn msg=\"accept notification failed\" delivery_id=%d err=%q", d.ID, err)
		}
	}

	return d, code, nil
}

func (s *Service) GetDelivery(ctx context.Context, id, userID int64) (*domain.Delivery, error) {
	d, err := s.deliveries.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if d.DelivererID != userID && d.ClientID != userID {
		return nil, ErrForbidden
	}
	return d, nil
}

// TrackDelivery looks a delivery up by its public tracking number. No
// ownership check so that anyone holding the uuid can follow the package.
func (s *Service) TrackDelivery(ctx context.Context, tracking string) (*domain.Delivery, error) {
	d, err := s.deliveries.GetByTrackingNumber(ctx, tracking)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return d, nil
}

func (s *Service) GetMyDeliveries(ctx context.Context, userID int64) ([]domain.Delivery, error) {
	return s.deliveries.ListByUser(ctx, userID)
}

// UpdateStatus moves a delivery along pending -> picked_up -> in_transit.
// Only the deliverer advances the package; either party may cancel before
// completion. Reaching delivered goes through ValidateDelivery instead.
func (s *Service) UpdateStatus(ctx context.Context, id, userID int64, status domain.DeliveryStatus) (*domain.Delivery, error) {
	d, err := s.GetDelivery(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	switch status {
	case domain.DeliveryPickedUp:
		if userID != d.DelivererID || d.Status != domain.DeliveryPending {
			return nil, ErrInvalidTransition
		}
	case domain.DeliveryInTransit:
		if userID != d.DelivererID || d.Status != domain.DeliveryPickedUp {
			return nil, ErrInvalidTransition
		}
	case domain.DeliveryCancelled:
		if d.Status == domain.DeliveryDelivered || d.Status == domain.DeliveryCancelled {
			return nil, ErrInvalidTransition
		}
	default:
		return nil, ErrInvalidTransition
	}

	if err := s.deliveries.UpdateStatus(ctx, id, status); err != nil {
		return nil, err
	}
	d.Status = status

	s.syncAnnouncement(ctx, d.AnnouncementID, status)
	s.notifyCounterpart(ctx, d, userID, status)
	return d, nil
}

// ValidateDelivery completes the handover. The deliverer submits the 6-digit
// code the client received when the match was accepted.
func (s *Service) ValidateDelivery(ctx context.Context, id, delivererID int64, code string) (*domain.Delivery, error) {
	d, err := s.deliveries.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if d.DelivererID != delivererID {
		return nil, ErrForbidden
	}
	if d.Status == domain.DeliveryDelivered {
		return nil, ErrAlreadyDelivered
	}
	if d.Status == domain.DeliveryCancelled {
		return nil, ErrInvalidTransition
	}

	if subtle.ConstantTimeCompare([]byte(hashCode(code)), []byte(d.ValidationCodeHash)) != 1 {
		return nil, ErrInvalidCode
	}

	if err := s.deliveries.MarkValidated(ctx, id); err != nil {
		return nil, err
	}
	d.Status = domain.DeliveryDelivered

	s.syncAnnouncement(ctx, d.AnnouncementID, domain.DeliveryDelivered)
	s.notifyCounterpart(ctx, d, delivererID, domain.DeliveryDelivered)
	return d, nil
}

// syncAnnouncement mirrors the delivery lifecycle onto the announcement.
// A cancelled delivery puts the announcement back on the market.
func (s *Service) syncAnnouncement(ctx context.Context, announcementID int64, status domain.DeliveryStatus) {
	var target domain.AnnouncementStatus
	switch status {
	case domain.DeliveryPickedUp, domain.DeliveryInTransit:
		target = domain.AnnouncementInTransit
	case domain.DeliveryDelivered:
		target = domain.AnnouncementDelivered
	case domain.DeliveryCancelled:
		target = domain.AnnouncementActive
	default:
		return
	}

	if err := s.announcements.UpdateStatus(ctx, announcementID, target); err != nil {
		log.Printf("level=warn msg=\"announcement status sync failed\" announcement_id=%d status=%s err=%q",
			announcementID, target, err)
		return
	}
	s.cache.Invalidate(ctx, announcementID)
}

func (s *Service) notifyCounterpart(ctx context.Context, d *domain.Delivery, actorID int64, status domain.DeliveryStatus) {
	if s.notifs == nil {
		return
	}
	recipient := d.ClientID
	if actorID == d.ClientID {
		recipient = d.DelivererID
	}
	if err := s.notifs.NotifyDeliveryStatus(ctx, recipient, d.ID, status); err != nil {
		log.Printf("level=warn msg=\"status notification failed\" delivery_id=%d err=%q", d.ID, err)
	}
}

// generateValidationCode draws six digits from crypto/rand.
func generateValidationCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

func hashCode(code string) string {
	sum := sha256.Sum256([]byte(code))
	return hex.EncodeToString(sum[:])
}
