package matching

import (
	"context"
	"errors"
	"testing"
	"time"

	"ecodeli/internal/config"
	"ecodeli/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"
)

// Mock repositories
type MockRouteRepository struct {
	mock.Mock
}

func (m *MockRouteRepository) GetByIDWithDeliverer(ctx context.Context, id int64) (*domain.Route, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Route), args.Error(1)
}

func (m *MockRouteRepository) ListActiveCovering(ctx context.Context, at time.Time) ([]domain.Route, error) {
	args := m.Called(ctx, at)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Route), args.Error(1)
}

type MockAnnouncementRepository struct {
	mock.Mock
}

func (m *MockAnnouncementRepository) GetByID(ctx context.Context, id int64) (*domain.Announcement, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Announcement), args.Error(1)
}

func (m *MockAnnouncementRepository) ListActiveInWindow(ctx context.Context, from, to time.Time, types []domain.AnnouncementType) ([]domain.Announcement, error) {
	args := m.Called(ctx, from, to, types)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Announcement), args.Error(1)
}

type MockMatchRepository struct {
	mock.Mock
}

func (m *MockMatchRepository) Upsert(ctx context.Context, routeID, announcementID int64, score int) error {
	args := m.Called(ctx, routeID, announcementID, score)
	return args.Error(0)
}

func (m *MockMatchRepository) MarkNotified(ctx context.Context, routeID, announcementID int64) error {
	args := m.Called(ctx, routeID, announcementID)
	return args.Error(0)
}

type MockNotificationSender struct {
	mock.Mock
}

func (m *MockNotificationSender) NotifyMatchFound(ctx context.Context, delivererID int64, a *domain.Announcement, score int) error {
	args := m.Called(ctx, delivererID, a, score)
	return args.Error(0)
}

func newTestService(routes *MockRouteRepository, anns *MockAnnouncementRepository, matches *MockMatchRepository, notifs *MockNotificationSender) *Service {
	return NewService(routes, anns, matches, notifs, config.DefaultMatching())
}

func TestService_FindMatchingAnnouncements_PerfectMatchNotifies(t *testing.T) {
	routes := new(MockRouteRepository)
	anns := new(MockAnnouncementRepository)
	matches := new(MockMatchRepository)
	notifs := new(MockNotificationSender)

	route := parisLyonRoute()
	candidate := packageAnnouncement() // scores 100 against the route

	routes.On("GetByIDWithDeliverer", mock.Anything, route.ID).Return(route, nil)
	anns.On("ListActiveInWindow", mock.Anything, route.DepartureDate, route.ArrivalDate, domain.MatchableAnnouncementTypes).
		Return([]domain.Announcement{*candidate}, nil)
	matches.On("Upsert", mock.Anything, route.ID, candidate.ID, 100).Return(nil)
	notifs.On("NotifyMatchFound", mock.Anything, route.DelivererID, mock.Anything, 100).Return(nil)
	matches.On("MarkNotified", mock.Anything, route.ID, candidate.ID).Return(nil)

	svc := newTestService(routes, anns, matches, notifs)
	err := svc.FindMatchingAnnouncements(context.Background(), route.ID)

	assert.NoError(t, err)
	matches.AssertExpectations(t)
	notifs.AssertExpectations(t)
}

func TestService_FindMatchingAnnouncements_RouteNotFound(t *testing.T) {
	routes := new(MockRouteRepository)
	anns := new(MockAnnouncementRepository)
	matches := new(MockMatchRepository)

	routes.On("GetByIDWithDeliverer", mock.Anything, int64(404)).Return(nil, gorm.ErrRecordNotFound)

	svc := newTestService(routes, anns, matches, nil)
	err := svc.FindMatchingAnnouncements(context.Background(), 404)

	assert.ErrorIs(t, err, ErrRouteNotFound)
	matches.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestService_FindMatchingAnnouncements_LowScoreNotPersisted(t *testing.T) {
	routes := new(MockRouteRepository)
	anns := new(MockAnnouncementRepository)
	matches := new(MockMatchRepository)

	route := parisLyonRoute()
	candidate := packageAnnouncement()
	candidate.PickupAddress = "Marseille vieux port"
	candidate.DeliveryAddress = "Nice promenade"
	candidate.ScheduledAt = time.Date(2024, 1, 1, 19, 0, 0, 0, time.UTC)
	candidate.Price = 2 // location 0, time 75, capacity 100, price 30 -> 46

	routes.On("GetByIDWithDeliverer", mock.Anything, route.ID).Return(route, nil)
	anns.On("ListActiveInWindow", mock.Anything, route.DepartureDate, route.ArrivalDate, domain.MatchableAnnouncementTypes).
		Return([]domain.Announcement{*candidate}, nil)

	svc := newTestService(routes, anns, matches, nil)
	err := svc.FindMatchingAnnouncements(context.Background(), route.ID)

	assert.NoError(t, err)
	matches.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestService_FindMatchingAnnouncements_MidScoreKeptNotNotified(t *testing.T) {
	routes := new(MockRouteRepository)
	anns := new(MockAnnouncementRepository)
	matches := new(MockMatchRepository)
	notifs := new(MockNotificationSender)

	route := parisLyonRoute()
	route.AvailableWeight = floatPtr(4) // 5kg estimate exceeds capacity -> 20

	candidate := packageAnnouncement()
	candidate.PickupAddress = "Marseille"                                // delivery side only -> 80
	candidate.ScheduledAt = time.Date(2024, 1, 1, 19, 0, 0, 0, time.UTC) // late window -> 75
	candidate.Price = 5                                                  // ratio 0.5 -> 30

	// 80*0.4 + 75*0.3 + 20*0.2 + 30*0.1 = 61.5 -> 62: kept, below notify bar
	routes.On("GetByIDWithDeliverer", mock.Anything, route.ID).Return(route, nil)
	anns.On("ListActiveInWindow", mock.Anything, route.DepartureDate, route.ArrivalDate, domain.MatchableAnnouncementTypes).
		Return([]domain.Announcement{*candidate}, nil)
	matches.On("Upsert", mock.Anything, route.ID, candidate.ID, 62).Return(nil)

	svc := newTestService(routes, anns, matches, notifs)
	err := svc.FindMatchingAnnouncements(context.Background(), route.ID)

	assert.NoError(t, err)
	matches.AssertExpectations(t)
	notifs.AssertNotCalled(t, "NotifyMatchFound", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	matches.AssertNotCalled(t, "MarkNotified", mock.Anything, mock.Anything, mock.Anything)
}

func TestService_FindMatchingAnnouncements_NotificationFailureSwallowed(t *testing.T) {
	routes := new(MockRouteRepository)
	anns := new(MockAnnouncementRepository)
	matches := new(MockMatchRepository)
	notifs := new(MockNotificationSender)

	route := parisLyonRoute()
	candidate := packageAnnouncement()

	routes.On("GetByIDWithDeliverer", mock.Anything, route.ID).Return(route, nil)
	anns.On("ListActiveInWindow", mock.Anything, route.DepartureDate, route.ArrivalDate, domain.MatchableAnnouncementTypes).
		Return([]domain.Announcement{*candidate}, nil)
	matches.On("Upsert", mock.Anything, route.ID, candidate.ID, 100).Return(nil)
	notifs.On("NotifyMatchFound", mock.Anything, route.DelivererID, mock.Anything, 100).
		Return(errors.New("smtp down"))

	svc := newTestService(routes, anns, matches, notifs)
	err := svc.FindMatchingAnnouncements(context.Background(), route.ID)

	// the pass succeeds and the match stays un-notified
	assert.NoError(t, err)
	matches.AssertExpectations(t)
	matches.AssertNotCalled(t, "MarkNotified", mock.Anything, mock.Anything, mock.Anything)
}

func TestService_FindMatchingAnnouncements_UpsertErrorPropagates(t *testing.T) {
	routes := new(MockRouteRepository)
	anns := new(MockAnnouncementRepository)
	matches := new(MockMatchRepository)

	route := parisLyonRoute()
	candidate := packageAnnouncement()
	dbErr := errors.New("connection reset")

	routes.On("GetByIDWithDeliverer", mock.Anything, route.ID).Return(route, nil)
	anns.On("ListActiveInWindow", mock.Anything, route.DepartureDate, route.ArrivalDate, domain.MatchableAnnouncementTypes).
		Return([]domain.Announcement{*candidate}, nil)
	matches.On("Upsert", mock.Anything, route.ID, candidate.ID, 100).Return(dbErr)

	svc := newTestService(routes, anns, matches, nil)
	err := svc.FindMatchingAnnouncements(context.Background(), route.ID)

	assert.ErrorIs(t, err, dbErr)
}

func TestService_FindMatchingAnnouncements_RepeatedPassSameScore(t *testing.T) {
	routes := new(MockRouteRepository)
	anns := new(MockAnnouncementRepository)
	matches := new(MockMatchRepository)
	notifs := new(MockNotificationSender)

	route := parisLyonRoute()
	candidate := packageAnnouncement()

	routes.On("GetByIDWithDeliverer", mock.Anything, route.ID).Return(route, nil)
	anns.On("ListActiveInWindow", mock.Anything, route.DepartureDate, route.ArrivalDate, domain.MatchableAnnouncementTypes).
		Return([]domain.Announcement{*candidate}, nil)
	matches.On("Upsert", mock.Anything, route.ID, candidate.ID, 100).Return(nil)
	notifs.On("NotifyMatchFound", mock.Anything, route.DelivererID, mock.Anything, 100).Return(nil)
	matches.On("MarkNotified", mock.Anything, route.ID, candidate.ID).Return(nil)

	svc := newTestService(routes, anns, matches, notifs)
	assert.NoError(t, svc.FindMatchingAnnouncements(context.Background(), route.ID))
	assert.NoError(t, svc.FindMatchingAnnouncements(context.Background(), route.ID))

	// the same pair is always upserted with the same recomputed score
	matches.AssertNumberOfCalls(t, "Upsert", 2)
}

func TestService_FindMatchingRoutes_NotifiesRouteOwner(t *testing.T) {
	routes := new(MockRouteRepository)
	anns := new(MockAnnouncementRepository)
	matches := new(MockMatchRepository)
	notifs := new(MockNotificationSender)

	route := parisLyonRoute()
	a := packageAnnouncement()

	anns.On("GetByID", mock.Anything, a.ID).Return(a, nil)
	routes.On("ListActiveCovering", mock.Anything, a.ScheduledAt).Return([]domain.Route{*route}, nil)
	matches.On("Upsert", mock.Anything, route.ID, a.ID, 100).Return(nil)
	notifs.On("NotifyMatchFound", mock.Anything, route.DelivererID, mock.Anything, 100).Return(nil)
	matches.On("MarkNotified", mock.Anything, route.ID, a.ID).Return(nil)

	svc := newTestService(routes, anns, matches, notifs)
	err := svc.FindMatchingRoutes(context.Background(), a.ID)

	assert.NoError(t, err)
	notifs.AssertExpectations(t)
}

func TestService_FindMatchingRoutes_AnnouncementNotFound(t *testing.T) {
	routes := new(MockRouteRepository)
	anns := new(MockAnnouncementRepository)
	matches := new(MockMatchRepository)

	anns.On("GetByID", mock.Anything, int64(404)).Return(nil, gorm.ErrRecordNotFound)

	svc := newTestService(routes, anns, matches, nil)
	err := svc.FindMatchingRoutes(context.Background(), 404)

	assert.ErrorIs(t, err, ErrAnnouncementNotFound)
}
