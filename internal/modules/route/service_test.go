package route

import (
	"context"
	"errors"
	"testing"
	"time"

	"ecodeli/internal/domain"
	"ecodeli/internal/events"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"
)

// Mock repositories
type MockRouteRepository struct {
	mock.Mock
}

func (m *MockRouteRepository) Create(ctx context.Context, rt *domain.Route) error {
	args := m.Called(ctx, rt)
	if args.Error(0) == nil {
		rt.ID = 20
	}
	return args.Error(0)
}

func (m *MockRouteRepository) GetByID(ctx context.Context, id int64) (*domain.Route, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Route), args.Error(1)
}

func (m *MockRouteRepository) ListByDeliverer(ctx context.Context, delivererID int64) ([]domain.Route, error) {
	args := m.Called(ctx, delivererID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Route), args.Error(1)
}

func (m *MockRouteRepository) Deactivate(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockMatchReader struct {
	mock.Mock
}

func (m *MockMatchReader) ListByRoute(ctx context.Context, routeID int64) ([]domain.RouteAnnouncementMatch, error) {
	args := m.Called(ctx, routeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.RouteAnnouncementMatch), args.Error(1)
}

type MockMatcher struct {
	mock.Mock
}

func (m *MockMatcher) FindMatchingAnnouncements(ctx context.Context, routeID int64) error {
	args := m.Called(ctx, routeID)
	return args.Error(0)
}

type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) PublishJSON(ctx context.Context, routingKey string, msg any) error {
	args := m.Called(ctx, routingKey, msg)
	return args.Error(0)
}

func validCreateRequest() CreateRouteRequest {
	return CreateRouteRequest{
		StartCity:     "Paris",
		EndCity:       "Lyon",
		DepartureDate: time.Now().Add(24 * time.Hour),
		ArrivalDate:   time.Now().Add(36 * time.Hour),
	}
}

func TestService_CreateRoute_PublishesEvent(t *testing.T) {
	repo := new(MockRouteRepository)
	pub := new(MockEventPublisher)
	matcher := new(MockMatcher)
	svc := NewService(repo, nil, matcher, pub)
	ctx := context.Background()

	repo.On("Create", ctx, mock.AnythingOfType("*domain.Route")).Return(nil)
	pub.On("PublishJSON", ctx, events.RouteCreatedKey, events.RouteCreated{RouteID: 20}).Return(nil)

	rt, err := svc.CreateRoute(ctx, 2, validCreateRequest())

	assert.NoError(t, err)
	assert.True(t, rt.IsActive)
	assert.Equal(t, int64(2), rt.DelivererID)
	pub.AssertExpectations(t)
	matcher.AssertNotCalled(t, "FindMatchingAnnouncements", mock.Anything, mock.Anything)
}

func TestService_CreateRoute_PublishFailureFallsBackInline(t *testing.T) {
	repo := new(MockRouteRepository)
	pub := new(MockEventPublisher)
	matcher := new(MockMatcher)
	svc := NewService(repo, nil, matcher, pub)
	ctx := context.Background()

	repo.On("Create", ctx, mock.AnythingOfType("*domain.Route")).Return(nil)
	pub.On("PublishJSON", ctx, events.RouteCreatedKey, mock.Anything).Return(errors.New("broker down"))
	matcher.On("FindMatchingAnnouncements", ctx, int64(20)).Return(nil)

	_, err := svc.CreateRoute(ctx, 2, validCreateRequest())

	assert.NoError(t, err)
	matcher.AssertExpectations(t)
}

func TestService_CreateRoute_NoBrokerRunsInline(t *testing.T) {
	repo := new(MockRouteRepository)
	matcher := new(MockMatcher)
	svc := NewService(repo, nil, matcher, nil)
	ctx := context.Background()

	repo.On("Create", ctx, mock.AnythingOfType("*domain.Route")).Return(nil)
	matcher.On("FindMatchingAnnouncements", ctx, int64(20)).Return(nil)

	_, err := svc.CreateRoute(ctx, 2, validCreateRequest())

	assert.NoError(t, err)
	matcher.AssertExpectations(t)
}

func TestService_CreateRoute_MatchingFailureDoesNotFailCreate(t *testing.T) {
	repo := new(MockRouteRepository)
	matcher := new(MockMatcher)
	svc := NewService(repo, nil, matcher, nil)
	ctx := context.Background()

	repo.On("Create", ctx, mock.AnythingOfType("*domain.Route")).Return(nil)
	matcher.On("FindMatchingAnnouncements", ctx, int64(20)).Return(errors.New("db down"))

	rt, err := svc.CreateRoute(ctx, 2, validCreateRequest())

	assert.NoError(t, err)
	assert.NotNil(t, rt)
}

func TestService_CreateRoute_ArrivalBeforeDeparture(t *testing.T) {
	svc := NewService(new(MockRouteRepository), nil, nil, nil)

	req := validCreateRequest()
	req.ArrivalDate = req.DepartureDate.Add(-time.Hour)

	_, err := svc.CreateRoute(context.Background(), 2, req)

	assert.ErrorIs(t, err, ErrValidation)
}

func TestService_CreateRoute_PastDeparture(t *testing.T) {
	svc := NewService(new(MockRouteRepository), nil, nil, nil)

	req := validCreateRequest()
	req.DepartureDate = time.Now().Add(-time.Hour)

	_, err := svc.CreateRoute(context.Background(), 2, req)

	assert.ErrorIs(t, err, ErrValidation)
}

func TestService_CreateRoute_NonPositiveCapacity(t *testing.T) {
	svc := NewService(new(MockRouteRepository), nil, nil, nil)

	w := -5.0
	req := validCreateRequest()
	req.AvailableWeight = &w

	_, err := svc.CreateRoute(context.Background(), 2, req)

	assert.ErrorIs(t, err, ErrValidation)
}

func TestService_GetRoute_Forbidden(t *testing.T) {
	repo := new(MockRouteRepository)
	svc := NewService(repo, nil, nil, nil)
	ctx := context.Background()

	repo.On("GetByID", ctx, int64(20)).Return(&domain.Route{ID: 20, DelivererID: 2}, nil)

	_, err := svc.GetRoute(ctx, 20, 99)

	assert.ErrorIs(t, err, ErrForbidden)
}

func TestService_GetRoute_NotFound(t *testing.T) {
	repo := new(MockRouteRepository)
	svc := NewService(repo, nil, nil, nil)
	ctx := context.Background()

	repo.On("GetByID", ctx, int64(404)).Return(nil, gorm.ErrRecordNotFound)

	_, err := svc.GetRoute(ctx, 404, 2)

	assert.ErrorIs(t, err, ErrNotFound)
}

func TestService_GetRouteMatches_OwnerOnly(t *testing.T) {
	repo := new(MockRouteRepository)
	matches := new(MockMatchReader)
	svc := NewService(repo, matches, nil, nil)
	ctx := context.Background()

	repo.On("GetByID", ctx, int64(20)).Return(&domain.Route{ID: 20, DelivererID: 2}, nil)
	stored := []domain.RouteAnnouncementMatch{
		{RouteID: 20, AnnouncementID: 10, Score: 100},
		{RouteID: 20, AnnouncementID: 11, Score: 62},
	}
	matches.On("ListByRoute", ctx, int64(20)).Return(stored, nil)

	out, err := svc.GetRouteMatches(ctx, 20, 2)

	assert.NoError(t, err)
	assert.Equal(t, stored, out)

	_, err = svc.GetRouteMatches(ctx, 20, 99)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestService_DeactivateRoute(t *testing.T) {
	repo := new(MockRouteRepository)
	svc := NewService(repo, nil, nil, nil)
	ctx := context.Background()

	repo.On("GetByID", ctx, int64(20)).Return(&domain.Route{ID: 20, DelivererID: 2}, nil)
	repo.On("Deactivate", ctx, int64(20)).Return(nil)

	assert.NoError(t, svc.DeactivateRoute(ctx, 20, 2))
	repo.AssertExpectations(t)
}
