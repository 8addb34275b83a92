package notification

import (
	"context"
	"errors"
	"testing"

	"ecodeli/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// Mock store
type MockStore struct {
	mock.Mock
}

func (m *MockStore) Create(ctx context.Context, n *domain.Notification) error {
	args := m.Called(ctx, n)
	return args.Error(0)
}

func (m *MockStore) GetByUserID(ctx context.Context, userID int64, limit int) ([]domain.Notification, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Notification), args.Error(1)
}

func (m *MockStore) CountUnread(ctx context.Context, userID int64) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockStore) MarkAsRead(ctx context.Context, notificationID, userID int64) error {
	args := m.Called(ctx, notificationID, userID)
	return args.Error(0)
}

func (m *MockStore) MarkAllAsRead(ctx context.Context, userID int64) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

// fakePusher records pushes instead of holding websockets.
type fakePusher struct {
	sentTo []int64
	online bool
}

func (f *fakePusher) SendToUser(userID int64, message interface{}) bool {
	f.sentTo = append(f.sentTo, userID)
	return f.online
}

func TestService_Create_StoresAndPushes(t *testing.T) {
	store := new(MockStore)
	hub := &fakePusher{online: true}
	svc := NewService(store, hub)
	ctx := context.Background()

	store.On("Create", ctx, mock.AnythingOfType("*domain.Notification")).Return(nil)

	err := svc.Create(ctx, 2, domain.NotifMatchFound, "title", "msg", nil)

	assert.NoError(t, err)
	assert.Equal(t, []int64{2}, hub.sentTo)
}

func TestService_Create_OfflineRecipientStillStored(t *testing.T) {
	store := new(MockStore)
	hub := &fakePusher{online: false}
	svc := NewService(store, hub)
	ctx := context.Background()

	store.On("Create", ctx, mock.AnythingOfType("*domain.Notification")).Return(nil)

	err := svc.Create(ctx, 2, domain.NotifMatchFound, "title", "msg", nil)

	assert.NoError(t, err)
	store.AssertExpectations(t)
}

func TestService_Create_StoreErrorPropagates(t *testing.T) {
	store := new(MockStore)
	hub := &fakePusher{}
	svc := NewService(store, hub)
	ctx := context.Background()

	store.On("Create", ctx, mock.Anything).Return(errors.New("db down"))

	err := svc.Create(ctx, 2, domain.NotifMatchFound, "title", "msg", nil)

	assert.Error(t, err)
	assert.Empty(t, hub.sentTo)
}

func TestService_NotifyMatchFound_Payload(t *testing.T) {
	store := new(MockStore)
	svc := NewService(store, nil)
	ctx := context.Background()

	var captured *domain.Notification
	store.On("Create", ctx, mock.AnythingOfType("*domain.Notification")).
		Run(func(args mock.Arguments) {
			captured = args.Get(1).(*domain.Notification)
		}).
		Return(nil)

	a := &domain.Announcement{ID: 10, Title: "Deliver a package", Price: 15}
	err := svc.NotifyMatchFound(ctx, 2, a, 100)

	assert.NoError(t, err)
	assert.Equal(t, int64(2), captured.UserID)
	assert.Equal(t, domain.NotifMatchFound, captured.Type)
	assert.Contains(t, captured.Message, "Deliver a package")
	assert.Contains(t, captured.Message, "100%")
	assert.Equal(t, int64(10), captured.Data["announcement_id"])
	assert.Equal(t, 100, captured.Data["score"])
	assert.Equal(t, 15.0, captured.Data["price"])
}

func TestService_NotifyDeliveryStatus_UnknownStatusIgnored(t *testing.T) {
	store := new(MockStore)
	svc := NewService(store, nil)

	err := svc.NotifyDeliveryStatus(context.Background(), 2, 77, domain.DeliveryStatus("teleported"))

	assert.NoError(t, err)
	store.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestService_GetUserNotifications_UnreadCount(t *testing.T) {
	store := new(MockStore)
	svc := NewService(store, nil)
	ctx := context.Background()

	stored := []domain.Notification{{ID: 1, UserID: 2}, {ID: 2, UserID: 2}}
	store.On("GetByUserID", ctx, int64(2), 20).Return(stored, nil)
	store.On("CountUnread", ctx, int64(2)).Return(int64(1), nil)

	list, unread, err := svc.GetUserNotifications(ctx, 2, 0)

	assert.NoError(t, err)
	assert.Len(t, list, 2)
	assert.Equal(t, int64(1), unread)
}

func TestService_GetUserNotifications_CountFailureIsSoft(t *testing.T) {
	store := new(MockStore)
	svc := NewService(store, nil)
	ctx := context.Background()

	store.On("GetByUserID", ctx, int64(2), 20).Return([]domain.Notification{}, nil)
	store.On("CountUnread", ctx, int64(2)).Return(int64(0), errors.New("db down"))

	_, unread, err := svc.GetUserNotifications(ctx, 2, 20)

	assert.NoError(t, err)
	assert.Equal(t, int64(0), unread)
}
