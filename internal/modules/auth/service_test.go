package auth

import (
	"context"
	"testing"

	"ecodeli/internal/domain"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
)

// Mock repositories
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, u *domain.User) error {
	args := m.Called(ctx, u)
	if args.Error(0) == nil {
		u.ID = 1
	}
	return args.Error(0)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

type fakeJWT struct{}

func (fakeJWT) GenerateToken(userID int64, role string) (string, error) {
	return "token", nil
}

func registerRequest() RegisterRequest {
	return RegisterRequest{
		Name:     "Marie Dupont",
		Email:    "marie@example.com",
		Password: "secret123",
		Role:     "client",
	}
}

func TestService_Register_CreatesClient(t *testing.T) {
	repo := new(MockUserRepository)
	svc := NewService(repo, fakeJWT{})
	ctx := context.Background()

	repo.On("ExistsByEmail", ctx, "marie@example.com").Return(false, nil)
	repo.On("Create", ctx, mock.AnythingOfType("*domain.User")).Return(nil)

	res, err := svc.Register(ctx, registerRequest())

	assert.NoError(t, err)
	assert.Equal(t, domain.RoleClient, res.User.Role)
	assert.Equal(t, "token", res.AccessToken)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(res.User.PasswordHash), []byte("secret123")))
}

func TestService_Register_RejectsPrivilegedRole(t *testing.T) {
	svc := NewService(new(MockUserRepository), fakeJWT{})

	for _, role := range []string{"admin", "merchant", "provider", "root"} {
		req := registerRequest()
		req.Role = role

		_, err := svc.Register(context.Background(), req)

		assert.ErrorIs(t, err, ErrInvalidRole, role)
	}
}

func TestService_Register_DuplicateEmail(t *testing.T) {
	repo := new(MockUserRepository)
	svc := NewService(repo, fakeJWT{})
	ctx := context.Background()

	repo.On("ExistsByEmail", ctx, "marie@example.com").Return(true, nil)

	_, err := svc.Register(ctx, registerRequest())

	assert.ErrorIs(t, err, ErrEmailAlreadyExists)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestService_Register_DuplicateEmailRace(t *testing.T) {
	repo := new(MockUserRepository)
	svc := NewService(repo, fakeJWT{})
	ctx := context.Background()

	repo.On("ExistsByEmail", ctx, "marie@example.com").Return(false, nil)
	repo.On("Create", ctx, mock.AnythingOfType("*domain.User")).
		Return(&pgconn.PgError{Code: "23505"})

	_, err := svc.Register(ctx, registerRequest())

	assert.ErrorIs(t, err, ErrEmailAlreadyExists)
}

func TestService_Login_Succeeds(t *testing.T) {
	repo := new(MockUserRepository)
	svc := NewService(repo, fakeJWT{})
	ctx := context.Background()

	hash, _ := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.MinCost)
	repo.On("GetByEmail", ctx, "marie@example.com").
		Return(&domain.User{ID: 1, Email: "marie@example.com", PasswordHash: string(hash), Role: domain.RoleClient}, nil)

	res, err := svc.Login(ctx, LoginRequest{Email: "marie@example.com", Password: "secret123"})

	assert.NoError(t, err)
	assert.Equal(t, "token", res.AccessToken)
}

func TestService_Login_WrongPassword(t *testing.T) {
	repo := new(MockUserRepository)
	svc := NewService(repo, fakeJWT{})
	ctx := context.Background()

	hash, _ := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.MinCost)
	repo.On("GetByEmail", ctx, "marie@example.com").
		Return(&domain.User{ID: 1, PasswordHash: string(hash)}, nil)

	_, err := svc.Login(ctx, LoginRequest{Email: "marie@example.com", Password: "nope"})

	assert.ErrorIs(t, err, ErrInvalidCredentials)
}
