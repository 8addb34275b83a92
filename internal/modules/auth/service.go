package auth

import (
	"context"
	"errors"
	"strings"

	"ecodeli/internal/domain"

	"github.com/jackc/pgx/v5/pgconn"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type jwtService interface {
	GenerateToken(userID int64, role string) (string, error)
}

type Service struct {
	users UserRepositoryInterface
	jwt   jwtService
}

type LoginResult struct {
	User        *domain.User
	AccessToken string
}

func NewService(users UserRepositoryInterface, jwt jwtService) *Service {
	return &Service{users: users, jwt: jwt}
}

// Register creates a client or deliverer account. Merchant/provider/admin
// accounts are provisioned out of band.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (*LoginResult, error) {
	role := domain.UserRole(strings.ToLower(strings.TrimSpace(req.Role)))
	if role != domain.RoleClient && role != domain.RoleDeliverer {
		return nil, ErrInvalidRole
	}

	exists, err := s.users.ExistsByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrEmailAlreadyExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	u := &domain.User{
		Email:        req.Email,
		PasswordHash: string(hash),
		Role:         role,
		Name:         req.Name,
		Phone:        req.Phone,
	}
	if err := s.users.Create(ctx, u); err != nil {
		// the unique index can still fire under a registration race
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, ErrEmailAlreadyExists
		}
		return nil, err
	}

	token, err := s.jwt.GenerateToken(u.ID, string(u.Role))
	if err != nil {
		return nil, err
	}

	return &LoginResult{User: u, AccessToken: token}, nil
}

func (s *Service) Login(ctx context.Context, req LoginRequest) (*LoginResult, error) {
	u, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := s.jwt.GenerateToken(u.ID, string(u.Role))
	if err != nil {
		return nil, err
	}

	return &LoginResult{User: u, AccessToken: token}, nil
}

func (s *Service) GetProfile(ctx context.Context, userID int64) (*domain.User, error) {
	return s.users.GetByID(ctx, userID)
}
