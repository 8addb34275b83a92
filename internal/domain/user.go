package domain

import "time"

type UserRole string

const (
	RoleClient    UserRole = "client"
	RoleDeliverer UserRole = "deliverer"
	RoleMerchant  UserRole = "merchant"
	RoleProvider  UserRole = "provider"
	RoleAdmin     UserRole = "admin"
)

type User struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email" validate:"required,email"`
	PasswordHash string    `json:"-"`
	Role         UserRole  `json:"role"`
	Name         string    `json:"name"`
	Phone        string    `json:"phone,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
