package domain

import "time"

type UserRole string

const (
	RoleGuest UserRole = "guest"
	RoleStaff UserRole = "staff"
	RoleAdmin UserRole = "admin"
)

// IsStaff is true for roles allowed to drive the reservation lifecycle.
func (r UserRole) IsStaff() bool {
	return r == RoleStaff || r == RoleAdmin
}

type User struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email" gorm:"uniqueIndex;not null" validate:"required,email"`
	PasswordHash string    `json:"-"`
	Role         UserRole  `json:"role" gorm:"type:varchar(16);not null;default:guest"`
	Name         string    `json:"name"`
	Phone        string    `json:"phone,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
