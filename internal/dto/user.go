package dto

import (
	"time"

	"github.com/staffsync/staffsync_backend/internal/core/domain"
)

// --- User DTOs ---

// UpdateProfileRequest defines the mutable profile fields.
type UpdateProfileRequest struct {
	FullName   *string `json:"fullName,omitempty"`
	Phone      *string `json:"phone,omitempty"`
	Position   *string `json:"position,omitempty"`
	Department *string `json:"department,omitempty"`
}

// ChangePasswordRequest defines data for a password change.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required,min=8"`
}

// UserResponse defines data returned for a user.
type UserResponse struct {
	UserID     string    `json:"userID"`
	FullName   string    `json:"fullName"`
	Email      string    `json:"email"`
	Phone      string    `json:"phone,omitempty"`
	Position   string    `json:"position,omitempty"`
	Department string    `json:"department,omitempty"`
	Role       string    `json:"role"`
	IsActive   bool      `json:"isActive"`
	CompanyID  *string   `json:"companyID,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

// ToUserResponse converts domain.User to DTO.
func ToUserResponse(u *domain.User) UserResponse {
	return UserResponse{
		UserID:     u.UserID,
		FullName:   u.FullName,
		Email:      u.Email,
		Phone:      u.Phone,
		Position:   u.Position,
		Department: u.Department,
		Role:       u.Role,
		IsActive:   u.IsActive,
		CompanyID:  u.CompanyID,
		CreatedAt:  u.CreatedAt,
	}
}

// ListUsersResponse wraps a list of users.
type ListUsersResponse struct {
	Users []UserResponse `json:"users"`
}

// ToListUsersResponse converts a slice of domain.User to DTO.
func ToListUsersResponse(us []domain.User) ListUsersResponse {
	list := make([]UserResponse, len(us))
	for i := range us {
		list[i] = ToUserResponse(&us[i])
	}
	return ListUsersResponse{Users: list}
}
