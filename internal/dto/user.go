package dto

import (
	"github.com/tallyops/psa_backend/internal/core/domain"
)

// --- User DTOs ---

// CreateUserRequest defines data for creating a new user. CostRate and
// BillRate are hourly rates in minor currency units.
type CreateUserRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	CostRate int64  `json:"costRate" binding:"min=0"`
	BillRate int64  `json:"billRate" binding:"min=0"`
}

// UpdateUserRequest defines data for updating an existing user.
type UpdateUserRequest struct {
	Name     *string `json:"name"`
	CostRate *int64  `json:"costRate" binding:"omitempty,min=0"`
	BillRate *int64  `json:"billRate" binding:"omitempty,min=0"`
}

// UserResponse defines data returned for a user.
type UserResponse struct {
	UserID   string `json:"userID"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	CostRate int64  `json:"costRate"`
	BillRate int64  `json:"billRate"`
}

// ToUserResponse converts domain.User to DTO.
func ToUserResponse(u *domain.User) UserResponse {
	return UserResponse{
		UserID:   u.UserID,
		Name:     u.Name,
		Email:    u.Email,
		CostRate: u.CostRate,
		BillRate: u.BillRate,
	}
}

// ToListUsersResponse converts a slice of users to DTOs.
func ToListUsersResponse(users []domain.User) []UserResponse {
	out := make([]UserResponse, 0, len(users))
	for i := range users {
		out = append(out, ToUserResponse(&users[i]))
	}
	return out
}
