package dto

import (
	"time"

	"github.com/scolaris/scolaris-go-api/internal/models"
)

// RegisterRequest is the payload for creating a new account.
type RegisterRequest struct {
	FirstName string `json:"first_name" validate:"required,min=2,max=100"`
	LastName  string `json:"last_name" validate:"required,min=2,max=100"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=6"`
	Role      string `json:"role" validate:"omitempty,oneof=parent teacher admin developer"`
	Phone     string `json:"phone" validate:"omitempty,max=32"`
}

// LoginRequest is the payload for authenticating an account.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AuthResponse carries the issued credential with the account summary.
type AuthResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

// ProfileUpdateRequest carries the self-service editable profile fields.
// Email and role are immutable through this path.
type ProfileUpdateRequest struct {
	FirstName *string `json:"first_name" validate:"omitempty,min=2,max=100"`
	LastName  *string `json:"last_name" validate:"omitempty,min=2,max=100"`
	Phone     *string `json:"phone" validate:"omitempty,max=32"`
}

// UserUpdateRequest carries the fields editable through the privileged
// user-management path. Unlike profile updates, role changes are allowed.
type UserUpdateRequest struct {
	FirstName *string `json:"first_name" validate:"omitempty,min=2,max=100"`
	LastName  *string `json:"last_name" validate:"omitempty,min=2,max=100"`
	Phone     *string `json:"phone" validate:"omitempty,max=32"`
	Role      *string `json:"role" validate:"omitempty,oneof=parent teacher admin developer"`
}

// ChangePasswordRequest carries the old and new passwords.
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=6"`
}

// TokenInfoResponse describes the credential currently in use. The token id
// is truncated so the response cannot be replayed as a credential.
type TokenInfoResponse struct {
	TokenPrefix string       `json:"token_prefix"`
	IssuedAt    time.Time    `json:"issued_at"`
	User        UserResponse `json:"user"`
}

// UserResponse is the serialized representation of an account.
type UserResponse struct {
	ID        uint      `json:"id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	Phone     string    `json:"phone,omitempty"`
	Children  []uint    `json:"children,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// NewUserResponse converts a user model into a DTO.
func NewUserResponse(user models.User) UserResponse {
	children := make([]uint, 0, len(user.Children))
	for _, child := range user.Children {
		children = append(children, child.ID)
	}

	return UserResponse{
		ID:        user.ID,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Email:     user.Email,
		Role:      string(user.Role),
		Phone:     user.Phone,
		Children:  children,
		CreatedAt: user.CreatedAt,
	}
}

// NewUserResponseSlice converts a slice of user models into DTOs.
func NewUserResponseSlice(users []models.User) []UserResponse {
	responses := make([]UserResponse, 0, len(users))
	for _, user := range users {
		responses = append(responses, NewUserResponse(user))
	}
	return responses
}
