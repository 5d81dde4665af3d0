package dto

import (
	"strings"
	"time"
	"unicode"

	"github.com/noah-isme/campus-request-api/internal/models"
)

// RegisterRequest carries the signup payload.
type RegisterRequest struct {
	FirstName    string `json:"first_name" validate:"required,min=2,max=60"`
	LastName     string `json:"last_name" validate:"required,min=2,max=60"`
	Email        string `json:"email" validate:"required,email"`
	Password     string `json:"password" validate:"required,min=6"`
	Role         string `json:"role" validate:"required,oneof=student lecturer admin"`
	DepartmentID *uint  `json:"department_id" validate:"omitempty,gt=0"`
	PhoneNumber  string `json:"phone_number" validate:"omitempty,min=9,max=15"`
	IDNumber     string `json:"id_number" validate:"required,min=8,max=9,numeric"`
}

// ValidPassword reports whether the password satisfies the account policy:
// at least six characters with both an uppercase and a lowercase letter.
func ValidPassword(password string) bool {
	if len(password) < 6 {
		return false
	}
	var hasUpper, hasLower bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		}
	}
	return hasUpper && hasLower
}

// LoginRequest carries the credentials payload.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// ForgotPasswordRequest starts the reset-token flow.
type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// ResetPasswordRequest completes the reset-token flow.
type ResetPasswordRequest struct {
	Token       string `json:"token" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=6"`
}

// ChangePasswordRequest updates the password for an authenticated user.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=6"`
}

// UpdateProfileRequest carries the editable profile fields.
type UpdateProfileRequest struct {
	FirstName   string `json:"first_name" validate:"omitempty,min=2,max=60"`
	LastName    string `json:"last_name" validate:"omitempty,min=2,max=60"`
	PhoneNumber string `json:"phone_number" validate:"omitempty,min=9,max=15"`
}

// AssignCoursesRequest replaces the set of courses a lecturer teaches.
type AssignCoursesRequest struct {
	CourseIDs []uint `json:"course_ids" validate:"required,min=1,dive,gt=0"`
}

// UserResponse is the public representation of an account.
type UserResponse struct {
	ID           uint      `json:"id"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	FullName     string    `json:"full_name"`
	Email        string    `json:"email"`
	Role         string    `json:"role"`
	DepartmentID *uint     `json:"department_id,omitempty"`
	Department   string    `json:"department,omitempty"`
	PhoneNumber  string    `json:"phone_number,omitempty"`
	IDNumber     string    `json:"id_number,omitempty"`
	IsApproved   bool      `json:"is_approved"`
	CreatedAt    time.Time `json:"created_at"`
}

// LoginResponse bundles the issued token with the authenticated account.
type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

// NewUserResponse converts a user model into its API representation.
func NewUserResponse(user *models.User) UserResponse {
	resp := UserResponse{
		ID:           user.ID,
		FirstName:    user.FirstName,
		LastName:     user.LastName,
		FullName:     user.FullName(),
		Email:        strings.ToLower(user.Email),
		Role:         user.Role,
		DepartmentID: user.DepartmentID,
		PhoneNumber:  user.PhoneNumber,
		IDNumber:     user.IDNumber,
		IsApproved:   user.IsApproved,
		CreatedAt:    user.CreatedAt,
	}
	if user.Department != nil {
		resp.Department = user.Department.Name
	}
	return resp
}

// NewUserResponseSlice converts a slice of user models.
func NewUserResponseSlice(users []models.User) []UserResponse {
	responses := make([]UserResponse, 0, len(users))
	for i := range users {
		responses = append(responses, NewUserResponse(&users[i]))
	}
	return responses
}
