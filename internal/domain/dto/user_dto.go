package dto

import "github.com/guttosm/dealtracker/internal/domain/models"

// RegisterRequest is the body of POST /user/register.
type RegisterRequest struct {
	Name     string  `json:"name" binding:"required" example:"Ada"`
	Email    string  `json:"email" binding:"required,email" example:"ada@example.com"`
	Password string  `json:"password" binding:"required,max=72" example:"s3cret"`
	Gender   *string `json:"gender" example:"female"`
}

// LoginRequest is the body of POST /user/login.
type LoginRequest struct {
	Email    string `json:"email" binding:"required" example:"ada@example.com"`
	Password string `json:"password" binding:"required" example:"s3cret"`
}

// UpdateUserRequest is the body of PUT /user/{uid}. Empty fields are ignored.
type UpdateUserRequest struct {
	Name     string `json:"name,omitempty"`
	Email    string `json:"email,omitempty" binding:"omitempty,email"`
	Gender   string `json:"gender,omitempty"`
	Password string `json:"password,omitempty" binding:"omitempty,max=72"`
}

// UserResponse is the public view of a user.
type UserResponse struct {
	UID    int64   `json:"uid" example:"4"`
	Name   string  `json:"name" example:"Ada"`
	Email  string  `json:"email" example:"ada@example.com"`
	Gender *string `json:"gender"`
}

// RegisterResponse is returned with 201 after a successful registration.
type RegisterResponse struct {
	Success bool   `json:"success" example:"true"`
	Message string `json:"message" example:"User registered successfully"`
	UID     int64  `json:"uid" example:"4"`
}

// UserEnvelope wraps a user for login and update responses.
type UserEnvelope struct {
	Success bool         `json:"success" example:"true"`
	Message string       `json:"message"`
	User    UserResponse `json:"user"`
}

// SuccessResponse is the minimal acknowledgement body.
type SuccessResponse struct {
	Success bool   `json:"success" example:"true"`
	Message string `json:"message,omitempty"`
}

// NewUserResponse strips private fields from a user.
func NewUserResponse(u *models.User) UserResponse {
	return UserResponse{UID: u.ID, Name: u.Name, Email: u.Email, Gender: u.Gender}
}
