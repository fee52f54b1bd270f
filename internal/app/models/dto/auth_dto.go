package dto

import "github.com/yigit/registrar/internal/app/models"

// LoginRequest represents login credentials
type LoginRequest struct {
	Username string `json:"username" binding:"required" example:"secretariat"`
	Password string `json:"password" binding:"required" example:"correct horse battery"`
}

// TokenResponse represents JWT token information
type TokenResponse struct {
	AccessToken string `json:"accessToken"`
	TokenType   string `json:"tokenType" example:"Bearer"`
	ExpiresIn   int64  `json:"expiresIn" example:"86400"`
}

// UserResponse represents a staff account without its secret
type UserResponse struct {
	ID                 int64  `json:"id" example:"1"`
	Username           string `json:"username" example:"secretariat"`
	Role               string `json:"role" example:"secretary"`
	MustChangePassword bool   `json:"mustChangePassword"`
}

// AuthResponse represents successful authentication response
type AuthResponse struct {
	Token TokenResponse `json:"token"`
	User  UserResponse  `json:"user"`
}

// CurrentUserResponse echoes the claims of the presented token
type CurrentUserResponse struct {
	UserID   int64  `json:"userId" example:"1"`
	Username string `json:"username" example:"secretariat"`
	Role     string `json:"role" example:"secretary"`
}

// ChangePasswordRequest represents a password change request
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required,min=8,max=72"`
}

// CreateUserRequest creates a staff account
type CreateUserRequest struct {
	Username string `json:"username" binding:"required,min=3,max=50" example:"comptable"`
	Password string `json:"password" binding:"required,min=8,max=72"`
	Role     string `json:"role" binding:"required,role" example:"accountant" enums:"admin,secretary,accountant"`
}

// FromUser converts a models.User to a UserResponse
func FromUser(u *models.User) UserResponse {
	return UserResponse{
		ID:                 u.ID,
		Username:           u.Username,
		Role:               string(u.Role),
		MustChangePassword: u.MustChangePassword,
	}
}
