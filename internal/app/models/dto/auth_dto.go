package dto

import "github.com/yigit/advisorly/internal/app/models"

// LoginRequest represents login credentials
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email" example:"ada@uni.edu"`
	Password string `json:"password" binding:"required" example:"secret123"`
}

// RegisterRequest represents a user registration request. Students may name
// their advisor.
type RegisterRequest struct {
	Email     string          `json:"email" binding:"required,email" example:"ada@uni.edu"`
	Password  string          `json:"password" binding:"required,min=8,strongpassword" example:"Secret123"`
	FirstName string          `json:"firstName" binding:"required,max=100" example:"Ada"`
	LastName  string          `json:"lastName" binding:"required,max=100" example:"Lovelace"`
	RoleType  models.RoleType `json:"roleType" binding:"required,oneof=STUDENT ADVISOR" example:"STUDENT"`
	AdvisorID *int64          `json:"advisorId,omitempty" binding:"omitempty,min=1" example:"3"`
}

// TokenResponse represents JWT token information
type TokenResponse struct {
	AccessToken string `json:"accessToken"`
	TokenType   string `json:"tokenType" example:"Bearer"`
	ExpiresIn   int64  `json:"expiresIn" example:"3600"`
}

// AuthResponse represents successful authentication response
type AuthResponse struct {
	Token TokenResponse `json:"token"`
	User  UserResponse  `json:"user"`
}
