package dto

import "github.com/yigit/advisorly/internal/app/models"

// UserResponse represents basic user information
type UserResponse struct {
	ID        int64  `json:"id" example:"1"`
	Email     string `json:"email" example:"ada@uni.edu"`
	FirstName string `json:"firstName" example:"Ada"`
	LastName  string `json:"lastName" example:"Lovelace"`
	RoleType  string `json:"roleType" example:"STUDENT" enums:"STUDENT,ADVISOR"`
	AdvisorID *int64 `json:"advisorId,omitempty" example:"3"`
}

// FromUser converts a models.User to a UserResponse
func FromUser(u *models.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		RoleType:  string(u.RoleType),
		AdvisorID: u.AdvisorID,
	}
}

// FromUsers converts a slice of users
func FromUsers(users []*models.User) []UserResponse {
	out := make([]UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, FromUser(u))
	}
	return out
}
