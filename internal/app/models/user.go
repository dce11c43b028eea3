package models

import "time"

// User defines the user model based on the 'users' table
type User struct {
	ID        int64     `json:"id" db:"id" example:"1"`
	Email     string    `json:"email" db:"email" example:"student@uni.edu"`
	Password  string    `json:"-" db:"password"`
	FirstName string    `json:"firstName" db:"first_name" example:"Ada"`
	LastName  string    `json:"lastName" db:"last_name" example:"Lovelace"`
	RoleType  RoleType  `json:"roleType" db:"role_type" example:"STUDENT"`
	AdvisorID *int64    `json:"advisorId,omitempty" db:"advisor_id"` // Students only
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// FullName returns "First Last"
func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}
