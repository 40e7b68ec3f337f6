package models

import (
	"time"
)

const (
	RoleAdmin     = "admin"
	RoleEmployer  = "employer"
	RoleJobseeker = "jobseeker"
)

type User struct {
	ID           string    `json:"id" bson:"_id"`
	Name         string    `json:"name" bson:"name"`
	Email        string    `json:"email" bson:"email"`
	PasswordHash string    `json:"-" bson:"password"`
	Role         string    `json:"role" bson:"role"`
	IsActive     bool      `json:"isActive" bson:"isActive"`
	CreatedAt    time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt" bson:"updatedAt"`
}

// ValidRole reports whether role is one of the three known account roles.
func ValidRole(role string) bool {
	switch role {
	case RoleAdmin, RoleEmployer, RoleJobseeker:
		return true
	}
	return false
}

// UpdateUserStatusRequest toggles a user's active flag. The pointer
// distinguishes "isActive": false from a body that omits the field.
type UpdateUserStatusRequest struct {
	IsActive *bool `json:"isActive"`
}

func (r *UpdateUserStatusRequest) Validate() map[string]string {
	errors := make(map[string]string)

	if r.IsActive == nil {
		errors["isActive"] = "isActive is required"
	}

	return errors
}
