package models

import "time"

// Role is derived once from the account flags when a session is created
type Role string

const (
	RoleClient        Role = "client"
	RoleProvider      Role = "provider"
	RoleAdministrator Role = "administrator"
)

// DeriveRole maps the two account flags to a single role.
// The provider flag wins over the client flag; an account with neither is an administrator.
func DeriveRole(isClient, isProvider bool) Role {
	switch {
	case isProvider:
		return RoleProvider
	case isClient:
		return RoleClient
	default:
		return RoleAdministrator
	}
}

// IsValid reports whether r is one of the known roles
func (r Role) IsValid() bool {
	switch r {
	case RoleClient, RoleProvider, RoleAdministrator:
		return true
	}
	return false
}

// IsParticipant reports whether the role can take part in service requests
func (r Role) IsParticipant() bool {
	return r == RoleClient || r == RoleProvider
}

// User is the current account as seen by this service
type User struct {
	ID          uint     `json:"id"`
	Name        string   `json:"name"`
	Email       string   `json:"email"`
	Phone       string   `json:"phone,omitempty"`
	Description string   `json:"description,omitempty"`
	Evaluation  *float64 `json:"evaluation,omitempty"`
	PhotoURL    string   `json:"photo_url,omitempty"`
	Address     *Address `json:"address,omitempty"`
	IsClient    bool     `json:"is_client"`
	IsProvider  bool     `json:"is_provider"`
	Role        Role     `json:"role"`
}

// UserRegistration is the payload accepted by the register endpoint
type UserRegistration struct {
	Email                string `json:"email" validate:"required,email"`
	Name                 string `json:"name" validate:"required,min=2,max=100"`
	Password             string `json:"password" validate:"required,min=8,max=128"`
	PasswordConfirmation string `json:"password_confirmation" validate:"required,eqfield=Password"`
	Phone                string `json:"phone" validate:"omitempty,len=9,numeric"`
	Description          string `json:"description" validate:"omitempty,max=500"`
	BirthDate            string `json:"birth_date" validate:"required,adult"`
	IsClient             bool   `json:"is_client"`
	IsProvider           bool   `json:"is_provider" validate:"required_without=IsClient"`
}

// LoginRequest is the payload accepted by the login endpoint
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// ProfilePhoto is returned after a profile photo upload
type ProfilePhoto struct {
	ID         uint       `json:"id"`
	URL        string     `json:"url"`
	UploadedAt *time.Time `json:"uploaded_at,omitempty"`
}

// Actor is the authenticated user performing an operation
type Actor struct {
	UserID uint   `json:"user_id"`
	Role   Role   `json:"role"`
	Name   string `json:"name"`
}
