package auth

import (
	"time"

	"github.com/angelmondragon/marketplace-backend/internal/users"
)

// LoginRequest captures the user credentials sent to the login endpoint.
type LoginRequest struct {
	Email    string `json:"email" form:"email" validate:"required,email"`
	Password string `json:"password" form:"password" validate:"required"`
}

// RegisterRequest is the customer sign-up form.
type RegisterRequest struct {
	Email           string `json:"email" form:"email" validate:"required,email"`
	Password        string `json:"password" form:"password" validate:"required"`
	ConfirmPassword string `json:"confirm_password" form:"confirm_password" validate:"required"`
	FirstName       string `json:"first_name" form:"first_name" validate:"required,max=50"`
	LastName        string `json:"last_name" form:"last_name" validate:"required,max=50"`
}

// LoginResponse contains the access token, user and landing page produced by a successful login.
type LoginResponse struct {
	AccessToken string         `json:"access_token"`
	AccessID    string         `json:"-"`
	ExpiresAt   time.Time      `json:"expires_at"`
	LandingPath string         `json:"landing_path"`
	User        *users.UserDTO `json:"user"`
}
