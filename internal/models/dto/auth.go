package dto

import "github.com/travelms/travel-be/internal/models"

type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type UpdateProfileRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// AuthResponse is the data payload for register and login.
type AuthResponse struct {
	User  models.User `json:"user"`
	Token string      `json:"token"`
}

type ProfileResponse struct {
	User models.User `json:"user"`
}
