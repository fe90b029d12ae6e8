package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/travelms/travel-be/internal/http/respond"
	"github.com/travelms/travel-be/internal/middleware"
	"github.com/travelms/travel-be/internal/models/dto"
	"github.com/travelms/travel-be/internal/service"
)

// AuthHandler owns the register/login/profile/password endpoints.
type AuthHandler struct {
	auth *service.AuthService
}

// NewAuthHandler constructs the handler.
func NewAuthHandler(auth *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// Register attaches auth routes to the router. Protected routes sit
// behind the bearer-token middleware.
func (h *AuthHandler) Register(r chi.Router) {
	r.Post("/register", h.handleRegister)
	r.Post("/login", h.handleLogin)

	r.Group(func(pr chi.Router) {
		pr.Use(middleware.RequireAuth(h.auth))
		pr.Get("/profile", h.handleGetProfile)
		pr.Put("/profile", h.handleUpdateProfile)
		pr.Put("/password", h.handleChangePassword)
	})
}

func (h *AuthHandler) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}

	user, token, err := h.auth.Register(r.Context(), req.Username, req.Email, req.Password, req.Name)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidInput):
			respond.Error(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrDuplicateCredential):
			respond.Error(w, http.StatusBadRequest, "Username or email already exists")
		default:
			slog.Error("registration failed", "error", err)
			respond.Error(w, http.StatusInternalServerError, "Internal server error during registration")
		}
		return
	}

	respond.JSON(w, http.StatusCreated, "User registered successfully", dto.AuthResponse{User: user, Token: token})
}

func (h *AuthHandler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}

	user, token, err := h.auth.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			respond.Error(w, http.StatusUnauthorized, "Invalid username or password")
			return
		}
		slog.Error("login failed", "error", err)
		respond.Error(w, http.StatusInternalServerError, "Internal server error during login")
		return
	}

	respond.JSON(w, http.StatusOK, "Login successful", dto.AuthResponse{User: user, Token: token})
}

func (h *AuthHandler) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "Missing or invalid token")
		return
	}
	respond.JSON(w, http.StatusOK, "", dto.ProfileResponse{User: h.auth.Profile(user)})
}

func (h *AuthHandler) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "Missing or invalid token")
		return
	}

	var req dto.UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}

	updated, err := h.auth.UpdateProfile(r.Context(), user, req.Name, req.Email)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidInput):
			respond.Error(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrDuplicateCredential):
			respond.Error(w, http.StatusBadRequest, "Email already exists")
		case errors.Is(err, service.ErrNotFound):
			respond.Error(w, http.StatusNotFound, "User not found")
		default:
			slog.Error("profile update failed", "user_id", user.ID, "error", err)
			respond.Error(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}

	respond.JSON(w, http.StatusOK, "Profile updated successfully", dto.ProfileResponse{User: updated})
}

func (h *AuthHandler) handleChangePassword(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "Missing or invalid token")
		return
	}

	var req dto.ChangePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}

	err := h.auth.ChangePassword(r.Context(), user, req.CurrentPassword, req.NewPassword)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidInput):
			respond.Error(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrNotFound):
			respond.Error(w, http.StatusNotFound, "User not found")
		case errors.Is(err, service.ErrInvalidCredentials):
			respond.Error(w, http.StatusBadRequest, "Current password is incorrect")
		default:
			slog.Error("password change failed", "user_id", user.ID, "error", err)
			respond.Error(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}

	respond.JSON(w, http.StatusOK, "Password changed successfully", nil)
}
