package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/isdelr/auth-service-be/internal/services"
	"github.com/isdelr/auth-service-be/internal/store"
)

// AuthHandler handles HTTP requests for registration, login and token
// verification.
type AuthHandler struct {
	service services.AuthServiceProvider
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(service services.AuthServiceProvider) *AuthHandler {
	return &AuthHandler{service: service}
}

// RegisterPayload defines the structure for registration requests.
type RegisterPayload struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Email    string `json:"email"`
}

// LoginPayload defines the structure for login requests.
type LoginPayload struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Register handles new user registration.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var payload RegisterPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	userID, err := h.service.Register(r.Context(), payload.Username, payload.Password, payload.Email)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrValidation):
			writeError(w, http.StatusBadRequest, "Username and password required")
		case errors.Is(err, store.ErrDuplicateUsername):
			writeError(w, http.StatusConflict, "Username already exists")
		default:
			log.Error().Err(err).Str("username", payload.Username).Msg("Failed to register user")
			writeError(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"message": "User registered successfully",
		"userId":  userID,
	})
}

// Login handles user authentication and token issuance.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var payload LoginPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := h.service.Login(r.Context(), payload.Username, payload.Password)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrValidation):
			writeError(w, http.StatusBadRequest, "Username and password required")
		case errors.Is(err, services.ErrInvalidCredentials):
			log.Warn().Str("username", payload.Username).Msg("Failed authentication attempt")
			writeError(w, http.StatusUnauthorized, "Invalid credentials")
		default:
			log.Error().Err(err).Str("username", payload.Username).Msg("Failed to log user in")
			writeError(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"token":    result.Token,
		"userId":   result.UserID,
		"username": result.Username,
	})
}

// Verify validates the bearer token in the Authorization header. The check is
// offline; it never touches the credential store.
func (h *AuthHandler) Verify(w http.ResponseWriter, r *http.Request) {
	result := h.service.VerifyHeader(r.Header.Get("Authorization"))
	switch result.Status {
	case services.VerifyValid:
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"valid":    true,
			"userId":   result.UserID,
			"username": result.Username,
		})
	case services.VerifyMissing:
		writeError(w, http.StatusUnauthorized, "No token provided")
	case services.VerifyExpired:
		writeError(w, http.StatusUnauthorized, "Token expired")
	default:
		writeError(w, http.StatusUnauthorized, "Invalid token")
	}
}
