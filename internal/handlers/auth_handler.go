package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"inventory-api/internal/middleware"
	"inventory-api/internal/models"
	"inventory-api/internal/services"

	"github.com/rs/zerolog"
)

type AuthHandler struct {
	userService *services.UserService
	authService *services.AuthService
	logger      zerolog.Logger
}

func NewAuthHandler(userService *services.UserService, authService *services.AuthService, logger zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		userService: userService,
		authService: authService,
		logger:      logger,
	}
}

// Signup handles POST /api/auth/signup.
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.signup(w, r)
	if !ok {
		return
	}
	respondWithJSON(w, http.StatusCreated, map[string]interface{}{
		"id":      userID,
		"message": "User created successfully",
	})
}

// SignupLegacy handles POST /register. Same operation as Signup; only the
// response field name differs, kept for old clients.
func (h *AuthHandler) SignupLegacy(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.signup(w, r)
	if !ok {
		return
	}
	respondWithJSON(w, http.StatusCreated, map[string]interface{}{
		"user_id": userID,
		"message": "User created successfully",
	})
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	_, ok := h.login(w, r)
	if !ok {
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]string{
		"message": "Login successful",
	})
}

// LoginLegacy handles POST /login. Old clients expect the token in the body
// as well as in the cookie.
func (h *AuthHandler) LoginLegacy(w http.ResponseWriter, r *http.Request) {
	token, ok := h.login(w, r)
	if !ok {
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]string{
		"message":      "Login successful",
		"access_token": token,
	})
}

// Me handles GET /api/auth/me, echoing the verified session identity.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Unauthenticated")
		return
	}
	username, _ := middleware.GetUsername(r)

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"id":       userID,
		"username": username,
	})
}

func (h *AuthHandler) signup(w http.ResponseWriter, r *http.Request) (int, bool) {
	var req models.SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return 0, false
	}

	userID, err := h.userService.Register(r.Context(), &req)
	if err != nil {
		h.writeAuthError(w, err)
		return 0, false
	}
	return userID, true
}

func (h *AuthHandler) login(w http.ResponseWriter, r *http.Request) (string, bool) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return "", false
	}

	user, err := h.userService.Authenticate(r.Context(), &req)
	if err != nil {
		h.writeAuthError(w, err)
		return "", false
	}

	token, err := h.authService.GenerateToken(user.ID, user.Username)
	if err != nil {
		h.logger.Error().Err(err).Msg("Token generation failed")
		respondWithError(w, http.StatusInternalServerError, "Internal server error")
		return "", false
	}

	http.SetCookie(w, h.authService.SessionCookie(token))
	return token, true
}

func (h *AuthHandler) writeAuthError(w http.ResponseWriter, err error) {
	var ve *services.ValidationError
	switch {
	case errors.As(err, &ve):
		respondWithError(w, http.StatusBadRequest, ve.Message)
	case errors.Is(err, services.ErrUsernameTaken):
		respondWithError(w, http.StatusConflict, "Username already exists")
	case errors.Is(err, services.ErrInvalidCredentials):
		respondWithError(w, http.StatusUnauthorized, "Invalid credentials")
	default:
		h.logger.Error().Err(err).Msg("Auth operation failed")
		respondWithError(w, http.StatusInternalServerError, "Internal server error")
	}
}
