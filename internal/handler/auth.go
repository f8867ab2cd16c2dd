package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"moodshare/internal/httputil"
	"moodshare/internal/model"
	"moodshare/internal/service"
	"moodshare/internal/transport/http/middleware"
)

// AuthHandler groups the API authentication endpoints.
type AuthHandler struct {
	userService  *service.UserService
	tokenService *service.TokenService
}

func NewAuthHandler(userService *service.UserService, tokenService *service.TokenService) *AuthHandler {
	return &AuthHandler{
		userService:  userService,
		tokenService: tokenService,
	}
}

// Login handles POST /api/auth/login.
// Exchanges username/password for a signed bearer token.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req model.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteBadRequest(w, "Missing JSON body")
		return
	}

	if req.Username == "" || req.Password == "" {
		httputil.WriteBadRequest(w, "Username and password required")
		return
	}

	user, err := h.userService.Authenticate(r.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, model.ErrInvalidCredentials) {
			httputil.WriteUnauthorized(w, "Invalid username or password")
			return
		}
		log.Error().Err(err).Msg("login failed")
		httputil.WriteInternalError(w, "Failed to login")
		return
	}

	token, err := h.tokenService.IssueAccessToken(user.ID)
	if err != nil {
		log.Error().Err(err).Int64("user_id", user.ID).Msg("failed to issue token")
		httputil.WriteInternalError(w, "Failed to generate token")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, model.LoginResponse{
		Token:     token,
		ExpiresIn: h.tokenService.AccessTokenMaxAge(),
		User:      user.Profile(),
	})
}

// Me handles GET /api/me.
// Returns the authenticated user's profile.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Not authenticated")
		return
	}

	user, err := h.userService.GetByID(r.Context(), userID)
	if err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			httputil.WriteUnauthorized(w, "User not found")
			return
		}
		log.Error().Err(err).Int64("user_id", userID).Msg("failed to load current user")
		httputil.WriteInternalError(w, "Failed to get user")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"user": user.Profile(),
	})
}
