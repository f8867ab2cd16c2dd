package handler

import (
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"moodshare/internal/config"
	"moodshare/internal/httputil"
	"moodshare/internal/model"
	"moodshare/internal/service"
	"moodshare/internal/transport/http/middleware"
)

// UserHandler groups the API user endpoints.
type UserHandler struct {
	userService *service.UserService
	postService *service.PostService
	cfg         *config.Config
}

func NewUserHandler(userService *service.UserService, postService *service.PostService, cfg *config.Config) *UserHandler {
	return &UserHandler{
		userService: userService,
		postService: postService,
		cfg:         cfg,
	}
}

// GetByID handles GET /api/users/{id}.
func (h *UserHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	userID, err := parseID(r)
	if err != nil {
		httputil.WriteBadRequest(w, "Invalid user ID")
		return
	}

	user, err := h.userService.GetByID(r.Context(), userID)
	if err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			httputil.WriteNotFound(w, "User not found")
			return
		}
		log.Error().Err(err).Int64("user_id", userID).Msg("failed to get user")
		httputil.WriteInternalError(w, "Failed to get user")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"user": user.Profile(),
	})
}

// GetPosts handles GET /api/users/{id}/posts: the user's posts, newest
// first, paginated.
func (h *UserHandler) GetPosts(w http.ResponseWriter, r *http.Request) {
	viewerID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Not authenticated")
		return
	}

	userID, err := parseID(r)
	if err != nil {
		httputil.WriteBadRequest(w, "Invalid user ID")
		return
	}

	user, err := h.userService.GetByID(r.Context(), userID)
	if err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			httputil.WriteNotFound(w, "User not found")
			return
		}
		log.Error().Err(err).Int64("user_id", userID).Msg("failed to get user")
		httputil.WriteInternalError(w, "Failed to get user")
		return
	}

	page, perPage := httputil.ParsePagination(r, h.cfg.PostsPerPage)

	posts, pagination, err := h.postService.ListByUser(r.Context(), userID, page, perPage, &viewerID)
	if err != nil {
		log.Error().Err(err).Int64("user_id", userID).Msg("failed to list user posts")
		httputil.WriteInternalError(w, "Failed to get user posts")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"user": map[string]interface{}{
			"id":       user.ID,
			"username": user.Username,
		},
		"posts":      views(posts),
		"pagination": pagination,
	})
}
