package handler

import (
	"net/http"

	"github.com/rs/zerolog/log"

	"moodshare/internal/config"
	"moodshare/internal/httputil"
	"moodshare/internal/model"
	"moodshare/internal/service"
	"moodshare/internal/transport/http/middleware"
)

// FeedHandler serves the authenticated user's home feed.
type FeedHandler struct {
	feedService *service.FeedService
	cfg         *config.Config
}

func NewFeedHandler(feedService *service.FeedService, cfg *config.Config) *FeedHandler {
	return &FeedHandler{
		feedService: feedService,
		cfg:         cfg,
	}
}

// GetFeed handles GET /api/feed: own posts plus followed users' posts,
// newest first, paginated.
func (h *FeedHandler) GetFeed(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Not authenticated")
		return
	}

	page, perPage := httputil.ParsePagination(r, h.cfg.PostsPerPage)

	posts, pagination, err := h.feedService.FollowedPosts(r.Context(), userID, page, perPage)
	if err != nil {
		log.Error().Err(err).Int64("user_id", userID).Msg("failed to get feed")
		httputil.WriteInternalError(w, "Failed to get feed")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, model.PostListResponse{
		Posts:      views(posts),
		Pagination: pagination,
	})
}
