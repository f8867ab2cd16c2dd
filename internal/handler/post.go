package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"moodshare/internal/config"
	"moodshare/internal/httputil"
	"moodshare/internal/model"
	"moodshare/internal/service"
	"moodshare/internal/transport/http/middleware"
)

// PostHandler groups the API post endpoints: listing, creation, deletion,
// and the like/unlike edges.
type PostHandler struct {
	postService *service.PostService
	cfg         *config.Config
}

func NewPostHandler(postService *service.PostService, cfg *config.Config) *PostHandler {
	return &PostHandler{
		postService: postService,
		cfg:         cfg,
	}
}

// List handles GET /api/posts: every post, newest first, paginated.
func (h *PostHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Not authenticated")
		return
	}

	page, perPage := httputil.ParsePagination(r, h.cfg.PostsPerPage)

	posts, pagination, err := h.postService.ListAll(r.Context(), page, perPage, &userID)
	if err != nil {
		log.Error().Err(err).Msg("failed to list posts")
		httputil.WriteInternalError(w, "Failed to get posts")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, model.PostListResponse{
		Posts:      views(posts),
		Pagination: pagination,
	})
}

// Create handles POST /api/posts.
func (h *PostHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Not authenticated")
		return
	}

	var req model.CreatePostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteBadRequest(w, "Post body is required")
		return
	}

	post, err := h.postService.Create(r.Context(), userID, req.Body)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrBodyEmpty):
			httputil.WriteBadRequest(w, "Post body cannot be empty")
		case errors.Is(err, model.ErrBodyTooLong):
			httputil.WriteBadRequest(w, "Post body cannot exceed 140 characters")
		default:
			log.Error().Err(err).Int64("user_id", userID).Msg("failed to create post")
			httputil.WriteInternalError(w, "Failed to create post")
		}
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, map[string]interface{}{
		"message": "Post created successfully",
		"post":    post.View(),
	})
}

// GetByID handles GET /api/posts/{id}.
func (h *PostHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Not authenticated")
		return
	}

	postID, err := parseID(r)
	if err != nil {
		httputil.WriteBadRequest(w, "Invalid post ID")
		return
	}

	post, err := h.postService.GetByID(r.Context(), postID, &userID)
	if err != nil {
		if errors.Is(err, model.ErrPostNotFound) {
			httputil.WriteNotFound(w, "Post not found")
			return
		}
		log.Error().Err(err).Int64("post_id", postID).Msg("failed to get post")
		httputil.WriteInternalError(w, "Failed to get post")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"post": post.View(),
	})
}

// Delete handles DELETE /api/posts/{id}. Only the author may delete.
func (h *PostHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Not authenticated")
		return
	}

	postID, err := parseID(r)
	if err != nil {
		httputil.WriteBadRequest(w, "Invalid post ID")
		return
	}

	if err := h.postService.Delete(r.Context(), postID, userID); err != nil {
		switch {
		case errors.Is(err, model.ErrPostNotFound):
			httputil.WriteNotFound(w, "Post not found")
		case errors.Is(err, model.ErrNotPostOwner):
			httputil.WriteForbidden(w, "You can only delete your own posts")
		default:
			log.Error().Err(err).Int64("post_id", postID).Msg("failed to delete post")
			httputil.WriteInternalError(w, "Failed to delete post")
		}
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]string{
		"message": "Post deleted successfully",
	})
}

// Like handles POST /api/posts/{id}/like. Idempotent: a repeat like still
// answers 200 with the current count.
func (h *PostHandler) Like(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Not authenticated")
		return
	}

	postID, err := parseID(r)
	if err != nil {
		httputil.WriteBadRequest(w, "Invalid post ID")
		return
	}

	likeCount, err := h.postService.Like(r.Context(), postID, userID)
	if err != nil {
		if errors.Is(err, model.ErrPostNotFound) {
			httputil.WriteNotFound(w, "Post not found")
			return
		}
		log.Error().Err(err).Int64("post_id", postID).Msg("failed to like post")
		httputil.WriteInternalError(w, "Failed to like post")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"message":    "Post liked",
		"like_count": likeCount,
	})
}

// Unlike handles DELETE /api/posts/{id}/like. Idempotent like Like.
func (h *PostHandler) Unlike(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Not authenticated")
		return
	}

	postID, err := parseID(r)
	if err != nil {
		httputil.WriteBadRequest(w, "Invalid post ID")
		return
	}

	likeCount, err := h.postService.Unlike(r.Context(), postID, userID)
	if err != nil {
		if errors.Is(err, model.ErrPostNotFound) {
			httputil.WriteNotFound(w, "Post not found")
			return
		}
		log.Error().Err(err).Int64("post_id", postID).Msg("failed to unlike post")
		httputil.WriteInternalError(w, "Failed to unlike post")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"message":    "Post unliked",
		"like_count": likeCount,
	})
}

func parseID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}

func views(posts []model.Post) []model.PostView {
	out := make([]model.PostView, len(posts))
	for i := range posts {
		out[i] = posts[i].View()
	}
	return out
}
