package service

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog/log"

	"moodshare/internal/model"
	"moodshare/internal/repository"
)

// PostService handles post creation, deletion, likes, and the paginated post
// listings that back the explore, profile, and search views.
type PostService struct {
	postRepo repository.PostRepository
}

func NewPostService(postRepo repository.PostRepository) *PostService {
	return &PostService{postRepo: postRepo}
}

// Create validates and stores a new post. The body is trimmed of surrounding
// whitespace before the length check; empty or over-long bodies are rejected,
// never truncated.
func (s *PostService) Create(ctx context.Context, userID int64, body string) (*model.Post, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, model.ErrBodyEmpty
	}
	if utf8.RuneCountInString(body) > model.MaxPostBodyLength {
		return nil, model.ErrBodyTooLong
	}

	return s.postRepo.Create(ctx, userID, body)
}

// GetByID retrieves a single post, with like status for the viewer if any.
func (s *PostService) GetByID(ctx context.Context, postID int64, viewerID *int64) (*model.Post, error) {
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}

	if viewerID != nil {
		liked, err := s.postRepo.IsLikedBy(ctx, postID, *viewerID)
		if err != nil {
			log.Warn().Err(err).Int64("post_id", postID).Msg("failed to check like status")
		} else {
			post.IsLiked = liked
		}
	}

	return post, nil
}

// Delete removes a post and, via cascade, all its like edges. Only the author
// may delete; anyone else gets ErrNotPostOwner.
func (s *PostService) Delete(ctx context.Context, postID, userID int64) error {
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return err
	}
	if post.UserID != userID {
		return model.ErrNotPostOwner
	}

	return s.postRepo.Delete(ctx, postID)
}

// Like records the user's like and returns the fresh like count. Liking an
// already-liked post is a no-op that still reports the current count.
func (s *PostService) Like(ctx context.Context, postID, userID int64) (int, error) {
	if _, err := s.postRepo.GetByID(ctx, postID); err != nil {
		return 0, err
	}

	if _, err := s.postRepo.Like(ctx, postID, userID); err != nil {
		return 0, err
	}

	return s.postRepo.LikeCount(ctx, postID)
}

// Unlike removes the user's like and returns the fresh like count. Unliking a
// never-liked post is a no-op.
func (s *PostService) Unlike(ctx context.Context, postID, userID int64) (int, error) {
	if _, err := s.postRepo.GetByID(ctx, postID); err != nil {
		return 0, err
	}

	if _, err := s.postRepo.Unlike(ctx, postID, userID); err != nil {
		return 0, err
	}

	return s.postRepo.LikeCount(ctx, postID)
}

// ListAll is the explore view: every post, newest first.
func (s *PostService) ListAll(ctx context.Context, page, perPage int, viewerID *int64) ([]model.Post, model.Pagination, error) {
	total, err := s.postRepo.CountAll(ctx)
	if err != nil {
		return nil, model.Pagination{}, err
	}

	posts, err := s.postRepo.ListAll(ctx, perPage, model.Offset(page, perPage))
	if err != nil {
		return nil, model.Pagination{}, err
	}

	return s.enrich(ctx, posts, viewerID), model.NewPagination(page, perPage, total), nil
}

// ListByUser returns one user's posts, newest first.
func (s *PostService) ListByUser(ctx context.Context, userID int64, page, perPage int, viewerID *int64) ([]model.Post, model.Pagination, error) {
	total, err := s.postRepo.CountByUser(ctx, userID)
	if err != nil {
		return nil, model.Pagination{}, err
	}

	posts, err := s.postRepo.ListByUser(ctx, userID, perPage, model.Offset(page, perPage))
	if err != nil {
		return nil, model.Pagination{}, err
	}

	return s.enrich(ctx, posts, viewerID), model.NewPagination(page, perPage, total), nil
}

// Search returns posts whose body contains the query as a case-insensitive
// substring, newest first. An empty query yields an empty result set.
func (s *PostService) Search(ctx context.Context, query string, page, perPage int, viewerID *int64) ([]model.Post, model.Pagination, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []model.Post{}, model.NewPagination(page, perPage, 0), nil
	}

	total, err := s.postRepo.CountSearch(ctx, query)
	if err != nil {
		return nil, model.Pagination{}, err
	}

	posts, err := s.postRepo.Search(ctx, query, perPage, model.Offset(page, perPage))
	if err != nil {
		return nil, model.Pagination{}, err
	}

	return s.enrich(ctx, posts, viewerID), model.NewPagination(page, perPage, total), nil
}

// enrich performs a batch like check (not N+1) for the viewer over a page of
// posts. If the check fails the posts render with is_liked=false rather than
// failing the request.
func (s *PostService) enrich(ctx context.Context, posts []model.Post, viewerID *int64) []model.Post {
	if viewerID == nil || len(posts) == 0 {
		return posts
	}

	postIDs := make([]int64, len(posts))
	for i, p := range posts {
		postIDs[i] = p.ID
	}

	likeMap, err := s.postRepo.CheckLikes(ctx, *viewerID, postIDs)
	if err != nil {
		log.Warn().Err(err).Msg("failed to batch-check likes")
		return posts
	}

	for i := range posts {
		posts[i].IsLiked = likeMap[posts[i].ID]
	}
	return posts
}
