package service

import (
	"context"

	"github.com/rs/zerolog/log"

	"moodshare/internal/model"
	"moodshare/internal/repository"
)

// FeedService composes the home feed: the union of a user's own posts and
// posts by users they follow, deduplicated by post identity and ordered by
// creation time descending. The query is lazy and restartable: every call
// re-evaluates against the current posts and follow edges, nothing is cached.
type FeedService struct {
	postRepo repository.PostRepository
}

func NewFeedService(postRepo repository.PostRepository) *FeedService {
	return &FeedService{postRepo: postRepo}
}

// FollowedPosts returns one page of the user's home feed. A user with zero
// follows still sees their own posts.
func (s *FeedService) FollowedPosts(ctx context.Context, userID int64, page, perPage int) ([]model.Post, model.Pagination, error) {
	total, err := s.postRepo.CountFeed(ctx, userID)
	if err != nil {
		return nil, model.Pagination{}, err
	}

	posts, err := s.postRepo.ListFeed(ctx, userID, perPage, model.Offset(page, perPage))
	if err != nil {
		return nil, model.Pagination{}, err
	}

	// The feed viewer is always authenticated, so like status is enriched
	// with one batch query.
	if len(posts) > 0 {
		postIDs := make([]int64, len(posts))
		for i, p := range posts {
			postIDs[i] = p.ID
		}
		likeMap, err := s.postRepo.CheckLikes(ctx, userID, postIDs)
		if err != nil {
			log.Warn().Err(err).Int64("user_id", userID).Msg("failed to batch-check feed likes")
		} else {
			for i := range posts {
				posts[i].IsLiked = likeMap[posts[i].ID]
			}
		}
	}

	return posts, model.NewPagination(page, perPage, total), nil
}
