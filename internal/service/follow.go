package service

import (
	"context"

	"moodshare/internal/model"
	"moodshare/internal/repository"
)

// FollowService manages the directed follow edges between users.
type FollowService struct {
	followRepo repository.FollowRepository
	userRepo   repository.UserRepository
}

func NewFollowService(followRepo repository.FollowRepository, userRepo repository.UserRepository) *FollowService {
	return &FollowService{
		followRepo: followRepo,
		userRepo:   userRepo,
	}
}

// Follow adds the edge follower -> followed. Following someone already
// followed is a no-op. Self-follow is rejected here, at the store layer, so
// both the page and API surfaces get the same rule.
func (s *FollowService) Follow(ctx context.Context, followerID, followedID int64) error {
	if followerID == followedID {
		return model.ErrCannotFollowSelf
	}

	if _, err := s.userRepo.GetByID(ctx, followedID); err != nil {
		return err
	}

	_, err := s.followRepo.Create(ctx, followerID, followedID)
	return err
}

// Unfollow removes the edge if present; unfollowing a non-followed user is a
// no-op.
func (s *FollowService) Unfollow(ctx context.Context, followerID, followedID int64) error {
	if followerID == followedID {
		return model.ErrCannotFollowSelf
	}

	if _, err := s.userRepo.GetByID(ctx, followedID); err != nil {
		return err
	}

	_, err := s.followRepo.Delete(ctx, followerID, followedID)
	return err
}

// IsFollowing reports whether the edge follower -> followed exists.
func (s *FollowService) IsFollowing(ctx context.Context, followerID, followedID int64) (bool, error) {
	return s.followRepo.Exists(ctx, followerID, followedID)
}
