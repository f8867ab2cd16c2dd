package repository

import (
	"context"

	"moodshare/internal/model"
)

type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id int64) (*model.User, error)
	GetByUsername(ctx context.Context, username string) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	UpdateProfile(ctx context.Context, id int64, username string, aboutMe *string) error
	UpdatePassword(ctx context.Context, id int64, passwordHash string) error
	TouchLastSeen(ctx context.Context, id int64) error
	Search(ctx context.Context, query string, limit int) ([]model.User, error)
}

type FollowRepository interface {
	// Create adds the edge if absent. Returns true when a row was inserted.
	Create(ctx context.Context, followerID, followedID int64) (bool, error)
	// Delete removes the edge if present. Returns true when a row was removed.
	Delete(ctx context.Context, followerID, followedID int64) (bool, error)
	Exists(ctx context.Context, followerID, followedID int64) (bool, error)
}

type PostRepository interface {
	Create(ctx context.Context, userID int64, body string) (*model.Post, error)
	GetByID(ctx context.Context, postID int64) (*model.Post, error)
	Delete(ctx context.Context, postID int64) error

	// ListAll is the explore view: every post, newest first.
	ListAll(ctx context.Context, limit, offset int) ([]model.Post, error)
	CountAll(ctx context.Context) (int, error)

	ListByUser(ctx context.Context, userID int64, limit, offset int) ([]model.Post, error)
	CountByUser(ctx context.Context, userID int64) (int, error)

	// ListFeed returns the union of the user's own posts and posts by users
	// they follow, newest first. Evaluated fresh on every call.
	ListFeed(ctx context.Context, userID int64, limit, offset int) ([]model.Post, error)
	CountFeed(ctx context.Context, userID int64) (int, error)

	Search(ctx context.Context, query string, limit, offset int) ([]model.Post, error)
	CountSearch(ctx context.Context, query string) (int, error)

	// Like adds the edge if absent. Returns true when a row was inserted.
	Like(ctx context.Context, postID, userID int64) (bool, error)
	// Unlike removes the edge if present. Returns true when a row was removed.
	Unlike(ctx context.Context, postID, userID int64) (bool, error)
	LikeCount(ctx context.Context, postID int64) (int, error)
	IsLikedBy(ctx context.Context, postID, userID int64) (bool, error)
	// CheckLikes batch-checks which of the given posts the user has liked.
	CheckLikes(ctx context.Context, userID int64, postIDs []int64) (map[int64]bool, error)
}
