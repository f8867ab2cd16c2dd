package service

import (
	"context"

	"moodshare/internal/model"
)

// Function-field mocks so each test overrides only what it needs.

type mockUserRepo struct {
	CreateFn         func(ctx context.Context, user *model.User) error
	GetByIDFn        func(ctx context.Context, id int64) (*model.User, error)
	GetByUsernameFn  func(ctx context.Context, username string) (*model.User, error)
	GetByEmailFn     func(ctx context.Context, email string) (*model.User, error)
	UpdateProfileFn  func(ctx context.Context, id int64, username string, aboutMe *string) error
	UpdatePasswordFn func(ctx context.Context, id int64, passwordHash string) error
	TouchLastSeenFn  func(ctx context.Context, id int64) error
	SearchFn         func(ctx context.Context, query string, limit int) ([]model.User, error)
}

func (m *mockUserRepo) Create(ctx context.Context, user *model.User) error {
	return m.CreateFn(ctx, user)
}
func (m *mockUserRepo) GetByID(ctx context.Context, id int64) (*model.User, error) {
	return m.GetByIDFn(ctx, id)
}
func (m *mockUserRepo) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	return m.GetByUsernameFn(ctx, username)
}
func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return m.GetByEmailFn(ctx, email)
}
func (m *mockUserRepo) UpdateProfile(ctx context.Context, id int64, username string, aboutMe *string) error {
	return m.UpdateProfileFn(ctx, id, username, aboutMe)
}
func (m *mockUserRepo) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	return m.UpdatePasswordFn(ctx, id, passwordHash)
}
func (m *mockUserRepo) TouchLastSeen(ctx context.Context, id int64) error {
	return m.TouchLastSeenFn(ctx, id)
}
func (m *mockUserRepo) Search(ctx context.Context, query string, limit int) ([]model.User, error) {
	return m.SearchFn(ctx, query, limit)
}

type mockFollowRepo struct {
	CreateFn func(ctx context.Context, followerID, followedID int64) (bool, error)
	DeleteFn func(ctx context.Context, followerID, followedID int64) (bool, error)
	ExistsFn func(ctx context.Context, followerID, followedID int64) (bool, error)
}

func (m *mockFollowRepo) Create(ctx context.Context, followerID, followedID int64) (bool, error) {
	return m.CreateFn(ctx, followerID, followedID)
}
func (m *mockFollowRepo) Delete(ctx context.Context, followerID, followedID int64) (bool, error) {
	return m.DeleteFn(ctx, followerID, followedID)
}
func (m *mockFollowRepo) Exists(ctx context.Context, followerID, followedID int64) (bool, error) {
	return m.ExistsFn(ctx, followerID, followedID)
}

type mockPostRepo struct {
	CreateFn      func(ctx context.Context, userID int64, body string) (*model.Post, error)
	GetByIDFn     func(ctx context.Context, postID int64) (*model.Post, error)
	DeleteFn      func(ctx context.Context, postID int64) error
	ListAllFn     func(ctx context.Context, limit, offset int) ([]model.Post, error)
	CountAllFn    func(ctx context.Context) (int, error)
	ListByUserFn  func(ctx context.Context, userID int64, limit, offset int) ([]model.Post, error)
	CountByUserFn func(ctx context.Context, userID int64) (int, error)
	ListFeedFn    func(ctx context.Context, userID int64, limit, offset int) ([]model.Post, error)
	CountFeedFn   func(ctx context.Context, userID int64) (int, error)
	SearchFn      func(ctx context.Context, query string, limit, offset int) ([]model.Post, error)
	CountSearchFn func(ctx context.Context, query string) (int, error)
	LikeFn        func(ctx context.Context, postID, userID int64) (bool, error)
	UnlikeFn      func(ctx context.Context, postID, userID int64) (bool, error)
	LikeCountFn   func(ctx context.Context, postID int64) (int, error)
	IsLikedByFn   func(ctx context.Context, postID, userID int64) (bool, error)
	CheckLikesFn  func(ctx context.Context, userID int64, postIDs []int64) (map[int64]bool, error)
}

func (m *mockPostRepo) Create(ctx context.Context, userID int64, body string) (*model.Post, error) {
	return m.CreateFn(ctx, userID, body)
}
func (m *mockPostRepo) GetByID(ctx context.Context, postID int64) (*model.Post, error) {
	return m.GetByIDFn(ctx, postID)
}
func (m *mockPostRepo) Delete(ctx context.Context, postID int64) error {
	return m.DeleteFn(ctx, postID)
}
func (m *mockPostRepo) ListAll(ctx context.Context, limit, offset int) ([]model.Post, error) {
	return m.ListAllFn(ctx, limit, offset)
}
func (m *mockPostRepo) CountAll(ctx context.Context) (int, error) {
	return m.CountAllFn(ctx)
}
func (m *mockPostRepo) ListByUser(ctx context.Context, userID int64, limit, offset int) ([]model.Post, error) {
	return m.ListByUserFn(ctx, userID, limit, offset)
}
func (m *mockPostRepo) CountByUser(ctx context.Context, userID int64) (int, error) {
	return m.CountByUserFn(ctx, userID)
}
func (m *mockPostRepo) ListFeed(ctx context.Context, userID int64, limit, offset int) ([]model.Post, error) {
	return m.ListFeedFn(ctx, userID, limit, offset)
}
func (m *mockPostRepo) CountFeed(ctx context.Context, userID int64) (int, error) {
	return m.CountFeedFn(ctx, userID)
}
func (m *mockPostRepo) Search(ctx context.Context, query string, limit, offset int) ([]model.Post, error) {
	return m.SearchFn(ctx, query, limit, offset)
}
func (m *mockPostRepo) CountSearch(ctx context.Context, query string) (int, error) {
	return m.CountSearchFn(ctx, query)
}
func (m *mockPostRepo) Like(ctx context.Context, postID, userID int64) (bool, error) {
	return m.LikeFn(ctx, postID, userID)
}
func (m *mockPostRepo) Unlike(ctx context.Context, postID, userID int64) (bool, error) {
	return m.UnlikeFn(ctx, postID, userID)
}
func (m *mockPostRepo) LikeCount(ctx context.Context, postID int64) (int, error) {
	return m.LikeCountFn(ctx, postID)
}
func (m *mockPostRepo) IsLikedBy(ctx context.Context, postID, userID int64) (bool, error) {
	return m.IsLikedByFn(ctx, postID, userID)
}
func (m *mockPostRepo) CheckLikes(ctx context.Context, userID int64, postIDs []int64) (map[int64]bool, error) {
	return m.CheckLikesFn(ctx, userID, postIDs)
}
