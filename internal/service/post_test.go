package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"moodshare/internal/model"
)

func TestPostService_Create(t *testing.T) {
	repo := &mockPostRepo{
		CreateFn: func(_ context.Context, userID int64, body string) (*model.Post, error) {
			return &model.Post{ID: 1, UserID: userID, Body: body}, nil
		},
	}
	svc := NewPostService(repo)

	t.Run("body is trimmed then stored", func(t *testing.T) {
		post, err := svc.Create(context.Background(), 1, "  hello world  ")
		require.NoError(t, err)
		assert.Equal(t, "hello world", post.Body)
	})

	t.Run("empty body rejected", func(t *testing.T) {
		_, err := svc.Create(context.Background(), 1, "   ")
		assert.ErrorIs(t, err, model.ErrBodyEmpty)
	})

	t.Run("exactly 140 runes accepted", func(t *testing.T) {
		body := strings.Repeat("é", model.MaxPostBodyLength)
		_, err := svc.Create(context.Background(), 1, body)
		assert.NoError(t, err)
	})

	t.Run("141 runes rejected, never truncated", func(t *testing.T) {
		body := strings.Repeat("é", model.MaxPostBodyLength+1)
		_, err := svc.Create(context.Background(), 1, body)
		assert.ErrorIs(t, err, model.ErrBodyTooLong)
	})
}

func TestPostService_Delete(t *testing.T) {
	post := &model.Post{ID: 7, UserID: 1}

	t.Run("author can delete", func(t *testing.T) {
		deleted := false
		repo := &mockPostRepo{
			GetByIDFn: func(_ context.Context, _ int64) (*model.Post, error) { return post, nil },
			DeleteFn:  func(_ context.Context, _ int64) error { deleted = true; return nil },
		}
		svc := NewPostService(repo)

		require.NoError(t, svc.Delete(context.Background(), 7, 1))
		assert.True(t, deleted)
	})

	t.Run("non-author gets ErrNotPostOwner", func(t *testing.T) {
		repo := &mockPostRepo{
			GetByIDFn: func(_ context.Context, _ int64) (*model.Post, error) { return post, nil },
		}
		svc := NewPostService(repo)

		err := svc.Delete(context.Background(), 7, 2)
		assert.ErrorIs(t, err, model.ErrNotPostOwner)
	})

	t.Run("missing post gets ErrPostNotFound", func(t *testing.T) {
		repo := &mockPostRepo{
			GetByIDFn: func(_ context.Context, _ int64) (*model.Post, error) {
				return nil, model.ErrPostNotFound
			},
		}
		svc := NewPostService(repo)

		err := svc.Delete(context.Background(), 99, 1)
		assert.ErrorIs(t, err, model.ErrPostNotFound)
	})
}

func TestPostService_Like(t *testing.T) {
	t.Run("repeat like is a no-op that reports the current count", func(t *testing.T) {
		liked := map[int64]bool{}
		count := 0
		repo := &mockPostRepo{
			GetByIDFn: func(_ context.Context, postID int64) (*model.Post, error) {
				return &model.Post{ID: postID}, nil
			},
			LikeFn: func(_ context.Context, postID, userID int64) (bool, error) {
				if liked[userID] {
					return false, nil
				}
				liked[userID] = true
				count++
				return true, nil
			},
			LikeCountFn: func(_ context.Context, _ int64) (int, error) { return count, nil },
		}
		svc := NewPostService(repo)

		n, err := svc.Like(context.Background(), 1, 42)
		require.NoError(t, err)
		assert.Equal(t, 1, n)

		n, err = svc.Like(context.Background(), 1, 42)
		require.NoError(t, err)
		assert.Equal(t, 1, n)
	})

	t.Run("like of missing post fails", func(t *testing.T) {
		repo := &mockPostRepo{
			GetByIDFn: func(_ context.Context, _ int64) (*model.Post, error) {
				return nil, model.ErrPostNotFound
			},
		}
		svc := NewPostService(repo)

		_, err := svc.Like(context.Background(), 99, 42)
		assert.ErrorIs(t, err, model.ErrPostNotFound)
	})
}

func TestPostService_Unlike(t *testing.T) {
	t.Run("unlike without prior like is a no-op", func(t *testing.T) {
		repo := &mockPostRepo{
			GetByIDFn: func(_ context.Context, postID int64) (*model.Post, error) {
				return &model.Post{ID: postID}, nil
			},
			UnlikeFn:    func(_ context.Context, _, _ int64) (bool, error) { return false, nil },
			LikeCountFn: func(_ context.Context, _ int64) (int, error) { return 3, nil },
		}
		svc := NewPostService(repo)

		n, err := svc.Unlike(context.Background(), 1, 42)
		require.NoError(t, err)
		assert.Equal(t, 3, n)
	})
}

func TestPostService_ListAll(t *testing.T) {
	t.Run("page past the end yields empty slice, not error", func(t *testing.T) {
		repo := &mockPostRepo{
			CountAllFn: func(_ context.Context) (int, error) { return 5, nil },
			ListAllFn: func(_ context.Context, _, offset int) ([]model.Post, error) {
				assert.Equal(t, 180, offset)
				return []model.Post{}, nil
			},
		}
		svc := NewPostService(repo)

		posts, pagination, err := svc.ListAll(context.Background(), 10, 20, nil)
		require.NoError(t, err)
		assert.Empty(t, posts)
		assert.False(t, pagination.HasNext)
		assert.Equal(t, 5, pagination.TotalItems)
	})

	t.Run("viewer like status enriched with one batch call", func(t *testing.T) {
		batchCalls := 0
		repo := &mockPostRepo{
			CountAllFn: func(_ context.Context) (int, error) { return 2, nil },
			ListAllFn: func(_ context.Context, _, _ int) ([]model.Post, error) {
				return []model.Post{{ID: 1}, {ID: 2}}, nil
			},
			CheckLikesFn: func(_ context.Context, _ int64, postIDs []int64) (map[int64]bool, error) {
				batchCalls++
				assert.ElementsMatch(t, []int64{1, 2}, postIDs)
				return map[int64]bool{2: true}, nil
			},
		}
		svc := NewPostService(repo)

		viewer := int64(42)
		posts, _, err := svc.ListAll(context.Background(), 1, 20, &viewer)
		require.NoError(t, err)
		require.Len(t, posts, 2)
		assert.False(t, posts[0].IsLiked)
		assert.True(t, posts[1].IsLiked)
		assert.Equal(t, 1, batchCalls)
	})
}

func TestPostService_Search(t *testing.T) {
	t.Run("empty query yields empty page", func(t *testing.T) {
		svc := NewPostService(&mockPostRepo{})

		posts, pagination, err := svc.Search(context.Background(), "  ", 1, 20, nil)
		require.NoError(t, err)
		assert.Empty(t, posts)
		assert.Equal(t, 0, pagination.TotalItems)
	})
}
