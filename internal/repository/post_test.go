package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"moodshare/internal/model"
)

func postRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "user_id", "body", "created_at",
		"author_username", "author_email", "like_count",
	})
}

func TestPostRepository_GetByID(t *testing.T) {
	t.Run("missing post maps to sentinel", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewPostRepository(db)

		mock.ExpectQuery("(?s)SELECT .* FROM posts p").
			WithArgs(int64(99)).
			WillReturnRows(postRows())

		_, err := repo.GetByID(context.Background(), 99)
		assert.ErrorIs(t, err, model.ErrPostNotFound)
	})
}

func TestPostRepository_Like(t *testing.T) {
	t.Run("duplicate like is swallowed by ON CONFLICT", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewPostRepository(db)

		mock.ExpectExec("INSERT INTO likes").
			WithArgs(int64(42), int64(1)).
			WillReturnResult(sqlmock.NewResult(0, 0))

		inserted, err := repo.Like(context.Background(), 1, 42)
		require.NoError(t, err)
		assert.False(t, inserted)
	})
}

func TestPostRepository_ListFeed(t *testing.T) {
	t.Run("feed selects own posts and followed users' posts", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewPostRepository(db)

		now := time.Now()
		mock.ExpectQuery(`(?s)SELECT .* FROM posts p.*followed_id FROM follows`).
			WithArgs(int64(1), 20, 0).
			WillReturnRows(postRows().
				AddRow(int64(2), int64(1), "mine", now, "susan", "susan@example.com", 0).
				AddRow(int64(1), int64(2), "theirs", now.Add(-time.Hour), "john", "john@example.com", 1))

		posts, err := repo.ListFeed(context.Background(), 1, 20, 0)
		require.NoError(t, err)
		require.Len(t, posts, 2)
		assert.Equal(t, "susan", posts[0].AuthorUsername)
		assert.Equal(t, 1, posts[1].LikeCount)
	})
}

func TestPostRepository_CheckLikes(t *testing.T) {
	t.Run("single batch query covers all post ids", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewPostRepository(db)

		mock.ExpectQuery("SELECT post_id FROM likes").
			WithArgs(int64(42), pq.Array([]int64{1, 2, 3})).
			WillReturnRows(sqlmock.NewRows([]string{"post_id"}).AddRow(int64(2)))

		liked, err := repo.CheckLikes(context.Background(), 42, []int64{1, 2, 3})
		require.NoError(t, err)
		assert.False(t, liked[1])
		assert.True(t, liked[2])
		assert.False(t, liked[3])
	})

	t.Run("no ids short-circuits without a query", func(t *testing.T) {
		db, _ := newMockDB(t)
		repo := NewPostRepository(db)

		liked, err := repo.CheckLikes(context.Background(), 42, nil)
		require.NoError(t, err)
		assert.Empty(t, liked)
	})
}
