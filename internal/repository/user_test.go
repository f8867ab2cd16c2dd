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

func userRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "username", "email", "password_hash", "about_me", "last_seen", "created_at",
		"post_count", "follower_count", "following_count",
	})
}

func TestUserRepository_GetByID(t *testing.T) {
	t.Run("returns user with derived counts", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewUserRepository(db)

		now := time.Now()
		mock.ExpectQuery("(?s)SELECT .* FROM users u WHERE u.id").
			WithArgs(int64(1)).
			WillReturnRows(userRows().AddRow(
				int64(1), "susan", "susan@example.com", "hash", nil, nil, now, 3, 2, 5,
			))

		user, err := repo.GetByID(context.Background(), 1)
		require.NoError(t, err)
		assert.Equal(t, "susan", user.Username)
		assert.Equal(t, 3, user.PostCount)
		assert.Equal(t, 2, user.FollowerCount)
		assert.Equal(t, 5, user.FollowingCount)
	})

	t.Run("missing user maps to sentinel", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewUserRepository(db)

		mock.ExpectQuery("(?s)SELECT .* FROM users u WHERE u.id").
			WithArgs(int64(99)).
			WillReturnRows(userRows())

		_, err := repo.GetByID(context.Background(), 99)
		assert.ErrorIs(t, err, model.ErrUserNotFound)
	})
}

func TestUserRepository_Create(t *testing.T) {
	t.Run("duplicate username maps to sentinel", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewUserRepository(db)

		mock.ExpectQuery("INSERT INTO users").
			WillReturnError(&pq.Error{Code: "23505", Constraint: "users_username_key"})

		err := repo.Create(context.Background(), &model.User{
			Username: "susan", Email: "susan@example.com", PasswordHash: "hash",
		})
		assert.ErrorIs(t, err, model.ErrUsernameExists)
	})

	t.Run("duplicate email maps to sentinel", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewUserRepository(db)

		mock.ExpectQuery("INSERT INTO users").
			WillReturnError(&pq.Error{Code: "23505", Constraint: "users_email_key"})

		err := repo.Create(context.Background(), &model.User{
			Username: "susan2", Email: "susan@example.com", PasswordHash: "hash",
		})
		assert.ErrorIs(t, err, model.ErrEmailExists)
	})
}

func TestUserRepository_Search(t *testing.T) {
	t.Run("wildcards in the query are escaped", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewUserRepository(db)

		mock.ExpectQuery("(?s)SELECT .* FROM users u").
			WithArgs(`%su\%san%`, 10).
			WillReturnRows(userRows())

		_, err := repo.Search(context.Background(), "su%san", 10)
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
