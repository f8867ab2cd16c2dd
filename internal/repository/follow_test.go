package repository

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return sqlx.NewDb(db, "sqlmock"), mock
}

func TestFollowRepository_Create(t *testing.T) {
	t.Run("new edge inserts one row", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewFollowRepository(db)

		mock.ExpectExec("INSERT INTO follows").
			WithArgs(int64(1), int64(2)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		inserted, err := repo.Create(context.Background(), 1, 2)
		require.NoError(t, err)
		assert.True(t, inserted)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("duplicate edge is swallowed by ON CONFLICT", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewFollowRepository(db)

		mock.ExpectExec("INSERT INTO follows").
			WithArgs(int64(1), int64(2)).
			WillReturnResult(sqlmock.NewResult(0, 0))

		inserted, err := repo.Create(context.Background(), 1, 2)
		require.NoError(t, err)
		assert.False(t, inserted)
	})
}

func TestFollowRepository_Delete(t *testing.T) {
	t.Run("missing edge deletes zero rows without error", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewFollowRepository(db)

		mock.ExpectExec("DELETE FROM follows").
			WithArgs(int64(1), int64(2)).
			WillReturnResult(sqlmock.NewResult(0, 0))

		removed, err := repo.Delete(context.Background(), 1, 2)
		require.NoError(t, err)
		assert.False(t, removed)
	})
}
