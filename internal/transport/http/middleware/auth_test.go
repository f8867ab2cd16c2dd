package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"moodshare/internal/config"
	"moodshare/internal/model"
	"moodshare/internal/repository"
	"moodshare/internal/service"
)

// stubUserRepo embeds the interface so each test overrides only the methods
// the middleware actually hits.
type stubUserRepo struct {
	repository.UserRepository
	user *model.User
}

func (s *stubUserRepo) GetByID(_ context.Context, id int64) (*model.User, error) {
	if s.user == nil || s.user.ID != id {
		return nil, model.ErrUserNotFound
	}
	return s.user, nil
}

func (s *stubUserRepo) TouchLastSeen(_ context.Context, _ int64) error { return nil }

func authTestServices(user *model.User) (*service.TokenService, *service.UserService) {
	tokens := service.NewTokenService(&config.Config{
		JWTSecret:         "test-secret",
		AccessTokenMaxAge: 3600,
		ResetTokenMaxAge:  600,
	})
	users := service.NewUserService(&stubUserRepo{user: user})
	return tokens, users
}

func runAuthMiddleware(t *testing.T, tokens *service.TokenService, users *service.UserService, authHeader string) (*httptest.ResponseRecorder, bool, int64) {
	t.Helper()

	var (
		reached bool
		gotID   int64
	)
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reached = true
		gotID, _ = GetUserIDFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/feed", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()

	AuthMiddleware(tokens, users)(next).ServeHTTP(rec, req)
	return rec, reached, gotID
}

func errorBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]string {
	t.Helper()

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestAuthMiddleware(t *testing.T) {
	user := &model.User{ID: 42, Username: "susan", Email: "susan@example.com"}

	t.Run("valid token reaches handler with user id in context", func(t *testing.T) {
		tokens, users := authTestServices(user)
		token, err := tokens.IssueAccessToken(42)
		require.NoError(t, err)

		rec, reached, gotID := runAuthMiddleware(t, tokens, users, "Bearer "+token)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.True(t, reached)
		assert.Equal(t, int64(42), gotID)
	})

	t.Run("missing header yields 401 Missing token", func(t *testing.T) {
		tokens, users := authTestServices(user)

		rec, reached, _ := runAuthMiddleware(t, tokens, users, "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.False(t, reached)
		assert.Equal(t, "Missing token", errorBody(t, rec)["error"])
	})

	t.Run("expired token yields 401 Token expired", func(t *testing.T) {
		tokens, users := authTestServices(user)
		expired := service.NewTokenService(&config.Config{
			JWTSecret:         "test-secret",
			AccessTokenMaxAge: -1,
			ResetTokenMaxAge:  600,
		})
		token, err := expired.IssueAccessToken(42)
		require.NoError(t, err)

		rec, reached, _ := runAuthMiddleware(t, tokens, users, "Bearer "+token)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.False(t, reached)
		assert.Equal(t, "Token expired", errorBody(t, rec)["error"])
	})

	t.Run("garbage token yields 401 Invalid token", func(t *testing.T) {
		tokens, users := authTestServices(user)

		rec, reached, _ := runAuthMiddleware(t, tokens, users, "Bearer not.a.token")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.False(t, reached)
		assert.Equal(t, "Invalid token", errorBody(t, rec)["error"])
	})

	t.Run("token for deleted user yields 401", func(t *testing.T) {
		tokens, users := authTestServices(nil)
		token, err := tokens.IssueAccessToken(42)
		require.NoError(t, err)

		rec, reached, _ := runAuthMiddleware(t, tokens, users, "Bearer "+token)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.False(t, reached)
	})
}
