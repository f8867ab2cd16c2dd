package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"moodshare/internal/config"
	"moodshare/internal/model"
	"moodshare/internal/repository"
	"moodshare/internal/service"
	"moodshare/internal/transport/http/middleware"
)

// stubUserRepo embeds the interface so tests implement only what the handler
// path touches.
type stubUserRepo struct {
	repository.UserRepository
	user *model.User
}

func (s *stubUserRepo) GetByUsername(_ context.Context, username string) (*model.User, error) {
	if s.user == nil || s.user.Username != username {
		return nil, model.ErrUserNotFound
	}
	return s.user, nil
}

func (s *stubUserRepo) GetByID(_ context.Context, id int64) (*model.User, error) {
	if s.user == nil || s.user.ID != id {
		return nil, model.ErrUserNotFound
	}
	return s.user, nil
}

func newAuthHandler(user *model.User) *AuthHandler {
	users := service.NewUserService(&stubUserRepo{user: user})
	tokens := service.NewTokenService(&config.Config{
		JWTSecret:         "test-secret",
		AccessTokenMaxAge: 86400,
		ResetTokenMaxAge:  600,
	})
	return NewAuthHandler(users, tokens)
}

func TestAuthHandler_Login(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("secret"), bcrypt.MinCost)
	require.NoError(t, err)

	user := &model.User{
		ID:           1,
		Username:     "susan",
		Email:        "susan@example.com",
		PasswordHash: string(hash),
	}

	post := func(h *AuthHandler, body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(body))
		rec := httptest.NewRecorder()
		h.Login(rec, req)
		return rec
	}

	t.Run("valid credentials return token and profile", func(t *testing.T) {
		rec := post(newAuthHandler(user), `{"username":"susan","password":"secret"}`)
		require.Equal(t, http.StatusOK, rec.Code)

		var resp model.LoginResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.NotEmpty(t, resp.Token)
		assert.Equal(t, 86400, resp.ExpiresIn)
		assert.Equal(t, "susan", resp.User.Username)
		assert.Contains(t, resp.User.Avatar, "gravatar.com/avatar/")
	})

	t.Run("missing body yields 400", func(t *testing.T) {
		rec := post(newAuthHandler(user), "")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("missing fields yields 400", func(t *testing.T) {
		rec := post(newAuthHandler(user), `{"username":"susan"}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("wrong password yields 401", func(t *testing.T) {
		rec := post(newAuthHandler(user), `{"username":"susan","password":"wrong"}`)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("unknown username yields the same 401", func(t *testing.T) {
		rec := post(newAuthHandler(user), `{"username":"nobody","password":"secret"}`)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)

		var body map[string]string
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "Invalid username or password", body["error"])
	})
}

func TestAuthHandler_Me(t *testing.T) {
	user := &model.User{ID: 1, Username: "susan", Email: "susan@example.com"}
	h := newAuthHandler(user)

	t.Run("returns the authenticated user's profile", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
		req = req.WithContext(context.WithValue(req.Context(), middleware.UserIDKey, int64(1)))
		rec := httptest.NewRecorder()

		h.Me(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)

		var resp struct {
			User model.Profile `json:"user"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, int64(1), resp.User.ID)
	})

	t.Run("without context user yields 401", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
		rec := httptest.NewRecorder()

		h.Me(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}
