package model

import (
	"crypto/md5"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"
)

// User represents a registered account.
// The three count fields are derived by the repository with COUNT subqueries;
// they are never stored.
type User struct {
	ID           int64      `db:"id" json:"id"`
	Username     string     `db:"username" json:"username"`
	Email        string     `db:"email" json:"email"`
	PasswordHash string     `db:"password_hash" json:"-"`
	AboutMe      *string    `db:"about_me" json:"about_me"`
	LastSeen     *time.Time `db:"last_seen" json:"last_seen"`
	CreatedAt    time.Time  `db:"created_at" json:"-"`

	PostCount      int `db:"post_count" json:"post_count"`
	FollowerCount  int `db:"follower_count" json:"follower_count"`
	FollowingCount int `db:"following_count" json:"following_count"`
}

// Avatar returns the deterministic Gravatar URL for the user's email at the
// requested pixel size.
func (u *User) Avatar(size int) string {
	digest := md5.Sum([]byte(strings.ToLower(u.Email)))
	return fmt.Sprintf("https://www.gravatar.com/avatar/%s?d=identicon&s=%d",
		hex.EncodeToString(digest[:]), size)
}

// Profile is the user shape returned by the API.
type Profile struct {
	ID             int64      `json:"id"`
	Username       string     `json:"username"`
	Email          string     `json:"email"`
	AboutMe        *string    `json:"about_me"`
	LastSeen       *time.Time `json:"last_seen"`
	Avatar         string     `json:"avatar"`
	PostCount      int        `json:"post_count"`
	FollowerCount  int        `json:"follower_count"`
	FollowingCount int        `json:"following_count"`
}

// Profile builds the API representation with a 128px avatar.
func (u *User) Profile() Profile {
	return Profile{
		ID:             u.ID,
		Username:       u.Username,
		Email:          u.Email,
		AboutMe:        u.AboutMe,
		LastSeen:       u.LastSeen,
		Avatar:         u.Avatar(128),
		PostCount:      u.PostCount,
		FollowerCount:  u.FollowerCount,
		FollowingCount: u.FollowingCount,
	}
}

// LoginRequest is the body of POST /api/auth/login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse is returned after a successful API login.
type LoginResponse struct {
	Token     string  `json:"token"`
	ExpiresIn int     `json:"expires_in"`
	User      Profile `json:"user"`
}

const (
	// MaxAboutMeLength caps the biography field.
	MaxAboutMeLength = 140

	// UserSearchLimit caps the user results of a search query.
	UserSearchLimit = 10
)

var (
	// ErrUserNotFound is returned when a user cannot be found
	ErrUserNotFound = errors.New("user not found")

	// ErrUsernameExists is returned when the username is already taken
	ErrUsernameExists = errors.New("username already exists")

	// ErrEmailExists is returned when the email is already registered
	ErrEmailExists = errors.New("email already exists")

	// ErrInvalidCredentials is returned when login credentials are incorrect.
	// Deliberately uniform: callers cannot tell a bad username from a bad password.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrAboutMeTooLong is returned when the biography exceeds MaxAboutMeLength
	ErrAboutMeTooLong = errors.New("about_me too long")
)
