package model

import (
	"errors"
	"time"
)

// Post is a short text update. Author fields are joined in by the repository
// so that lists render without N+1 lookups; like_count is a COUNT subquery.
type Post struct {
	ID        int64     `db:"id" json:"id"`
	UserID    int64     `db:"user_id" json:"user_id"`
	Body      string    `db:"body" json:"body"`
	CreatedAt time.Time `db:"created_at" json:"timestamp"`

	AuthorUsername string `db:"author_username" json:"-"`
	AuthorEmail    string `db:"author_email" json:"-"`
	LikeCount      int    `db:"like_count" json:"like_count"`
	IsLiked        bool   `db:"-" json:"is_liked"`
}

// PostAuthor is the embedded author stub in the API post shape.
type PostAuthor struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Avatar   string `json:"avatar"`
}

// PostView is the post shape returned by the API.
type PostView struct {
	ID        int64      `json:"id"`
	Body      string     `json:"body"`
	Timestamp time.Time  `json:"timestamp"`
	Author    PostAuthor `json:"author"`
	LikeCount int        `json:"like_count"`
	IsLiked   bool       `json:"is_liked"`
}

// View builds the API representation with a 48px author avatar.
func (p *Post) View() PostView {
	author := User{ID: p.UserID, Username: p.AuthorUsername, Email: p.AuthorEmail}
	return PostView{
		ID:        p.ID,
		Body:      p.Body,
		Timestamp: p.CreatedAt,
		Author: PostAuthor{
			ID:       p.UserID,
			Username: p.AuthorUsername,
			Avatar:   author.Avatar(48),
		},
		LikeCount: p.LikeCount,
		IsLiked:   p.IsLiked,
	}
}

// CreatePostRequest is the body of POST /api/posts.
type CreatePostRequest struct {
	Body string `json:"body"`
}

// PostListResponse is any paginated list of posts.
type PostListResponse struct {
	Posts      []PostView `json:"posts"`
	Pagination Pagination `json:"pagination"`
}

// MaxPostBodyLength caps the post body, measured after trimming whitespace.
const MaxPostBodyLength = 140

var (
	ErrPostNotFound = errors.New("post not found")
	ErrNotPostOwner = errors.New("not the owner of this post")
	ErrBodyEmpty    = errors.New("post body cannot be empty")
	ErrBodyTooLong  = errors.New("post body cannot exceed 140 characters")
)
