package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"moodshare/internal/model"
)

// postColumns selects a post row with its author joined in and the like count
// computed. Lists stay a single round-trip this way.
const postColumns = `
	p.id, p.user_id, p.body, p.created_at,
	u.username AS author_username, u.email AS author_email,
	(SELECT COUNT(*) FROM likes l WHERE l.post_id = p.id) AS like_count
`

type postRepository struct {
	db *sqlx.DB
}

func NewPostRepository(db *sqlx.DB) PostRepository {
	return &postRepository{db: db}
}

// Create inserts a new post and returns it with the author fields populated.
func (r *postRepository) Create(ctx context.Context, userID int64, body string) (*model.Post, error) {
	query := `
		WITH inserted AS (
			INSERT INTO posts (user_id, body)
			VALUES ($1, $2)
			RETURNING id, user_id, body, created_at
		)
		SELECT i.id, i.user_id, i.body, i.created_at,
		       u.username AS author_username, u.email AS author_email,
		       0 AS like_count
		FROM inserted i
		JOIN users u ON u.id = i.user_id
	`
	var post model.Post
	err := r.db.GetContext(ctx, &post, query, userID, body)
	if err != nil {
		return nil, fmt.Errorf("insert post: %w", err)
	}

	return &post, nil
}

func (r *postRepository) GetByID(ctx context.Context, postID int64) (*model.Post, error) {
	query := `SELECT ` + postColumns + `
		FROM posts p
		JOIN users u ON u.id = p.user_id
		WHERE p.id = $1
	`
	var post model.Post
	err := r.db.GetContext(ctx, &post, query, postID)
	if err == sql.ErrNoRows {
		return nil, model.ErrPostNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get post: %w", err)
	}

	return &post, nil
}

// Delete removes the post. Its like edges go with it via ON DELETE CASCADE,
// so the whole removal is one atomic statement.
func (r *postRepository) Delete(ctx context.Context, postID int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM posts WHERE id = $1`, postID)
	if err != nil {
		return fmt.Errorf("delete post: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if rows == 0 {
		return model.ErrPostNotFound
	}
	return nil
}

func (r *postRepository) ListAll(ctx context.Context, limit, offset int) ([]model.Post, error) {
	query := `SELECT ` + postColumns + `
		FROM posts p
		JOIN users u ON u.id = p.user_id
		ORDER BY p.created_at DESC, p.id DESC
		LIMIT $1 OFFSET $2
	`
	return r.selectPosts(ctx, query, limit, offset)
}

func (r *postRepository) CountAll(ctx context.Context) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM posts`)
	if err != nil {
		return 0, fmt.Errorf("count posts: %w", err)
	}
	return count, nil
}

func (r *postRepository) ListByUser(ctx context.Context, userID int64, limit, offset int) ([]model.Post, error) {
	query := `SELECT ` + postColumns + `
		FROM posts p
		JOIN users u ON u.id = p.user_id
		WHERE p.user_id = $1
		ORDER BY p.created_at DESC, p.id DESC
		LIMIT $2 OFFSET $3
	`
	return r.selectPosts(ctx, query, userID, limit, offset)
}

func (r *postRepository) CountByUser(ctx context.Context, userID int64) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM posts WHERE user_id = $1`, userID)
	if err != nil {
		return 0, fmt.Errorf("count user posts: %w", err)
	}
	return count, nil
}

// ListFeed returns the home feed: posts by followed users plus the user's own,
// deduplicated by construction (each post matches at most once), newest first.
// Deliberately uncached; follows and posts mutate between calls.
func (r *postRepository) ListFeed(ctx context.Context, userID int64, limit, offset int) ([]model.Post, error) {
	query := `SELECT ` + postColumns + `
		FROM posts p
		JOIN users u ON u.id = p.user_id
		WHERE p.user_id = $1
		   OR p.user_id IN (SELECT followed_id FROM follows WHERE follower_id = $1)
		ORDER BY p.created_at DESC, p.id DESC
		LIMIT $2 OFFSET $3
	`
	return r.selectPosts(ctx, query, userID, limit, offset)
}

func (r *postRepository) CountFeed(ctx context.Context, userID int64) (int, error) {
	query := `
		SELECT COUNT(*) FROM posts p
		WHERE p.user_id = $1
		   OR p.user_id IN (SELECT followed_id FROM follows WHERE follower_id = $1)
	`
	var count int
	err := r.db.GetContext(ctx, &count, query, userID)
	if err != nil {
		return 0, fmt.Errorf("count feed: %w", err)
	}
	return count, nil
}

func (r *postRepository) Search(ctx context.Context, query string, limit, offset int) ([]model.Post, error) {
	searchQuery := `SELECT ` + postColumns + `
		FROM posts p
		JOIN users u ON u.id = p.user_id
		WHERE p.body ILIKE $1
		ORDER BY p.created_at DESC, p.id DESC
		LIMIT $2 OFFSET $3
	`
	return r.selectPosts(ctx, searchQuery, "%"+escapeLike(query)+"%", limit, offset)
}

func (r *postRepository) CountSearch(ctx context.Context, query string) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count,
		`SELECT COUNT(*) FROM posts WHERE body ILIKE $1`, "%"+escapeLike(query)+"%")
	if err != nil {
		return 0, fmt.Errorf("count search: %w", err)
	}
	return count, nil
}

// Like adds the like edge; a duplicate like is a no-op via ON CONFLICT.
func (r *postRepository) Like(ctx context.Context, postID, userID int64) (bool, error) {
	query := `
		INSERT INTO likes (user_id, post_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id, post_id) DO NOTHING
	`
	result, err := r.db.ExecContext(ctx, query, userID, postID)
	if err != nil {
		return false, fmt.Errorf("insert like: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("get rows affected: %w", err)
	}
	return rows > 0, nil
}

// Unlike removes the like edge; removing a missing edge is a no-op.
func (r *postRepository) Unlike(ctx context.Context, postID, userID int64) (bool, error) {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM likes WHERE user_id = $1 AND post_id = $2`, userID, postID)
	if err != nil {
		return false, fmt.Errorf("delete like: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("get rows affected: %w", err)
	}
	return rows > 0, nil
}

func (r *postRepository) LikeCount(ctx context.Context, postID int64) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM likes WHERE post_id = $1`, postID)
	if err != nil {
		return 0, fmt.Errorf("count likes: %w", err)
	}
	return count, nil
}

func (r *postRepository) IsLikedBy(ctx context.Context, postID, userID int64) (bool, error) {
	var liked bool
	err := r.db.GetContext(ctx, &liked,
		`SELECT EXISTS(SELECT 1 FROM likes WHERE user_id = $1 AND post_id = $2)`, userID, postID)
	if err != nil {
		return false, fmt.Errorf("check like: %w", err)
	}
	return liked, nil
}

// CheckLikes batch-checks like status for a page of posts in one query,
// avoiding an N+1 per rendered post.
func (r *postRepository) CheckLikes(ctx context.Context, userID int64, postIDs []int64) (map[int64]bool, error) {
	if len(postIDs) == 0 {
		return make(map[int64]bool), nil
	}

	query := `SELECT post_id FROM likes WHERE user_id = $1 AND post_id = ANY($2)`
	var likedIDs []int64
	err := r.db.SelectContext(ctx, &likedIDs, query, userID, pq.Array(postIDs))
	if err != nil && err != sql.ErrNoRows {
		return nil, fmt.Errorf("check likes: %w", err)
	}

	result := make(map[int64]bool)
	for _, id := range postIDs {
		result[id] = false
	}
	for _, id := range likedIDs {
		result[id] = true
	}

	return result, nil
}

func (r *postRepository) selectPosts(ctx context.Context, query string, args ...interface{}) ([]model.Post, error) {
	var posts []model.Post
	err := r.db.SelectContext(ctx, &posts, query, args...)
	if err != nil {
		return nil, fmt.Errorf("select posts: %w", err)
	}
	return posts, nil
}

// escapeLike neutralizes LIKE wildcards in user input so a search for "100%"
// matches the literal text.
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `%`, `\%`)
	s = strings.ReplaceAll(s, `_`, `\_`)
	return s
}
