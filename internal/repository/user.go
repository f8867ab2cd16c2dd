package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"moodshare/internal/model"
)

// userColumns selects a full user row plus the derived counts. The counts are
// computed, never stored, so they can never drift from the edge tables.
const userColumns = `
	u.id, u.username, u.email, u.password_hash, u.about_me, u.last_seen, u.created_at,
	(SELECT COUNT(*) FROM posts p WHERE p.user_id = u.id) AS post_count,
	(SELECT COUNT(*) FROM follows f WHERE f.followed_id = u.id) AS follower_count,
	(SELECT COUNT(*) FROM follows f WHERE f.follower_id = u.id) AS following_count
`

// userRepository implements UserRepository using sqlx
type userRepository struct {
	db *sqlx.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *sqlx.DB) UserRepository {
	return &userRepository{db: db}
}

// Create inserts a new user. Duplicate username or email surfaces as the
// matching sentinel error, resolved from the violated unique constraint.
func (r *userRepository) Create(ctx context.Context, u *model.User) error {
	query := `
		INSERT INTO users (username, email, password_hash, about_me, last_seen)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`

	row := r.db.QueryRowxContext(ctx, query,
		u.Username,
		u.Email,
		u.PasswordHash,
		u.AboutMe,
		u.LastSeen,
	)

	if err := row.Scan(&u.ID, &u.CreatedAt); err != nil {
		if dup := uniqueViolation(err); dup != nil {
			return dup
		}
		return fmt.Errorf("failed to insert user: %w", err)
	}

	return nil
}

// GetByID retrieves a user by their ID
func (r *userRepository) GetByID(ctx context.Context, id int64) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users u WHERE u.id = $1`

	var u model.User
	err := r.db.GetContext(ctx, &u, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, model.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user by id: %w", err)
	}

	return &u, nil
}

// GetByUsername retrieves a user by their username
func (r *userRepository) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users u WHERE u.username = $1`

	var u model.User
	err := r.db.GetContext(ctx, &u, query, username)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, model.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user by username: %w", err)
	}

	return &u, nil
}

// GetByEmail retrieves a user by their email, matched case-insensitively.
func (r *userRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users u WHERE LOWER(u.email) = LOWER($1)`

	var u model.User
	err := r.db.GetContext(ctx, &u, query, email)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, model.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}

	return &u, nil
}

// UpdateProfile changes username and biography in one statement.
func (r *userRepository) UpdateProfile(ctx context.Context, id int64, username string, aboutMe *string) error {
	query := `UPDATE users SET username = $1, about_me = $2 WHERE id = $3`
	result, err := r.db.ExecContext(ctx, query, username, aboutMe, id)
	if err != nil {
		if dup := uniqueViolation(err); dup != nil {
			return dup
		}
		return fmt.Errorf("failed to update profile: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return model.ErrUserNotFound
	}
	return nil
}

func (r *userRepository) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	query := `UPDATE users SET password_hash = $1 WHERE id = $2`
	result, err := r.db.ExecContext(ctx, query, passwordHash, id)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return model.ErrUserNotFound
	}
	return nil
}

// TouchLastSeen stamps the user as seen now. Called on every authenticated
// request, so it stays a single cheap statement.
func (r *userRepository) TouchLastSeen(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `UPDATE users SET last_seen = NOW() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to touch last_seen: %w", err)
	}
	return nil
}

// Search finds users whose username contains the query, case-insensitively.
func (r *userRepository) Search(ctx context.Context, query string, limit int) ([]model.User, error) {
	searchQuery := `SELECT ` + userColumns + `
		FROM users u
		WHERE u.username ILIKE $1
		LIMIT $2
	`

	var users []model.User
	err := r.db.SelectContext(ctx, &users, searchQuery, "%"+escapeLike(query)+"%", limit)
	if err != nil {
		return nil, fmt.Errorf("failed to search users: %w", err)
	}

	return users, nil
}

// uniqueViolation maps a Postgres 23505 on the users table to the sentinel
// for the violated column, or nil when the error is something else.
func uniqueViolation(err error) error {
	pqErr, ok := err.(*pq.Error)
	if !ok || pqErr.Code != "23505" {
		return nil
	}
	switch pqErr.Constraint {
	case "users_username_key":
		return model.ErrUsernameExists
	case "users_email_key":
		return model.ErrEmailExists
	}
	return nil
}
