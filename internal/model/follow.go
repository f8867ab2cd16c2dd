package model

import (
	"errors"
	"time"
)

// Follow is a directed edge: the follower's feed includes the followed's posts.
// The pair is the whole identity; creating an existing edge or removing a
// missing one is a no-op.
type Follow struct {
	FollowerID int64     `db:"follower_id" json:"follower_id"`
	FollowedID int64     `db:"followed_id" json:"followed_id"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

var ErrCannotFollowSelf = errors.New("cannot follow yourself")
