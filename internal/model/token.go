package model

import "errors"

// Token lifecycle: issued -> valid (until expiry) -> expired; anything
// malformed or wrongly signed is invalid. There is no revocation transition.
var (
	ErrTokenExpired = errors.New("token expired")
	ErrTokenInvalid = errors.New("invalid token")

	ErrSessionNotFound = errors.New("session not found")
)
