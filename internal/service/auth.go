package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"moodshare/internal/config"
	"moodshare/internal/model"
)

// TokenService is the auth gateway's token side: it issues and verifies the
// signed bearer tokens used by the API and the single-purpose password-reset
// tokens. Both are HS256 with the shared secret; they differ in claims and
// lifetime so one can never stand in for the other.
type TokenService struct {
	secret       []byte
	accessMaxAge time.Duration
	resetMaxAge  time.Duration
}

func NewTokenService(cfg *config.Config) *TokenService {
	return &TokenService{
		secret:       []byte(cfg.JWTSecret),
		accessMaxAge: time.Duration(cfg.AccessTokenMaxAge) * time.Second,
		resetMaxAge:  time.Duration(cfg.ResetTokenMaxAge) * time.Second,
	}
}

// AccessTokenMaxAge is the lifetime of an API token in seconds, reported to
// clients as expires_in.
func (s *TokenService) AccessTokenMaxAge() int {
	return int(s.accessMaxAge / time.Second)
}

// IssueAccessToken signs an API token embedding the user id, valid for 24
// hours by default.
func (s *TokenService) IssueAccessToken(userID int64) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"user_id": userID,
		"exp":     now.Add(s.accessMaxAge).Unix(),
		"iat":     now.Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign access token: %w", err)
	}
	return signed, nil
}

// ParseAccessToken verifies signature and expiry and returns the embedded
// user id. Expired tokens and structurally bad tokens map to distinct
// sentinels so the transport layer can answer precisely.
func (s *TokenService) ParseAccessToken(tokenString string) (int64, error) {
	claims, err := s.parse(tokenString)
	if err != nil {
		return 0, err
	}

	userID, ok := claims["user_id"].(float64)
	if !ok {
		return 0, model.ErrTokenInvalid
	}
	return int64(userID), nil
}

// IssueResetToken signs a password-reset token embedding the user id, valid
// for 10 minutes by default. There is no issuer-side revocation; the token
// stays valid until expiry even after use.
func (s *TokenService) IssueResetToken(userID int64) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"reset_password": userID,
		"exp":            now.Add(s.resetMaxAge).Unix(),
		"iat":            now.Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign reset token: %w", err)
	}
	return signed, nil
}

// VerifyResetToken checks signature and expiry and returns the embedded user
// id. Any malformed, expired, or wrongly-signed token yields ErrTokenInvalid;
// callers treat that as "no user".
func (s *TokenService) VerifyResetToken(tokenString string) (int64, error) {
	claims, err := s.parse(tokenString)
	if err != nil {
		return 0, model.ErrTokenInvalid
	}

	userID, ok := claims["reset_password"].(float64)
	if !ok {
		return 0, model.ErrTokenInvalid
	}
	return int64(userID), nil
}

func (s *TokenService) parse(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, model.ErrTokenExpired
		}
		return nil, model.ErrTokenInvalid
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, model.ErrTokenInvalid
	}
	return claims, nil
}
