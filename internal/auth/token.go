// MongoREST - REST Interface for MongoDB Document Stores
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mongorest

package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"
)

var (
	// ErrUserNotFound is returned when no user has the given email.
	ErrUserNotFound = errors.New("user not found")

	// ErrInvalidCredentials is returned when the password does not match.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrTokenNotFound is returned when a token is not in the store.
	ErrTokenNotFound = errors.New("token not found")

	// ErrTokenExpired is returned when a token exists but has expired.
	ErrTokenExpired = errors.New("token expired")
)

// User is a document in the users collection.
type User struct {
	ID       string
	Email    string
	Password string
}

// Token is an opaque credential bound to a user.
type Token struct {
	Token     string    `json:"token" bson:"token"`
	UserID    string    `json:"user_id" bson:"user_id"`
	Email     string    `json:"email" bson:"email"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	// ExpiresAt is zero for tokens that never expire.
	ExpiresAt time.Time `json:"expires_at,omitempty" bson:"expires_at,omitempty"`
}

// IsExpired reports whether the token has an expiry in the past.
func (t *Token) IsExpired() bool {
	return !t.ExpiresAt.IsZero() && time.Now().After(t.ExpiresAt)
}

// NewToken issues a token for user. A zero ttl never expires.
func NewToken(user *User, ttl time.Duration) (*Token, error) {
	value, err := generateToken()
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	t := &Token{
		Token:     value,
		UserID:    user.ID,
		Email:     user.Email,
		CreatedAt: now,
	}
	if ttl > 0 {
		t.ExpiresAt = now.Add(ttl)
	}
	return t, nil
}

// generateToken returns 32 random bytes, hex encoded.
func generateToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// UserStore looks up users by email.
type UserStore interface {
	// FindByEmail returns ErrUserNotFound when no user matches.
	FindByEmail(ctx context.Context, email string) (*User, error)
}

// TokenStore persists issued tokens.
type TokenStore interface {
	// Create stores a new token.
	Create(ctx context.Context, token *Token) error

	// Get returns ErrTokenNotFound or ErrTokenExpired for unusable tokens.
	Get(ctx context.Context, token string) (*Token, error)

	// FindByUser returns an unexpired token for userID, or ErrTokenNotFound.
	FindByUser(ctx context.Context, userID string) (*Token, error)

	// Delete removes a token. Missing tokens are not an error.
	Delete(ctx context.Context, token string) error

	// CleanupExpired removes expired tokens and returns how many were removed.
	CleanupExpired(ctx context.Context) (int, error)
}
