// MongoREST - REST Interface for MongoDB Document Stores
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mongorest

package auth

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/tomtom215/mongorest/internal/logging"
	"github.com/tomtom215/mongorest/internal/metrics"
)

// Identity is the authenticated caller of a request.
type Identity struct {
	UserID string
	Email  string
	// Universal is set for requests carrying the universal token.
	Universal bool
	// Token is the presented token, empty for universal requests.
	Token string
}

// Config configures an Authenticator.
type Config struct {
	// UniversalToken is accepted on every route without a store lookup. Empty disables it.
	UniversalToken string

	// TokenTTL is the lifetime of issued tokens. Zero issues tokens that never expire.
	TokenTTL time.Duration
}

// Authenticator issues and verifies tokens.
type Authenticator struct {
	users  UserStore
	tokens TokenStore
	config Config
}

// NewAuthenticator creates an Authenticator.
func NewAuthenticator(users UserStore, tokens TokenStore, config Config) *Authenticator {
	return &Authenticator{users: users, tokens: tokens, config: config}
}

// Tokens returns the token store.
func (a *Authenticator) Tokens() TokenStore {
	return a.tokens
}

// Login verifies email and password and returns a token for the user,
// reusing an unexpired one when it exists.
func (a *Authenticator) Login(ctx context.Context, email, password string) (*Token, error) {
	user, err := a.users.FindByEmail(ctx, email)
	if err != nil {
		metrics.RecordAuthAttempt("login", false)
		return nil, err
	}

	if !CheckPassword(user.Password, password) {
		metrics.RecordAuthAttempt("login", false)
		return nil, ErrInvalidCredentials
	}

	existing, err := a.tokens.FindByUser(ctx, user.ID)
	switch {
	case err == nil:
		metrics.RecordAuthAttempt("login", true)
		return existing, nil
	case !errors.Is(err, ErrTokenNotFound):
		return nil, fmt.Errorf("find existing token: %w", err)
	}

	token, err := NewToken(user, a.config.TokenTTL)
	if err != nil {
		return nil, err
	}
	if err := a.tokens.Create(ctx, token); err != nil {
		return nil, fmt.Errorf("store token: %w", err)
	}

	metrics.RecordAuthAttempt("login", true)
	metrics.TokensIssued.Inc()
	logging.Ctx(ctx).Info().Str("user_id", user.ID).Msg("Issued auth token")
	return token, nil
}

// Authenticate resolves a presented token to an Identity.
func (a *Authenticator) Authenticate(ctx context.Context, token string) (*Identity, error) {
	if token == "" {
		return nil, ErrTokenNotFound
	}

	if a.config.UniversalToken != "" &&
		subtle.ConstantTimeCompare([]byte(token), []byte(a.config.UniversalToken)) == 1 {
		metrics.RecordAuthAttempt("universal", true)
		return &Identity{Universal: true}, nil
	}

	t, err := a.tokens.Get(ctx, token)
	if err != nil {
		metrics.RecordAuthAttempt("token", false)
		return nil, err
	}

	metrics.RecordAuthAttempt("token", true)
	return &Identity{UserID: t.UserID, Email: t.Email, Token: t.Token}, nil
}

// Logout deletes token. The universal token cannot be logged out.
func (a *Authenticator) Logout(ctx context.Context, token string) error {
	if token == "" || token == a.config.UniversalToken {
		return nil
	}
	return a.tokens.Delete(ctx, token)
}

// CleanupExpired purges expired tokens from the store.
func (a *Authenticator) CleanupExpired(ctx context.Context) (int, error) {
	n, err := a.tokens.CleanupExpired(ctx)
	if n > 0 {
		metrics.TokensPurged.Add(float64(n))
	}
	return n, err
}

// bcryptPrefixes identify stored bcrypt hashes.
var bcryptPrefixes = []string{"$2a$", "$2b$", "$2y$"}

// CheckPassword compares a presented password with the stored value, which
// is either a bcrypt hash or a plain value.
func CheckPassword(stored, presented string) bool {
	for _, prefix := range bcryptPrefixes {
		if strings.HasPrefix(stored, prefix) {
			return bcrypt.CompareHashAndPassword([]byte(stored), []byte(presented)) == nil
		}
	}
	return subtle.ConstantTimeCompare([]byte(stored), []byte(presented)) == 1
}

// HashPassword returns a bcrypt hash suitable for the users collection.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}
