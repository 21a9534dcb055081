// MongoREST - REST Interface for MongoDB Document Stores
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mongorest

package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

// fakeUsers is an in-memory UserStore that counts lookups.
type fakeUsers struct {
	users   map[string]*User
	err     error
	lookups int
}

func (f *fakeUsers) FindByEmail(_ context.Context, email string) (*User, error) {
	f.lookups++
	if f.err != nil {
		return nil, f.err
	}
	u, ok := f.users[email]
	if !ok {
		return nil, ErrUserNotFound
	}
	return u, nil
}

func newTestAuthenticator(t *testing.T, cfg Config) (*Authenticator, *fakeUsers, *MemoryTokenStore) {
	t.Helper()
	hash, err := HashPassword("s3cret")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	users := &fakeUsers{users: map[string]*User{
		"ada@example.com":    {ID: "u1", Email: "ada@example.com", Password: hash},
		"legacy@example.com": {ID: "u2", Email: "legacy@example.com", Password: "plain"},
	}}
	tokens := NewMemoryTokenStore()
	return NewAuthenticator(users, tokens, cfg), users, tokens
}

func TestCheckPassword(t *testing.T) {
	hash, err := HashPassword("pw")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}

	tests := []struct {
		name      string
		stored    string
		presented string
		want      bool
	}{
		{"bcrypt match", hash, "pw", true},
		{"bcrypt mismatch", hash, "other", false},
		{"plain match", "pw", "pw", true},
		{"plain mismatch", "pw", "PW", false},
		{"empty stored", "", "pw", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CheckPassword(tt.stored, tt.presented); got != tt.want {
				t.Errorf("CheckPassword() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestLoginReusesToken(t *testing.T) {
	a, _, tokens := newTestAuthenticator(t, Config{})
	ctx := context.Background()

	first, err := a.Login(ctx, "ada@example.com", "s3cret")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	second, err := a.Login(ctx, "ada@example.com", "s3cret")
	if err != nil {
		t.Fatalf("second Login: %v", err)
	}

	if first.Token != second.Token {
		t.Errorf("second login issued %q, want reuse of %q", second.Token, first.Token)
	}
	if tokens.Len() != 1 {
		t.Errorf("store holds %d tokens, want 1", tokens.Len())
	}
	if len(first.Token) != 64 {
		t.Errorf("token length = %d, want 64", len(first.Token))
	}
}

func TestLoginExpiredTokenNotReused(t *testing.T) {
	a, _, tokens := newTestAuthenticator(t, Config{TokenTTL: time.Hour})
	ctx := context.Background()

	stale := &Token{
		Token:     "stale",
		UserID:    "u1",
		CreatedAt: time.Now().Add(-2 * time.Hour),
		ExpiresAt: time.Now().Add(-time.Hour),
	}
	if err := tokens.Create(ctx, stale); err != nil {
		t.Fatalf("Create: %v", err)
	}

	token, err := a.Login(ctx, "ada@example.com", "s3cret")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if token.Token == "stale" {
		t.Error("expired token was reused")
	}
	if token.ExpiresAt.IsZero() {
		t.Error("token issued with TTL has no expiry")
	}
}

func TestLoginErrors(t *testing.T) {
	a, _, _ := newTestAuthenticator(t, Config{})
	ctx := context.Background()

	if _, err := a.Login(ctx, "nobody@example.com", "x"); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("unknown user: err = %v, want ErrUserNotFound", err)
	}
	if _, err := a.Login(ctx, "ada@example.com", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("wrong password: err = %v, want ErrInvalidCredentials", err)
	}
	if _, err := a.Login(ctx, "legacy@example.com", "plain"); err != nil {
		t.Errorf("plain password login: %v", err)
	}
}

func TestAuthenticate(t *testing.T) {
	a, _, tokens := newTestAuthenticator(t, Config{UniversalToken: "master"})
	ctx := context.Background()

	issued, err := a.Login(ctx, "ada@example.com", "s3cret")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	id, err := a.Authenticate(ctx, issued.Token)
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	if id.UserID != "u1" || id.Universal {
		t.Errorf("identity = %+v, want user u1", id)
	}

	id, err = a.Authenticate(ctx, "master")
	if err != nil {
		t.Fatalf("Authenticate universal: %v", err)
	}
	if !id.Universal {
		t.Error("universal token not marked universal")
	}

	if _, err := a.Authenticate(ctx, ""); !errors.Is(err, ErrTokenNotFound) {
		t.Errorf("empty token: err = %v, want ErrTokenNotFound", err)
	}
	if _, err := a.Authenticate(ctx, "bogus"); !errors.Is(err, ErrTokenNotFound) {
		t.Errorf("unknown token: err = %v, want ErrTokenNotFound", err)
	}

	if err := a.Logout(ctx, issued.Token); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	if _, err := a.Authenticate(ctx, issued.Token); !errors.Is(err, ErrTokenNotFound) {
		t.Errorf("after logout: err = %v, want ErrTokenNotFound", err)
	}
	if tokens.Len() != 0 {
		t.Errorf("store holds %d tokens after logout, want 0", tokens.Len())
	}
}

func TestCleanupExpired(t *testing.T) {
	a, _, tokens := newTestAuthenticator(t, Config{})
	ctx := context.Background()

	for i, exp := range []time.Duration{-time.Minute, -time.Second, time.Hour} {
		tok := &Token{
			Token:     string(rune('a' + i)),
			UserID:    "u1",
			CreatedAt: time.Now(),
			ExpiresAt: time.Now().Add(exp),
		}
		if err := tokens.Create(ctx, tok); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	n, err := a.CleanupExpired(ctx)
	if err != nil {
		t.Fatalf("CleanupExpired: %v", err)
	}
	if n != 2 {
		t.Errorf("purged %d tokens, want 2", n)
	}
	if tokens.Len() != 1 {
		t.Errorf("store holds %d tokens, want 1", tokens.Len())
	}
}

func TestTokenFromRequest(t *testing.T) {
	tests := []struct {
		name   string
		target string
		header map[string]string
		want   string
	}{
		{"bearer", "/", map[string]string{"Authorization": "Bearer abc"}, "abc"},
		{"bearer lowercase scheme", "/", map[string]string{"Authorization": "bearer abc"}, "abc"},
		{"x-auth-token", "/", map[string]string{TokenHeader: "def"}, "def"},
		{"query", "/?token=ghi", nil, "ghi"},
		{"bearer wins", "/?token=ghi", map[string]string{"Authorization": "Bearer abc", TokenHeader: "def"}, "abc"},
		{"basic ignored", "/", map[string]string{"Authorization": "Basic Zm9vOmJhcg=="}, ""},
		{"none", "/", nil, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, tt.target, nil)
			for k, v := range tt.header {
				r.Header.Set(k, v)
			}
			if got := TokenFromRequest(r); got != tt.want {
				t.Errorf("TokenFromRequest() = %q, want %q", got, tt.want)
			}
		})
	}
}
