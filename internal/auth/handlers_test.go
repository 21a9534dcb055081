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
	"strings"
	"testing"

	"github.com/goccy/go-json"
)

func TestHandleLogin(t *testing.T) {
	tests := []struct {
		name        string
		body        string
		storeErr    error
		wantStatus  int
		wantLookups int
	}{
		{"success", `{"email":"ada@example.com","password":"s3cret"}`, nil, http.StatusOK, 1},
		{"missing password", `{"email":"ada@example.com"}`, nil, http.StatusBadRequest, 0},
		{"missing email", `{"password":"s3cret"}`, nil, http.StatusBadRequest, 0},
		{"empty body", ``, nil, http.StatusBadRequest, 0},
		{"malformed json", `{"email":`, nil, http.StatusBadRequest, 0},
		{"unknown user", `{"email":"bob@example.com","password":"x"}`, nil, http.StatusNotFound, 1},
		{"wrong password", `{"email":"ada@example.com","password":"nope"}`, nil, http.StatusUnauthorized, 1},
		{"store failure", `{"email":"ada@example.com","password":"s3cret"}`, errors.New("boom"), http.StatusInternalServerError, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, users, _ := newTestAuthenticator(t, Config{})
			users.err = tt.storeErr

			req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(tt.body))
			w := httptest.NewRecorder()
			a.HandleLogin(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d (body %s)", w.Code, tt.wantStatus, w.Body.String())
			}
			if users.lookups != tt.wantLookups {
				t.Errorf("user lookups = %d, want %d", users.lookups, tt.wantLookups)
			}
			if tt.wantStatus == http.StatusOK {
				var resp LoginResponse
				if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
					t.Fatalf("decode response: %v", err)
				}
				if resp.Token == "" {
					t.Error("response has no token")
				}
			}
		})
	}
}

func TestHandleLogout(t *testing.T) {
	a, _, tokens := newTestAuthenticator(t, Config{})
	token, err := a.Login(context.Background(), "ada@example.com", "s3cret")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/logout", nil)
	req.Header.Set("Authorization", "Bearer "+token.Token)
	w := httptest.NewRecorder()
	a.HandleLogout(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if got := strings.TrimSpace(w.Body.String()); got != `{"ok":1}` {
		t.Errorf("body = %s, want {\"ok\":1}", got)
	}
	if tokens.Len() != 0 {
		t.Errorf("token not deleted")
	}

	w = httptest.NewRecorder()
	a.HandleLogout(w, httptest.NewRequest(http.MethodPost, "/logout", nil))
	if w.Code != http.StatusUnauthorized {
		t.Errorf("logout without token: status = %d, want 401", w.Code)
	}
}

func TestCheck(t *testing.T) {
	a, _, tokens := newTestAuthenticator(t, Config{UniversalToken: "master"})
	token, err := a.Login(context.Background(), "ada@example.com", "s3cret")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	tests := []struct {
		name       string
		token      string
		wantOK     bool
		wantStatus int
	}{
		{"valid token", token.Token, true, http.StatusOK},
		{"universal token", "master", true, http.StatusOK},
		{"missing token", "", false, http.StatusUnauthorized},
		{"unknown token", "nope", false, http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/dbs", nil)
			if tt.token != "" {
				req.Header.Set(TokenHeader, tt.token)
			}
			w := httptest.NewRecorder()
			out, ok := a.Check(w, req)

			if ok != tt.wantOK {
				t.Fatalf("Check() ok = %v, want %v", ok, tt.wantOK)
			}
			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.wantStatus)
			}
			if ok && GetIdentity(out.Context()) == nil {
				t.Error("identity missing from context")
			}
		})
	}

	if tokens.Len() != 1 {
		t.Errorf("universal token lookup touched the store: %d tokens", tokens.Len())
	}
}
