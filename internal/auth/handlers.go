// MongoREST - REST Interface for MongoDB Document Stores
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mongorest

package auth

import (
	"errors"
	"io"
	"net/http"

	"github.com/goccy/go-json"

	"github.com/tomtom215/mongorest/internal/logging"
	"github.com/tomtom215/mongorest/internal/validation"
)

// maxLoginBody bounds the login request body.
const maxLoginBody = 64 << 10

// LoginRequest is the body of POST /login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse is returned on successful login.
type LoginResponse struct {
	Token string `json:"token"`
}

type statusResponse struct {
	OK      int    `json:"ok"`
	Message string `json:"message,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	body, err := json.Marshal(v)
	if err != nil {
		logging.Error().Err(err).Msg("Failed to encode auth response")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(body) //nolint:errcheck // client may have gone away
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, statusResponse{OK: 0, Message: message})
}

// HandleLogin exchanges email and password for a token.
func (a *Authenticator) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	body, err := io.ReadAll(io.LimitReader(r.Body, maxLoginBody))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Could not read request body")
		return
	}
	if len(body) > 0 {
		if err := json.Unmarshal(body, &req); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid JSON body")
			return
		}
	}

	if verr := validation.ValidateStruct(&req); verr != nil {
		writeError(w, http.StatusBadRequest, "Email and password are required")
		return
	}

	token, err := a.Login(r.Context(), req.Email, req.Password)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, LoginResponse{Token: token.Token})
	case errors.Is(err, ErrUserNotFound):
		writeError(w, http.StatusNotFound, "User not found")
	case errors.Is(err, ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, "Invalid credentials")
	default:
		logging.Ctx(r.Context()).Error().Err(err).Msg("Login failed")
		writeError(w, http.StatusInternalServerError, "Server error")
	}
}

// HandleLogout deletes the presented token.
func (a *Authenticator) HandleLogout(w http.ResponseWriter, r *http.Request) {
	token := TokenFromRequest(r)
	if token == "" {
		writeError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	if err := a.Logout(r.Context(), token); err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Msg("Logout failed")
		writeError(w, http.StatusInternalServerError, "Server error")
		return
	}
	writeJSON(w, http.StatusOK, statusResponse{OK: 1})
}

// Check authenticates r. On success it returns r with the Identity in its
// context; otherwise it writes the rejection and returns false.
func (a *Authenticator) Check(w http.ResponseWriter, r *http.Request) (*http.Request, bool) {
	id, err := a.Authenticate(r.Context(), TokenFromRequest(r))
	switch {
	case err == nil:
		return r.WithContext(WithIdentity(r.Context(), id)), true
	case errors.Is(err, ErrTokenNotFound), errors.Is(err, ErrTokenExpired):
		writeError(w, http.StatusUnauthorized, "Authentication required")
	default:
		logging.Ctx(r.Context()).Error().Err(err).Msg("Token lookup failed")
		writeError(w, http.StatusInternalServerError, "Server error")
	}
	return r, false
}
