// MongoREST - REST Interface for MongoDB Document Stores
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mongorest

package auth

import (
	"context"
	"net/http"
	"strings"
)

type contextKey string

// IdentityContextKey holds the *Identity of an authenticated request.
const IdentityContextKey contextKey = "identity"

// TokenHeader is the alternative to an Authorization bearer token.
const TokenHeader = "X-Auth-Token"

// TokenQueryParam is the query parameter carrying a token.
const TokenQueryParam = "token"

// WithIdentity returns ctx carrying id.
func WithIdentity(ctx context.Context, id *Identity) context.Context {
	return context.WithValue(ctx, IdentityContextKey, id)
}

// GetIdentity returns the identity stored in ctx, or nil.
func GetIdentity(ctx context.Context) *Identity {
	id, ok := ctx.Value(IdentityContextKey).(*Identity)
	if !ok {
		return nil
	}
	return id
}

// TokenFromRequest extracts the presented token: bearer header first, then
// X-Auth-Token, then the token query parameter.
func TokenFromRequest(r *http.Request) string {
	if h := r.Header.Get("Authorization"); h != "" {
		if scheme, value, ok := strings.Cut(h, " "); ok && strings.EqualFold(scheme, "Bearer") {
			if value = strings.TrimSpace(value); value != "" {
				return value
			}
		}
	}
	if h := strings.TrimSpace(r.Header.Get(TokenHeader)); h != "" {
		return h
	}
	return r.URL.Query().Get(TokenQueryParam)
}
