// MongoREST - REST Interface for MongoDB Document Stores
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mongorest

// Package auth implements token authentication for the REST API.
//
// # Login
//
// POST {prefix}/login takes {"email": "...", "password": "..."}:
//
//   - a missing email or password is rejected with 400 before any lookup
//   - an unknown email gets 404
//   - a wrong password gets 401
//   - otherwise an existing unexpired token for the user is reused, or a new
//     one is issued, and the response is {"token": "..."}
//
// Stored passwords may be bcrypt hashes ($2a$, $2b$, $2y$) or legacy plain
// values, which are compared in constant time.
//
// # Gate
//
// Every other route runs Authenticator.Check. The token is read from
// "Authorization: Bearer <token>", the X-Auth-Token header, or the token
// query parameter. The configured universal token is accepted without a
// store lookup. The resolved Identity is placed in the request context.
//
// # Token stores
//
//   - MongoTokenStore: a collection in the token database (default)
//   - BadgerTokenStore: an embedded BadgerDB directory
//   - MemoryTokenStore: process memory, lost on restart
//
// Tokens carry an optional expiry (auth.token_ttl). Expired tokens are
// rejected on lookup and removed by CleanupExpired, which the supervisor
// runs periodically.
package auth
