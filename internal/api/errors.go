// MongoREST - REST Interface for MongoDB Document Stores
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mongorest

package api

import "errors"

var (
	// ErrEmptyBody is returned when a request carries no document.
	ErrEmptyBody = errors.New("request body is empty")

	// ErrInvalidBody is returned for bodies that are not a JSON document.
	ErrInvalidBody = errors.New("invalid request body")

	// ErrInvalidQuery is returned for malformed query parameters.
	ErrInvalidQuery = errors.New("invalid query parameter")

	// ErrInvalidPath is returned for path segments with bad percent-encoding.
	ErrInvalidPath = errors.New("invalid path encoding")
)
