// MongoREST - REST Interface for MongoDB Document Stores
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mongorest

package database

import (
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"
)

var (
	// ErrConnection indicates the store could not be reached.
	ErrConnection = errors.New("store connection failed")

	// ErrNotFound indicates no document matched the identifier.
	ErrNotFound = errors.New("document not found")
)

// classify maps driver errors onto package sentinels so callers can use errors.Is.
func classify(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	case mongo.IsNetworkError(err), mongo.IsTimeout(err), errors.Is(err, mongo.ErrClientDisconnected):
		return fmt.Errorf("%s: %w: %v", op, ErrConnection, err)
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}
