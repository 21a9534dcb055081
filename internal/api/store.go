// MongoREST - REST Interface for MongoDB Document Stores
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mongorest

package api

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/tomtom215/mongorest/internal/database"
)

// DocumentStore is the store surface used by the action handlers.
// database.MongoStore implements it.
type DocumentStore interface {
	DatabaseNames(ctx context.Context) ([]string, error)
	CollectionNames(ctx context.Context, db string) ([]string, error)
	Find(ctx context.Context, db, coll string, q database.Query) ([]bson.D, error)

	// FindByID and Update return database.ErrNotFound when nothing matches.
	FindByID(ctx context.Context, db, coll, id string) (bson.D, error)
	Insert(ctx context.Context, db, coll string, doc bson.D) (bson.D, error)
	Update(ctx context.Context, db, coll, id string, doc bson.D) (bson.D, error)

	// Delete returns the number of documents removed.
	Delete(ctx context.Context, db, coll, id string) (int64, error)
}

// Pinger checks store connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

var _ DocumentStore = (*database.MongoStore)(nil)
