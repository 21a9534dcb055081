// MongoREST - REST Interface for MongoDB Document Stores
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mongorest

// Package database is the data layer between the HTTP API and MongoDB.
//
// # Overview
//
// A Resolver owns one mongo.Client per store descriptor. It connects lazily
// on first use, pings the primary, and hands out *mongo.Database and
// *mongo.Collection handles. Collection handles are kept in a CollectionCache
// keyed by "database/collection" for the lifetime of the process; there is no
// invalidation, since a stale handle is still a valid handle.
//
// MongoStore implements the document operations used by the API handlers:
//
//   - DatabaseNames, CollectionNames (system.* collections are hidden)
//   - Find with filter, projection, sort, limit and skip
//   - FindByID, Insert, Update, Delete on a single document
//
// # Identifiers
//
// A path identifier that parses as a 24-hex ObjectID matches a document whose
// _id is either that ObjectID or the literal string. Any other identifier
// matches the literal string only. See IDFilter.
//
// # Errors
//
//   - ErrConnection: the client could not connect, ping, or reach the server
//   - ErrNotFound: FindByID or Update matched no document
//
// Both are wrapped with context via fmt.Errorf("...: %w") and classified
// with errors.Is at the HTTP boundary.
package database
