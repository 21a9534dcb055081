// MongoREST - REST Interface for MongoDB Document Stores
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mongorest

// Package services holds the suture.Service implementations run by the
// supervisor tree: HTTPServerService for the REST and metrics listeners,
// and TokenCleanupService for periodic session token expiry.
package services
