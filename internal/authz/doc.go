// MongoREST - REST Interface for MongoDB Document Stores
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mongorest

// Package authz implements the access-control gate: a per-database,
// per-collection allow-list enforced with Casbin.
//
// The resolved config.AccessPolicy is compiled into Casbin policy lines
//
//	p, <database>, <collection>
//	p, <database>, *
//
// where "*" allows every collection of that database. An empty policy means
// no access control is configured and every request is permitted without
// consulting the enforcer. Otherwise a database missing from the policy is
// denied, and a request that names a collection must match one of the
// database's collections or the wildcard.
//
// Denied requests get a plain-text body (DeniedMessage) with the configured
// status, never a JSON error.
package authz
