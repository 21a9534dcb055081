// MongoREST - REST Interface for MongoDB Document Stores
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mongorest

package authz

// Wildcard in the collection field allows every collection of the database.
const Wildcard = "*"

// accessModel: an empty request collection means "database only"
// (collection listing) and matches any rule for that database.
const accessModel = `
[request_definition]
r = db, col

[policy_definition]
p = db, col

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = r.db == p.db && (p.col == "*" || r.col == "" || r.col == p.col)
`
