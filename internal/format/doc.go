// MongoREST - REST Interface for MongoDB Document Stores
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mongorest

// Package format renders documents read from the store as JSON or CSV.
//
// Documents arrive as ordered bson.D values and are normalized into plain
// JSON values first: ObjectIDs become hex strings, dates become RFC 3339
// timestamps, Decimal128 becomes its string form, and field order is kept.
//
// CSV output has a header of every top-level field seen across the result
// set, in first-seen order, followed by one line per document. Every cell
// is quoted, embedded quotes are doubled, nested documents and arrays are
// written as compact JSON, missing fields are empty, and lines end in CRLF.
//
// The output format is chosen by Select: an explicit request parameter wins
// over the configured collection output type, which wins over JSON.
package format
