// MongoREST - REST Interface for MongoDB Document Stores
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mongorest

package database

import (
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Query describes a collection query.
type Query struct {
	Filter     bson.D
	Projection bson.D
	Sort       bson.D
	Limit      int64
	Skip       int64
}

// IDFilter builds the _id filter for a path identifier.
// A 24-hex identifier matches the ObjectID or the literal string.
func IDFilter(id string) bson.D {
	if oid, err := primitive.ObjectIDFromHex(id); err == nil {
		return bson.D{{Key: "_id", Value: bson.D{{Key: "$in", Value: bson.A{oid, id}}}}}
	}
	return bson.D{{Key: "_id", Value: id}}
}

// HasOperators reports whether doc is an update document ($set, $inc, ...)
// rather than a replacement.
func HasOperators(doc bson.D) bool {
	for _, e := range doc {
		if strings.HasPrefix(e.Key, "$") {
			return true
		}
	}
	return false
}

// MixesOperators reports whether doc combines update operators with plain
// fields. The server rejects such documents as both updates and replacements.
func MixesOperators(doc bson.D) bool {
	var ops, plain bool
	for _, e := range doc {
		if strings.HasPrefix(e.Key, "$") {
			ops = true
		} else {
			plain = true
		}
	}
	return ops && plain
}

// Lookup returns the value of key in doc.
func Lookup(doc bson.D, key string) (interface{}, bool) {
	for _, e := range doc {
		if e.Key == key {
			return e.Value, true
		}
	}
	return nil, false
}

// without returns doc minus key, preserving order.
func without(doc bson.D, key string) bson.D {
	out := make(bson.D, 0, len(doc))
	for _, e := range doc {
		if e.Key != key {
			out = append(out, e)
		}
	}
	return out
}

// withID returns doc with _id first, set to id.
func withID(doc bson.D, id interface{}) bson.D {
	out := make(bson.D, 0, len(doc)+1)
	out = append(out, bson.E{Key: "_id", Value: id})
	return append(out, without(doc, "_id")...)
}
