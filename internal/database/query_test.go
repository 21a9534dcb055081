// MongoREST - REST Interface for MongoDB Document Stores
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mongorest

package database

import (
	"reflect"
	"testing"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestIDFilter(t *testing.T) {
	const hex = "5f1b2c3d4e5f60718293a4b5"
	oid, _ := primitive.ObjectIDFromHex(hex)

	tests := []struct {
		name string
		id   string
		want bson.D
	}{
		{
			name: "object id matches oid or literal",
			id:   hex,
			want: bson.D{{Key: "_id", Value: bson.D{{Key: "$in", Value: bson.A{oid, hex}}}}},
		},
		{
			name: "plain string",
			id:   "test-1",
			want: bson.D{{Key: "_id", Value: "test-1"}},
		},
		{
			name: "23 hex chars is not an object id",
			id:   hex[:23],
			want: bson.D{{Key: "_id", Value: hex[:23]}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IDFilter(tt.id); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("IDFilter(%q) = %v, want %v", tt.id, got, tt.want)
			}
		})
	}
}

func TestHasOperators(t *testing.T) {
	tests := []struct {
		doc  bson.D
		want bool
	}{
		{bson.D{{Key: "$set", Value: bson.D{{Key: "a", Value: 1}}}}, true},
		{bson.D{{Key: "a", Value: 1}, {Key: "$inc", Value: bson.D{{Key: "n", Value: 1}}}}, true},
		{bson.D{{Key: "a", Value: 1}}, false},
		{bson.D{}, false},
	}
	for _, tt := range tests {
		if got := HasOperators(tt.doc); got != tt.want {
			t.Errorf("HasOperators(%v) = %v, want %v", tt.doc, got, tt.want)
		}
	}
}

func TestMixesOperators(t *testing.T) {
	tests := []struct {
		name string
		doc  bson.D
		want bool
	}{
		{"operators only", bson.D{{Key: "$set", Value: bson.D{{Key: "a", Value: 1}}}, {Key: "$inc", Value: bson.D{{Key: "n", Value: 1}}}}, false},
		{"plain only", bson.D{{Key: "a", Value: 1}}, false},
		{"mixed", bson.D{{Key: "$set", Value: bson.D{{Key: "a", Value: 1}}}, {Key: "b", Value: 2}}, true},
		{"empty", bson.D{}, false},
	}
	for _, tt := range tests {
		if got := MixesOperators(tt.doc); got != tt.want {
			t.Errorf("%s: MixesOperators() = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestWithIDMovesIDFirst(t *testing.T) {
	doc := bson.D{{Key: "item", Value: "box"}, {Key: "_id", Value: "old"}, {Key: "qty", Value: 2}}

	got := withID(doc, "new")
	want := bson.D{{Key: "_id", Value: "new"}, {Key: "item", Value: "box"}, {Key: "qty", Value: 2}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("withID() = %v, want %v", got, want)
	}
	if v, _ := Lookup(doc, "_id"); v != "old" {
		t.Error("withID modified its input")
	}
}

func TestLookup(t *testing.T) {
	doc := bson.D{{Key: "a", Value: 1}}
	if v, ok := Lookup(doc, "a"); !ok || v != 1 {
		t.Errorf("Lookup(a) = %v, %v", v, ok)
	}
	if _, ok := Lookup(doc, "b"); ok {
		t.Error("Lookup(b) found a missing key")
	}
}
