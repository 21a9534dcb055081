// MongoREST - REST Interface for MongoDB Document Stores
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mongorest

package api

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/tomtom215/mongorest/internal/database"
)

// fakeStore is an in-memory DocumentStore that records every call.
type fakeStore struct {
	mu        sync.Mutex
	docs      map[string][]bson.D // "db/collection" -> documents in insertion order
	calls     []string
	lastQuery database.Query
	err       error
}

func newFakeStore() *fakeStore {
	return &fakeStore{docs: make(map[string][]bson.D)}
}

func (f *fakeStore) record(call string) error {
	f.calls = append(f.calls, call)
	return f.err
}

func (f *fakeStore) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

// seed adds docs directly, bypassing call recording.
func (f *fakeStore) seed(db, coll string, docs ...bson.D) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := db + "/" + coll
	f.docs[key] = append(f.docs[key], docs...)
}

func idOf(doc bson.D) string {
	v, _ := database.Lookup(doc, "_id")
	switch id := v.(type) {
	case primitive.ObjectID:
		return id.Hex()
	default:
		return fmt.Sprint(id)
	}
}

func (f *fakeStore) DatabaseNames(context.Context) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("DatabaseNames"); err != nil {
		return nil, err
	}
	seen := map[string]bool{}
	var names []string
	for key := range f.docs {
		db, _, _ := strings.Cut(key, "/")
		if !seen[db] {
			seen[db] = true
			names = append(names, db)
		}
	}
	sort.Strings(names)
	return names, nil
}

func (f *fakeStore) CollectionNames(_ context.Context, db string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("CollectionNames"); err != nil {
		return nil, err
	}
	var names []string
	for key := range f.docs {
		if d, coll, _ := strings.Cut(key, "/"); d == db {
			names = append(names, coll)
		}
	}
	sort.Strings(names)
	return names, nil
}

func (f *fakeStore) Find(_ context.Context, db, coll string, q database.Query) ([]bson.D, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("Find"); err != nil {
		return nil, err
	}
	f.lastQuery = q
	out := append([]bson.D{}, f.docs[db+"/"+coll]...)
	return out, nil
}

func (f *fakeStore) FindByID(_ context.Context, db, coll, id string) (bson.D, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("FindByID"); err != nil {
		return nil, err
	}
	for _, d := range f.docs[db+"/"+coll] {
		if idOf(d) == id {
			return d, nil
		}
	}
	return nil, database.ErrNotFound
}

func (f *fakeStore) Insert(_ context.Context, db, coll string, doc bson.D) (bson.D, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("Insert"); err != nil {
		return nil, err
	}
	if _, ok := database.Lookup(doc, "_id"); !ok {
		doc = append(bson.D{{Key: "_id", Value: primitive.NewObjectID()}}, doc...)
	}
	key := db + "/" + coll
	f.docs[key] = append(f.docs[key], doc)
	return doc, nil
}

func (f *fakeStore) Update(_ context.Context, db, coll, id string, doc bson.D) (bson.D, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("Update"); err != nil {
		return nil, err
	}
	key := db + "/" + coll
	for i, d := range f.docs[key] {
		if idOf(d) != id {
			continue
		}
		replaced := bson.D{{Key: "_id", Value: d[0].Value}}
		for _, e := range doc {
			if e.Key != "_id" {
				replaced = append(replaced, e)
			}
		}
		f.docs[key][i] = replaced
		return replaced, nil
	}
	return nil, database.ErrNotFound
}

func (f *fakeStore) Delete(_ context.Context, db, coll, id string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("Delete"); err != nil {
		return 0, err
	}
	key := db + "/" + coll
	for i, d := range f.docs[key] {
		if idOf(d) == id {
			f.docs[key] = append(f.docs[key][:i], f.docs[key][i+1:]...)
			return 1, nil
		}
	}
	return 0, nil
}
