// MongoREST - REST Interface for MongoDB Document Stores
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mongorest

package database

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/tomtom215/mongorest/internal/metrics"
)

// MongoStore implements the document operations on top of a Resolver.
type MongoStore struct {
	resolver *Resolver
}

// NewMongoStore creates a store backed by resolver.
func NewMongoStore(resolver *Resolver) *MongoStore {
	return &MongoStore{resolver: resolver}
}

func observe(op string, start time.Time, err error) {
	metrics.RecordStoreOperation(op, time.Since(start), err)
}

// DatabaseNames lists every database on the server.
func (s *MongoStore) DatabaseNames(ctx context.Context) (names []string, err error) {
	defer func(start time.Time) { observe("list_databases", start, err) }(time.Now())

	client, err := s.resolver.Client(ctx)
	if err != nil {
		return nil, err
	}
	names, err = client.ListDatabaseNames(ctx, bson.D{})
	if err != nil {
		return nil, classify("list databases", err)
	}
	sort.Strings(names)
	return names, nil
}

// CollectionNames lists the collections of db, excluding system.* collections.
func (s *MongoStore) CollectionNames(ctx context.Context, db string) (names []string, err error) {
	defer func(start time.Time) { observe("list_collections", start, err) }(time.Now())

	database, err := s.resolver.Database(ctx, db)
	if err != nil {
		return nil, err
	}
	all, err := database.ListCollectionNames(ctx, bson.D{})
	if err != nil {
		return nil, classify("list collections", err)
	}

	names = make([]string, 0, len(all))
	for _, name := range all {
		if !strings.HasPrefix(name, "system.") {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names, nil
}

// Find returns every document in db.coll matching q. Never returns a nil slice.
func (s *MongoStore) Find(ctx context.Context, db, coll string, q Query) (docs []bson.D, err error) {
	defer func(start time.Time) { observe("find", start, err) }(time.Now())

	c, err := s.resolver.Collection(ctx, db, coll)
	if err != nil {
		return nil, err
	}

	opts := options.Find()
	if len(q.Projection) > 0 {
		opts.SetProjection(q.Projection)
	}
	if len(q.Sort) > 0 {
		opts.SetSort(q.Sort)
	}
	if q.Limit > 0 {
		opts.SetLimit(q.Limit)
	}
	if q.Skip > 0 {
		opts.SetSkip(q.Skip)
	}

	filter := q.Filter
	if filter == nil {
		filter = bson.D{}
	}

	cursor, err := c.Find(ctx, filter, opts)
	if err != nil {
		return nil, classify("find", err)
	}

	docs = []bson.D{}
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, classify("read cursor", err)
	}
	return docs, nil
}

// FindByID returns the document with the given path identifier, or ErrNotFound.
func (s *MongoStore) FindByID(ctx context.Context, db, coll, id string) (doc bson.D, err error) {
	defer func(start time.Time) { observe("find_one", start, err) }(time.Now())

	c, err := s.resolver.Collection(ctx, db, coll)
	if err != nil {
		return nil, err
	}
	if err := c.FindOne(ctx, IDFilter(id)).Decode(&doc); err != nil {
		return nil, classify("find "+id, err)
	}
	return doc, nil
}

// Insert stores doc and returns it with its _id. A caller-supplied _id is kept.
func (s *MongoStore) Insert(ctx context.Context, db, coll string, doc bson.D) (inserted bson.D, err error) {
	defer func(start time.Time) { observe("insert", start, err) }(time.Now())

	c, err := s.resolver.Collection(ctx, db, coll)
	if err != nil {
		return nil, err
	}

	id, ok := Lookup(doc, "_id")
	if !ok {
		id = primitive.NewObjectID()
	}
	inserted = withID(doc, id)

	if _, err := c.InsertOne(ctx, inserted); err != nil {
		return nil, classify("insert", err)
	}
	return inserted, nil
}

// Update applies doc to the document with the given identifier and returns
// the result. Operator documents are applied as updates; anything else
// replaces the stored document, keeping its _id.
func (s *MongoStore) Update(ctx context.Context, db, coll, id string, doc bson.D) (updated bson.D, err error) {
	defer func(start time.Time) { observe("update", start, err) }(time.Now())

	c, err := s.resolver.Collection(ctx, db, coll)
	if err != nil {
		return nil, err
	}

	filter := IDFilter(id)
	if HasOperators(doc) {
		opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
		err = c.FindOneAndUpdate(ctx, filter, doc, opts).Decode(&updated)
	} else {
		opts := options.FindOneAndReplace().SetReturnDocument(options.After)
		err = c.FindOneAndReplace(ctx, filter, without(doc, "_id"), opts).Decode(&updated)
	}
	if err != nil {
		return nil, classify(fmt.Sprintf("update %s", id), err)
	}
	return updated, nil
}

// Delete removes the document with the given identifier and returns the
// number of documents removed. A missing document is not an error.
func (s *MongoStore) Delete(ctx context.Context, db, coll, id string) (n int64, err error) {
	defer func(start time.Time) { observe("delete", start, err) }(time.Now())

	c, err := s.resolver.Collection(ctx, db, coll)
	if err != nil {
		return 0, err
	}
	res, err := c.DeleteOne(ctx, IDFilter(id))
	if err != nil {
		return 0, classify(fmt.Sprintf("delete %s", id), err)
	}
	return res.DeletedCount, nil
}
