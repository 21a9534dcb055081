// MongoREST - REST Interface for MongoDB Document Stores
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mongorest

package database

import (
	"sync"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/tomtom215/mongorest/internal/metrics"
)

const collectionCacheType = "collection_handle"

// CollectionCache holds opened collection handles keyed by "database/collection".
// Entries live for the process lifetime.
type CollectionCache struct {
	mu      sync.RWMutex
	handles map[string]*mongo.Collection
}

// NewCollectionCache creates an empty cache.
func NewCollectionCache() *CollectionCache {
	return &CollectionCache{handles: make(map[string]*mongo.Collection)}
}

func cacheKey(db, coll string) string {
	return db + "/" + coll
}

// Get returns the cached handle for db/coll.
func (c *CollectionCache) Get(db, coll string) (*mongo.Collection, bool) {
	c.mu.RLock()
	h, ok := c.handles[cacheKey(db, coll)]
	c.mu.RUnlock()

	metrics.RecordCacheLookup(collectionCacheType, ok)
	return h, ok
}

// GetOrCreate returns the cached handle or stores the one built by create.
// Double-checked so concurrent callers share a single handle.
func (c *CollectionCache) GetOrCreate(db, coll string, create func() *mongo.Collection) *mongo.Collection {
	if h, ok := c.Get(db, coll); ok {
		return h
	}

	key := cacheKey(db, coll)
	c.mu.Lock()
	defer c.mu.Unlock()

	if h, ok := c.handles[key]; ok {
		return h
	}
	h := create()
	c.handles[key] = h
	metrics.CacheSize.WithLabelValues(collectionCacheType).Set(float64(len(c.handles)))
	return h
}

// Len returns the number of cached handles.
func (c *CollectionCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.handles)
}
