// MongoREST - REST Interface for MongoDB Document Stores
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mongorest

package database

import (
	"context"
	"fmt"
	"sync"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/tomtom215/mongorest/internal/config"
	"github.com/tomtom215/mongorest/internal/logging"
	"github.com/tomtom215/mongorest/internal/metrics"
)

// Resolver turns a store descriptor into live database and collection handles.
// The client is created on first use and reused afterwards; pooling is left
// to the driver.
type Resolver struct {
	desc  config.StoreDescriptor
	opts  config.MongoConfig
	cache *CollectionCache

	mu     sync.Mutex
	client *mongo.Client

	// connect is swapped in tests.
	connect func(ctx context.Context, opts ...*options.ClientOptions) (*mongo.Client, error)
}

// NewResolver creates a resolver for desc. A nil cache gets a fresh one.
func NewResolver(desc config.StoreDescriptor, opts config.MongoConfig, cache *CollectionCache) *Resolver {
	if cache == nil {
		cache = NewCollectionCache()
	}
	return &Resolver{
		desc:    desc,
		opts:    opts,
		cache:   cache,
		connect: mongo.Connect,
	}
}

func (r *Resolver) clientOptions() *options.ClientOptions {
	opts := options.Client().ApplyURI(r.desc.URI)
	if r.opts.ConnectTimeout > 0 {
		opts.SetConnectTimeout(r.opts.ConnectTimeout)
		opts.SetServerSelectionTimeout(r.opts.ConnectTimeout)
	}
	if r.opts.MaxPoolSize > 0 {
		opts.SetMaxPoolSize(r.opts.MaxPoolSize)
	}
	if r.opts.AppName != "" {
		opts.SetAppName(r.opts.AppName)
	}
	return opts
}

// Client returns the connected client, connecting and pinging on first use.
// A failed attempt is not cached, so the next call retries.
func (r *Resolver) Client(ctx context.Context) (*mongo.Client, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.client != nil {
		return r.client, nil
	}

	client, err := r.connect(ctx, r.clientOptions())
	if err != nil {
		metrics.RecordConnection(err)
		logging.Error().Err(err).Str("database", r.desc.Database).Msg("Failed to connect to MongoDB")
		return nil, fmt.Errorf("%w: %v", ErrConnection, err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		metrics.RecordConnection(err)
		logging.Error().Err(err).Str("database", r.desc.Database).Msg("Failed to ping MongoDB")
		if dErr := client.Disconnect(context.WithoutCancel(ctx)); dErr != nil {
			logging.Warn().Err(dErr).Msg("Failed to disconnect after ping failure")
		}
		return nil, fmt.Errorf("%w: %v", ErrConnection, err)
	}

	metrics.RecordConnection(nil)
	logging.Info().Str("database", r.desc.Database).Msg("Connected to MongoDB")
	r.client = client
	return client, nil
}

// Database returns a handle for name. An empty name selects the descriptor's database.
func (r *Resolver) Database(ctx context.Context, name string) (*mongo.Database, error) {
	client, err := r.Client(ctx)
	if err != nil {
		return nil, err
	}
	if name == "" {
		name = r.desc.Database
	}
	return client.Database(name), nil
}

// Collection returns a cached handle for db/coll.
func (r *Resolver) Collection(ctx context.Context, db, coll string) (*mongo.Collection, error) {
	if db == "" {
		db = r.desc.Database
	}
	if h, ok := r.cache.Get(db, coll); ok {
		return h, nil
	}

	client, err := r.Client(ctx)
	if err != nil {
		return nil, err
	}
	return r.cache.GetOrCreate(db, coll, func() *mongo.Collection {
		return client.Database(db).Collection(coll)
	}), nil
}

// Ping checks that the server is reachable.
func (r *Resolver) Ping(ctx context.Context) error {
	client, err := r.Client(ctx)
	if err != nil {
		return err
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		return fmt.Errorf("%w: %v", ErrConnection, err)
	}
	return nil
}

// Close disconnects the client if one was opened.
func (r *Resolver) Close(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.client == nil {
		return nil
	}
	err := r.client.Disconnect(ctx)
	r.client = nil
	if err != nil {
		return fmt.Errorf("disconnect: %w", err)
	}
	return nil
}
