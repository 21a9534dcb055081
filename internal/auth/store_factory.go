// MongoREST - REST Interface for MongoDB Document Stores
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mongorest

package auth

import (
	"context"
	"fmt"
	"os"

	"github.com/dgraph-io/badger/v4"

	"github.com/tomtom215/mongorest/internal/config"
	"github.com/tomtom215/mongorest/internal/database"
	"github.com/tomtom215/mongorest/internal/logging"
)

// TokenStoreFactory creates the token store named by auth.token_store and
// owns any resource it opened.
type TokenStoreFactory struct {
	cfg      config.AuthConfig
	resolver *database.Resolver
	db       *badger.DB
}

// NewTokenStoreFactory opens a BadgerDB when the badger backend is selected.
// resolver is only used by the mongo backend and may be nil otherwise.
func NewTokenStoreFactory(cfg config.AuthConfig, resolver *database.Resolver) (*TokenStoreFactory, error) {
	factory := &TokenStoreFactory{cfg: cfg, resolver: resolver}

	if cfg.TokenStore == config.TokenStoreBadger {
		if err := os.MkdirAll(cfg.TokenStorePath, 0o750); err != nil {
			return nil, fmt.Errorf("create token store directory %s: %w", cfg.TokenStorePath, err)
		}
		opts := badger.DefaultOptions(cfg.TokenStorePath)
		opts.Logger = nil // Suppress BadgerDB logs

		db, err := badger.Open(opts)
		if err != nil {
			return nil, fmt.Errorf("open badger db for tokens: %w", err)
		}
		factory.db = db
	}

	return factory, nil
}

// CreateStore returns the configured TokenStore.
func (f *TokenStoreFactory) CreateStore(ctx context.Context) (TokenStore, error) {
	switch f.cfg.TokenStore {
	case config.TokenStoreBadger:
		return NewBadgerTokenStore(f.db), nil
	case config.TokenStoreMemory:
		return NewMemoryTokenStore(), nil
	case config.TokenStoreMongo, "":
		if f.resolver == nil {
			return nil, fmt.Errorf("mongo token store requires a resolver")
		}
		store := NewMongoTokenStore(f.resolver, f.cfg.TokensCollection)
		if err := store.EnsureIndexes(ctx); err != nil {
			// The store still works without indexes, only slower.
			logging.Warn().Err(err).Msg("Failed to create token indexes")
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unknown token store %q", f.cfg.TokenStore)
	}
}

// Close closes the BadgerDB if one was opened.
func (f *TokenStoreFactory) Close() error {
	if f.db != nil {
		return f.db.Close()
	}
	return nil
}
