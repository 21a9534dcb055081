// MongoREST - REST Interface for MongoDB Document Stores
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mongorest

package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"
)

// Token storage key prefixes
const (
	badgerTokenKeyPrefix     = "token:"
	badgerTokenUserKeyPrefix = "token_user:"
)

// BadgerTokenStore is a BadgerDB-backed token store. Tokens with an expiry
// are written with a matching Badger TTL.
type BadgerTokenStore struct {
	db *badger.DB
}

// NewBadgerTokenStore wraps an open BadgerDB.
func NewBadgerTokenStore(db *badger.DB) *BadgerTokenStore {
	return &BadgerTokenStore{db: db}
}

func tokenKey(token string) []byte {
	return []byte(badgerTokenKeyPrefix + token)
}

func userTokenKey(userID, token string) []byte {
	return []byte(badgerTokenUserKeyPrefix + userID + ":" + token)
}

// Create stores a new token.
func (s *BadgerTokenStore) Create(ctx context.Context, token *Token) error {
	data, err := json.Marshal(token)
	if err != nil {
		return fmt.Errorf("marshal token: %w", err)
	}

	return s.db.Update(func(txn *badger.Txn) error {
		tokenEntry := badger.NewEntry(tokenKey(token.Token), data)
		userEntry := badger.NewEntry(userTokenKey(token.UserID, token.Token), []byte(token.Token))
		if !token.ExpiresAt.IsZero() {
			ttl := time.Until(token.ExpiresAt)
			if ttl <= 0 {
				ttl = time.Minute
			}
			tokenEntry = tokenEntry.WithTTL(ttl)
			userEntry = userEntry.WithTTL(ttl)
		}

		if err := txn.SetEntry(tokenEntry); err != nil {
			return fmt.Errorf("set token: %w", err)
		}
		// User-to-token mapping for login reuse
		if err := txn.SetEntry(userEntry); err != nil {
			return fmt.Errorf("set user mapping: %w", err)
		}
		return nil
	})
}

func (s *BadgerTokenStore) read(txn *badger.Txn, token string) (*Token, error) {
	item, err := txn.Get(tokenKey(token))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, ErrTokenNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get token: %w", err)
	}

	var t Token
	if err := item.Value(func(val []byte) error {
		return json.Unmarshal(val, &t)
	}); err != nil {
		return nil, fmt.Errorf("decode token: %w", err)
	}
	return &t, nil
}

// Get retrieves a token.
func (s *BadgerTokenStore) Get(ctx context.Context, token string) (*Token, error) {
	var t *Token
	err := s.db.View(func(txn *badger.Txn) error {
		var err error
		t, err = s.read(txn, token)
		return err
	})
	if err != nil {
		return nil, err
	}
	if t.IsExpired() {
		return nil, ErrTokenExpired
	}
	return t, nil
}

// FindByUser returns the newest unexpired token of userID.
func (s *BadgerTokenStore) FindByUser(ctx context.Context, userID string) (*Token, error) {
	var found *Token

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = true
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(badgerTokenUserKeyPrefix + userID + ":")
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var value string
			if err := it.Item().Value(func(val []byte) error {
				value = string(val)
				return nil
			}); err != nil {
				return err
			}

			t, err := s.read(txn, value)
			if errors.Is(err, ErrTokenNotFound) {
				continue
			}
			if err != nil {
				return err
			}
			// The prefix scan also matches ids that extend userID with a colon.
			if t.UserID != userID || t.IsExpired() {
				continue
			}
			if found == nil || t.CreatedAt.After(found.CreatedAt) {
				found = t
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list user tokens: %w", err)
	}
	if found == nil {
		return nil, ErrTokenNotFound
	}
	return found, nil
}

// Delete removes a token and its user mapping.
func (s *BadgerTokenStore) Delete(ctx context.Context, token string) error {
	return s.db.Update(func(txn *badger.Txn) error {
		t, err := s.read(txn, token)
		if errors.Is(err, ErrTokenNotFound) {
			return nil // Already deleted
		}
		if err != nil {
			return err
		}

		if err := txn.Delete(tokenKey(token)); err != nil && !errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("delete token: %w", err)
		}
		if err := txn.Delete(userTokenKey(t.UserID, token)); err != nil && !errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("delete user mapping: %w", err)
		}
		return nil
	})
}

// CleanupExpired removes expired tokens that Badger has not yet dropped.
func (s *BadgerTokenStore) CleanupExpired(ctx context.Context) (int, error) {
	var expired []*Token

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = true
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(badgerTokenKeyPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var t Token
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &t)
			}); err != nil {
				return err
			}
			if t.IsExpired() {
				expired = append(expired, &t)
			}
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("scan tokens: %w", err)
	}

	count := 0
	for _, t := range expired {
		if err := s.Delete(ctx, t.Token); err != nil {
			continue
		}
		count++
	}
	return count, nil
}
