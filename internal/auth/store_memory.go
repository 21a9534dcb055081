// MongoREST - REST Interface for MongoDB Document Stores
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mongorest

package auth

import (
	"context"
	"sync"
)

// MemoryTokenStore keeps tokens in process memory.
// Suitable for development and testing.
type MemoryTokenStore struct {
	mu     sync.RWMutex
	tokens map[string]Token
}

// NewMemoryTokenStore creates an empty in-memory token store.
func NewMemoryTokenStore() *MemoryTokenStore {
	return &MemoryTokenStore{
		tokens: make(map[string]Token),
	}
}

// Create stores a copy of token.
func (s *MemoryTokenStore) Create(ctx context.Context, token *Token) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.tokens[token.Token] = *token
	return nil
}

// Get returns a copy of the stored token.
func (s *MemoryTokenStore) Get(ctx context.Context, token string) (*Token, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.tokens[token]
	if !ok {
		return nil, ErrTokenNotFound
	}
	if t.IsExpired() {
		return nil, ErrTokenExpired
	}
	return &t, nil
}

// FindByUser returns the newest unexpired token of userID.
func (s *MemoryTokenStore) FindByUser(ctx context.Context, userID string) (*Token, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var found *Token
	for _, t := range s.tokens {
		if t.UserID != userID || t.IsExpired() {
			continue
		}
		if found == nil || t.CreatedAt.After(found.CreatedAt) {
			copied := t
			found = &copied
		}
	}
	if found == nil {
		return nil, ErrTokenNotFound
	}
	return found, nil
}

// Delete removes token.
func (s *MemoryTokenStore) Delete(ctx context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.tokens, token)
	return nil
}

// CleanupExpired removes all expired tokens.
func (s *MemoryTokenStore) CleanupExpired(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	count := 0
	for id, t := range s.tokens {
		if t.IsExpired() {
			delete(s.tokens, id)
			count++
		}
	}
	return count, nil
}

// Len returns the number of stored tokens, expired or not.
func (s *MemoryTokenStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.tokens)
}
