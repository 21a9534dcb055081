// MongoREST - REST Interface for MongoDB Document Stores
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mongorest

package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/tomtom215/mongorest/internal/config"
)

func newTestBadgerStore(t *testing.T) *BadgerTokenStore {
	t.Helper()
	opts := badger.DefaultOptions("").WithInMemory(true)
	opts.Logger = nil
	db, err := badger.Open(opts)
	if err != nil {
		t.Fatalf("open badger: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return NewBadgerTokenStore(db)
}

func TestBadgerTokenStore(t *testing.T) {
	store := newTestBadgerStore(t)
	ctx := context.Background()

	older := &Token{Token: "t1", UserID: "u1", Email: "a@b.c", CreatedAt: time.Now().Add(-time.Minute)}
	newer := &Token{Token: "t2", UserID: "u1", Email: "a@b.c", CreatedAt: time.Now(), ExpiresAt: time.Now().Add(time.Hour)}
	other := &Token{Token: "t3", UserID: "u2", CreatedAt: time.Now()}
	for _, tok := range []*Token{older, newer, other} {
		if err := store.Create(ctx, tok); err != nil {
			t.Fatalf("Create(%s): %v", tok.Token, err)
		}
	}

	got, err := store.Get(ctx, "t1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.UserID != "u1" || got.Email != "a@b.c" {
		t.Errorf("Get() = %+v", got)
	}

	found, err := store.FindByUser(ctx, "u1")
	if err != nil {
		t.Fatalf("FindByUser: %v", err)
	}
	if found.Token != "t2" {
		t.Errorf("FindByUser() = %s, want newest token t2", found.Token)
	}

	if err := store.Delete(ctx, "t2"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := store.Delete(ctx, "t2"); err != nil {
		t.Errorf("second Delete: %v", err)
	}
	if _, err := store.Get(ctx, "t2"); !errors.Is(err, ErrTokenNotFound) {
		t.Errorf("Get deleted: err = %v, want ErrTokenNotFound", err)
	}

	found, err = store.FindByUser(ctx, "u1")
	if err != nil {
		t.Fatalf("FindByUser after delete: %v", err)
	}
	if found.Token != "t1" {
		t.Errorf("FindByUser() = %s, want t1", found.Token)
	}

	if _, err := store.FindByUser(ctx, "u9"); !errors.Is(err, ErrTokenNotFound) {
		t.Errorf("FindByUser unknown: err = %v, want ErrTokenNotFound", err)
	}
}

func TestBadgerTokenStoreFindByUserExactID(t *testing.T) {
	store := newTestBadgerStore(t)
	ctx := context.Background()

	// "alice:admin" shares the "alice:" key prefix with "alice".
	if err := store.Create(ctx, &Token{Token: "admin-token", UserID: "alice:admin", CreatedAt: time.Now()}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	if got, err := store.FindByUser(ctx, "alice"); !errors.Is(err, ErrTokenNotFound) {
		t.Errorf("FindByUser(alice) = %+v, %v; want ErrTokenNotFound", got, err)
	}

	if err := store.Create(ctx, &Token{Token: "alice-token", UserID: "alice", CreatedAt: time.Now().Add(-time.Minute)}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	got, err := store.FindByUser(ctx, "alice")
	if err != nil {
		t.Fatalf("FindByUser(alice): %v", err)
	}
	if got.Token != "alice-token" {
		t.Errorf("FindByUser(alice) = %s, want alice-token", got.Token)
	}

	got, err = store.FindByUser(ctx, "alice:admin")
	if err != nil || got.Token != "admin-token" {
		t.Errorf("FindByUser(alice:admin) = %+v, %v; want admin-token", got, err)
	}
}

func TestBadgerTokenStoreExpired(t *testing.T) {
	store := newTestBadgerStore(t)
	ctx := context.Background()

	// Tokens already past expiry are kept on disk for a short grace TTL.
	tok := &Token{Token: "old", UserID: "u1", CreatedAt: time.Now(), ExpiresAt: time.Now().Add(-time.Millisecond)}
	if err := store.Create(ctx, tok); err != nil {
		t.Fatalf("Create: %v", err)
	}

	if _, err := store.Get(ctx, "old"); !errors.Is(err, ErrTokenExpired) {
		t.Errorf("Get expired: err = %v, want ErrTokenExpired", err)
	}
	if _, err := store.FindByUser(ctx, "u1"); !errors.Is(err, ErrTokenNotFound) {
		t.Errorf("FindByUser expired: err = %v, want ErrTokenNotFound", err)
	}

	n, err := store.CleanupExpired(ctx)
	if err != nil {
		t.Fatalf("CleanupExpired: %v", err)
	}
	if n != 1 {
		t.Errorf("CleanupExpired() = %d, want 1", n)
	}
}

func TestTokenStoreFactory(t *testing.T) {
	ctx := context.Background()

	f, err := NewTokenStoreFactory(config.AuthConfig{TokenStore: config.TokenStoreMemory}, nil)
	if err != nil {
		t.Fatalf("memory factory: %v", err)
	}
	store, err := f.CreateStore(ctx)
	if err != nil {
		t.Fatalf("CreateStore memory: %v", err)
	}
	if _, ok := store.(*MemoryTokenStore); !ok {
		t.Errorf("store = %T, want *MemoryTokenStore", store)
	}
	if err := f.Close(); err != nil {
		t.Errorf("Close: %v", err)
	}

	f, err = NewTokenStoreFactory(config.AuthConfig{
		TokenStore:     config.TokenStoreBadger,
		TokenStorePath: t.TempDir(),
	}, nil)
	if err != nil {
		t.Fatalf("badger factory: %v", err)
	}
	store, err = f.CreateStore(ctx)
	if err != nil {
		t.Fatalf("CreateStore badger: %v", err)
	}
	if _, ok := store.(*BadgerTokenStore); !ok {
		t.Errorf("store = %T, want *BadgerTokenStore", store)
	}
	if err := f.Close(); err != nil {
		t.Errorf("Close badger: %v", err)
	}

	f, err = NewTokenStoreFactory(config.AuthConfig{TokenStore: config.TokenStoreMongo}, nil)
	if err != nil {
		t.Fatalf("mongo factory: %v", err)
	}
	if _, err := f.CreateStore(ctx); err == nil {
		t.Error("mongo store without resolver: expected error")
	}
}
