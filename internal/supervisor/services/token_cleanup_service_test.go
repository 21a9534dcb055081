// MongoREST - REST Interface for MongoDB Document Stores
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mongorest

package services

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/thejerf/suture/v4"
)

type fakeCleaner struct {
	calls atomic.Int32
	err   error
}

func (f *fakeCleaner) CleanupExpired(context.Context) (int, error) {
	f.calls.Add(1)
	if f.err != nil {
		return 0, f.err
	}
	return 2, nil
}

func TestTokenCleanupService_Interface(t *testing.T) {
	var _ suture.Service = (*TokenCleanupService)(nil)
}

func TestNewTokenCleanupService_DefaultInterval(t *testing.T) {
	for _, interval := range []time.Duration{0, -time.Minute} {
		svc := NewTokenCleanupService(&fakeCleaner{}, interval)
		if svc.interval != DefaultCleanupInterval {
			t.Errorf("interval for %v = %v, want %v", interval, svc.interval, DefaultCleanupInterval)
		}
	}
	if got := NewTokenCleanupService(&fakeCleaner{}, time.Minute).String(); got != "token-cleanup" {
		t.Errorf("String() = %q", got)
	}
}

func TestTokenCleanupService_Serve(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"successful sweeps", nil},
		{"failing sweeps keep running", errors.New("store unavailable")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cleaner := &fakeCleaner{err: tt.err}
			svc := NewTokenCleanupService(cleaner, 10*time.Millisecond)

			ctx, cancel := context.WithCancel(context.Background())
			errCh := make(chan error, 1)
			go func() { errCh <- svc.Serve(ctx) }()

			deadline := time.Now().Add(2 * time.Second)
			for cleaner.calls.Load() < 3 && time.Now().Before(deadline) {
				time.Sleep(5 * time.Millisecond)
			}
			if got := cleaner.calls.Load(); got < 3 {
				t.Errorf("sweeps = %d, want >= 3", got)
			}

			cancel()
			select {
			case err := <-errCh:
				if !errors.Is(err, context.Canceled) {
					t.Errorf("Serve returned %v, want context.Canceled", err)
				}
			case <-time.After(time.Second):
				t.Fatal("Serve did not return after cancellation")
			}
		})
	}
}

func TestTokenCleanupService_SweepsAtStartup(t *testing.T) {
	cleaner := &fakeCleaner{}
	svc := NewTokenCleanupService(cleaner, time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- svc.Serve(ctx) }()

	deadline := time.Now().Add(time.Second)
	for cleaner.calls.Load() == 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	cancel()
	<-errCh

	if got := cleaner.calls.Load(); got != 1 {
		t.Errorf("sweeps = %d, want 1", got)
	}
}
