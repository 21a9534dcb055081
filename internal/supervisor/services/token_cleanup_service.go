// MongoREST - REST Interface for MongoDB Document Stores
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mongorest

package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/mongorest/internal/logging"
)

// DefaultCleanupInterval applies when a non-positive interval is given.
const DefaultCleanupInterval = time.Hour

// TokenCleaner purges expired session tokens and reports how many went.
// *auth.Authenticator satisfies it.
type TokenCleaner interface {
	CleanupExpired(ctx context.Context) (int, error)
}

// TokenCleanupService sweeps expired session tokens on a fixed interval.
// Sweep errors are logged and retried on the next tick rather than
// returned, so a flaky token store does not trigger supervisor backoff.
type TokenCleanupService struct {
	cleaner  TokenCleaner
	interval time.Duration
	logger   zerolog.Logger
}

// NewTokenCleanupService creates a cleanup service for cleaner.
func NewTokenCleanupService(cleaner TokenCleaner, interval time.Duration) *TokenCleanupService {
	if interval <= 0 {
		interval = DefaultCleanupInterval
	}
	return &TokenCleanupService{
		cleaner:  cleaner,
		interval: interval,
		logger:   logging.WithComponent("token-cleanup"),
	}
}

// Serve implements suture.Service. It sweeps once at startup, then on
// every tick until ctx is canceled.
func (s *TokenCleanupService) Serve(ctx context.Context) error {
	s.sweep(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

func (s *TokenCleanupService) sweep(ctx context.Context) {
	n, err := s.cleaner.CleanupExpired(ctx)
	if err != nil {
		if ctx.Err() == nil {
			s.logger.Warn().Err(err).Msg("Token cleanup failed")
		}
		return
	}
	if n > 0 {
		s.logger.Debug().Int("purged", n).Msg("Expired tokens purged")
	}
}

// String names the service in supervisor events.
func (s *TokenCleanupService) String() string {
	return "token-cleanup"
}
