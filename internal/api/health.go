// MongoREST - REST Interface for MongoDB Document Stores
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mongorest

package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tomtom215/mongorest/internal/logging"
)

// healthTimeout bounds the readiness ping.
const healthTimeout = 2 * time.Second

// HealthLive always reports 200 while the process serves requests.
func HealthLive(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, StatusResponse{OK: 1})
}

// HealthReady pings the store and reports 503 when it is unreachable.
func HealthReady(p Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
		defer cancel()

		if err := p.Ping(ctx); err != nil {
			logging.Ctx(r.Context()).Warn().Err(err).Msg("Readiness check failed")
			respondError(w, http.StatusServiceUnavailable, "Store unreachable")
			return
		}
		respondJSON(w, http.StatusOK, StatusResponse{OK: 1})
	}
}

// NewOpsRouter serves Prometheus metrics at metricsPath plus the health
// checks. It is meant for a listener separate from the REST routes so the
// health checks bypass authentication and access control.
func NewOpsRouter(metricsPath string, p Pinger) http.Handler {
	if metricsPath == "" {
		metricsPath = "/metrics"
	}
	r := chi.NewRouter()
	r.Handle(metricsPath, promhttp.Handler())
	r.Get("/health/live", HealthLive)
	r.Get("/health/ready", HealthReady(p))
	return r
}
