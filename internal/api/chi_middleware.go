// MongoREST - REST Interface for MongoDB Document Stores
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mongorest

package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"

	"github.com/tomtom215/mongorest/internal/config"
	"github.com/tomtom215/mongorest/internal/metrics"
)

// corsMaxAge is how long browsers may cache a preflight response, in seconds.
const corsMaxAge = 300

// ChiMiddlewareConfig holds configuration for Chi middleware factories.
type ChiMiddlewareConfig struct {
	// CORS configuration. No origins disables CORS.
	CORSAllowedOrigins []string
	CORSAllowedMethods []string
	CORSAllowedHeaders []string

	// Rate limiting configuration. Zero requests disables a limiter.
	RateLimitRequests      int
	RateLimitLoginRequests int
	RateLimitWindow        time.Duration
}

// ChiMiddlewareConfigFrom builds the middleware configuration from cfg.
func ChiMiddlewareConfigFrom(cfg *config.Config) *ChiMiddlewareConfig {
	var origins []string
	for _, o := range strings.Split(cfg.AccessControl.AllowOrigin, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return &ChiMiddlewareConfig{
		CORSAllowedOrigins:     origins,
		CORSAllowedMethods:     cfg.AccessControl.AllowMethods,
		CORSAllowedHeaders:     cfg.AccessControl.AllowHeaders,
		RateLimitRequests:      cfg.RateLimit.Requests,
		RateLimitLoginRequests: cfg.RateLimit.LoginRequests,
		RateLimitWindow:        cfg.RateLimit.Window,
	}
}

// ChiMiddleware provides Chi-compatible middleware factories.
type ChiMiddleware struct {
	config *ChiMiddlewareConfig
}

// NewChiMiddleware creates a new Chi middleware factory with the given configuration.
func NewChiMiddleware(config *ChiMiddlewareConfig) *ChiMiddleware {
	return &ChiMiddleware{config: config}
}

func passthrough(next http.Handler) http.Handler {
	return next
}

// CORS returns go-chi/cors configured from access_control, or a no-op when
// no origin is configured.
func (m *ChiMiddleware) CORS() func(http.Handler) http.Handler {
	if len(m.config.CORSAllowedOrigins) == 0 {
		return passthrough
	}
	return cors.Handler(cors.Options{
		AllowedOrigins:   m.config.CORSAllowedOrigins,
		AllowedMethods:   m.config.CORSAllowedMethods,
		AllowedHeaders:   m.config.CORSAllowedHeaders,
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           corsMaxAge,
	})
}

// RateLimit limits document routes per client IP.
func (m *ChiMiddleware) RateLimit() func(http.Handler) http.Handler {
	return m.limiter("api", m.config.RateLimitRequests)
}

// RateLimitLogin limits login attempts per client IP.
func (m *ChiMiddleware) RateLimitLogin() func(http.Handler) http.Handler {
	return m.limiter("login", m.config.RateLimitLoginRequests)
}

func (m *ChiMiddleware) limiter(endpoint string, requests int) func(http.Handler) http.Handler {
	if requests <= 0 || m.config.RateLimitWindow <= 0 {
		return passthrough
	}
	return httprate.Limit(
		requests,
		m.config.RateLimitWindow,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			metrics.APIRateLimitHits.WithLabelValues(endpoint).Inc()
			respondError(w, http.StatusTooManyRequests, msgTooMany)
		}),
	)
}
