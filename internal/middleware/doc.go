// MongoREST - REST Interface for MongoDB Document Stores
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mongorest

/*
Package middleware provides the HTTP middleware shared by every route.

Key Components:

  - RequestID: reuses X-Request-ID from an upstream proxy or generates a
    UUID, and stores it in the context for logging.Ctx
  - AccessLog: one zerolog line per request
  - PrometheusMetrics: request count, latency and in-flight gauge, labelled
    by chi route pattern

Middleware Stack:

The router installs them in this order, outermost first:

	r.Use(middleware.RequestID)
	r.Use(middleware.AccessLog)
	r.Use(middleware.PrometheusMetrics)

All middleware is chi-compatible (func(http.Handler) http.Handler) and safe
for concurrent use.

See Also:

  - internal/api: the router that installs this stack
  - internal/metrics: Prometheus metrics definitions
*/
package middleware
