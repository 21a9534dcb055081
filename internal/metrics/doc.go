// MongoREST - REST Interface for MongoDB Document Stores
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mongorest

/*
Package metrics provides Prometheus metrics collection and export for observability.

Collectors are registered on the default registry with promauto and exposed by
the metrics listener (metrics.enabled, default address :9090, path /metrics)
in Prometheus text format:

	curl http://localhost:9090/metrics

# Available Metrics

Store:
  - mongo_operation_duration_seconds{operation}
  - mongo_operation_errors_total{operation, error_type}
  - mongo_connections_total{result}
  - cache_hits_total / cache_misses_total / cache_entries {cache_type}

API:
  - api_requests_total{method, endpoint, status_code}
  - api_request_duration_seconds{method, endpoint}
  - api_active_requests
  - api_rate_limit_hits_total{endpoint}

Gates:
  - access_denied_total
  - auth_attempts_total{method, result}
  - auth_tokens_issued_total
  - auth_tokens_purged_total

The endpoint label is the chi route pattern, never the raw path, so label
cardinality stays bounded by the route table.
*/
package metrics
