// MongoREST - REST Interface for MongoDB Document Stores
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mongorest

package metrics

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

// TestRecordStoreOperation tests store operation metric recording
func TestRecordStoreOperation(t *testing.T) {
	tests := []struct {
		name      string
		operation string
		err       error
		wantErr   string
	}{
		{name: "successful find", operation: "find"},
		{name: "failed insert", operation: "insert", err: errors.New("duplicate key"), wantErr: "duplicate key"},
		{
			name:      "long error is truncated to 50 chars",
			operation: "update",
			err:       errors.New(strings.Repeat("x", 80)),
			wantErr:   strings.Repeat("x", 50),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			RecordStoreOperation(tt.operation, 5*time.Millisecond, tt.err)

			if tt.err == nil {
				return
			}
			got := testutil.ToFloat64(StoreOperationErrors.WithLabelValues(tt.operation, tt.wantErr))
			if got < 1 {
				t.Errorf("error counter for %s = %v, want >= 1", tt.operation, got)
			}
		})
	}
}

func TestRecordCacheLookup(t *testing.T) {
	hits := testutil.ToFloat64(CacheHits.WithLabelValues("test_cache"))
	misses := testutil.ToFloat64(CacheMisses.WithLabelValues("test_cache"))

	RecordCacheLookup("test_cache", true)
	RecordCacheLookup("test_cache", false)
	RecordCacheLookup("test_cache", false)

	if got := testutil.ToFloat64(CacheHits.WithLabelValues("test_cache")) - hits; got != 1 {
		t.Errorf("hits delta = %v, want 1", got)
	}
	if got := testutil.ToFloat64(CacheMisses.WithLabelValues("test_cache")) - misses; got != 2 {
		t.Errorf("misses delta = %v, want 2", got)
	}
}

func TestRecordAuthAttempt(t *testing.T) {
	before := testutil.ToFloat64(AuthAttemptsTotal.WithLabelValues("login", "failure"))
	RecordAuthAttempt("login", false)
	after := testutil.ToFloat64(AuthAttemptsTotal.WithLabelValues("login", "failure"))
	if after-before != 1 {
		t.Errorf("login failure delta = %v, want 1", after-before)
	}
}

func TestTrackActiveRequest(t *testing.T) {
	before := testutil.ToFloat64(APIActiveRequests)
	TrackActiveRequest(true)
	if got := testutil.ToFloat64(APIActiveRequests); got != before+1 {
		t.Errorf("active = %v, want %v", got, before+1)
	}
	TrackActiveRequest(false)
	if got := testutil.ToFloat64(APIActiveRequests); got != before {
		t.Errorf("active = %v, want %v", got, before)
	}
}

// TestMetricGathering tests that metrics can be gathered using testutil
func TestMetricGathering(t *testing.T) {
	RecordAPIRequest("GET", "/{db}/{collection}", "200", 10*time.Millisecond)
	RecordAccessDenied()
	RecordConnection(nil)

	problems, err := testutil.GatherAndLint(prometheus.DefaultGatherer)
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	for _, p := range problems {
		t.Errorf("lint problem in %s: %s", p.Metric, p.Text)
	}
}
