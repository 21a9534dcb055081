// MongoREST - REST Interface for MongoDB Document Stores
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mongorest

package api

import (
	"errors"
	"net/http"

	"github.com/goccy/go-json"

	"github.com/tomtom215/mongorest/internal/database"
	"github.com/tomtom215/mongorest/internal/logging"
)

// Response messages.
const (
	msgServerError  = "Server error"
	msgNotFound     = "Document not found"
	msgInvalidBody  = "Request body must be a JSON document"
	msgRouteMissing = "Not found"
	msgInvalidPath  = "Invalid path encoding"
	msgMixedUpdate  = "Update operators cannot be mixed with plain fields"
	msgTooMany      = "Too many requests"
)

// StatusResponse is the {"ok":..., "message":...} body used for errors and
// acknowledgements.
type StatusResponse struct {
	OK      int    `json:"ok"`
	Message string `json:"message,omitempty"`
}

// DeleteResponse reports how many documents a delete removed.
type DeleteResponse struct {
	OK int   `json:"ok"`
	N  int64 `json:"n"`
}

// respondJSON writes v as JSON. Document results go through the formatter;
// this is for fixed-shape bodies.
func respondJSON(w http.ResponseWriter, status int, v interface{}) {
	body, err := json.Marshal(v)
	if err != nil {
		logging.Error().Err(err).Msg("Failed to encode JSON response")
		status = http.StatusInternalServerError
		body = []byte(`{"ok":0,"message":"Server error"}`)
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if _, err := w.Write(body); err != nil {
		logging.Debug().Err(err).Msg("Failed to write response")
	}
}

// respondError writes {"ok":0,"message":message}.
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, StatusResponse{OK: 0, Message: message})
}

// respondStoreError maps a store error to a response. Not-found becomes 404;
// everything else is logged and becomes 500.
func respondStoreError(w http.ResponseWriter, t *Tools, op string, err error) {
	if errors.Is(err, database.ErrNotFound) {
		respondError(w, http.StatusNotFound, msgNotFound)
		return
	}

	t.Logger.Error().Err(err).
		Str("operation", op).
		Str("database", t.Target.Database).
		Str("collection", t.Target.Collection).
		Bool("connection_error", errors.Is(err, database.ErrConnection)).
		Msg("Store operation failed")
	respondError(w, http.StatusInternalServerError, msgServerError)
}
