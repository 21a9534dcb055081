// MongoREST - REST Interface for MongoDB Document Stores
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mongorest

package format

import (
	"bytes"
	"net/http"
	"strings"

	"github.com/goccy/go-json"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/tomtom215/mongorest/internal/config"
	"github.com/tomtom215/mongorest/internal/logging"
)

// Content types written by the formatter.
const (
	ContentTypeJSON = "application/json; charset=utf-8"
	ContentTypeCSV  = "text/csv; charset=utf-8"
)

// Formatter writes JSON and CSV responses.
type Formatter struct {
	defaultFormat string
	indent        bool
}

// New creates a formatter. defaultFormat is the configured collection output
// type; humanReadable indents JSON.
func New(defaultFormat string, humanReadable bool) *Formatter {
	f := strings.ToLower(defaultFormat)
	if f != config.OutputCSV {
		f = config.OutputJSON
	}
	return &Formatter{defaultFormat: f, indent: humanReadable}
}

// Select picks the output format: requested > configured > JSON.
// Unknown requested values fall back to the configured format.
func (f *Formatter) Select(requested string) string {
	switch strings.ToLower(requested) {
	case config.OutputJSON:
		return config.OutputJSON
	case config.OutputCSV:
		return config.OutputCSV
	default:
		return f.defaultFormat
	}
}

// Marshal encodes v as JSON, indented when configured.
func (f *Formatter) Marshal(v interface{}) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	if !f.indent {
		return data, nil
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, data, "", "  "); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// JSON writes v with status. BSON values in v are normalized first.
func (f *Formatter) JSON(w http.ResponseWriter, status int, v interface{}) {
	data, err := f.Marshal(Normalize(v))
	if err != nil {
		logging.Error().Err(err).Msg("Failed to encode JSON response")
		w.Header().Set("Content-Type", ContentTypeJSON)
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"ok":0,"message":"Server error"}`)) //nolint:errcheck // best-effort
		return
	}

	w.Header().Set("Content-Type", ContentTypeJSON)
	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		logging.Debug().Err(err).Msg("Failed to write JSON response")
	}
}

// Document writes a single document as JSON.
func (f *Formatter) Document(w http.ResponseWriter, status int, doc bson.D) {
	f.JSON(w, status, doc)
}

// Render writes a result set in the given format with status 200.
func (f *Formatter) Render(w http.ResponseWriter, docs []bson.D, format string) {
	if format != config.OutputCSV {
		f.JSON(w, http.StatusOK, NormalizeAll(docs))
		return
	}

	w.Header().Set("Content-Type", ContentTypeCSV)
	w.WriteHeader(http.StatusOK)
	if err := WriteCSV(w, docs); err != nil {
		logging.Debug().Err(err).Msg("Failed to write CSV response")
	}
}
