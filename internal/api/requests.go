// MongoREST - REST Interface for MongoDB Document Stores
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mongorest

package api

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/tomtom215/mongorest/internal/auth"
	"github.com/tomtom215/mongorest/internal/database"
)

// maxBodyBytes is the largest document MongoDB accepts.
const maxBodyBytes = 16 << 20

// Query parameters with a fixed meaning. Everything else is a field filter.
const (
	paramQuery  = "query"
	paramFields = "fields"
	paramSort   = "sort"
	paramLimit  = "limit"
	paramSkip   = "skip"
	paramOutput = "output"
)

var reservedParams = map[string]bool{
	paramQuery:           true,
	paramFields:          true,
	paramSort:            true,
	paramLimit:           true,
	paramSkip:            true,
	paramOutput:          true,
	auth.TokenQueryParam: true,
}

// parseExtJSON decodes a relaxed extended JSON document.
func parseExtJSON(data []byte) (bson.D, error) {
	var doc bson.D
	if err := bson.UnmarshalExtJSON(data, false, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// parseQuery builds a store query from URL parameters.
func parseQuery(values url.Values) (database.Query, error) {
	var q database.Query

	docs := []struct {
		param string
		dst   *bson.D
	}{
		{paramQuery, &q.Filter},
		{paramFields, &q.Projection},
		{paramSort, &q.Sort},
	}
	for _, d := range docs {
		raw := values.Get(d.param)
		if raw == "" {
			continue
		}
		doc, err := parseExtJSON([]byte(raw))
		if err != nil {
			return q, fmt.Errorf("%w: %s: %v", ErrInvalidQuery, d.param, err)
		}
		*d.dst = doc
	}

	var err error
	if q.Limit, err = parseCount(values, paramLimit); err != nil {
		return q, err
	}
	if q.Skip, err = parseCount(values, paramSkip); err != nil {
		return q, err
	}

	// Sorted so the filter is deterministic.
	keys := make([]string, 0, len(values))
	for key := range values {
		if !reservedParams[key] {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)

	for _, key := range keys {
		if key == "" || strings.HasPrefix(key, "$") {
			return q, fmt.Errorf("%w: field filter %q", ErrInvalidQuery, key)
		}
		if _, exists := database.Lookup(q.Filter, key); exists {
			continue
		}
		vals := values[key]
		if len(vals) == 1 {
			q.Filter = append(q.Filter, bson.E{Key: key, Value: vals[0]})
			continue
		}
		in := make(bson.A, len(vals))
		for i, v := range vals {
			in[i] = v
		}
		q.Filter = append(q.Filter, bson.E{Key: key, Value: bson.D{{Key: "$in", Value: in}}})
	}

	return q, nil
}

func parseCount(values url.Values, param string) (int64, error) {
	raw := values.Get(param)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%w: %s must be a non-negative integer", ErrInvalidQuery, param)
	}
	return n, nil
}

// readDocument decodes the request body into one document. An array body
// yields its first element. An absent body, blank body or empty array
// returns ErrEmptyBody.
func readDocument(w http.ResponseWriter, r *http.Request) (bson.D, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBody, err)
	}

	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return nil, ErrEmptyBody
	}

	if body[0] == '[' {
		var items []json.RawMessage
		if err := json.Unmarshal(body, &items); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidBody, err)
		}
		if len(items) == 0 {
			return nil, ErrEmptyBody
		}
		body = bytes.TrimSpace(items[0])
	}

	if len(body) == 0 || body[0] != '{' {
		return nil, fmt.Errorf("%w: expected a JSON object", ErrInvalidBody)
	}
	doc, err := parseExtJSON(body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBody, err)
	}
	return doc, nil
}
