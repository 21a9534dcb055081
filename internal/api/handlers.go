// MongoREST - REST Interface for MongoDB Document Stores
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mongorest

package api

import (
	"errors"
	"net/http"

	"github.com/tomtom215/mongorest/internal/database"
)

// ListDatabases responds with every database name the access gate allows.
func ListDatabases(w http.ResponseWriter, r *http.Request, t *Tools) {
	names, err := t.Store.DatabaseNames(r.Context())
	if err != nil {
		respondStoreError(w, t, "list_databases", err)
		return
	}
	t.Formatter.JSON(w, http.StatusOK, t.Gate.FilterDatabases(names))
}

// ListCollections responds with the allowed collection names of the target database.
func ListCollections(w http.ResponseWriter, r *http.Request, t *Tools) {
	names, err := t.Store.CollectionNames(r.Context(), t.Target.Database)
	if err != nil {
		respondStoreError(w, t, "list_collections", err)
		return
	}
	allowed := t.Gate.FilterCollections(t.Target.Database, names)
	visible := allowed[:0]
	for _, name := range allowed {
		if !t.isProtected(t.Target.Database, name) {
			visible = append(visible, name)
		}
	}
	t.Formatter.JSON(w, http.StatusOK, visible)
}

// Query responds with one document when the path carries an identifier,
// otherwise with every document matching the query parameters.
func Query(w http.ResponseWriter, r *http.Request, t *Tools) {
	if t.Target.ID != "" {
		doc, err := t.Store.FindByID(r.Context(), t.Target.Database, t.Target.Collection, t.Target.ID)
		if err != nil {
			respondStoreError(w, t, "find_one", err)
			return
		}
		t.Formatter.Document(w, http.StatusOK, doc)
		return
	}

	values := r.URL.Query()
	q, err := parseQuery(values)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	docs, err := t.Store.Find(r.Context(), t.Target.Database, t.Target.Collection, q)
	if err != nil {
		respondStoreError(w, t, "find", err)
		return
	}
	t.Formatter.Render(w, docs, t.Formatter.Select(values.Get(paramOutput)))
}

// Insert stores the body document. Only the first element of an array body
// is stored. An empty body stores nothing and responds with [].
func Insert(w http.ResponseWriter, r *http.Request, t *Tools) {
	doc, err := readDocument(w, r)
	switch {
	case errors.Is(err, ErrEmptyBody):
		t.Formatter.JSON(w, http.StatusOK, []interface{}{})
		return
	case err != nil:
		t.Logger.Debug().Err(err).Msg("Rejected insert body")
		respondError(w, http.StatusBadRequest, msgInvalidBody)
		return
	}

	inserted, err := t.Store.Insert(r.Context(), t.Target.Database, t.Target.Collection, doc)
	if err != nil {
		respondStoreError(w, t, "insert", err)
		return
	}
	t.Formatter.Document(w, http.StatusCreated, inserted)
}

// Update applies the body to the identified document: bodies with $
// operators are merged, anything else replaces the document. Bodies mixing
// both are rejected.
func Update(w http.ResponseWriter, r *http.Request, t *Tools) {
	doc, err := readDocument(w, r)
	if err != nil {
		t.Logger.Debug().Err(err).Msg("Rejected update body")
		respondError(w, http.StatusBadRequest, msgInvalidBody)
		return
	}
	if database.MixesOperators(doc) {
		respondError(w, http.StatusBadRequest, msgMixedUpdate)
		return
	}

	updated, err := t.Store.Update(r.Context(), t.Target.Database, t.Target.Collection, t.Target.ID, doc)
	if err != nil {
		respondStoreError(w, t, "update", err)
		return
	}
	t.Formatter.Document(w, http.StatusOK, updated)
}

// Delete removes the identified document. Deleting a missing document is not
// an error; n is 0.
func Delete(w http.ResponseWriter, r *http.Request, t *Tools) {
	n, err := t.Store.Delete(r.Context(), t.Target.Database, t.Target.Collection, t.Target.ID)
	if err != nil {
		respondStoreError(w, t, "delete", err)
		return
	}
	respondJSON(w, http.StatusOK, DeleteResponse{OK: 1, N: n})
}
