// MongoREST - REST Interface for MongoDB Document Stores
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mongorest

package api

import (
	"fmt"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/tomtom215/mongorest/internal/authz"
	"github.com/tomtom215/mongorest/internal/config"
	"github.com/tomtom215/mongorest/internal/format"
	"github.com/tomtom215/mongorest/internal/logging"
)

// Target is the database, collection and document a request addresses.
// Collection and ID are empty on routes that do not name them.
type Target struct {
	Database   string
	Collection string
	ID         string
}

// Tools is the bundle every action receives.
type Tools struct {
	Config    *config.Config
	Store     DocumentStore
	Formatter *format.Formatter
	Gate      *authz.Gate

	// Logger carries the request and correlation IDs.
	Logger *zerolog.Logger

	Target Target

	// protected holds "db/collection" keys that are never served, such as
	// the auth users and tokens collections.
	protected map[string]bool
}

// protectedCollections returns the auth collections of cfg.
func protectedCollections(cfg *config.Config) map[string]bool {
	if !cfg.Auth.Enabled() {
		return nil
	}
	return map[string]bool{
		cfg.Auth.Users.Database + "/" + cfg.Auth.UsersCollection:   true,
		cfg.Auth.Tokens.Database + "/" + cfg.Auth.TokensCollection: true,
	}
}

// isProtected reports whether db.coll is reserved for internal use.
func (t *Tools) isProtected(db, coll string) bool {
	return t.protected[db+"/"+coll]
}

// Action handles one route after the stages have passed.
type Action func(w http.ResponseWriter, r *http.Request, t *Tools)

// targetFromRequest reads the target from chi URL parameters. chi matches on
// the escaped path, so each parameter is unescaped here. In database mode the
// database comes from configuration instead of the path.
func targetFromRequest(r *http.Request, cfg *config.Config) (Target, error) {
	var target Target
	var err error

	if target.Database = cfg.FixedDatabase(); target.Database == "" {
		if target.Database, err = pathParam(r, "db"); err != nil {
			return Target{}, err
		}
	}
	if target.Collection, err = pathParam(r, "collection"); err != nil {
		return Target{}, err
	}
	if target.ID, err = pathParam(r, "id"); err != nil {
		return Target{}, err
	}
	return target, nil
}

func pathParam(r *http.Request, key string) (string, error) {
	value, err := url.PathUnescape(chi.URLParam(r, key))
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrInvalidPath, key, err)
	}
	return value, nil
}

// forRequest returns a copy of t scoped to r.
func (t *Tools) forRequest(r *http.Request) (*Tools, error) {
	target, err := targetFromRequest(r, t.Config)
	if err != nil {
		return nil, err
	}
	scoped := *t
	scoped.Logger = logging.Ctx(r.Context())
	scoped.Target = target
	return &scoped, nil
}
