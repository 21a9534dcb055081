// MongoREST - REST Interface for MongoDB Document Stores
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mongorest

package api

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/tomtom215/mongorest/internal/auth"
	"github.com/tomtom215/mongorest/internal/authz"
	"github.com/tomtom215/mongorest/internal/config"
	"github.com/tomtom215/mongorest/internal/format"
	"github.com/tomtom215/mongorest/internal/logging"
	"github.com/tomtom215/mongorest/internal/middleware"
)

// Dependencies are the collaborators of a Router.
type Dependencies struct {
	Config *config.Config
	Store  DocumentStore

	// Gate may be nil for unrestricted access.
	Gate *authz.Gate

	// Auth may be nil, in which case no authentication stage is installed and
	// login/logout are not mounted.
	Auth *auth.Authenticator
}

// Router sets up HTTP routes using Chi router.
type Router struct {
	tools         *Tools
	auth          *auth.Authenticator
	stages        []Stage
	chiMiddleware *ChiMiddleware
}

// NewRouter creates a router over deps.
func NewRouter(deps Dependencies) (*Router, error) {
	if deps.Config == nil || deps.Store == nil {
		return nil, fmt.Errorf("router requires a config and a store")
	}

	gate := deps.Gate
	if gate == nil {
		var err error
		if gate, err = authz.NewGate(authz.GateConfig{DeniedStatus: deps.Config.AccessDeniedStatus}); err != nil {
			return nil, err
		}
	}

	return &Router{
		tools: &Tools{
			Config:    deps.Config,
			Store:     deps.Store,
			Formatter: format.New(deps.Config.CollectionOutputType, deps.Config.HumanReadableOutput),
			Gate:      gate,
			protected: protectedCollections(deps.Config),
		},
		auth:          deps.Auth,
		stages:        buildStages(deps.Auth),
		chiMiddleware: NewChiMiddleware(ChiMiddlewareConfigFrom(deps.Config)),
	}, nil
}

// Stages returns the stage names in execution order.
func (router *Router) Stages() []string {
	names := make([]string, len(router.stages))
	for i, s := range router.stages {
		names[i] = s.Name
	}
	return names
}

// action wraps an Action: scope the tools to the request, run the stages,
// then run the action.
func (router *Router) action(fn Action) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		t, err := router.tools.forRequest(r)
		if err != nil {
			logging.Ctx(r.Context()).Debug().Err(err).Str("path", r.URL.EscapedPath()).Msg("Request rejected")
			respondError(w, http.StatusBadRequest, msgInvalidPath)
			return
		}
		r, ok := runStages(router.stages, w, r, t)
		if !ok {
			return
		}
		fn(w, r, t)
	}
}

// SetupChi configures all HTTP routes.
func (router *Router) SetupChi() http.Handler {
	r := chi.NewRouter()

	// Applied to ALL routes in order
	r.Use(middleware.RequestID)
	r.Use(middleware.AccessLog)
	r.Use(chimiddleware.Recoverer)
	r.Use(router.chiMiddleware.CORS()) // CORS must be global to handle OPTIONS preflight
	r.Use(middleware.PrometheusMetrics)
	r.Use(chimiddleware.Compress(5, "application/json", "text/csv"))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, http.StatusNotFound, msgRouteMissing)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, http.StatusMethodNotAllowed, http.StatusText(http.StatusMethodNotAllowed))
	})

	prefix := router.tools.Config.URLPrefix
	if prefix == "" {
		router.mount(r)
	} else {
		r.Route(prefix, router.mount)
	}
	return r
}

// mount registers the auth and document routes relative to the URL prefix.
func (router *Router) mount(r chi.Router) {
	if router.auth != nil {
		r.With(router.chiMiddleware.RateLimitLogin()).Post("/login", router.auth.HandleLogin)
		r.Post("/logout", router.auth.HandleLogout)
	}

	r.Group(func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimit())

		if router.tools.Config.EndpointRoot == config.EndpointRootDatabase {
			router.mountDocuments(r, "")
			r.Get("/", router.action(ListCollections))
			return
		}

		r.Get("/dbs", router.action(ListDatabases))
		r.Get("/{db}", router.action(ListCollections))
		r.Get("/{db}/", router.action(ListCollections))
		router.mountDocuments(r, "/{db}")
	})
}

// mountDocuments registers the collection routes under base.
func (router *Router) mountDocuments(r chi.Router, base string) {
	collection := base + "/{collection}"
	document := collection + "/{id}"

	r.Get(collection, router.action(Query))
	r.Get(document, router.action(Query))
	r.Post(collection, router.action(Insert))
	r.Put(document, router.action(Update))
	r.Delete(document, router.action(Delete))
}
