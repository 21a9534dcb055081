// MongoREST - REST Interface for MongoDB Document Stores
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mongorest

package authz

import (
	"fmt"
	"net/http"
	"time"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"

	"github.com/tomtom215/mongorest/internal/config"
	"github.com/tomtom215/mongorest/internal/logging"
	"github.com/tomtom215/mongorest/internal/metrics"
)

// DeniedMessage is the plain-text body sent with a denial.
const DeniedMessage = "Access to db is not allowed"

// GateConfig holds configuration for the access gate.
type GateConfig struct {
	// Policy is the resolved allow-list. Empty means unrestricted.
	Policy config.AccessPolicy

	// DeniedStatus is the HTTP status written by Deny. Defaults to 403.
	DeniedStatus int

	// CacheTTL is how long decisions are cached. Zero disables caching.
	CacheTTL time.Duration
}

// Gate decides whether a database/collection pair may be accessed.
type Gate struct {
	enforcer     *casbin.SyncedEnforcer
	cache        *decisionCache
	deniedStatus int
}

// NewGate compiles cfg.Policy into a Casbin enforcer.
func NewGate(cfg GateConfig) (*Gate, error) {
	g := &Gate{deniedStatus: cfg.DeniedStatus}
	if g.deniedStatus == 0 {
		g.deniedStatus = http.StatusForbidden
	}

	if cfg.Policy.Unrestricted() {
		return g, nil
	}

	m, err := model.NewModelFromString(accessModel)
	if err != nil {
		return nil, fmt.Errorf("failed to load casbin model: %w", err)
	}
	enforcer, err := casbin.NewSyncedEnforcer(m)
	if err != nil {
		return nil, fmt.Errorf("failed to create casbin enforcer: %w", err)
	}

	rules := make([][]string, 0, len(cfg.Policy))
	for _, db := range cfg.Policy.Databases() {
		cols := cfg.Policy[db]
		if len(cols) == 0 {
			rules = append(rules, []string{db, Wildcard})
			continue
		}
		for _, col := range cols {
			rules = append(rules, []string{db, col})
		}
	}
	if _, err := enforcer.AddPolicies(rules); err != nil {
		return nil, fmt.Errorf("failed to add access policy: %w", err)
	}

	g.enforcer = enforcer
	if cfg.CacheTTL > 0 {
		g.cache = newDecisionCache(cfg.CacheTTL)
	}
	return g, nil
}

// Unrestricted reports whether no access control is configured.
func (g *Gate) Unrestricted() bool {
	return g.enforcer == nil
}

// IsAllowed reports whether database (and collection, if non-empty) may be accessed.
// Enforcement errors deny.
func (g *Gate) IsAllowed(database, collection string) bool {
	if g.enforcer == nil {
		return true
	}

	if g.cache != nil {
		if allowed, ok := g.cache.get(database, collection); ok {
			return allowed
		}
	}

	allowed, err := g.enforcer.Enforce(database, collection)
	if err != nil {
		logging.Error().Err(err).Str("database", database).Str("collection", collection).Msg("Access enforcement failed")
		return false
	}

	if g.cache != nil {
		g.cache.set(database, collection, allowed)
	}
	return allowed
}

// FilterDatabases returns the names whose database is allowed, in order.
func (g *Gate) FilterDatabases(names []string) []string {
	return g.filter(names, func(name string) bool { return g.IsAllowed(name, "") })
}

// FilterCollections returns the collections of database that are allowed, in order.
func (g *Gate) FilterCollections(database string, names []string) []string {
	return g.filter(names, func(name string) bool { return g.IsAllowed(database, name) })
}

func (g *Gate) filter(names []string, keep func(string) bool) []string {
	out := make([]string, 0, len(names))
	for _, name := range names {
		if keep(name) {
			out = append(out, name)
		}
	}
	return out
}

// Deny writes the plain-text denial response.
func (g *Gate) Deny(w http.ResponseWriter) {
	metrics.RecordAccessDenied()
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(g.deniedStatus)
	_, _ = w.Write([]byte(DeniedMessage)) //nolint:errcheck // best-effort response
}

// Close stops the decision cache.
func (g *Gate) Close() {
	if g.cache != nil {
		g.cache.stop()
	}
}
