// MongoREST - REST Interface for MongoDB Document Stores
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mongorest

package api

import (
	"net/http"

	"github.com/tomtom215/mongorest/internal/auth"
	"github.com/tomtom215/mongorest/internal/validation"
)

// Stage names.
const (
	StageAuthentication = "authentication"
	StageAccessControl  = "access-control"
)

// Stage is a named check run before every action. Check returns the request
// to continue with (possibly carrying new context values) and whether to
// continue. A rejecting Check has already written the response.
type Stage struct {
	Name  string
	Check func(w http.ResponseWriter, r *http.Request, t *Tools) (*http.Request, bool)
}

// buildStages returns the stages in execution order.
func buildStages(authenticator *auth.Authenticator) []Stage {
	stages := make([]Stage, 0, 2)
	if authenticator != nil {
		stages = append(stages, Stage{
			Name: StageAuthentication,
			Check: func(w http.ResponseWriter, r *http.Request, _ *Tools) (*http.Request, bool) {
				return authenticator.Check(w, r)
			},
		})
	}
	return append(stages, Stage{Name: StageAccessControl, Check: accessControl})
}

// runStages runs stages in order and stops at the first rejection.
func runStages(stages []Stage, w http.ResponseWriter, r *http.Request, t *Tools) (*http.Request, bool) {
	for _, stage := range stages {
		next, ok := stage.Check(w, r, t)
		if !ok {
			t.Logger.Debug().Str("stage", stage.Name).Str("path", r.URL.Path).Msg("Request rejected")
			return r, false
		}
		r = next
	}
	return r, true
}

// accessControl rejects names the store would refuse, then denies targets
// outside the allow-list. Names are checked first so only well-formed names
// reach the gate's decision cache. Listing databases has no target; its
// result is filtered by the handler instead.
func accessControl(w http.ResponseWriter, r *http.Request, t *Tools) (*http.Request, bool) {
	target := t.Target
	if target.Database == "" {
		return r, true
	}

	if verr := validation.ValidateStruct(&validation.Target{
		Database:   target.Database,
		Collection: target.Collection,
	}); verr != nil {
		respondError(w, http.StatusBadRequest, verr.Error())
		return r, false
	}

	if !t.Gate.IsAllowed(target.Database, target.Collection) || t.isProtected(target.Database, target.Collection) {
		t.Logger.Info().
			Str("database", target.Database).
			Str("collection", target.Collection).
			Msg("Access denied")
		t.Gate.Deny(w)
		return r, false
	}
	return r, true
}
