// MongoREST - REST Interface for MongoDB Document Stores
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mongorest

// Package validation provides struct validation using go-playground/validator v10.
//
// The package keeps a thread-safe singleton validator with two custom tags:
//
//   - dbname: a MongoDB database name (non-empty, at most 64 bytes, none of /\. "$*<>:| or ?)
//   - collname: a MongoDB collection name (non-empty, no $ or NUL, no leading dot, not system.*)
//
// Field names in messages come from json tags, so a login body missing its
// password fails with "password is required".
//
// # Quick Start
//
//	type LoginRequest struct {
//	    Email    string `json:"email" validate:"required"`
//	    Password string `json:"password" validate:"required"`
//	}
//
//	if verr := validation.ValidateStruct(&req); verr != nil {
//	    respondError(w, http.StatusBadRequest, verr.Error())
//	    return
//	}
package validation
