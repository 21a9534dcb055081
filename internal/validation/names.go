// MongoREST - REST Interface for MongoDB Document Stores
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mongorest

package validation

import (
	"strings"

	"github.com/go-playground/validator/v10"
)

// MaxDatabaseNameLength is the server limit on database names.
const MaxDatabaseNameLength = 64

// invalidDatabaseChars may not appear in a database name on any platform.
const invalidDatabaseChars = "/\\. \"$*<>:|?\x00"

// Target is the database/collection pair taken from a request path.
type Target struct {
	Database   string `json:"database" validate:"required,dbname"`
	Collection string `json:"collection" validate:"omitempty,collname"`
}

// ValidDatabaseName reports whether name is usable as a MongoDB database name.
func ValidDatabaseName(name string) bool {
	return name != "" &&
		len(name) <= MaxDatabaseNameLength &&
		!strings.ContainsAny(name, invalidDatabaseChars)
}

// ValidCollectionName reports whether name is usable as a MongoDB collection
// name. The reserved system.* namespace is rejected.
func ValidCollectionName(name string) bool {
	return name != "" &&
		!strings.ContainsAny(name, "$\x00") &&
		!strings.HasPrefix(name, ".") &&
		!strings.HasPrefix(name, "system.")
}

func validateDatabaseName(fl validator.FieldLevel) bool {
	return ValidDatabaseName(fl.Field().String())
}

func validateCollectionName(fl validator.FieldLevel) bool {
	return ValidCollectionName(fl.Field().String())
}
