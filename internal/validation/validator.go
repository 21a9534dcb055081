// MongoREST - REST Interface for MongoDB Document Stores
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mongorest

package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// FieldError is one failed rule. Field is the json name of the field.
type FieldError struct {
	Field string
	Rule  string
	Param string
}

// Message renders the error for a response body.
func (e FieldError) Message() string {
	switch e.Rule {
	case "required":
		return e.Field + " is required"
	case "dbname":
		return e.Field + " is not a valid database name"
	case "collname":
		return e.Field + " is not a valid collection name"
	case "min":
		return fmt.Sprintf("%s must be at least %s", e.Field, e.Param)
	case "max":
		return fmt.Sprintf("%s must be at most %s", e.Field, e.Param)
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", e.Field, e.Param)
	}
	return fmt.Sprintf("%s failed %s validation", e.Field, e.Rule)
}

// RequestValidationError collects every failed rule of one struct.
type RequestValidationError struct {
	Errors []FieldError
}

func (ve *RequestValidationError) Error() string {
	if len(ve.Errors) == 0 {
		return "validation failed"
	}
	messages := make([]string, len(ve.Errors))
	for i, fe := range ve.Errors {
		messages[i] = fe.Message()
	}
	return strings.Join(messages, "; ")
}

// Fields returns the names of the failed fields, in struct order.
func (ve *RequestValidationError) Fields() []string {
	fields := make([]string, len(ve.Errors))
	for i, fe := range ve.Errors {
		fields[i] = fe.Field
	}
	return fields
}

// GetValidator returns the shared validator with the dbname and collname
// rules registered. Field names in errors come from json tags.
func GetValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
			if name == "-" || name == "" {
				return fld.Name
			}
			return name
		})

		// Registration only fails for empty tags or nil funcs.
		_ = validate.RegisterValidation("dbname", validateDatabaseName)     //nolint:errcheck
		_ = validate.RegisterValidation("collname", validateCollectionName) //nolint:errcheck
	})
	return validate
}

// ValidateStruct returns nil when s passes, otherwise every failed rule.
func ValidateStruct(s interface{}) *RequestValidationError {
	err := GetValidator().Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		// InvalidValidationError: s was not a struct.
		return &RequestValidationError{Errors: []FieldError{{Field: "request", Rule: err.Error()}}}
	}

	out := make([]FieldError, len(fieldErrs))
	for i, fe := range fieldErrs {
		out[i] = FieldError{Field: fe.Field(), Rule: fe.Tag(), Param: fe.Param()}
	}
	return &RequestValidationError{Errors: out}
}
