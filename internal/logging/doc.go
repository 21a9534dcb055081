// MongoREST - REST Interface for MongoDB Document Stores
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mongorest

// Package logging provides the zerolog-based structured logger used by every
// MongoREST component.
//
// # Quick Start
//
//	logging.Init(logging.Config{Level: "info", Format: "json"})
//
//	logging.Info().Str("addr", addr).Msg("Server listening")
//	logging.Error().Err(err).Str("collection", name).Msg("Insert failed")
//
//	// Request-scoped logging carries request_id and correlation_id
//	logging.Ctx(r.Context()).Warn().Msg("Access denied")
//
// # Configuration
//
// The level, format and caller flag come from the "logging" section of the
// configuration file or from the environment:
//
//	MONGOREST_LOG_LEVEL   trace, debug, info, warn, error (default: info)
//	MONGOREST_LOG_FORMAT  json, console (default: json)
//	MONGOREST_LOG_CALLER  true, false (default: false)
//
// Always terminate log chains with .Msg() or .Send(); an unterminated event is
// never written.
package logging
