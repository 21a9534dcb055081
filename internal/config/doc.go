// MongoREST - REST Interface for MongoDB Document Stores
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mongorest

// Package config loads MongoREST configuration with Koanf v2.
//
// Sources are layered, highest priority last:
//  1. Built-in defaults (defaultConfig)
//  2. Config file: $CONFIG_PATH, config.yaml, config.yml, config.json,
//     /etc/mongorest/config.yaml (YAML parser; JSON files parse as YAML)
//  3. MONGOREST_* environment variables
//
// Two settings accept more than one shape for compatibility with older
// config files. Both are resolved once, by Resolve, into a canonical form
// that the rest of the program uses:
//
//	db: "mongodb://localhost:27017/app"          -> StoreDescriptor
//	db: {host: localhost, port: 27017}            -> StoreDescriptor
//
//	db_access_control: {app: [users, orders]}    -> AccessPolicy
//	db_access_control: [users, orders]           -> AccessPolicy (database endpoint root)
package config
