// MongoREST - REST Interface for MongoDB Document Stores
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mongorest

/*
Command server runs MongoREST, a REST interface over a MongoDB deployment.

Startup order:

 1. Configuration: koanf v2 layering defaults, config.yaml and MONGOREST_* variables
 2. Logging: zerolog in json or console format
 3. Store: a lazily connected mongo-driver client for the configured db
 4. Access control: casbin policy built from db_access_control
 5. Authentication (when auth.users_db_connection is set): user lookups in
    MongoDB and session tokens in mongo, badger or memory
 6. Supervisor tree: the REST listener, the optional metrics listener and
    the token cleanup loop under suture v4

SIGINT and SIGTERM cancel the tree. Listeners drain for up to
server.shutdown_timeout before the MongoDB clients are disconnected.

Example:

	export MONGOREST_DB=mongodb://localhost:27017/inventory
	export MONGOREST_ENDPOINT_ROOT=database
	./mongorest
	curl localhost:3000/items?qty=5
*/
package main
