// MongoREST - REST Interface for MongoDB Document Stores
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mongorest

/*
Package api maps HTTP requests onto document store operations.

# Routes

In the default endpoint-root mode the database is a path segment:

	GET    {prefix}/dbs                       list databases
	GET    {prefix}/{db} and {prefix}/{db}/   list collections
	GET    {prefix}/{db}/{collection}[/{id}]  query
	POST   {prefix}/{db}/{collection}         insert
	PUT    {prefix}/{db}/{collection}/{id}    update
	DELETE {prefix}/{db}/{collection}/{id}    delete

In database mode the database is fixed by configuration, /dbs is not
mounted, and the {db} segment disappears. POST {prefix}/login and
{prefix}/logout are mounted when authentication is configured.

# Stages

Every action runs an ordered list of named stages first:

 1. authentication (only when auth is configured)
 2. access-control

The first stage that rejects writes its own response and stops the request.
Access-control denials use a plain-text body and the configured status, and
never reach the store.

# Query parameters

	query   extended JSON filter, e.g. {"qty":{"$gt":5}}
	fields  extended JSON projection
	sort    extended JSON sort document
	limit   maximum number of documents
	skip    number of documents to skip
	output  json or csv

Any other parameter is an equality filter on the field of that name. A
parameter repeated several times matches any of its values.
*/
package api
