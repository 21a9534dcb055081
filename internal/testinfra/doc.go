// MongoREST - REST Interface for MongoDB Document Stores
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mongorest

// Package testinfra provides test infrastructure for integration testing with containers.
//
// This package uses testcontainers-go to run a real MongoDB server for the
// integration tests of the database and auth packages. Everything here is
// behind the integration build tag:
//
//	go test -tags integration ./...
//
// # MongoDB Container
//
//	func TestStoreRoundTrip(t *testing.T) {
//	    testinfra.SkipIfNoDocker(t)
//	    ctx := context.Background()
//	    mongo, err := testinfra.NewMongoContainer(ctx)
//	    if err != nil {
//	        t.Fatal(err)
//	    }
//	    defer testinfra.CleanupContainer(t, ctx, mongo)
//
//	    desc, _ := config.ResolveStoreDescriptor(mongo.DatabaseURI("test"))
//	    store := database.NewMongoStore(database.NewResolver(desc, config.MongoConfig{}, nil))
//	}
//
// Tests skip cleanly when Docker is not available.
package testinfra
