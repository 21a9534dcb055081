// MongoREST - REST Interface for MongoDB Document Stores
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mongorest

/*
Package supervisor runs the long-lived MongoREST services under suture v4.

The tree is shallow:

	RootSupervisor ("mongorest")
	├── DataSupervisor ("data-layer")
	│   └── TokenCleanupService (when auth tokens expire)
	└── APISupervisor ("api-layer")
	    ├── HTTPServerService ("rest-server")
	    └── HTTPServerService ("metrics-server", when metrics are enabled)

Crashed services are restarted with suture's backoff. Supervisor events are
forwarded to slog through sutureslog, and cmd/server bridges that slog logger
onto zerolog.

Usage:

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	if err != nil {
		return err
	}
	tree.AddAPIService(services.NewHTTPServerService("rest-server", srv, cfg.Server.ShutdownTimeout))
	return tree.Serve(ctx)
*/
package supervisor
