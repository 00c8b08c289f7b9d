// Cooccur - Co-occurrence Recommendation Index
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cooccur

/*
Package supervisor runs the long-lived parts of the server under a suture v4
supervisor tree.

# Overview

	RootSupervisor ("cooccur")
	├── DataSupervisor ("data-layer")
	│   └── RefreshService (if REFRESH_ENABLED)
	├── MessagingSupervisor ("messaging-layer")
	│   └── IngestService (if NATS_ENABLED)
	└── APISupervisor ("api-layer")
	    └── HTTPServerService

A failing NATS connection restarts the ingest service with backoff and
leaves the HTTP server untouched.

# Usage

	tree, err := supervisor.NewSupervisorTree(
	    logging.NewSlogLogger(logging.WithComponent("supervisor")),
	    supervisor.DefaultTreeConfig(),
	)
	if err != nil {
	    return err
	}
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))
	if err := tree.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
	    return err
	}

Supervisor events (service start, panic, backoff) are logged through
sutureslog, which writes to the zerolog stream via logging.NewSlogLogger.

# Failure Handling

Each failure increments a counter that decays over FailureDecay seconds.
Once it passes FailureThreshold the supervisor waits FailureBackoff before
the next restart. Services return ctx.Err() on shutdown; any other return
is treated as a crash.
*/
package supervisor
