// Cooccur - Co-occurrence Recommendation Index
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cooccur

/*
Package services provides suture.Service wrappers for Cooccur components.

Each wrapper translates a component's own lifecycle into suture's
context-aware Serve pattern:

	type Service interface {
	    Serve(ctx context.Context) error
	}

# Available Services

HTTP Server (HTTPServerService):
  - Wraps *http.Server (ListenAndServe/Shutdown)
  - Drains in-flight requests within the shutdown timeout

Ingest (IngestService):
  - Wraps *ingest.Subscriber (Start/Shutdown)
  - Returns an error when the NATS connection is lost for good so
    suture reconnects with backoff

Refresh (RefreshService):
  - Calls recommend.Engine.RefreshAll on a ticker
  - Failed runs are logged and counted, never fatal

# Error Handling

Return values determine supervisor behavior:

	nil         -> Service stopped cleanly, will not restart
	error       -> Service crashed, supervisor will restart
	ctx.Err()   -> Shutdown requested, normal termination

# Service Identification

All services implement fmt.Stringer; suture uses the name in its events.
*/
package services
