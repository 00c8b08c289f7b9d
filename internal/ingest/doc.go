// Cooccur - Co-occurrence Recommendation Index
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cooccur

/*
Package ingest applies objects published over NATS to the recommendation
engine.

# Subjects

With the default prefix "cooccur" the subscriber listens on:

	cooccur.objects.add    AddObject
	cooccur.objects.range  AddRange

The payload is the same JSON body the HTTP API accepts:

	{"id": "user-1", "values": ["a", "b", 42]}

When a QueueGroup is configured, several instances share one stream of
messages and each message is applied once.

# Replies

Messages published with a reply subject (nats request) get a reply:

	{"ok": true}
	{"ok": false, "error": "values is required"}

Messages without a reply subject are fire-and-forget. Malformed payloads
are logged and counted in cooccur_ingest_messages_total with
status="invalid"; they never stop the subscriber.

# Lifecycle

Start connects and subscribes. Shutdown drains the connection so in-flight
messages finish before the connection closes. Under the supervisor tree the
subscriber runs in the messaging layer and is restarted with backoff when
the connection cannot be established.
*/
package ingest
