// Package server implements the OSCQuery HTTP query server.
//
// The server binds an ephemeral TCP port at construction (the advertiser
// announces whatever port was bound) and serves two logical documents:
//
//   - Any request whose raw URL contains the HOST_INFO token returns the
//     host-info document describing the OSC transport endpoint.
//   - Any other request to "/" returns the namespace tree document.
//   - All other paths return 404.
//
// Both documents are static for the lifetime of the process, serialized
// to JSON with a no-cache directive. Routing keys on the raw URL, not the
// method, matching how OSCQuery clients probe servers.
//
// # Parameter Stream
//
// "/ws" upgrades to a websocket on which the current flat parameter map is
// pushed as JSON: once on connect, and again on every synchronizer update,
// including the empty map published when the peer disappears. "/metrics"
// serves Prometheus metrics.
//
// # Concurrency
//
// net/http handles each connection on its own goroutine, so a slow client
// never blocks the next accept, and a malformed request is isolated to its
// own connection. Shutdown is an explicit, idempotent Close.
package server
