// Package syncer fetches a peer's OSCQuery namespace over HTTP and
// republishes it as a flat address-to-value map.
//
// The Syncer is triggered by discovery when a qualifying peer appears, and
// can be re-triggered on demand against the last known peer. A simple
// single-flight guard keeps at most one fetch in flight; concurrent
// callers are dropped rather than queued. The guard is released on every
// exit path, so a failed attempt never blocks the next one.
//
// # Failure Semantics
//
//   - Transport failure: the peer is forgotten, the published map is
//     cleared, and the update callback fires once with an empty map.
//   - Error status, decode, or missing-parameters failure: logged,
//     previous state is preserved, no callback.
package syncer
