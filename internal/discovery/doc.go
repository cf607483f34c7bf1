// Package discovery implements mDNS advertisement and discovery of
// OSCQuery services.
//
// Two service types participate: "_oscjson._tcp" (the HTTP query server
// that serves a namespace document) and "_osc._udp" (the OSC transport
// endpoint). A process advertises both under a single instance name and
// simultaneously browses for peers advertising the same types.
//
// # Discovery Process
//
//  1. The Advertiser registers both services via multicast DNS.
//  2. The Browser issues queries for both service types and listens for
//     answers; the resolver re-queries on interface changes.
//  3. Each answer becomes a ServiceRecord, deduplicated by instance+port
//     in the Registry. Zero-TTL answers are goodbyes and remove the
//     entry; entries also expire after their record TTL, which is how
//     departures surface when the resolver filters goodbye answers.
//  4. New query-service records whose instance name carries the expected
//     peer prefix (and that resolved an address) trigger the remote
//     synchronizer.
//
// The registry is pre-seeded with this process's own advertised ID, so
// hearing our own announcements (unavoidable on multicast networks) never
// triggers a self-synchronization.
//
// # Network Requirements
//
//   - Multicast support on the network interface
//   - Peers on the same link-local segment
//   - Firewall allowing mDNS (UDP port 5353)
//
// # Thread Safety
//
// The Registry serializes all access behind a single mutex. Answer
// handling runs on the resolver's delivery goroutines; the synchronizer
// trigger is dispatched on a fresh goroutine so slow fetches never stall
// answer processing.
package discovery
