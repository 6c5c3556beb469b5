// Package stats exposes event counts and propagation state over HTTP.
//
// # HTTP Endpoints
//
//   - GET /stats : emitted, local and remote counts of every name.
//   - GET /stats/:name : counts of one name.
//   - POST /events/:name : emits occurrences through the bus (supports ?count=n).
//   - GET /sync/:name : propagation state of one name (backlog, in-flight, parked).
//   - POST /sync/:name/redrive : moves parked deltas back into the backlog.
//
// Unknown names return 404.
package stats
