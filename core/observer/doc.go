// Package observer compares emitted, local and remote counts.
//
// An Observer reads the bus (true totals), the synchronizer (local counts) and the
// remote store, and produces a Report with one Result per event name. Await polls
// until every name has converged or a grace period runs out, which is how the
// simulate command decides its exit status.
//
// # Export
//
// Exporter uploads a report as JSON to object storage under reports/<run-id>.json.
package observer
