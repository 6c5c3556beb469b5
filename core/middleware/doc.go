// Package middleware contains HTTP middleware for the Fiber application.
//
// # Components
//
//   - auth: API key validation (X-API-Key) protecting the API. Disabled when no key is configured.
//   - rayid: assigns a RayID to every request, stored in the context and echoed in the X-Ray-ID header.
//   - requestlog: logs each request through zap with its RayID, status and duration.
//
// Register rayid first so the other components can see the RayID.
package middleware
