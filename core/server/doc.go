// Package server holds the HTTP server configuration.
//
// The start command builds the Fiber app from this configuration: the listen port,
// the API key checked by the auth middleware, and the graceful shutdown timeout.
package server
