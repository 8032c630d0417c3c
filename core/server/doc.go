// Package server holds the HTTP server configuration.
//
// The Config struct defines the listen port, the shared admin API key, the
// CORS origin and the graceful shutdown bound. cmd/start.go reads it to build
// the fiber app.
package server
