// Package server holds the HTTP server configuration.
//
// The start command owns the Fiber application; this package only defines the
// settings it reads (listen port, API key, read timeout) so that core/config can embed them.
package server
