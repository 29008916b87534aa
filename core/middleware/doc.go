// Package middleware contains HTTP middleware for the Fiber application.
//
// # Components
//
//   - auth: API key validation (X-API-Key) protecting every endpoint when a key is configured.
//   - rayid: assigns a RayID to every request, stored in the context locals and echoed in
//     the X-Ray-ID response header for tracing.
//
// Both are registered globally in the start command, rayid first.
package middleware
