// Package middleware contains HTTP middleware for the Fiber application.
//
// # Components
//
//   - auth: shared API key check for the admin and integrity routes.
//   - rayid: assigns every request a ray id, stored in the fiber locals and
//     echoed in the X-Ray-ID response header for tracing.
//   - headers: permissive CORS, cache-disabled responses, 200 preflight and
//     the 405 fallback with an Allow header.
//
// rayid and headers are registered globally; auth is attached to the route
// groups it protects.
package middleware
