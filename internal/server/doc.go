// Package server provides HTTP routing, middleware, and the resolution API handlers.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] wraps handlers in reverse order (last added executes first), following the standard Go pattern.
//
// The [BasicRouter] implementation uses [http.ServeMux] internally with method-qualified patterns.
//
// # Resolution API
//
// [API] implements the [Handler] interface and serves three endpoints:
//
//   - POST /api/resolve accepts a track descriptor as JSON and runs it through
//     the resolution engine. A confirmed no-match returns 404, a transient
//     search failure 502, and an invalid descriptor 400.
//   - GET /api/resolutions lists persisted resolutions, filterable by the
//     strategy and artist query parameters.
//   - GET /api/health reports liveness.
//
// # Middleware
//
// [RequestID] tags every request with a unique ID, echoed in the X-Request-ID
// response header and attached to the request context. [Logging] records
// method, path, status, and duration for each request.
//
// # Handler Interface
//
// Custom handlers implement the [Handler] interface, which wraps the stdlib handler interface and adds routes,
// allowing handlers to register multiple routes to encapsulate route definitions within the implementation.
package server
