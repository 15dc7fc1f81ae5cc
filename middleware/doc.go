// Package middleware adapts authkit access-token validation to net/http.
//
// RequireAuth reads the Authorization header, validates the bearer token
// through the engine, and injects the claims into the request context. It
// makes no authorization decisions of its own beyond pass or reject.
package middleware
