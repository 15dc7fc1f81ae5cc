// Package ratelimit provides a pluggable failed-attempt limiter for the
// authentication flows.
//
// The core verification logic does not track attempts at all; the engine
// consults a Limiter at its boundary before verifying secret material, and
// the default limiter allows everything. Deployments that want brute-force
// protection wire the Redis-backed implementation.
package ratelimit
