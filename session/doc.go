// Package session implements the Redis-backed session store behind the
// engine's issue/validate/revoke surface. Records are compact binary blobs
// keyed by opaque session ID, with a per-account index for bulk
// revocation.
package session
