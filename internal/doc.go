// Package internal holds identifier and secret generation shared by the
// root engine: session IDs, decimal one-time codes, reset tokens, and the
// prefix-aware code comparison used by the verification store.
package internal
