// Package gate implements the edge routing policy: a pure classifier that
// sorts every inbound path into allow or redirect based on session
// presence, and the net/http middleware that applies it before any handler
// runs.
package gate
