// Package audit implements the asynchronous audit event pipeline consumed
// through the root package's sink aliases.
package audit
