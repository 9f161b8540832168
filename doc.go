// Package adminauth is the authentication and authorization core for a
// multi-tenant admin/e-commerce backend. It establishes who a caller is
// (session issuance and validation), decides which routes a caller may reach
// (edge routing policy, see the gate subpackage), and decides which
// operations a caller may perform (role/group/permission resolution), with
// bounded-lifetime verification codes and password-reset tokens backing the
// account-recovery flows.
//
// The package is designed for concurrent server workloads: Engine methods are
// safe to call from multiple goroutines after initialization through
// [Builder.Build].
//
// # Architecture boundaries
//
// adminauth is the public surface. It exposes [Engine], [Builder], [Config],
// sentinel errors, and value types. Session records, verification records,
// the login rate limiter, and audit dispatch live under internal/ or in
// focused subpackages (session, permission, password, gate) and never import
// this package back.
//
// Account storage is the caller's responsibility: implement [AccountProvider]
// against your database and hand it to the Builder. Sessions, verification
// codes, and rate-limit counters live in Redis; the account of record stays
// wherever the host application keeps it.
//
// # What this package must NOT do
//
//   - Expose Redis clients, record encodings, or store internals in its
//     public API.
//   - Perform I/O outside of Engine methods (construction via Builder is
//     allocation-only until Build).
//   - Deliver email. Recovery flows return the code or token; delivery is a
//     collaborator concern.
package adminauth
