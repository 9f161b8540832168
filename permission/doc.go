// Package permission implements the role/group/permission model: a frozen
// catalog of permission keys, string-keyed permission sets with a wildcard
// short-circuit, and the resolver that computes an account's effective
// permissions as the union across its roles and groups.
package permission
