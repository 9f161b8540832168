// Package password wraps argon2id hashing and verification in PHC string
// format for the account credential flows.
package password
