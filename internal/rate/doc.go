// Package rate implements the Redis fixed-window limiter that fronts
// credential checks.
package rate
