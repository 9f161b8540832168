package permission

import "sort"

// Set is an unordered collection of permission keys.
type Set map[string]struct{}

// NewSet creates a [Set] holding the given keys.
func NewSet(keys ...string) Set {
	s := make(Set, len(keys))
	for _, k := range keys {
		s[k] = struct{}{}
	}
	return s
}

// Insert adds every key of other into s.
func (s Set) Insert(other Set) {
	for k := range other {
		s[k] = struct{}{}
	}
}

// Has reports whether the set satisfies the required key. The wildcard
// short-circuits: a set holding [Wildcard] satisfies every possible key,
// catalog membership notwithstanding. Without the wildcard, keys not in the
// set - including unknown keys from catalog drift - fail closed.
func (s Set) Has(required string) bool {
	if _, ok := s[Wildcard]; ok {
		return true
	}
	_, ok := s[required]
	return ok
}

// Contains reports direct membership without the wildcard short-circuit.
func (s Set) Contains(key string) bool {
	_, ok := s[key]
	return ok
}

// Keys returns the set's keys in sorted order.
func (s Set) Keys() []string {
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
