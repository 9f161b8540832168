package permission

import (
	"errors"
	"sync"
)

// Resolver maps role and group names to their permission sets and computes
// effective permissions as the union across everything an account holds.
// Role and group bindings are data: they are registered at startup from
// configuration and can be swapped without touching resolution logic.
type Resolver struct {
	catalog *Catalog

	mu     sync.RWMutex
	roles  map[string]Set
	groups map[string]Set
	frozen bool
}

// NewResolver creates a [Resolver] validating against the given catalog.
func NewResolver(catalog *Catalog) *Resolver {
	return &Resolver{
		catalog: catalog,
		roles:   make(map[string]Set),
		groups:  make(map[string]Set),
	}
}

// RegisterRole binds a role name to its permission keys. Every key must be
// in the catalog or be the wildcard.
func (r *Resolver) RegisterRole(name string, keys []string) error {
	return r.register(r.roles, "role", name, keys)
}

// RegisterGroup binds a group name to its permission keys, with the same
// catalog-subset rule as roles.
func (r *Resolver) RegisterGroup(name string, keys []string) error {
	return r.register(r.groups, "group", name, keys)
}

func (r *Resolver) register(dst map[string]Set, kind, name string, keys []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.frozen {
		return errors.New("resolver frozen")
	}
	if name == "" {
		return errors.New(kind + " name empty")
	}
	if _, exists := dst[name]; exists {
		return errors.New(kind + " already registered: " + name)
	}

	set := make(Set, len(keys))
	for _, key := range keys {
		if key != Wildcard && !r.catalog.Known(key) {
			return errors.New(kind + " " + name + ": permission not in catalog: " + key)
		}
		set[key] = struct{}{}
	}

	dst[name] = set
	return nil
}

// Freeze prevents further role/group registration.
func (r *Resolver) Freeze() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.frozen = true
}

// Effective computes the union of every held role's and group's permission
// set. Unknown role or group names contribute nothing: an account holding
// only dangling references ends up with the empty set and fails every
// check.
func (r *Resolver) Effective(roles, groups []string) Set {
	r.mu.RLock()
	defer r.mu.RUnlock()

	effective := make(Set)
	for _, name := range roles {
		if set, ok := r.roles[name]; ok {
			effective.Insert(set)
		}
	}
	for _, name := range groups {
		if set, ok := r.groups[name]; ok {
			effective.Insert(set)
		}
	}
	return effective
}

// Role returns the permission set bound to a role name.
func (r *Resolver) Role(name string) (Set, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	set, ok := r.roles[name]
	return set, ok
}

// Group returns the permission set bound to a group name.
func (r *Resolver) Group(name string) (Set, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	set, ok := r.groups[name]
	return set, ok
}

// RoleCount returns the number of registered roles.
func (r *Resolver) RoleCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.roles)
}
