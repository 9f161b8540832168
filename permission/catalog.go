package permission

import (
	"errors"
	"sort"
	"strings"
	"sync"
)

// Wildcard is the distinguished permission value that satisfies every
// check, including keys outside the catalog.
const Wildcard = "*"

// Catalog is the fixed enumerable registry of permission keys
// ("resource:action" by convention). Role and group permission lists must
// be subsets of the catalog, wildcard excepted; keys that were never
// registered fail every check.
//
// The catalog is populated once at process startup and then frozen;
// re-registration after Freeze is an error, never a silent redefine.
type Catalog struct {
	mu     sync.RWMutex
	keys   map[string]struct{}
	frozen bool
}

// NewCatalog creates an empty permission [Catalog].
func NewCatalog() *Catalog {
	return &Catalog{
		keys: make(map[string]struct{}),
	}
}

// Register adds a permission key to the catalog. Must be called before
// [Catalog.Freeze].
func (c *Catalog) Register(key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.frozen {
		return errors.New("catalog frozen")
	}
	if key == "" {
		return errors.New("permission key cannot be empty")
	}
	if key == Wildcard {
		return errors.New("wildcard is implicit and cannot be registered")
	}
	if !strings.Contains(key, ":") {
		return errors.New("permission key must be resource:action")
	}
	if _, exists := c.keys[key]; exists {
		return errors.New("permission already registered: " + key)
	}

	c.keys[key] = struct{}{}
	return nil
}

// Freeze prevents further registrations. Must be called before the catalog
// is used for validation.
func (c *Catalog) Freeze() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.frozen = true
}

// Known reports whether the key is in the catalog.
func (c *Catalog) Known(key string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.keys[key]
	return ok
}

// Count returns the number of registered permissions.
func (c *Catalog) Count() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.keys)
}

// Keys returns the registered permission keys in sorted order.
func (c *Catalog) Keys() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	keys := make([]string, 0, len(c.keys))
	for k := range c.keys {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
