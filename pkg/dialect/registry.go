package dialect

import (
	"slices"
	"strings"
	"sync"
)

// Dialects are registered under their lower-cased name and every alias.
var (
	dialectsMu sync.RWMutex
	dialects   = make(map[string]*Dialect)
)

// Register adds a dialect under its name and aliases, replacing any
// dialect already registered under the same keys.
// Called by dialect packages in their init() functions.
func Register(d *Dialect) {
	dialectsMu.Lock()
	defer dialectsMu.Unlock()
	dialects[strings.ToLower(d.Name)] = d
	for _, alias := range d.Aliases {
		dialects[strings.ToLower(alias)] = d
	}
}

// Get returns the dialect registered under name or one of its aliases.
func Get(name string) (*Dialect, bool) {
	dialectsMu.RLock()
	defer dialectsMu.RUnlock()
	d, ok := dialects[strings.ToLower(name)]
	return d, ok
}

// Canonical resolves an alias to the dialect's own name. Unknown names
// come back lower-cased.
func Canonical(name string) string {
	if d, ok := Get(name); ok {
		return strings.ToLower(d.Name)
	}
	return strings.ToLower(name)
}

// List returns the canonical names of all registered dialects, sorted.
// Aliases are not listed.
func List() []string {
	dialectsMu.RLock()
	defer dialectsMu.RUnlock()
	names := make([]string, 0, len(dialects))
	for key, d := range dialects {
		if key == strings.ToLower(d.Name) {
			names = append(names, key)
		}
	}
	slices.Sort(names)
	return names
}
