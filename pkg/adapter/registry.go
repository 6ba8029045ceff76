package adapter

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"github.com/leapstack-labs/leapxfer/pkg/core"
	"github.com/leapstack-labs/leapxfer/pkg/dialect"
)

// Opener opens a database handle for a connection descriptor.
// Drivers register one per store type; the adapter runs the liveness check.
type Opener func(ctx context.Context, cfg core.ConnConfig, logger *slog.Logger) (*sql.DB, error)

var (
	registryMu sync.RWMutex
	registry   = make(map[string]Opener)
)

// Register adds a driver opener to the registry.
// Called by driver packages in their init() functions.
func Register(name string, open Opener) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[strings.ToLower(name)] = open
}

// Get retrieves an opener by store type or one of its dialect aliases.
func Get(name string) (Opener, bool) {
	key := dialect.Canonical(name)
	registryMu.RLock()
	defer registryMu.RUnlock()
	o, ok := registry[key]
	return o, ok
}

// ListAdapters returns all registered store types (sorted).
func ListAdapters() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// IsRegistered checks if a store type is registered.
func IsRegistered(name string) bool {
	_, ok := Get(name)
	return ok
}

// UnknownAdapterError is returned when an unknown store type is requested.
type UnknownAdapterError struct {
	Type      string
	Available []string
}

func (e *UnknownAdapterError) Error() string {
	return fmt.Sprintf("unknown adapter type %q\nAvailable adapters: %v\nHint: Check the type field of the database section or a job conn in leapxfer.yaml", e.Type, e.Available)
}
