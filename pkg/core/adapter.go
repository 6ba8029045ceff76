package core

import "maps"

// ConnConfig describes how to reach an analytical store.
// Adapters keep their own copy; it is never mutated after construction.
type ConnConfig struct {
	// Type selects the registered driver and dialect (clickhouse, duckdb, postgres, sqlite).
	Type     string
	Host     string
	Port     int
	Database string
	User     string
	// Token is an optional auth token. Drivers decide how to present it.
	Token string
	// Path is the database file for embedded stores (DuckDB, SQLite).
	Path string
	// Schema overrides the namespace used to qualify table names.
	Schema  string
	Options map[string]string
	Params  map[string]any
}

// Clone returns a deep copy of the maps so the copy can be owned exclusively.
func (c ConnConfig) Clone() ConnConfig {
	c.Options = maps.Clone(c.Options)
	c.Params = maps.Clone(c.Params)
	return c
}

// Option returns a driver option or def when unset.
func (c ConnConfig) Option(key, def string) string {
	if v, ok := c.Options[key]; ok && v != "" {
		return v
	}
	return def
}

// Column is a (name, type) schema entry.
// Type is the store type name when read from a database and the
// Kind tag when derived from a frame.
type Column struct {
	Name string `json:"name"`
	Type string `json:"type"`
}
