// Package config provides configuration management for the leapxfer CLI.
//
// Values are layered: built-in defaults, then leapxfer.yaml, then
// LEAPXFER_ environment variables, then explicitly set flags.
package config

import (
	"maps"

	"github.com/leapstack-labs/leapxfer/pkg/core"
)

// Default configuration values.
const (
	DefaultType        = "clickhouse"
	DefaultOutput      = "auto"
	DefaultLogLevel    = "warn"
	DefaultLogFormat   = "text"
	DefaultDelimiter   = ","
	DefaultLimit       = 100
	DefaultConcurrency = 1
)

// ConnSection is the YAML shape of a connection descriptor.
type ConnSection struct {
	Type     string            `koanf:"type"`
	Host     string            `koanf:"host"`
	Port     int               `koanf:"port"`
	Database string            `koanf:"database"`
	User     string            `koanf:"user"`
	Token    string            `koanf:"token"`
	Path     string            `koanf:"path"`
	Schema   string            `koanf:"schema"`
	Options  map[string]string `koanf:"options"`
	Params   map[string]any    `koanf:"params"`
}

// ToConnConfig converts the section into the adapter descriptor.
func (s *ConnSection) ToConnConfig() core.ConnConfig {
	if s == nil {
		return core.ConnConfig{Type: DefaultType}
	}
	return core.ConnConfig{
		Type:     s.Type,
		Host:     s.Host,
		Port:     s.Port,
		Database: s.Database,
		User:     s.User,
		Token:    s.Token,
		Path:     s.Path,
		Schema:   s.Schema,
		Options:  maps.Clone(s.Options),
		Params:   maps.Clone(s.Params),
	}
}

// EndpointConfig is one side of a batch job. Conn overrides fields of the
// top-level database section for this endpoint only.
type EndpointConfig struct {
	Conn      *ConnSection `koanf:"conn"`
	Table     string       `koanf:"table"`
	Path      string       `koanf:"path"`
	Delimiter string       `koanf:"delimiter"`
}

// JoinConfig is one join of a db-to-file job.
type JoinConfig struct {
	Table string `koanf:"table"`
	On    string `koanf:"on"`
}

// JobConfig describes one batch job.
type JobConfig struct {
	Name      string         `koanf:"name"`
	Direction string         `koanf:"direction"`
	Source    EndpointConfig `koanf:"source"`
	Target    EndpointConfig `koanf:"target"`
	Columns   []string       `koanf:"columns"`
	Joins     []JoinConfig   `koanf:"joins"`
}

// Config holds all CLI configuration options.
type Config struct {
	Database    *ConnSection `koanf:"database"`
	Delimiter   string       `koanf:"delimiter"`
	Limit       int          `koanf:"limit"`
	Output      string       `koanf:"output"`
	LogLevel    string       `koanf:"log_level"`
	LogFormat   string       `koanf:"log_format"`
	Concurrency int          `koanf:"concurrency"`
	History     string       `koanf:"history"` // run history database; empty disables it
	Jobs        []JobConfig  `koanf:"jobs"`
}

// Default returns the configuration used when nothing was loaded.
func Default() *Config {
	return &Config{
		Database:    &ConnSection{Type: DefaultType},
		Delimiter:   DefaultDelimiter,
		Limit:       DefaultLimit,
		Output:      DefaultOutput,
		LogLevel:    DefaultLogLevel,
		LogFormat:   DefaultLogFormat,
		Concurrency: DefaultConcurrency,
	}
}

// DelimiterRune returns the configured delimiter as a rune.
// Validate guarantees it is a single character.
func (c *Config) DelimiterRune() rune {
	return delimiterRune(c.Delimiter, ',')
}

func delimiterRune(s string, def rune) rune {
	r := []rune(s)
	if len(r) != 1 {
		return def
	}
	return r[0]
}

// MergeConn merges two connection sections, with override taking precedence.
func MergeConn(base, override *ConnSection) *ConnSection {
	if base == nil {
		return override
	}
	if override == nil {
		return base
	}

	merged := *base
	merged.Options = make(map[string]string, len(base.Options)+len(override.Options))
	merged.Params = make(map[string]any, len(base.Params)+len(override.Params))
	maps.Copy(merged.Options, base.Options)
	maps.Copy(merged.Params, base.Params)

	if override.Type != "" {
		merged.Type = override.Type
	}
	if override.Host != "" {
		merged.Host = override.Host
	}
	if override.Port != 0 {
		merged.Port = override.Port
	}
	if override.Database != "" {
		merged.Database = override.Database
	}
	if override.User != "" {
		merged.User = override.User
	}
	if override.Token != "" {
		merged.Token = override.Token
	}
	if override.Path != "" {
		merged.Path = override.Path
	}
	if override.Schema != "" {
		merged.Schema = override.Schema
	}
	maps.Copy(merged.Options, override.Options)
	maps.Copy(merged.Params, override.Params)
	return &merged
}
