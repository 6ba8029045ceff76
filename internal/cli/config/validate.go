package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/leapstack-labs/leapxfer/internal/cli/output"
	"github.com/leapstack-labs/leapxfer/internal/transfer"
	"github.com/leapstack-labs/leapxfer/pkg/adapter"
)

// Validate checks the configuration against the adapter registry and the
// accepted enums.
func (c *Config) Validate() error {
	if err := ValidateConn(c.Database); err != nil {
		return err
	}
	if err := validateDelimiter("delimiter", c.Delimiter); err != nil {
		return err
	}
	if c.Limit < 0 {
		return fmt.Errorf("limit must be non-negative, got %d", c.Limit)
	}
	if c.Concurrency < 1 {
		return fmt.Errorf("concurrency must be at least 1, got %d", c.Concurrency)
	}
	if _, err := output.ParseMode(c.Output); err != nil {
		return err
	}
	if _, err := ParseLogLevel(c.LogLevel); err != nil {
		return err
	}
	switch strings.ToLower(c.LogFormat) {
	case "", "text", "json":
	default:
		return fmt.Errorf("unknown log format %q (valid: text, json)", c.LogFormat)
	}

	var errs []error
	seen := make(map[string]bool, len(c.Jobs))
	for i, job := range c.Jobs {
		if err := c.validateJob(job); err != nil {
			errs = append(errs, fmt.Errorf("job %d (%s): %w", i+1, job.Name, err))
			continue
		}
		if seen[job.Name] {
			errs = append(errs, fmt.Errorf("job %d: duplicate name %q", i+1, job.Name))
		}
		seen[job.Name] = true
	}
	return errors.Join(errs...)
}

// ValidateConn checks that a connection section names a registered adapter.
// An empty type selects the default adapter.
func ValidateConn(c *ConnSection) error {
	if c == nil || c.Type == "" {
		return nil
	}
	if !adapter.IsRegistered(c.Type) {
		return &adapter.UnknownAdapterError{Type: c.Type, Available: adapter.ListAdapters()}
	}
	return nil
}

func (c *Config) validateJob(job JobConfig) error {
	if job.Name == "" {
		return errors.New("name is required")
	}
	dir := transfer.Direction(job.Direction)
	if !dir.Valid() {
		return fmt.Errorf("unknown direction %q (valid: %v)", job.Direction, transfer.Directions())
	}
	for _, ep := range []EndpointConfig{job.Source, job.Target} {
		if err := ValidateConn(MergeConn(c.Database, ep.Conn)); err != nil {
			return err
		}
		if err := validateDelimiter("delimiter", ep.Delimiter); err != nil {
			return err
		}
	}

	switch dir {
	case transfer.DBToFile:
		return requireFields(job.Source.Table, "source.table", job.Target.Path, "target.path")
	case transfer.FileToDB:
		return requireFields(job.Source.Path, "source.path", job.Target.Table, "target.table")
	default:
		return requireFields(job.Source.Path, "source.path", job.Target.Path, "target.path")
	}
}

func requireFields(a, aName, b, bName string) error {
	if a == "" {
		return fmt.Errorf("%s is required", aName)
	}
	if b == "" {
		return fmt.Errorf("%s is required", bName)
	}
	return nil
}

func validateDelimiter(field, s string) error {
	if s != "" && len([]rune(s)) != 1 {
		return fmt.Errorf("%s must be a single character, got %q", field, s)
	}
	return nil
}

// ParseLogLevel maps debug, info, warn or error to a slog level.
// Empty means warn.
func ParseLogLevel(s string) (slog.Level, error) {
	if s == "" {
		return slog.LevelWarn, nil
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("unknown log level %q (valid: debug, info, warn, error)", s)
	}
	return level, nil
}
