package config

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// EnvPrefix prefixes every environment override. A double underscore
// separates nesting levels: LEAPXFER_DATABASE__HOST sets database.host.
const EnvPrefix = "LEAPXFER_"

// loggerKey is used to store logger in context.
type loggerKey struct{}

// maxUpwardSearchLevels limits how far up the directory tree to search for config files.
const maxUpwardSearchLevels = 10

// connFlags are persistent flags that address the database section.
var connFlags = map[string]bool{
	"type": true, "host": true, "port": true, "database": true,
	"user": true, "token": true, "path": true, "schema": true,
}

// Package-level koanf instance and config file tracking
var (
	k              = koanf.New(".")
	configFileUsed string
	currentConfig  *Config
)

var configNames = []string{"leapxfer.yaml", "leapxfer.yml"}

// findConfigFile finds the config file to use.
// Priority: explicit path > leapxfer.yaml > leapxfer.yml, searched upward from the CWD.
func findConfigFile(explicit string) string {
	if explicit != "" {
		return explicit
	}
	cwd, err := os.Getwd()
	if err != nil {
		return ""
	}
	dir := cwd
	for range maxUpwardSearchLevels {
		for _, name := range configNames {
			candidate := filepath.Join(dir, name)
			if _, err := os.Stat(candidate); err == nil {
				return candidate
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return ""
}

// ResetConfig resets the koanf instance. Used for testing.
func ResetConfig() {
	k = koanf.New(".")
	configFileUsed = ""
	currentConfig = nil
}

// flagKey maps a flag name to its config key.
func flagKey(name string) string {
	key := strings.ReplaceAll(name, "-", "_")
	if connFlags[key] {
		return "database." + key
	}
	return key
}

// LoadConfig loads configuration from file, environment variables, and flags.
// Precedence (highest to lowest): flags > env vars > config file > defaults
func LoadConfig(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	k = koanf.New(".")

	// 1. Load defaults
	if err := k.Load(confmap.Provider(map[string]any{
		"database.type": DefaultType,
		"delimiter":     DefaultDelimiter,
		"limit":         DefaultLimit,
		"output":        DefaultOutput,
		"log_level":     DefaultLogLevel,
		"log_format":    DefaultLogFormat,
		"concurrency":   DefaultConcurrency,
	}, "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// 2. Config file
	configFileUsed = findConfigFile(cfgFile)
	if configFileUsed != "" {
		if err := k.Load(file.Provider(configFileUsed), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", configFileUsed, err)
		}
	}

	// 3. Environment variables
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "__", ".")
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	// 4. Flags (highest priority)
	var flagPath bool
	if flags != nil {
		flagPath = flags.Changed("path")
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, any) {
			// Only load flags that were explicitly set
			if !f.Changed {
				return "", nil
			}
			return flagKey(f.Name), posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	if cfg.Database == nil {
		cfg.Database = &ConnSection{Type: DefaultType}
	}

	// Paths written in the config file are relative to the file itself.
	// Flag values stay relative to the working directory.
	if configFileUsed != "" {
		base := filepath.Dir(configFileUsed)
		if !flagPath {
			cfg.Database.Path = resolvePathRelativeTo(cfg.Database.Path, base)
		}
		cfg.History = resolvePathRelativeTo(cfg.History, base)
		for i := range cfg.Jobs {
			job := &cfg.Jobs[i]
			job.Source.Path = resolvePathRelativeTo(job.Source.Path, base)
			job.Target.Path = resolvePathRelativeTo(job.Target.Path, base)
			for _, c := range []*ConnSection{job.Source.Conn, job.Target.Conn} {
				if c != nil {
					c.Path = resolvePathRelativeTo(c.Path, base)
				}
			}
		}
	}

	expandConnEnvVars(cfg.Database)
	for i := range cfg.Jobs {
		expandConnEnvVars(cfg.Jobs[i].Source.Conn)
		expandConnEnvVars(cfg.Jobs[i].Target.Conn)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	currentConfig = &cfg
	return &cfg, nil
}

// resolvePathRelativeTo resolves a path relative to baseDir if it's not absolute.
// Empty paths and the in-memory marker are returned unchanged.
func resolvePathRelativeTo(path, baseDir string) string {
	if path == "" || path == ":memory:" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(baseDir, path)
}

// GetConfigFileUsed returns the path to the config file being used, if any.
func GetConfigFileUsed() string {
	return configFileUsed
}

// GetCurrentConfig returns the most recently loaded configuration, or the
// defaults when nothing has been loaded.
func GetCurrentConfig() *Config {
	if currentConfig != nil {
		return currentConfig
	}
	return Default()
}

// LoggerKey returns the context key used for storing the logger.
func LoggerKey() any {
	return loggerKey{}
}

// GetLogger retrieves the logger from the command context.
func GetLogger(ctx context.Context) *slog.Logger {
	if ctx != nil {
		if l, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok {
			return l
		}
	}
	return slog.New(slog.DiscardHandler)
}

var envVarPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// expandEnvVars expands ${VAR} patterns in a string with environment variable values.
func expandEnvVars(s string) string {
	return envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		varName := match[2 : len(match)-1]
		if val := os.Getenv(varName); val != "" {
			return val
		}
		return match
	})
}

// expandConnEnvVars expands environment variables in connection fields
// that commonly carry secrets or host-specific values.
func expandConnEnvVars(c *ConnSection) {
	if c == nil {
		return
	}
	c.Host = expandEnvVars(c.Host)
	c.Database = expandEnvVars(c.Database)
	c.User = expandEnvVars(c.User)
	c.Token = expandEnvVars(c.Token)
	c.Path = expandEnvVars(c.Path)
	if len(c.Options) > 0 {
		opts := maps.Clone(c.Options)
		for key, v := range opts {
			opts[key] = expandEnvVars(v)
		}
		c.Options = opts
	}
}
